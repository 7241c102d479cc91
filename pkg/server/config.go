package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config controls the HTTP server and its live-session endpoint.
type Config struct {
	Addr            string
	Title           string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	SessionReadTimeout  time.Duration
	SessionPingInterval time.Duration
	MaxEventQueue       int

	EnableMetrics bool
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Addr:                ":8080",
		Title:               "webs",
		ReadTimeout:         15 * time.Second,
		WriteTimeout:        30 * time.Second,
		ShutdownTimeout:     10 * time.Second,
		SessionReadTimeout:  60 * time.Second,
		SessionPingInterval: 25 * time.Second,
		MaxEventQueue:       256,
		EnableMetrics:       true,
	}
}

type fileConfig struct {
	Addr                string `toml:"addr"`
	Title               string `toml:"title"`
	ReadTimeout         string `toml:"read_timeout"`
	WriteTimeout        string `toml:"write_timeout"`
	ShutdownTimeout     string `toml:"shutdown_timeout"`
	SessionReadTimeout  string `toml:"session_read_timeout"`
	SessionPingInterval string `toml:"session_ping_interval"`
	MaxEventQueue       int    `toml:"max_event_queue"`
	EnableMetrics       bool   `toml:"enable_metrics"`
}

// LoadConfig reads a TOML file over the defaults. Keys absent from the
// file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load server config: %w", err)
	}

	if meta.IsDefined("addr") && strings.TrimSpace(raw.Addr) != "" {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("title") {
		cfg.Title = raw.Title
	}
	if meta.IsDefined("max_event_queue") && raw.MaxEventQueue > 0 {
		cfg.MaxEventQueue = raw.MaxEventQueue
	}
	if meta.IsDefined("enable_metrics") {
		cfg.EnableMetrics = raw.EnableMetrics
	}

	durations := []struct {
		defined bool
		value   string
		out     *time.Duration
		name    string
	}{
		{meta.IsDefined("read_timeout"), raw.ReadTimeout, &cfg.ReadTimeout, "read_timeout"},
		{meta.IsDefined("write_timeout"), raw.WriteTimeout, &cfg.WriteTimeout, "write_timeout"},
		{meta.IsDefined("shutdown_timeout"), raw.ShutdownTimeout, &cfg.ShutdownTimeout, "shutdown_timeout"},
		{meta.IsDefined("session_read_timeout"), raw.SessionReadTimeout, &cfg.SessionReadTimeout, "session_read_timeout"},
		{meta.IsDefined("session_ping_interval"), raw.SessionPingInterval, &cfg.SessionPingInterval, "session_ping_interval"},
	}
	for _, d := range durations {
		if !d.defined {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.value))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.name, err)
		}
		*d.out = parsed
	}

	return cfg, nil
}
