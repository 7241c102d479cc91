// Package server exposes a component environment over HTTP: rendered
// pages with an embedded state payload for client hydration, and a
// websocket endpoint for fully server-driven live sessions.
package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/conradklek/webs/pkg/protocol"
	"github.com/conradklek/webs/pkg/remote"
	"github.com/conradklek/webs/pkg/render"
	"github.com/conradklek/webs/pkg/vdom"
)

const tracerName = "webs"

// Server renders registered components over HTTP and hosts live
// websocket sessions against the same environment.
type Server struct {
	cfg      Config
	env      *vdom.Env
	renderer *render.Renderer
	log      zerolog.Logger
	tracer   trace.Tracer
	upgrader websocket.Upgrader
}

// New creates a server over a component environment.
func New(env *vdom.Env, cfg Config, log zerolog.Logger) *Server {
	if cfg.EnableMetrics {
		registerMetrics()
	}
	return &Server{
		cfg:      cfg,
		env:      env,
		renderer: render.NewRenderer(env),
		log:      log,
		tracer:   otel.Tracer(tracerName),
	}
}

// Router builds the HTTP routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.cfg.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/live", s.handleLive)
	r.Get("/c/{component}", s.handlePage)

	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
	return srv.ListenAndServe()
}

// pagePayload is the hydration payload embedded next to the rendered
// markup. The client feeds it back verbatim when it hydrates.
type pagePayload struct {
	Component string            `json:"component"`
	State     map[string]any    `json:"state"`
	Params    map[string]string `json:"params,omitempty"`
}

// handlePage renders one registered component as a full page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "component")
	start := time.Now()

	_, span := s.tracer.Start(r.Context(), "webs.render",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("webs.component", name)),
	)
	defer span.End()

	def, ok := s.env.Components[name]
	if !ok {
		span.SetStatus(codes.Error, "component not found")
		if s.cfg.EnableMetrics {
			recordRender(name, "not_found", time.Since(start))
		}
		http.NotFound(w, r)
		return
	}

	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result, err := s.renderer.RenderComponent(def, nil, map[string]any{"params": params})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if s.cfg.EnableMetrics {
			recordRender(name, "error", time.Since(start))
			recordRenderError(name)
		}
		s.log.Error().Err(err).Str("component", name).Msg("render failed")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(pagePayload{Component: name, State: result.State, Params: params})
	if err != nil {
		span.RecordError(err)
		http.Error(w, "payload encoding failed", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "")
	if s.cfg.EnableMetrics {
		recordRender(name, "ok", time.Since(start))
	}
	s.log.Info().Str("component", name).Dur("elapsed", time.Since(start)).Msg("rendered")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.writePage(w, result.HTML, payload)
}

func (s *Server) writePage(w http.ResponseWriter, body string, payload []byte) {
	fmt.Fprintf(w, `<!doctype html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<div id="app">%s</div>
<script type="application/json" id="webs-state">%s</script>
</body>
</html>
`, template.HTMLEscapeString(s.cfg.Title), body, payload)
}

// handleLive upgrades to a websocket and runs a server-driven session.
// The first client frame must be a handshake naming the component.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	hs, err := s.readHandshake(conn)
	if err != nil {
		s.log.Warn().Err(err).Msg("handshake failed")
		conn.Close()
		return
	}

	def, ok := s.env.Components[hs.Component]
	if !ok {
		s.rejectHandshake(conn, "unknown_component", hs.Component)
		return
	}

	sess := remote.NewSession(conn, s.env, remote.Config{
		ReadTimeout:   s.cfg.SessionReadTimeout,
		WriteTimeout:  s.cfg.WriteTimeout,
		PingInterval:  s.cfg.SessionPingInterval,
		MaxEventQueue: s.cfg.MaxEventQueue,
	}, s.log.With().Str("component", hs.Component).Logger())

	sess.Patcher().SetRootProvides(map[string]any{"params": hs.Params})
	if err := sess.Mount(def, nil); err != nil {
		s.log.Error().Err(err).Str("component", hs.Component).Msg("live mount failed")
		sess.Close()
		return
	}
	sess.Start()

	if s.cfg.EnableMetrics {
		liveSessions.Inc()
		go func() {
			<-sess.Done()
			liveSessions.Dec()
		}()
	}
}

func (s *Server) readHandshake(conn *websocket.Conn) (*protocol.Handshake, error) {
	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		return nil, err
	}
	hs, err := protocol.DecodeHandshake(frame)
	if err != nil {
		return nil, err
	}
	if hs.Version != protocol.Version {
		return nil, fmt.Errorf("protocol version %d not supported", hs.Version)
	}
	return hs, nil
}

func (s *Server) rejectHandshake(conn *websocket.Conn, code, detail string) {
	frame, err := protocol.EncodeError(&protocol.ErrorMessage{
		Code: code, Message: detail, Fatal: true,
	})
	if err == nil {
		conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
	}
	conn.Close()
}
