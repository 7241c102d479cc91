package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/conradklek/webs/pkg/reactive"
	"github.com/conradklek/webs/pkg/render"
	"github.com/conradklek/webs/pkg/vdom"
	"github.com/conradklek/webs/pkg/vtest"
)

// ScenarioFile is the YAML document webs-bench run consumes.
type ScenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario describes one keyed-list workload: a list of a given size,
// permuted and patched for a number of iterations.
type Scenario struct {
	Name       string `yaml:"name"`
	Iterations int    `yaml:"iterations"`
	ListSize   int    `yaml:"list_size"`

	// Shuffle permutes the whole list each iteration; Rotate moves the
	// given number of items from the front to the back. Replace swaps out
	// that many keys for fresh ones, forcing create and remove work.
	Shuffle bool `yaml:"shuffle"`
	Rotate  int  `yaml:"rotate"`
	Replace int  `yaml:"replace"`

	// Render additionally string-renders the list each iteration.
	Render bool `yaml:"render"`

	// Seed fixes the shuffle order; 0 picks a fixed default so runs are
	// comparable.
	Seed int64 `yaml:"seed"`
}

// Result holds the measurements of one scenario run.
type Result struct {
	Scenario Scenario
	Elapsed  time.Duration

	Creates int
	Removes int
	Moves   int
	Inserts int
	Texts   int

	RenderedBytes int
}

func loadScenarios(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	var file ScenarioFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file %s defines no scenarios", path)
	}
	for i := range file.Scenarios {
		s := &file.Scenarios[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if s.Iterations <= 0 {
			s.Iterations = 100
		}
		if s.ListSize <= 0 {
			s.ListSize = 100
		}
	}
	return file.Scenarios, nil
}

func runScenario(s Scenario) (Result, error) {
	seed := s.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	env := vdom.NewEnv(reactive.NewRuntime())
	host := vtest.NewHost()
	patcher := vdom.NewPatcher(env, host)
	renderer := render.NewRenderer(env)

	keys := make([]string, s.ListSize)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	nextKey := s.ListSize

	old := keyedList(keys)
	patcher.Mount(old, host.Root)
	host.ResetOps()

	result := Result{Scenario: s}
	start := time.Now()

	for i := 0; i < s.Iterations; i++ {
		if s.Shuffle {
			rng.Shuffle(len(keys), func(a, b int) { keys[a], keys[b] = keys[b], keys[a] })
		}
		if s.Rotate > 0 && s.Rotate < len(keys) {
			keys = append(keys[s.Rotate:], keys[:s.Rotate]...)
		}
		for r := 0; r < s.Replace && r < len(keys); r++ {
			keys[rng.Intn(len(keys))] = fmt.Sprintf("k%d", nextKey)
			nextKey++
		}

		next := keyedList(keys)
		patcher.Patch(old, next, host.Root, nil)
		old = next

		if s.Render {
			html, err := renderer.RenderToString(keyedList(keys))
			if err != nil {
				return Result{}, fmt.Errorf("render iteration %d: %w", i, err)
			}
			result.RenderedBytes += len(html)
		}
	}

	result.Elapsed = time.Since(start)
	result.Creates = host.CountOps("create")
	result.Removes = host.CountOps("remove")
	result.Moves = host.CountOps("move")
	result.Inserts = host.CountOps("insert")
	result.Texts = host.CountOps("set-element-text") + host.CountOps("set-text")
	return result, nil
}

func keyedList(keys []string) *vdom.VNode {
	children := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		children[i] = vdom.ElText("li", nil, k).WithKey(k)
	}
	return vdom.El("ul", nil, children...)
}
