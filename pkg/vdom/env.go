package vdom

import (
	"errors"
	"fmt"
	"sync"

	"github.com/conradklek/webs/pkg/reactive"
	"github.com/rs/zerolog"
)

// CompileFunc is the boundary to the external template compiler: it turns a
// template source into a render function. The core never parses templates
// itself.
type CompileFunc func(template string) (RenderFunc, error)

// ErrNoCompiler is reported when a definition supplies a template but the
// environment has no compiler configured.
var ErrNoCompiler = errors.New("vdom: definition has a template but no compiler is configured")

// Env carries the shared collaborators of one render tree: the reactivity
// runtime, globally registered values and components, the template
// compiler, and the logger. Patcher and the string renderer both work
// against an Env.
type Env struct {
	Runtime    *reactive.Runtime
	Globals    map[string]any
	Components map[string]*Definition
	Compiler   CompileFunc
	Log        zerolog.Logger

	// compiled caches render functions by definition identity so repeated
	// mounts of the same definition never recompile. Guarded because one
	// App-level compile cache may serve concurrent server renders.
	compiledMu sync.Mutex
	compiled   map[*Definition]RenderFunc
}

// NewEnv creates an environment around the given runtime with a disabled
// logger.
func NewEnv(rt *reactive.Runtime) *Env {
	return &Env{
		Runtime: rt,
		Log:     zerolog.Nop(),
	}
}

// renderFunc resolves a definition's render function: the precompiled one
// when present, otherwise the cached compilation of its template. Compile
// failures degrade to a render function emitting a single comment node
// carrying the error, so a broken component can never take down an
// unrelated subtree at mount time.
func (e *Env) renderFunc(def *Definition) RenderFunc {
	if def.Render != nil {
		return def.Render
	}

	e.compiledMu.Lock()
	defer e.compiledMu.Unlock()

	if e.compiled == nil {
		e.compiled = make(map[*Definition]RenderFunc)
	}
	if fn, ok := e.compiled[def]; ok {
		return fn
	}

	fn := e.compile(def)
	e.compiled[def] = fn
	return fn
}

func (e *Env) compile(def *Definition) RenderFunc {
	if def.Template == "" {
		return errorRender(def.Name, errors.New("no render function or template"))
	}
	if e.Compiler == nil {
		e.Log.Error().Str("component", def.Name).Msg("template present but no compiler configured")
		return errorRender(def.Name, ErrNoCompiler)
	}
	fn, err := e.Compiler(def.Template)
	if err != nil {
		e.Log.Error().Str("component", def.Name).Err(err).Msg("template compile failed")
		return errorRender(def.Name, err)
	}
	return fn
}

// errorRender builds the degraded render function for a failed compile.
func errorRender(name string, err error) RenderFunc {
	msg := fmt.Sprintf("webs:error component %q: %v", name, err)
	return func(*RenderContext) *VNode {
		return Comment(msg)
	}
}
