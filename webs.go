// Package webs is the entry point for the webs UI runtime: a reactive
// component system with a host-agnostic patch engine, DOM-free hydration
// and a server-side string renderer.
//
// The usual shape of an application:
//
//	app := webs.New(
//		webs.WithComponent(Counter),
//		webs.WithGlobals(map[string]any{"appName": "demo"}),
//	)
//	result, err := app.RenderToString("Counter", nil)   // server
//	mounted, report, err := app.Hydrate(payload, host)  // client
package webs

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/conradklek/webs/pkg/reactive"
	"github.com/conradklek/webs/pkg/render"
	"github.com/conradklek/webs/pkg/vdom"
)

// App owns one component environment: the reactivity runtime, the global
// and component registries, the compiler and the logger. Every mount,
// hydration and server render created through an App shares them.
type App struct {
	env *vdom.Env
}

// Option configures an App.
type Option func(*App)

// WithGlobals registers app-level values resolvable from every render
// context.
func WithGlobals(globals map[string]any) Option {
	return func(a *App) {
		if a.env.Globals == nil {
			a.env.Globals = make(map[string]any, len(globals))
		}
		for k, v := range globals {
			a.env.Globals[k] = v
		}
	}
}

// WithComponent registers a component definition under its name.
func WithComponent(defs ...*vdom.Definition) Option {
	return func(a *App) {
		for _, def := range defs {
			a.env.Components[def.Name] = def
		}
	}
}

// WithCompiler installs the template compiler. Definitions carrying a
// Template instead of a Render function compile through it, once each.
func WithCompiler(compile vdom.CompileFunc) Option {
	return func(a *App) { a.env.Compiler = compile }
}

// WithLogger installs the logger used for hydration mismatch and teleport
// diagnostics. The default logger is disabled.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) { a.env.Log = log }
}

// New creates an application with a fresh reactivity runtime.
func New(opts ...Option) *App {
	app := &App{env: vdom.NewEnv(reactive.NewRuntime())}
	app.env.Components = make(map[string]*vdom.Definition)
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Env exposes the underlying environment for embedders wiring their own
// patcher or renderer.
func (a *App) Env() *vdom.Env { return a.env }

// Runtime returns the app's reactivity runtime.
func (a *App) Runtime() *reactive.Runtime { return a.env.Runtime }

// Component resolves a registered definition by name.
func (a *App) Component(name string) (*vdom.Definition, bool) {
	def, ok := a.env.Components[name]
	return def, ok
}

// Payload is the state handed from a server render to the client. The
// server embeds it as JSON next to the markup; Hydrate consumes it to
// rebuild the same tree over the existing host nodes.
type Payload struct {
	// Component names the registered root definition.
	Component string `json:"component"`
	// State seeds the root instance's state bag, overriding setup values
	// under the same keys.
	State map[string]any `json:"state,omitempty"`
	// Context is provided above the root, reachable through Inject.
	Context map[string]any `json:"context,omitempty"`
	// Params are request parameters, provided under the "params" key.
	Params map[string]string `json:"params,omitempty"`
}

// Mounted is a live mounted tree: the handle for flushing updates and
// tearing down.
type Mounted struct {
	patcher *vdom.Patcher
	root    *vdom.VNode
}

// Patcher returns the patch engine driving this tree.
func (m *Mounted) Patcher() *vdom.Patcher { return m.patcher }

// Root returns the root vnode.
func (m *Mounted) Root() *vdom.VNode { return m.root }

// Flush runs all queued component updates.
func (m *Mounted) Flush() { m.patcher.Flush() }

// Unmount tears the tree down: effects stop, unmounted hooks fire, host
// nodes are removed.
func (m *Mounted) Unmount() { m.patcher.Unmount(m.root) }

// Mount renders a registered component into container on the given host.
func (a *App) Mount(name string, props map[string]any, host vdom.Host, container any) (*Mounted, error) {
	def, ok := a.env.Components[name]
	if !ok {
		return nil, fmt.Errorf("webs: component %q not registered", name)
	}
	p := vdom.NewPatcher(a.env, host)
	root := vdom.Comp(def, props)
	p.Mount(root, container)
	return &Mounted{patcher: p, root: root}, nil
}

// Hydrate binds a registered component to server-rendered host nodes
// under container. The payload's state seeds the root instance so the
// client resumes exactly where the server render left off. Divergence
// between the expected tree and the found one is reported through the
// returned HydrateReport; structurally mismatched branches stay unbound
// rather than being rebuilt, and hydration itself never fails on them.
func (a *App) Hydrate(payload Payload, host vdom.Host, container any) (*Mounted, *vdom.HydrateReport, error) {
	def, ok := a.env.Components[payload.Component]
	if !ok {
		return nil, nil, fmt.Errorf("webs: component %q not registered", payload.Component)
	}

	p := vdom.NewPatcher(a.env, host)
	p.SetRootSeed(payload.State)
	provides := make(map[string]any, len(payload.Context)+1)
	for k, v := range payload.Context {
		provides[k] = v
	}
	if payload.Params != nil {
		provides["params"] = payload.Params
	}
	p.SetRootProvides(provides)

	root := vdom.Comp(def, nil)
	report, err := p.Hydrate(root, container)
	if err != nil {
		return nil, nil, err
	}
	return &Mounted{patcher: p, root: root}, report, nil
}

// RenderToString renders a registered component to markup plus the state
// payload for the client.
func (a *App) RenderToString(name string, props map[string]any) (render.Result, error) {
	def, ok := a.env.Components[name]
	if !ok {
		return render.Result{}, fmt.Errorf("webs: component %q not registered", name)
	}
	return render.NewRenderer(a.env).RenderComponent(def, props, nil)
}
