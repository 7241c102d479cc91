package vdom_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/conradklek/webs/pkg/reactive"
	"github.com/conradklek/webs/pkg/vdom"
	"github.com/conradklek/webs/pkg/vtest"
)

func hydrateHost(t *testing.T, markup string) *vtest.MemHost {
	t.Helper()
	host, err := vtest.NewHostFromHTML(markup)
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	return host
}

func TestHydrateStaticTreeBindsWithoutCreating(t *testing.T) {
	host := hydrateHost(t, `<div class="box"><span>hi</span>there</div>`)
	p := newPatcher(host)

	tree := vdom.El("div", vdom.Props{"class": "box"},
		vdom.ElText("span", nil, "hi"),
		vdom.Text("there"),
	)
	report, err := p.Hydrate(tree, host.Root)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !report.Clean() {
		t.Errorf("unexpected mismatches: %+v", report.Mismatches)
	}
	if n := host.CountOps("create"); n != 0 {
		t.Errorf("hydration created %d nodes: %v", n, host.Ops)
	}
	if tree.El == nil {
		t.Error("root vnode not bound to host node")
	}
}

func TestHydrateDynamicTextMarkers(t *testing.T) {
	host := hydrateHost(t, `<p>count: <!--[-->5<!--]--></p>`)
	p := newPatcher(host)

	tree := vdom.El("p", nil, vdom.Text("count: "), vdom.Interp("5"))
	report, err := p.Hydrate(tree, host.Root)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !report.Clean() {
		t.Errorf("unexpected mismatches: %+v", report.Mismatches)
	}

	// The bound text node must be writable by later patches.
	next := vdom.El("p", nil, vdom.Text("count: "), vdom.Interp("6"))
	p.Patch(tree, next, host.Root, nil)
	if !strings.Contains(host.HTML(), "6") {
		t.Errorf("patched dynamic text missing: %q", host.HTML())
	}
	if host.CountOps("create-text") != 0 {
		t.Errorf("dynamic text update should reuse hydrated node: %v", host.Ops)
	}
}

func TestHydrateEmptyDynamicTextCreatesNode(t *testing.T) {
	host := hydrateHost(t, `<p><!--[--><!--]--></p>`)
	p := newPatcher(host)

	tree := vdom.El("p", nil, vdom.Interp(""))
	report, err := p.Hydrate(tree, host.Root)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !report.Clean() {
		t.Errorf("unexpected mismatches: %+v", report.Mismatches)
	}
	if host.CountOps("create-text") != 1 {
		t.Errorf("empty dynamic slot needs a backing text node: %v", host.Ops)
	}
}

func TestHydrateAttachesHandlers(t *testing.T) {
	host := hydrateHost(t, `<button>go</button>`)
	p := newPatcher(host)

	clicked := false
	tree := vdom.ElText("button", vdom.Props{"onclick": func() { clicked = true }}, "go")
	if _, err := p.Hydrate(tree, host.Root); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	host.Fire(host.QuerySelector("button"), "onclick", nil)
	if !clicked {
		t.Error("handler not attached during hydration")
	}
}

func TestHydrateTextMismatchRepairsContent(t *testing.T) {
	host := hydrateHost(t, `<p>stale</p>`)
	p := newPatcher(host)

	tree := vdom.El("p", nil, vdom.Text("fresh"))
	report, err := p.Hydrate(tree, host.Root)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if report.Clean() {
		t.Error("text divergence should be reported")
	}
	if host.HTML() != "<p>fresh</p>" {
		t.Errorf("host not repaired: %q", host.HTML())
	}
}

func TestHydrateStructuralMismatchLeavesHostUntouched(t *testing.T) {
	host := hydrateHost(t, `<div><span>server</span></div>`)
	p := newPatcher(host)

	tree := vdom.El("div", nil, vdom.ElText("p", nil, "client"))
	report, err := p.Hydrate(tree, host.Root)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if len(report.Mismatches) != 1 {
		t.Fatalf("mismatches = %+v", report.Mismatches)
	}
	m := report.Mismatches[0]
	if m.Parent != "div" {
		t.Errorf("mismatch parent = %q, want div", m.Parent)
	}
	if !strings.Contains(m.Markup, "<span>server</span>") {
		t.Errorf("mismatch markup = %q", m.Markup)
	}
	if host.HTML() != `<div><span>server</span></div>` {
		t.Errorf("mismatched branch must not rewrite the host: %q", host.HTML())
	}
	if n := host.CountOps("create"); n != 0 {
		t.Errorf("mismatch synthesized %d nodes: %v", n, host.Ops)
	}
	if n := host.CountOps("remove"); n != 0 {
		t.Errorf("mismatch removed %d nodes: %v", n, host.Ops)
	}
}

func TestHydrateSkipsEmptyElementPlaceholder(t *testing.T) {
	host := hydrateHost(t, `<section><div><!--[]--></div><p>after</p></section>`)
	p := newPatcher(host)

	tree := vdom.El("section", nil,
		vdom.El("div", nil),
		vdom.ElText("p", nil, "after"),
	)
	report, err := p.Hydrate(tree, host.Root)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !report.Clean() {
		t.Errorf("placeholder reported as mismatch: %+v", report.Mismatches)
	}
	if n := host.CountOps("create"); n != 0 {
		t.Errorf("hydration created %d nodes: %v", n, host.Ops)
	}
}

func TestHydrateSkipsFormattingWhitespace(t *testing.T) {
	host := hydrateHost(t, "<div>\n  <span>a</span>\n  <span>b</span>\n</div>")
	p := newPatcher(host)

	tree := vdom.El("div", nil,
		vdom.ElText("span", nil, "a"),
		vdom.ElText("span", nil, "b"),
	)
	report, err := p.Hydrate(tree, host.Root)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !report.Clean() {
		t.Errorf("formatting whitespace reported as mismatch: %+v", report.Mismatches)
	}
}

func TestHydrateNonHydratableHost(t *testing.T) {
	p := newPatcher(bareHost{})
	if _, err := p.Hydrate(vdom.Text("x"), nil); err != vdom.ErrHostNotHydratable {
		t.Errorf("err = %v, want ErrHostNotHydratable", err)
	}
}

// bareHost implements only the mutating half of the host contract.
type bareHost struct{}

func (bareHost) CreateElement(string) any        { return nil }
func (bareHost) CreateText(string) any           { return nil }
func (bareHost) CreateComment(string) any        { return nil }
func (bareHost) SetElementText(any, string)      {}
func (bareHost) SetText(any, string)             {}
func (bareHost) Insert(any, any, any)            {}
func (bareHost) Remove(any)                      {}
func (bareHost) PatchProp(any, string, any, any) {}
func (bareHost) QuerySelector(string) any        { return nil }
func (bareHost) Parent(any) any                  { return nil }
func (bareHost) NextSibling(any) any             { return nil }

func TestHydrateComponentWithSeed(t *testing.T) {
	host := hydrateHost(t, `<p><!--[-->5<!--]--></p>`)
	rt := reactive.NewRuntime()
	env := vdom.NewEnv(rt)
	p := vdom.NewPatcher(env, host)

	var count *reactive.Ref[int]
	def := &vdom.Definition{
		Name: "Seeded",
		Setup: func(props *reactive.Object, ctx *vdom.SetupContext) map[string]any {
			count = reactive.NewRef(ctx.Runtime(), 0)
			return map[string]any{"count": count}
		},
		Render: func(ctx *vdom.RenderContext) *vdom.VNode {
			return vdom.El("p", nil, vdom.Interp(fmt.Sprint(ctx.Get("count"))))
		},
	}

	p.SetRootSeed(map[string]any{"count": float64(5)})
	report, err := p.Hydrate(vdom.Comp(def, nil), host.Root)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !report.Clean() {
		t.Errorf("seeded render should match server output: %+v", report.Mismatches)
	}
	if count.Peek() != 5 {
		t.Errorf("seed not applied into existing ref, count = %d", count.Peek())
	}

	// The seeded instance stays reactive.
	count.Set(6)
	p.Flush()
	if !strings.Contains(host.HTML(), "6") {
		t.Errorf("post-hydration update failed: %q", host.HTML())
	}
}

func TestHydrateTeleportPlaceholder(t *testing.T) {
	host := hydrateHost(t, `<div id="target"></div><main><!--teleport--><p>after</p></main>`)
	p := newPatcher(host)

	tree := vdom.Fragment(
		vdom.El("div", vdom.Props{"id": "target"}),
		vdom.El("main", nil,
			vdom.Teleport("#target", vdom.ElText("dialog", nil, "modal")),
			vdom.ElText("p", nil, "after"),
		),
	)
	report, err := p.Hydrate(tree, host.Root)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !report.Clean() {
		t.Errorf("unexpected mismatches: %+v", report.Mismatches)
	}
	if !strings.Contains(host.HTML(), `<div id="target"><dialog>modal</dialog></div>`) {
		t.Errorf("teleport content not mounted into target: %q", host.HTML())
	}
}
