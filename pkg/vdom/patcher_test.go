package vdom_test

import (
	"strings"
	"testing"

	"github.com/conradklek/webs/pkg/reactive"
	"github.com/conradklek/webs/pkg/vdom"
	"github.com/conradklek/webs/pkg/vtest"
)

func newPatcher(host vdom.Host) *vdom.Patcher {
	env := vdom.NewEnv(reactive.NewRuntime())
	return vdom.NewPatcher(env, host)
}

func TestMountElementTree(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	tree := vdom.El("div", vdom.Props{"class": "box"},
		vdom.ElText("span", nil, "hi"),
		vdom.Text("there"),
	)
	p.Mount(tree, host.Root)

	got := host.HTML()
	want := `<div class="box"><span>hi</span>there</div>`
	if got != want {
		t.Errorf("mounted HTML = %q, want %q", got, want)
	}
}

func TestPatchTextReusesNode(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	old := vdom.El("p", nil, vdom.Interp("one"))
	p.Mount(old, host.Root)
	host.ResetOps()

	next := vdom.El("p", nil, vdom.Interp("two"))
	p.Patch(old, next, host.Root, nil)

	if n := host.CountOps("create"); n != 0 {
		t.Errorf("expected no node creation on text update, got %d ops: %v", n, host.Ops)
	}
	if n := host.CountOps("set-text"); n != 1 {
		t.Errorf("expected one set-text, got %d: %v", n, host.Ops)
	}
	if host.HTML() != "<p>two</p>" {
		t.Errorf("HTML = %q", host.HTML())
	}
}

func TestPatchPropsAddChangeRemove(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	old := vdom.El("input", vdom.Props{"type": "text", "value": "a", "disabled": true})
	p.Mount(old, host.Root)
	host.ResetOps()

	next := vdom.El("input", vdom.Props{"type": "text", "value": "b", "placeholder": "name"})
	p.Patch(old, next, host.Root, nil)

	wantOps := map[string]bool{
		`set-attr <input> value="b"`:          false,
		`set-attr <input> placeholder="name"`: false,
		`remove-attr <input> disabled`:        false,
	}
	for _, op := range host.Ops {
		if _, ok := wantOps[op]; ok {
			wantOps[op] = true
		}
		if op == `set-attr <input> type="text"` {
			t.Errorf("unchanged prop was re-applied: %v", host.Ops)
		}
	}
	for op, seen := range wantOps {
		if !seen {
			t.Errorf("missing op %q in %v", op, host.Ops)
		}
	}
}

func TestReplaceOnTagChange(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	old := vdom.ElText("div", nil, "x")
	p.Mount(old, host.Root)
	host.ResetOps()

	next := vdom.ElText("p", nil, "x")
	p.Patch(old, next, host.Root, nil)

	if host.CountOps("remove <div>") != 1 {
		t.Errorf("old element not removed: %v", host.Ops)
	}
	if host.CountOps("create-element p") != 1 {
		t.Errorf("new element not created: %v", host.Ops)
	}
	if host.HTML() != "<p>x</p>" {
		t.Errorf("HTML = %q", host.HTML())
	}
}

func TestReplacedNodeKeepsPosition(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	old := vdom.El("div", nil,
		vdom.ElText("span", nil, "a"),
		vdom.ElText("b", nil, "mid"),
		vdom.ElText("span", nil, "z"),
	)
	p.Mount(old, host.Root)

	next := vdom.El("div", nil,
		vdom.ElText("span", nil, "a"),
		vdom.ElText("i", nil, "mid"),
		vdom.ElText("span", nil, "z"),
	)
	p.Patch(old, next, host.Root, nil)

	got := host.HTML()
	want := "<div><span>a</span><i>mid</i><span>z</span></div>"
	if got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}

func TestUnkeyedChildrenTruncateAndGrow(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	three := vdom.El("ul", nil,
		vdom.ElText("li", nil, "1"),
		vdom.ElText("li", nil, "2"),
		vdom.ElText("li", nil, "3"),
	)
	p.Mount(three, host.Root)
	host.ResetOps()

	two := vdom.El("ul", nil,
		vdom.ElText("li", nil, "1"),
		vdom.ElText("li", nil, "2"),
	)
	p.Patch(three, two, host.Root, nil)
	if host.CountOps("remove") != 1 {
		t.Errorf("truncation should remove one node: %v", host.Ops)
	}
	if host.CountOps("create-element") != 0 {
		t.Errorf("truncation created nodes: %v", host.Ops)
	}

	host.ResetOps()
	four := vdom.El("ul", nil,
		vdom.ElText("li", nil, "1"),
		vdom.ElText("li", nil, "2"),
		vdom.ElText("li", nil, "3"),
		vdom.ElText("li", nil, "4"),
	)
	p.Patch(two, four, host.Root, nil)
	if host.CountOps("create-element li") != 2 {
		t.Errorf("growth should create two nodes: %v", host.Ops)
	}
	if host.HTML() != "<ul><li>1</li><li>2</li><li>3</li><li>4</li></ul>" {
		t.Errorf("HTML = %q", host.HTML())
	}
}

func TestFragmentChildrenShareContainer(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	old := vdom.Fragment(
		vdom.ElText("h1", nil, "title"),
		vdom.ElText("p", nil, "body"),
	)
	p.Mount(old, host.Root)

	if host.HTML() != "<h1>title</h1><p>body</p>" {
		t.Fatalf("HTML = %q", host.HTML())
	}

	next := vdom.Fragment(
		vdom.ElText("h1", nil, "title"),
		vdom.ElText("p", nil, "changed"),
	)
	p.Patch(old, next, host.Root, nil)
	if host.HTML() != "<h1>title</h1><p>changed</p>" {
		t.Errorf("HTML = %q", host.HTML())
	}
}

func TestFragmentGrowthStaysBeforeSibling(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	old := vdom.El("div", nil,
		vdom.Fragment(vdom.ElText("span", nil, "a")),
		vdom.ElText("p", nil, "after"),
	)
	p.Mount(old, host.Root)

	next := vdom.El("div", nil,
		vdom.Fragment(
			vdom.ElText("span", nil, "a"),
			vdom.ElText("span", nil, "b"),
		),
		vdom.ElText("p", nil, "after"),
	)
	p.Patch(old, next, host.Root, nil)

	want := "<div><span>a</span><span>b</span><p>after</p></div>"
	if host.HTML() != want {
		t.Errorf("HTML = %q, want %q", host.HTML(), want)
	}
}

func TestTeleportRendersIntoTarget(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	p.Mount(vdom.El("div", vdom.Props{"id": "overlay"}), host.Root)

	tree := vdom.El("main", nil,
		vdom.ElText("p", nil, "inline"),
		vdom.Teleport("#overlay", vdom.ElText("dialog", nil, "modal")),
	)
	p.Mount(tree, host.Root)

	got := host.HTML()
	if !strings.Contains(got, `<div id="overlay"><dialog>modal</dialog></div>`) {
		t.Errorf("teleport content missing from target: %q", got)
	}
	if strings.Contains(got, "<main><p>inline</p><dialog>") {
		t.Errorf("teleport content rendered inline: %q", got)
	}
}

func TestTeleportMissingTargetIsNonFatal(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	tree := vdom.El("main", nil,
		vdom.Teleport("#nowhere", vdom.ElText("dialog", nil, "modal")),
		vdom.ElText("p", nil, "after"),
	)
	p.Mount(tree, host.Root)

	if !strings.Contains(host.HTML(), "<p>after</p>") {
		t.Errorf("siblings after a failed teleport should still mount: %q", host.HTML())
	}
}

func TestElementTextFastPathSwaps(t *testing.T) {
	host := vtest.NewHost()
	p := newPatcher(host)

	old := vdom.ElText("div", nil, "plain")
	p.Mount(old, host.Root)

	// Text content gives way to structured children.
	next := vdom.El("div", nil, vdom.ElText("b", nil, "bold"))
	p.Patch(old, next, host.Root, nil)
	if host.HTML() != "<div><b>bold</b></div>" {
		t.Fatalf("HTML = %q", host.HTML())
	}

	// And back again.
	final := vdom.ElText("div", nil, "plain again")
	p.Patch(next, final, host.Root, nil)
	if host.HTML() != "<div>plain again</div>" {
		t.Errorf("HTML = %q", host.HTML())
	}
}
