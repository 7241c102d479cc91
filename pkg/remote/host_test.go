package remote

import (
	"testing"

	"github.com/conradklek/webs/pkg/protocol"
	"github.com/conradklek/webs/pkg/reactive"
	"github.com/conradklek/webs/pkg/vdom"
)

func TestHostMountEmitsOps(t *testing.T) {
	host := NewHost()
	env := vdom.NewEnv(reactive.NewRuntime())
	p := vdom.NewPatcher(env, host)

	p.Mount(vdom.El("div", vdom.Props{"class": "box"},
		vdom.ElText("span", nil, "hi"),
	), host.Root())

	ops := host.TakeOps()
	var kinds []protocol.OpKind
	for _, op := range ops {
		kinds = append(kinds, op.Kind)
	}

	want := []protocol.OpKind{
		protocol.OpCreateElement,  // div
		protocol.OpSetAttr,        // class
		protocol.OpCreateElement,  // span
		protocol.OpSetElementText, // hi
		protocol.OpInsert,         // span into div
		protocol.OpInsert,         // div into root
	}
	if len(kinds) != len(want) {
		t.Fatalf("ops = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("op[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}

	// The final insert targets the mount container.
	last := ops[len(ops)-1]
	if last.Parent != RootID {
		t.Errorf("root insert parent = %d, want %d", last.Parent, RootID)
	}
	if host.HasOps() {
		t.Error("TakeOps did not clear the buffer")
	}
}

func TestHostHandlerRegistrationAndDispatch(t *testing.T) {
	host := NewHost()
	env := vdom.NewEnv(reactive.NewRuntime())
	p := vdom.NewPatcher(env, host)

	clicks := 0
	tree := vdom.ElText("button", vdom.Props{"onclick": func() { clicks++ }}, "go")
	p.Mount(tree, host.Root())

	var listenNode uint64
	for _, op := range host.TakeOps() {
		if op.Kind == protocol.OpListen {
			if op.Key != "onclick" {
				t.Errorf("listen key = %q", op.Key)
			}
			listenNode = op.Node
		}
	}
	if listenNode == 0 {
		t.Fatal("no listen op emitted for handler prop")
	}

	if !host.HandleEvent(&protocol.Event{Node: listenNode, Name: "onclick"}) {
		t.Fatal("dispatch reported no handler")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d", clicks)
	}

	if host.HandleEvent(&protocol.Event{Node: 9999, Name: "onclick"}) {
		t.Error("dispatch to unknown node should fail")
	}
	if host.HandleEvent(&protocol.Event{Node: listenNode, Name: "onhover"}) {
		t.Error("dispatch to unregistered event should fail")
	}
}

func TestHostUpdateEmitsMinimalOps(t *testing.T) {
	host := NewHost()
	env := vdom.NewEnv(reactive.NewRuntime())
	p := vdom.NewPatcher(env, host)

	old := vdom.El("p", nil, vdom.Interp("one"))
	p.Mount(old, host.Root())
	host.TakeOps()

	next := vdom.El("p", nil, vdom.Interp("two"))
	p.Patch(old, next, host.Root(), nil)

	ops := host.TakeOps()
	if len(ops) != 1 || ops[0].Kind != protocol.OpSetText || ops[0].Value != "two" {
		t.Errorf("ops = %+v, want single SetText", ops)
	}
}

func TestHostRemoveForgetsSubtree(t *testing.T) {
	host := NewHost()
	env := vdom.NewEnv(reactive.NewRuntime())
	p := vdom.NewPatcher(env, host)

	tree := vdom.El("div", nil, vdom.ElText("span", nil, "x"))
	p.Mount(tree, host.Root())
	host.TakeOps()

	p.Unmount(tree)
	ops := host.TakeOps()
	if len(ops) != 1 || ops[0].Kind != protocol.OpRemove {
		t.Fatalf("ops = %+v, want single Remove", ops)
	}
	if host.HandleEvent(&protocol.Event{Node: ops[0].Node, Name: "onclick"}) {
		t.Error("removed node should be forgotten")
	}
}

func TestHostQuerySelectorBindsOnce(t *testing.T) {
	host := NewHost()

	first := host.QuerySelector("#modal")
	second := host.QuerySelector("#modal")
	if first != second {
		t.Error("repeat selector query should reuse the binding")
	}

	ops := host.TakeOps()
	if len(ops) != 1 || ops[0].Kind != protocol.OpSelectTarget || ops[0].Value != "#modal" {
		t.Errorf("ops = %+v, want single SelectTarget", ops)
	}
}

func TestHostMirrorTraversal(t *testing.T) {
	host := NewHost()
	env := vdom.NewEnv(reactive.NewRuntime())
	p := vdom.NewPatcher(env, host)

	a := vdom.ElText("i", nil, "a")
	b := vdom.ElText("i", nil, "b")
	p.Mount(vdom.El("div", nil, a, b), host.Root())

	if host.NextSibling(a.El) != b.El {
		t.Error("NextSibling mismatch in mirror")
	}
	if host.Parent(a.El) == nil {
		t.Error("Parent mismatch in mirror")
	}
	if host.NextSibling(b.El) != nil {
		t.Error("last child should have no next sibling")
	}
}
