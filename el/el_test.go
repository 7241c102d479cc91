package el

import (
	"testing"

	"github.com/conradklek/webs/pkg/vdom"
)

func TestEMixedArgs(t *testing.T) {
	n := E("div", Class("card"), ID("main"), "hello", Span(Text("world")))

	if n.Tag != "div" {
		t.Fatalf("tag = %q", n.Tag)
	}
	if n.Props["class"] != "card" || n.Props["id"] != "main" {
		t.Errorf("props = %v", n.Props)
	}
	if len(n.Children) != 2 {
		t.Fatalf("children = %d", len(n.Children))
	}
	if n.Children[0].Kind != vdom.KindText || n.Children[0].Text != "hello" {
		t.Errorf("first child = %+v", n.Children[0])
	}
	if n.Children[1].Tag != "span" {
		t.Errorf("second child = %+v", n.Children[1])
	}
}

func TestESkipsNil(t *testing.T) {
	n := Div(nil, If(false, Span()), Text("x"))
	if len(n.Children) != 1 {
		t.Errorf("children = %d", len(n.Children))
	}
}

func TestESplicesChildSlices(t *testing.T) {
	items := Map([]string{"a", "b"}, func(s string) *VNode {
		return Li(Key(s), Text(s))
	})
	n := Ul(items)

	if len(n.Children) != 2 {
		t.Fatalf("children = %d", len(n.Children))
	}
	if n.Children[0].Key != "a" || n.Children[1].Key != "b" {
		t.Errorf("keys = %q, %q", n.Children[0].Key, n.Children[1].Key)
	}
}

func TestClassDropsEmpty(t *testing.T) {
	attr := Class("btn", "", "active")
	if attr.Value != "btn active" {
		t.Errorf("class = %q", attr.Value)
	}
}

func TestKeyAttrSetsVNodeKey(t *testing.T) {
	n := Li(Key("row-3"))
	if n.Key != "row-3" {
		t.Errorf("key = %q", n.Key)
	}
}

func TestEventHandlersLandInProps(t *testing.T) {
	clicked := false
	n := Button(OnClick(func() { clicked = true }), Text("go"))

	handler, ok := n.Props["onclick"].(func())
	if !ok {
		t.Fatalf("onclick = %T", n.Props["onclick"])
	}
	handler()
	if !clicked {
		t.Error("handler did not run")
	}
}

func TestIfElse(t *testing.T) {
	yes := IfElse(true, Span(), Div())
	if yes.Tag != "span" {
		t.Errorf("true branch = %q", yes.Tag)
	}
	no := IfElse(false, Span(), Div())
	if no.Tag != "div" {
		t.Errorf("false branch = %q", no.Tag)
	}
}

func TestWhenDefersConstruction(t *testing.T) {
	built := false
	When(false, func() *VNode {
		built = true
		return Div()
	})
	if built {
		t.Error("false branch was constructed")
	}
}

func TestBooleanAttrValues(t *testing.T) {
	n := Input(Type("checkbox"), Checked(true), Disabled(false))
	if n.Props["checked"] != true || n.Props["disabled"] != false {
		t.Errorf("props = %v", n.Props)
	}
}
