package vtest

import (
	"strings"
	"testing"

	"github.com/conradklek/webs/pkg/reactive"
	"github.com/conradklek/webs/pkg/render"
	"github.com/conradklek/webs/pkg/vdom"
)

// RenderToString renders a vnode tree and returns the HTML string, for
// asserting on rendered output.
//
// Example:
//
//	html := vtest.RenderToString(view())
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString(node *vdom.VNode) string {
	env := vdom.NewEnv(reactive.NewRuntime())
	out, err := render.NewRenderer(env).RenderToString(node)
	if err != nil {
		return ""
	}
	return out
}

// ExpectContains asserts that rendered output contains a substring.
func ExpectContains(t *testing.T, node *vdom.VNode, expected string) {
	t.Helper()
	out := RenderToString(node)
	if !strings.Contains(out, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(out, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain a
// substring.
func ExpectNotContains(t *testing.T, node *vdom.VNode, unexpected string) {
	t.Helper()
	out := RenderToString(node)
	if strings.Contains(out, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(out, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t *testing.T, node *vdom.VNode, tag string) {
	t.Helper()
	out := RenderToString(node)
	if !strings.Contains(out, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(out, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t *testing.T, node *vdom.VNode, attr, value string) {
	t.Helper()
	out := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(out, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(out, 500))
	}
}

// truncate shortens a string to max length with an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
