// Package render serializes virtual-node trees to HTML strings, producing
// output the hydration walker can bind to without rebuilding it.
package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/conradklek/webs/pkg/vdom"
)

// Result is the output of a server render: the markup plus the root
// component's resolved state snapshot, ready to embed alongside the HTML
// so the client can seed its own instance.
type Result struct {
	HTML  string
	State map[string]any
}

// Renderer turns component definitions and vnode trees into HTML. It
// renders each component instance exactly once; no render effects attach.
type Renderer struct {
	env *vdom.Env
}

// NewRenderer creates a renderer over an environment.
func NewRenderer(env *vdom.Env) *Renderer {
	return &Renderer{env: env}
}

// RenderComponent renders a component definition with the given props.
// provides installs injection values above the root, the way the embedding
// application exposes request-scoped context to the tree.
func (r *Renderer) RenderComponent(def *vdom.Definition, props, provides map[string]any) (Result, error) {
	n := vdom.Comp(def, props)
	inst := vdom.NewInstance(r.env, nil, n, nil, vdom.ModeString, nil)
	inst.ProvideRoot(provides)

	var buf bytes.Buffer
	if err := r.renderInstance(&buf, inst); err != nil {
		return Result{}, err
	}
	return Result{HTML: buf.String(), State: inst.StateSnapshot()}, nil
}

// RenderNode renders a plain vnode tree. Component nodes inside it render
// through fresh string-mode instances.
func (r *Renderer) RenderNode(w io.Writer, n *vdom.VNode) error {
	return r.renderNode(w, n, nil)
}

// RenderToString is the buffer convenience over RenderNode.
func (r *Renderer) RenderToString(n *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.renderNode(&buf, n, nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderInstance runs setup and serializes the subtree. A panic anywhere
// under the component degrades to an inline error comment instead of
// taking down the surrounding page.
func (r *Renderer) renderInstance(w io.Writer, inst *vdom.Instance) (err error) {
	var buf bytes.Buffer

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.env.Log.Error().Str("component", inst.Name()).
					Interface("panic", rec).Msg("render panic")
				buf.Reset()
				fmt.Fprintf(&buf, "<!--webs:error component %q: %v-->",
					inst.Name(), escapeComment(fmt.Sprint(rec)))
			}
		}()
		inst.RunSetup()
		tree := inst.RenderOnce()
		err = r.renderNode(&buf, tree, inst)
	}()
	if err != nil {
		return err
	}

	_, err = w.Write(buf.Bytes())
	return err
}

func (r *Renderer) renderNode(w io.Writer, n *vdom.VNode, owner *vdom.Instance) error {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case vdom.KindText:
		return r.renderText(w, n)
	case vdom.KindComment:
		_, err := fmt.Fprintf(w, "<!--%s-->", escapeComment(n.Text))
		return err
	case vdom.KindFragment:
		for _, c := range n.Children {
			if err := r.renderNode(w, c, owner); err != nil {
				return err
			}
		}
		return nil
	case vdom.KindTeleport:
		// Teleport content renders on the client, into its live target.
		// The placeholder keeps the hydration walker aligned.
		_, err := io.WriteString(w, "<!--teleport-->")
		return err
	case vdom.KindElement:
		return r.renderElement(w, n, owner)
	case vdom.KindComponent:
		inst := vdom.NewInstance(r.env, nil, n, owner, vdom.ModeString, nil)
		return r.renderInstance(w, inst)
	}
	return fmt.Errorf("render: unknown node kind %d", n.Kind)
}

// renderText brackets interpolated text in markers so the hydration walker
// can tell adjacent dynamic runs apart from static text.
func (r *Renderer) renderText(w io.Writer, n *vdom.VNode) error {
	if !n.Dynamic {
		_, err := io.WriteString(w, escapeHTML(n.Text))
		return err
	}
	if _, err := io.WriteString(w, "<!--[-->"); err != nil {
		return err
	}
	if n.Text != "" {
		if _, err := io.WriteString(w, escapeHTML(n.Text)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "<!--]-->")
	return err
}

func (r *Renderer) renderElement(w io.Writer, n *vdom.VNode, owner *vdom.Instance) error {
	if _, err := io.WriteString(w, "<"+n.Tag); err != nil {
		return err
	}
	if err := r.renderAttrs(w, n.Props); err != nil {
		return err
	}

	if isVoidElement(n.Tag) {
		_, err := io.WriteString(w, ">")
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if n.Text != "" {
		if _, err := io.WriteString(w, escapeHTML(n.Text)); err != nil {
			return err
		}
	} else if len(n.Children) == 0 {
		// An empty element still gets an internal placeholder so the
		// hydration walker has a stable node to stand on.
		if _, err := io.WriteString(w, "<!--[]-->"); err != nil {
			return err
		}
	} else {
		for _, c := range n.Children {
			if err := r.renderNode(w, c, owner); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, "</"+n.Tag+">")
	return err
}

// renderAttrs writes props in sorted order so output is deterministic.
// Function-valued props are client behavior and never serialize.
func (r *Renderer) renderAttrs(w io.Writer, props vdom.Props) error {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		if k == "key" || vdom.IsHandlerProp(k, props[k]) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := props[k]
		if isBooleanAttr(k) {
			if attrTruthy(v) {
				if _, err := io.WriteString(w, " "+k); err != nil {
					return err
				}
			}
			continue
		}
		if v == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, k, escapeAttr(vdom.AttrString(v))); err != nil {
			return err
		}
	}
	return nil
}

func attrTruthy(v any) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		return tv != "" && tv != "false"
	}
	return true
}
