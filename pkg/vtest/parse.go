package vtest

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conradklek/webs/pkg/vdom"
)

// ParseHTML parses a markup fragment into a MemNode tree under a synthetic
// root container. Comments are preserved; hydration depends on them.
func ParseHTML(markup string) (*MemNode, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}

	root := &MemNode{Kind: vdom.NodeElement, Tag: "root"}
	for _, n := range nodes {
		if converted := convertNode(n); converted != nil {
			converted.Parent = root
			root.Children = append(root.Children, converted)
		}
	}
	return root, nil
}

// NewHostFromHTML parses markup and wraps it in a host, the starting point
// of a hydration test.
func NewHostFromHTML(markup string) (*MemHost, error) {
	root, err := ParseHTML(markup)
	if err != nil {
		return nil, err
	}
	return NewHostWithRoot(root), nil
}

func convertNode(n *html.Node) *MemNode {
	switch n.Type {
	case html.TextNode:
		return &MemNode{Kind: vdom.NodeText, Text: n.Data}
	case html.CommentNode:
		return &MemNode{Kind: vdom.NodeComment, Text: n.Data}
	case html.ElementNode:
		out := &MemNode{Kind: vdom.NodeElement, Tag: n.Data}
		for _, attr := range n.Attr {
			if out.Attrs == nil {
				out.Attrs = make(map[string]string, len(n.Attr))
			}
			out.Attrs[attr.Key] = attr.Val
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if converted := convertNode(c); converted != nil {
				converted.Parent = out
				out.Children = append(out.Children, converted)
			}
		}
		return out
	}
	return nil
}
