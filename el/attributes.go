package el

import "strings"

// SetAttr builds an arbitrary attribute.
func SetAttr(key string, value any) Attr { return Attr{Key: key, Value: value} }

// Key sets the reconciliation key for keyed list diffing.
func Key(key string) Attr { return Attr{Key: "key", Value: key} }

func ID(id string) Attr { return Attr{Key: "id", Value: id} }

// Class joins class names with spaces; empty names are dropped so
// conditional classes compose cleanly.
func Class(classes ...string) Attr {
	kept := classes[:0]
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	return Attr{Key: "class", Value: strings.Join(kept, " ")}
}

func Style(style string) Attr { return Attr{Key: "style", Value: style} }

// Data builds a data-* attribute.
func Data(key, value string) Attr { return Attr{Key: "data-" + key, Value: value} }

func Href(href string) Attr { return Attr{Key: "href", Value: href} }
func Src(src string) Attr { return Attr{Key: "src", Value: src} }
func Alt(alt string) Attr { return Attr{Key: "alt", Value: alt} }
func Title(title string) Attr { return Attr{Key: "title", Value: title} }
func Type(t string) Attr { return Attr{Key: "type", Value: t} }
func Name(name string) Attr { return Attr{Key: "name", Value: name} }
func Value(value any) Attr { return Attr{Key: "value", Value: value} }
func Placeholder(text string) Attr { return Attr{Key: "placeholder", Value: text} }
func For(id string) Attr { return Attr{Key: "for", Value: id} }
func Disabled(disabled bool) Attr { return Attr{Key: "disabled", Value: disabled} }
func Checked(checked bool) Attr { return Attr{Key: "checked", Value: checked} }
func Selected(selected bool) Attr { return Attr{Key: "selected", Value: selected} }
func Required(required bool) Attr { return Attr{Key: "required", Value: required} }
func Role(role string) Attr { return Attr{Key: "role", Value: role} }
func AriaLabel(label string) Attr { return Attr{Key: "aria-label", Value: label} }
func AriaHidden(hidden bool) Attr { return Attr{Key: "aria-hidden", Value: hidden} }
func AriaExpanded(expanded bool) Attr { return Attr{Key: "aria-expanded", Value: expanded} }
func AriaLive(mode string) Attr { return Attr{Key: "aria-live", Value: mode} }
func TabIndex(index int) Attr { return Attr{Key: "tabindex", Value: index} }
