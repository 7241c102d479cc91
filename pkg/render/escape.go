package render

import "strings"

// Escapers for the contexts the renderer writes into. Attribute values
// additionally escape whitespace that could break attribute parsing.
var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// escapeHTML escapes text for inclusion in HTML content.
func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

// escapeAttr escapes text for inclusion in an attribute value.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// escapeComment keeps comment content from terminating the comment early.
func escapeComment(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}
