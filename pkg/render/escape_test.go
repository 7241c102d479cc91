package render

import "testing"

func TestEscapeHTML(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<script>", "&lt;script&gt;"},
		{`"q" 'q'`, "&quot;q&quot; &#39;q&#39;"},
	}
	for _, c := range cases {
		if got := escapeHTML(c.in); got != c.want {
			t.Errorf("escapeHTML(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEscapeAttrWhitespace(t *testing.T) {
	if got := escapeAttr("a\nb\tc\rd"); got != "a&#10;b&#9;c&#13;d" {
		t.Errorf("got %q", got)
	}
}
