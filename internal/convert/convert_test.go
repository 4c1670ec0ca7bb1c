package convert

import (
	"testing"

	"github.com/synexim/linen/internal/models"
)

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tags and entity", "<p>Hello&nbsp;<strong>World</strong></p>", "Hello World"},
		{"entities", "&lt;a&gt; &amp; &quot;b&quot; &#39;c&#39;", `<a> & "b" 'c'`},
		{"whitespace collapse", "<div>  a \n\n b  </div>", "a b"},
		{"unterminated tag passes through", "<p>text<unclosed", "text<unclosed"},
		{"no markup", "just text", "just text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripHTML(tc.in); got != tc.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlainToHTML(t *testing.T) {
	if got := PlainToHTML("Line1\nLine2"); got != "<p>Line1<br>Line2</p>" {
		t.Errorf("got %q", got)
	}
	if got := PlainToHTML(""); got != "" {
		t.Errorf("empty input should yield empty output, got %q", got)
	}
	if got := PlainToHTML("single"); got != "<p>single</p>" {
		t.Errorf("got %q", got)
	}
}

func TestMarkdownToPlain(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"bold heading", "## Title **Bold**", "Title Bold"},
		{"h6", "###### Deep", "Deep"},
		{"italics", "*a* and _b_", "a and b"},
		{"double underscore", "__strong__", "strong"},
		{"link keeps text", "see [docs](https://example.com)", "see docs"},
		{"inline code", "run `go build` now", "run go build now"},
		{"fenced code removed", "before\n```\ncode\n```\nafter", "before\n\nafter"},
		{"blockquote", "> quoted line", "quoted line"},
		{"unordered list", "- item one\n* item two\n+ item three", "item one\nitem two\nitem three"},
		{"ordered list", "1. first\n2. second", "first\nsecond"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MarkdownToPlain(tc.in); got != tc.want {
				t.Errorf("MarkdownToPlain(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"script tags", `<p>ok</p><script>alert(1)</script>`, `<p>ok</p>alert(1)`},
		{"event handler", `<div onclick="boom()">x</div>`, `<div>x</div>`},
		{"single quoted handler", `<a onmouseover='x()'>y</a>`, `<a>y</a>`},
		{"iframe", `<iframe src="evil"></iframe>`, ``},
		{"case insensitive", `<SCRIPT>x</SCRIPT>`, `x`},
		{"clean passes", `<p><strong>bold</strong></p>`, `<p><strong>bold</strong></p>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeHTML(tc.in); got != tc.want {
				t.Errorf("SanitizeHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText("Plain", "", models.FormatPlain); got != "Plain" {
		t.Errorf("plain: got %q", got)
	}
	if got := PlainText("**Bold**", "", models.FormatMarkdown); got != "Bold" {
		t.Errorf("markdown: got %q", got)
	}
	if got := PlainText("Plain", "<p>Rich</p>", models.FormatRTF); got != "Rich" {
		t.Errorf("rtf: got %q", got)
	}
	// rtf falls back to content when richContent is absent.
	if got := PlainText("<b>Fallback</b>", "", models.FormatRTF); got != "Fallback" {
		t.Errorf("rtf fallback: got %q", got)
	}
	// Unknown format behaves as plain.
	if got := PlainText("x", "", models.FormatType("weird")); got != "x" {
		t.Errorf("default: got %q", got)
	}
}
