// Package convert translates note content between plain text, HTML, and
// Markdown representations. All functions are total: empty input yields an
// empty result and nothing ever panics on malformed markup.
package convert

import (
	"regexp"
	"strings"

	"github.com/synexim/linen/internal/models"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	headingRe   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldStarRe  = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italStarRe  = regexp.MustCompile(`\*([^*]+)\*`)
	boldUnderRe = regexp.MustCompile(`__([^_]+)__`)
	italUnderRe = regexp.MustCompile(`_([^_]+)_`)
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	imageRe     = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	fencedRe    = regexp.MustCompile("```[^`]*```")
	inlineRe    = regexp.MustCompile("`([^`]+)`")
	quoteRe     = regexp.MustCompile(`(?m)^>\s+`)
	bulletRe    = regexp.MustCompile(`(?m)^[-*+]\s+`)
	orderedRe   = regexp.MustCompile(`(?m)^\d+\.\s+`)

	unsafeTagRe = regexp.MustCompile(`(?i)<(/?)(script|style|iframe|object|embed)[^>]*>`)
	onAttrRe    = regexp.MustCompile(`(?i)\s*on\w+\s*=\s*("[^"]*"|'[^']*')`)
)

// entity decode pairs, applied in order. &amp; must come after the
// entities that contain it.
var entities = [...][2]string{
	{"&nbsp;", " "},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&amp;", "&"},
	{"&quot;", `"`},
	{"&#39;", "'"},
}

// StripHTML removes all tags, decodes a fixed entity set, and collapses
// whitespace. No DOM parsing: unknown or malformed tags are removed
// textually rather than erroring.
func StripHTML(html string) string {
	if html == "" {
		return ""
	}
	out := tagRe.ReplaceAllString(html, "")
	for _, e := range entities {
		out = strings.ReplaceAll(out, e[0], e[1])
	}
	out = whitespaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// PlainToHTML wraps text in a single paragraph, converting newlines to <br>.
func PlainToHTML(text string) string {
	if text == "" {
		return ""
	}
	return "<p>" + strings.ReplaceAll(text, "\n", "<br>") + "</p>"
}

// MarkdownToPlain strips Markdown syntax markers, keeping the visible text.
// Markers are removed in priority order so compound markup, e.g. a bolded
// heading, is fully unwrapped. Patterns are non-greedy so adjacent markup
// does not swallow unrelated text.
func MarkdownToPlain(markdown string) string {
	if markdown == "" {
		return ""
	}
	out := headingRe.ReplaceAllString(markdown, "")
	out = boldStarRe.ReplaceAllString(out, "$1")
	out = italStarRe.ReplaceAllString(out, "$1")
	out = boldUnderRe.ReplaceAllString(out, "$1")
	out = italUnderRe.ReplaceAllString(out, "$1")
	out = linkRe.ReplaceAllString(out, "$1")
	out = imageRe.ReplaceAllString(out, "$1")
	out = fencedRe.ReplaceAllString(out, "")
	out = inlineRe.ReplaceAllString(out, "$1")
	out = quoteRe.ReplaceAllString(out, "")
	out = bulletRe.ReplaceAllString(out, "")
	out = orderedRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// SanitizeHTML removes script/style/iframe/object/embed tags (open and
// close, contents kept) and inline on*="..." event handler attributes.
// Call before rendering any HTML content from an untrusted origin.
func SanitizeHTML(html string) string {
	if html == "" {
		return ""
	}
	out := unsafeTagRe.ReplaceAllString(html, "")
	return onAttrRe.ReplaceAllString(out, "")
}

// PlainText derives the search/export-ready text for a note regardless of
// its format: rtf strips the HTML (falling back to content when richContent
// is empty), markdown strips syntax markers, plain passes through.
func PlainText(content, richContent string, format models.FormatType) string {
	switch format {
	case models.FormatRTF:
		if richContent != "" {
			return StripHTML(richContent)
		}
		return StripHTML(content)
	case models.FormatMarkdown:
		return MarkdownToPlain(content)
	default:
		return content
	}
}
