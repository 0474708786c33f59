package convert

import (
	"regexp"
	"strings"
)

// The engine has no plain-text mode, so the .txt derivation strips Markdown
// markers locally. Content that carries no markers passes through unchanged.
var (
	reCodeSpan   = regexp.MustCompile("`{1,3}[^`]*`{1,3}")
	reLinePrefix = regexp.MustCompile(`(?m)^\s{0,3}(#+|\*|-|\+|>)\s*`)
	reImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reMarkers    = regexp.MustCompile("[*_>#~`]")
	reSpaces     = regexp.MustCompile(`[ \t]+`)
)

// StripMarkdown derives a plain-text rendition from Markdown: code spans are
// dropped, heading/list/quote prefixes removed, images reduced to alt text,
// links to their text, emphasis markers deleted, and runs of spaces
// collapsed.
func StripMarkdown(md string) string {
	text := reCodeSpan.ReplaceAllString(md, "")
	text = reLinePrefix.ReplaceAllString(text, "")
	text = reImage.ReplaceAllString(text, "$1")
	text = reLink.ReplaceAllString(text, "$1")
	text = reMarkers.ReplaceAllString(text, "")
	text = reSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Preview returns the first min(n, length) characters of text, counting
// characters rather than bytes so multi-byte runes are never split.
func Preview(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
