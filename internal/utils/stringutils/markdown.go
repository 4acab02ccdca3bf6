package stringutils

import (
	"regexp"
	"strings"
)

// Pre-compiled regex patterns for better performance
var (
	codeBlockPattern    = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern   = regexp.MustCompile("`([^`]*)`")
	imagePattern        = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	headingPattern      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasisPattern     = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	strikePattern       = regexp.MustCompile(`~~([^~]+)~~`)
	blockquotePattern   = regexp.MustCompile(`(?m)^>\s?`)
	listMarkerPattern   = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s+`)
	horizontalRule      = regexp.MustCompile(`(?m)^(?:-{3,}|\*{3,}|_{3,})\s*$`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]+`)
	multiNewlinePattern = regexp.MustCompile(`\n{2,}`)
)

// StripMarkdown reduces markdown to plain prose suitable for speech
// synthesis. Link and image text survives, the URLs do not.
func StripMarkdown(text string) string {
	text = codeBlockPattern.ReplaceAllString(text, "")
	text = inlineCodePattern.ReplaceAllString(text, "$1")
	text = imagePattern.ReplaceAllString(text, "$1")
	text = markdownLinkPattern.ReplaceAllString(text, "$1")
	text = headingPattern.ReplaceAllString(text, "")
	text = emphasisPattern.ReplaceAllString(text, "$2")
	text = strikePattern.ReplaceAllString(text, "$1")
	text = blockquotePattern.ReplaceAllString(text, "")
	text = listMarkerPattern.ReplaceAllString(text, "")
	text = horizontalRule.ReplaceAllString(text, "")
	text = multiSpacePattern.ReplaceAllString(text, " ")
	text = multiNewlinePattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
