package imagery

import (
	"regexp"
	"strings"
)

// directPhrases are literal image-request markers matched case-insensitively
// against the latest user message.
var directPhrases = []string{
	"generate an image",
	"generate a picture",
	"create an image",
	"create a picture",
	"make an image",
	"make a picture",
	"picture of",
	"image of",
	"photo of",
	"draw",
	"paint",
	"sketch",
	"illustrate",
	"illustration",
	"visualize",
	"visualise",
	"show me",
	"in the style of",
	"render",
	"depict",
}

// impliedPatterns cover indirect phrasings of a visual request.
var impliedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)how\s+(?:would|does|do|did|will|might)\s+.*\s+looks?\b`),
	regexp.MustCompile(`(?i)what\s+(?:would|does|do|did|will|might)\s+.*\s+look\s+like\b`),
	regexp.MustCompile(`(?i)can\s+.*\s+visual`),
	regexp.MustCompile(`(?i)create\s+.*\s+scene`),
	regexp.MustCompile(`(?i)imagine\s+.*\s+(?:scene|landscape|portrait)`),
}

// IsImageRequest decides whether the message asks for an image instead of a
// text reply. Deterministic, no external calls.
func IsImageRequest(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range directPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	for _, pattern := range impliedPatterns {
		if pattern.MatchString(message) {
			return true
		}
	}
	return false
}
