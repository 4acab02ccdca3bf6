package imagery

import (
	"fmt"
	"strings"
)

const (
	minPromptLength = 10
	maxPromptLength = 4000
)

// ValidationResult reports whether a candidate image prompt may be sent to the
// image provider, with a human-readable rejection reason when it may not.
type ValidationResult struct {
	Valid  bool
	Reason string
}

// prohibitedCategories maps a content-policy category to the keywords that
// trip it. Matching is case-insensitive substring.
var prohibitedCategories = []struct {
	Category string
	Keywords []string
}{
	{"adult", []string{"nude", "naked", "nsfw", "explicit", "porn", "erotic"}},
	{"violence", []string{"gore", "blood", "mutilat", "torture", "massacre", "behead"}},
	{"hate", []string{"nazi", "racist", "slur", "supremacist"}},
	{"illegal", []string{"cocaine", "heroin", "meth", "drug lab", "counterfeit"}},
	{"harmful", []string{"suicide", "self-harm", "self harm", "overdose"}},
}

// copyrightKeywords block trademarked characters and brands.
var copyrightKeywords = []string{
	"mickey mouse", "pokemon", "pikachu", "superman", "batman",
	"disney", "coca-cola", "star wars", "harry potter", "marvel",
}

// ValidatePrompt applies the length, shape and content-policy rules to a
// candidate image prompt.
func ValidatePrompt(prompt string) ValidationResult {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return ValidationResult{Valid: false, Reason: "prompt is empty"}
	}
	if len(trimmed) < minPromptLength {
		return ValidationResult{Valid: false, Reason: fmt.Sprintf("prompt is shorter than %d characters", minPromptLength)}
	}
	if len(trimmed) > maxPromptLength {
		return ValidationResult{Valid: false, Reason: fmt.Sprintf("prompt exceeds %d characters", maxPromptLength)}
	}
	if !strings.ContainsAny(trimmed, " \t\n") {
		return ValidationResult{Valid: false, Reason: "prompt must contain more than one word"}
	}

	lowered := strings.ToLower(trimmed)
	for _, category := range prohibitedCategories {
		for _, keyword := range category.Keywords {
			if strings.Contains(lowered, keyword) {
				return ValidationResult{
					Valid:  false,
					Reason: fmt.Sprintf("prompt contains prohibited %s content: %q", category.Category, keyword),
				}
			}
		}
	}
	for _, keyword := range copyrightKeywords {
		if strings.Contains(lowered, keyword) {
			return ValidationResult{
				Valid:  false,
				Reason: fmt.Sprintf("prompt contains copyrighted material: %q", keyword),
			}
		}
	}

	return ValidationResult{Valid: true}
}
