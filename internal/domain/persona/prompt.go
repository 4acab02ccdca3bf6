package persona

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt assembles the system prompt for a persona from its
// configured traits, knowledge areas, tone and callable surface. Pure
// formatting; the structure is fixed so downstream prompts stay cacheable.
func BuildSystemPrompt(
	personality []string,
	knowledge []string,
	tone string,
	customFunctions []CustomFunction,
	integrations []Integration,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an AI assistant with the following personality traits: %s.\n",
		strings.Join(personality, ", "))
	fmt.Fprintf(&b, "You are knowledgeable in: %s.\n", strings.Join(knowledge, ", "))
	fmt.Fprintf(&b, "Your tone of voice is %s.\n", tone)

	b.WriteString("\n")
	if len(customFunctions) == 0 {
		b.WriteString("No custom functions are available.\n")
	} else {
		b.WriteString("Available custom functions:\n")
		for _, fn := range customFunctions {
			if fn.Description != "" {
				fmt.Fprintf(&b, "- %s: %s\n", fn.Name, fn.Description)
			} else {
				fmt.Fprintf(&b, "- %s\n", fn.Name)
			}
		}
	}

	if len(integrations) > 0 {
		b.WriteString("\nAvailable integrations:\n")
		for _, in := range integrations {
			if in.Description != "" {
				fmt.Fprintf(&b, "- %s: %s\n", in.Name, in.Description)
			} else {
				fmt.Fprintf(&b, "- %s\n", in.Name)
			}
		}
	}

	b.WriteString("\nStay in character and answer as this persona. Call a function only when the user's request requires it.")

	return b.String()
}
