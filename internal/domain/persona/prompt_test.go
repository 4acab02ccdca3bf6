package persona

import (
	"strings"
	"testing"
)

func TestBuildSystemPromptBasics(t *testing.T) {
	prompt := BuildSystemPrompt(
		[]string{"curious", "witty"},
		[]string{"astronomy", "history"},
		"friendly",
		nil,
		nil,
	)

	for _, want := range []string{
		"You are an AI assistant with the following personality traits: curious, witty.",
		"You are knowledgeable in: astronomy, history.",
		"Your tone of voice is friendly.",
		"No custom functions are available.",
		"Stay in character and answer as this persona.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Available integrations:") {
		t.Fatal("integrations block should be omitted when there are none")
	}
}

func TestBuildSystemPromptWithCallables(t *testing.T) {
	prompt := BuildSystemPrompt(
		[]string{"calm"},
		[]string{"cooking"},
		"warm",
		[]CustomFunction{
			{Name: "lookupRecipe", Description: "Find a stored recipe by name"},
			{Name: "convertUnits"},
		},
		[]Integration{
			{Name: "weather", Description: "Current weather by city"},
		},
	)

	for _, want := range []string{
		"Available custom functions:",
		"- lookupRecipe: Find a stored recipe by name",
		"- convertUnits",
		"Available integrations:",
		"- weather: Current weather by city",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "No custom functions are available.") {
		t.Fatal("no-functions line should be omitted when functions exist")
	}
}

func TestBuildSystemPromptDeterministic(t *testing.T) {
	a := BuildSystemPrompt([]string{"bold"}, []string{"sailing"}, "direct", nil, nil)
	b := BuildSystemPrompt([]string{"bold"}, []string{"sailing"}, "direct", nil, nil)
	if a != b {
		t.Fatal("prompt assembly must be deterministic")
	}
}
