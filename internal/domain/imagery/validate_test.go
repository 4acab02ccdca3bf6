package imagery

import (
	"strings"
	"testing"
)

func TestValidatePrompt(t *testing.T) {
	cases := []struct {
		name       string
		prompt     string
		wantValid  bool
		wantReason string
	}{
		{
			name:       "empty",
			prompt:     "",
			wantValid:  false,
			wantReason: "prompt is empty",
		},
		{
			name:       "whitespace only",
			prompt:     "   \n\t ",
			wantValid:  false,
			wantReason: "prompt is empty",
		},
		{
			name:       "too short",
			prompt:     "a cat",
			wantValid:  false,
			wantReason: "prompt is shorter than 10 characters",
		},
		{
			name:       "too long",
			prompt:     "a " + strings.Repeat("x", 4000),
			wantValid:  false,
			wantReason: "prompt exceeds 4000 characters",
		},
		{
			name:       "single word",
			prompt:     "supercalifragilistic",
			wantValid:  false,
			wantReason: "prompt must contain more than one word",
		},
		{
			name:       "adult content",
			prompt:     "a nude figure reclining on a sofa",
			wantValid:  false,
			wantReason: `prompt contains prohibited adult content: "nude"`,
		},
		{
			name:       "violence content",
			prompt:     "a battlefield covered in blood and smoke",
			wantValid:  false,
			wantReason: `prompt contains prohibited violence content: "blood"`,
		},
		{
			name:       "copyright",
			prompt:     "mickey mouse surfing a giant wave",
			wantValid:  false,
			wantReason: `prompt contains copyrighted material: "mickey mouse"`,
		},
		{
			name:      "valid",
			prompt:    "a serene mountain lake at dawn, mist rising over still water",
			wantValid: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidatePrompt(tc.prompt)
			if got.Valid != tc.wantValid {
				t.Fatalf("ValidatePrompt(%q).Valid = %v, want %v (reason %q)", tc.prompt, got.Valid, tc.wantValid, got.Reason)
			}
			if !tc.wantValid && got.Reason != tc.wantReason {
				t.Fatalf("ValidatePrompt(%q).Reason = %q, want %q", tc.prompt, got.Reason, tc.wantReason)
			}
		})
	}
}
