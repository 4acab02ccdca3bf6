package imagery

import "testing"

func TestIsImageRequest(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    bool
	}{
		{"direct draw", "Can you draw a cat?", true},
		{"direct generate", "Please generate an image of a sunset over the ocean", true},
		{"picture of", "I'd love a picture of the Eiffel Tower at night", true},
		{"style marker", "A portrait in the style of Van Gogh", true},
		{"implied how-would-look", "How would a futuristic city look?", true},
		{"implied what-look-like", "What would a dragon made of glass look like?", true},
		{"plain question", "What's the weather?", false},
		{"plain chat", "Tell me a joke about programmers", false},
		{"empty", "", false},
		{"mentions images but asks text", "Thanks, that helps a lot", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsImageRequest(tc.message); got != tc.want {
				t.Fatalf("IsImageRequest(%q) = %v, want %v", tc.message, got, tc.want)
			}
		})
	}
}
