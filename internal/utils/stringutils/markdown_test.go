package stringutils

import "testing"

func TestStripMarkdown(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "Hello there, how are you?",
			want:  "Hello there, how are you?",
		},
		{
			name:  "headings and emphasis",
			input: "# Welcome\nThis is **bold** and *italic* text.",
			want:  "Welcome\nThis is bold and italic text.",
		},
		{
			name:  "links keep text drop url",
			input: "See [the docs](https://example.com/docs) for details.",
			want:  "See the docs for details.",
		},
		{
			name:  "inline code unwrapped",
			input: "Run `make build` to compile.",
			want:  "Run make build to compile.",
		},
		{
			name:  "code block removed",
			input: "Before.\n```go\nfmt.Println(\"hi\")\n```\nAfter.",
			want:  "Before.\nAfter.",
		},
		{
			name:  "list markers dropped",
			input: "- first\n- second\n1. third",
			want:  "first\nsecond\nthird",
		},
		{
			name:  "images keep alt text",
			input: "Look: ![a red fox](https://example.com/fox.png)",
			want:  "Look: a red fox",
		},
		{
			name:  "blockquote and rule",
			input: "> quoted wisdom\n---\nclosing line",
			want:  "quoted wisdom\nclosing line",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripMarkdown(tc.input); got != tc.want {
				t.Fatalf("StripMarkdown(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
