package imagery

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"persona-server/internal/utils/platformerrors"
)

type scriptedCompletions struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedCompletions) CreateCompletion(_ context.Context, _ openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	reply := ""
	if idx < len(s.replies) {
		reply = s.replies[idx]
	}
	return &openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: reply}},
		},
	}, nil
}

func TestExtractFirstAttemptSucceeds(t *testing.T) {
	completions := &scriptedCompletions{
		replies: []string{"a serene mountain lake at dawn, mist over the water"},
	}
	extractor := NewExtractor(completions, "test-model")
	extractor.sleep = func(time.Duration) { t.Fatal("unexpected sleep on first-attempt success") }

	prompt, err := extractor.Extract(context.Background(), "show me a mountain lake")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if prompt != "a serene mountain lake at dawn, mist over the water" {
		t.Fatalf("unexpected prompt: %q", prompt)
	}
	if completions.calls != 1 {
		t.Fatalf("expected 1 completion call, got %d", completions.calls)
	}
}

func TestExtractRetriesWithLinearBackoff(t *testing.T) {
	completions := &scriptedCompletions{
		errs:    []error{errors.New("provider hiccup"), errors.New("provider hiccup")},
		replies: []string{"", "", "a watercolor fox curled in autumn leaves"},
	}
	extractor := NewExtractor(completions, "test-model")

	var sleeps []time.Duration
	extractor.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	prompt, err := extractor.Extract(context.Background(), "draw a fox please")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if prompt != "a watercolor fox curled in autumn leaves" {
		t.Fatalf("unexpected prompt: %q", prompt)
	}
	if completions.calls != 3 {
		t.Fatalf("expected 3 completion calls, got %d", completions.calls)
	}
	if len(sleeps) != 2 || sleeps[0] != 1*time.Second || sleeps[1] != 2*time.Second {
		t.Fatalf("expected backoff [1s 2s], got %v", sleeps)
	}
}

func TestExtractFallsBackAfterExhaustion(t *testing.T) {
	// Every rewrite is rejected by validation (single word), forcing the
	// fallback path.
	completions := &scriptedCompletions{
		replies: []string{"word", "word", "word"},
	}
	extractor := NewExtractor(completions, "test-model")
	extractor.sleep = func(time.Duration) {}

	prompt, err := extractor.Extract(context.Background(), "Please, draw me: an ancient castle on the misty hill!")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if prompt != "Please draw ancient castle the misty hill" {
		t.Fatalf("unexpected fallback prompt: %q", prompt)
	}
	if completions.calls != DefaultMaxRetries {
		t.Fatalf("expected %d completion calls, got %d", DefaultMaxRetries, completions.calls)
	}
}

func TestExtractFailsWhenFallbackInvalid(t *testing.T) {
	completions := &scriptedCompletions{
		replies: []string{"word", "word", "word"},
	}
	extractor := NewExtractor(completions, "test-model")
	extractor.sleep = func(time.Duration) {}

	// Message too short for a valid fallback.
	_, err := extractor.Extract(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeContentPolicy) {
		t.Fatalf("expected content policy kind to survive wrapping, got %v", err)
	}
}

func TestFallbackPrompt(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "strips punctuation and short words",
			message: "Hi! Draw me a big red dragon, ok?",
			want:    "Draw big red dragon",
		},
		{
			name:    "caps at ten words",
			message: "one two three alpha beta gamma delta epsilon zeta eta theta iota kappa lambda",
			want:    "one two three alpha beta gamma delta epsilon zeta eta",
		},
		{
			name:    "empty",
			message: "",
			want:    "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackPrompt(tc.message); got != tc.want {
				t.Fatalf("FallbackPrompt(%q) = %q, want %q", tc.message, got, tc.want)
			}
		})
	}
}
