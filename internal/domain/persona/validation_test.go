package persona

import (
	"context"
	"strings"
	"testing"

	"persona-server/internal/utils/platformerrors"
)

func validRequest() *ChatRequest {
	return &ChatRequest{
		Messages:     []Message{{Role: RoleUser, Content: "hello"}},
		PersonaID:    "persona-1",
		UserID:       "user-1",
		Personality:  []string{"curious"},
		Knowledge:    []string{"science"},
		Tone:         "friendly",
		TokensNeeded: 100,
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	if err := validRequest().Validate(context.Background()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name       string
		mutate     func(*ChatRequest)
		wantReason string
	}{
		{"no messages", func(r *ChatRequest) { r.Messages = nil }, "messages cannot be empty"},
		{"bad role", func(r *ChatRequest) { r.Messages[0].Role = "moderator" }, `messages[0]: invalid role "moderator"`},
		{"blank content", func(r *ChatRequest) { r.Messages[0].Content = "   " }, "messages[0]: content cannot be blank"},
		{"bad persona id", func(r *ChatRequest) { r.PersonaID = "-leading-dash" }, "personaId is not a well-formed identifier"},
		{"empty user id", func(r *ChatRequest) { r.UserID = "" }, "userId is not a well-formed identifier"},
		{"no personality", func(r *ChatRequest) { r.Personality = nil }, "personality cannot be empty"},
		{"blank trait", func(r *ChatRequest) { r.Personality = []string{"kind", " "} }, "personality[1] cannot be blank"},
		{"no knowledge", func(r *ChatRequest) { r.Knowledge = []string{} }, "knowledge cannot be empty"},
		{"blank tone", func(r *ChatRequest) { r.Tone = "\t" }, "tone cannot be blank"},
		{"zero tokens", func(r *ChatRequest) { r.TokensNeeded = 0 }, "tokensNeeded must be a positive integer"},
		{
			"integration missing endpoint",
			func(r *ChatRequest) {
				r.Integrations = []Integration{{
					Name: "weather", Method: "GET",
					Headers: map[string]string{}, Parameters: map[string]string{},
				}}
			},
			"integrations[0]: endpoint is required",
		},
		{
			"integration bad method",
			func(r *ChatRequest) {
				r.Integrations = []Integration{{
					Name: "weather", Endpoint: "https://api.example.com/weather", Method: "TRACE",
					Headers: map[string]string{}, Parameters: map[string]string{},
				}}
			},
			"integrations[0]: method must be one of GET, POST, PUT, PATCH, DELETE",
		},
		{
			"integration nil headers",
			func(r *ChatRequest) {
				r.Integrations = []Integration{{
					Name: "weather", Endpoint: "https://api.example.com/weather", Method: "GET",
					Parameters: map[string]string{},
				}}
			},
			"integrations[0]: headers are required",
		},
		{
			"custom function without name",
			func(r *ChatRequest) { r.CustomFunctions = []CustomFunction{{Description: "mystery"}} },
			"customFunctions[0]: name is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			err := req.Validate(context.Background())
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
				t.Fatalf("expected VALIDATION kind, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantReason) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.wantReason)
			}
		})
	}
}

func TestValidIdentifier(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"abc", true},
		{"user-123", true},
		{"A1_b2-c3", true},
		{"", false},
		{"-leading", false},
		{"_leading", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
		{"has space", false},
	}
	for _, tc := range cases {
		if got := ValidIdentifier(tc.id); got != tc.want {
			t.Fatalf("ValidIdentifier(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
