package chathandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"

	"persona-server/internal/config"
	"persona-server/internal/domain/imagery"
	"persona-server/internal/domain/persona"
	"persona-server/internal/domain/tokenusage"
	"persona-server/internal/utils/platformerrors"
)

type fakeCompletions struct {
	replies []string
	calls   int
	err     error
}

func (f *fakeCompletions) CreateCompletion(_ context.Context, _ openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	idx := f.calls
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	reply := ""
	if idx < len(f.replies) {
		reply = f.replies[idx]
	}
	return &openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: reply}},
		},
		Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

type fakeImages struct {
	url   string
	err   error
	calls int
}

func (f *fakeImages) GenerateImage(_ context.Context, _, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeProcedures struct {
	prepareErr error
	result     string
	execErr    error
}

func (f *fakeProcedures) PrepareCustomFunctionContext(context.Context, string, string) (string, error) {
	if f.prepareErr != nil {
		return "", f.prepareErr
	}
	return "ready", nil
}

func (f *fakeProcedures) ExecuteCustomFunction(context.Context, string, string, map[string]any) (string, error) {
	return f.result, f.execErr
}

type fakeIntegrations struct {
	text  string
	err   error
	calls int
}

func (f *fakeIntegrations) Call(_ context.Context, _ *persona.Integration, _ map[string]any) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeUsageRepo struct{ records []*tokenusage.TokenUsage }

func (f *fakeUsageRepo) Create(_ context.Context, usage *tokenusage.TokenUsage) error {
	f.records = append(f.records, usage)
	return nil
}

type fakeChecker struct {
	allow bool
	err   error
	calls int
}

func (f *fakeChecker) CheckTokenUsage(context.Context, string, int) (bool, error) {
	f.calls++
	return f.allow, f.err
}

type handlerFixture struct {
	handler      *ChatHandler
	completions  *fakeCompletions
	rewrites     *fakeCompletions
	images       *fakeImages
	integrations *fakeIntegrations
	procedures   *fakeProcedures
	checker      *fakeChecker
	usage        *fakeUsageRepo
}

func newFixture() *handlerFixture {
	completions := &fakeCompletions{}
	rewrites := &fakeCompletions{}
	images := &fakeImages{url: "https://img.example.com/out.png"}
	integrations := &fakeIntegrations{}
	procedures := &fakeProcedures{}
	checker := &fakeChecker{allow: true}
	usage := &fakeUsageRepo{}

	extractor := imagery.NewExtractor(rewrites, "gpt-test")
	cfg := &config.Config{CompletionModel: "gpt-test", ImageModel: "img-test"}

	handler := NewChatHandler(
		completions, images, extractor, integrations, procedures,
		tokenusage.NewService(usage, checker), cfg,
	)
	handler.sleep = func(time.Duration) {}

	return &handlerFixture{
		handler:      handler,
		completions:  completions,
		rewrites:     rewrites,
		images:       images,
		integrations: integrations,
		procedures:   procedures,
		checker:      checker,
		usage:        usage,
	}
}

func chatRequest(latest string) *persona.ChatRequest {
	return &persona.ChatRequest{
		Messages:     []persona.Message{{Role: persona.RoleUser, Content: latest}},
		PersonaID:    "persona-1",
		UserID:       "user-1",
		Personality:  []string{"curious"},
		Knowledge:    []string{"art"},
		Tone:         "friendly",
		TokensNeeded: 100,
	}
}

func TestHandleRejectsInvalidRequestBeforeAnyExternalCall(t *testing.T) {
	fx := newFixture()

	request := chatRequest("draw a cat")
	request.Tone = ""

	_, err := fx.handler.handle(context.Background(), request)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected VALIDATION kind, got %v", err)
	}
	if fx.completions.calls+fx.rewrites.calls+fx.images.calls+fx.checker.calls != 0 {
		t.Fatal("no external call may happen on validation failure")
	}
}

func TestImagePathReturnsMessageAndImageURL(t *testing.T) {
	fx := newFixture()
	fx.rewrites.replies = []string{"a fluffy cat playing a grand piano on stage"}
	fx.completions.replies = []string{"A fluffy cat performing at a grand piano."}

	response, err := fx.handler.handle(context.Background(), chatRequest("Can you draw a cat playing piano?"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if response.ImageURL != "https://img.example.com/out.png" {
		t.Fatalf("unexpected image url %q", response.ImageURL)
	}
	if response.Message == "" {
		t.Fatal("image responses must carry a message")
	}
	if fx.images.calls != 1 {
		t.Fatalf("expected one image generation, got %d", fx.images.calls)
	}
}

func TestTokenDenialShortCircuitsCompletion(t *testing.T) {
	fx := newFixture()
	fx.checker.allow = false

	_, err := fx.handler.handle(context.Background(), chatRequest("tell me about impressionism"))
	if err == nil {
		t.Fatal("expected a token limit error")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeTokenLimit) {
		t.Fatalf("expected TOKEN_LIMIT kind, got %v", err)
	}
	if fx.completions.calls != 0 {
		t.Fatal("completion must not run after a ledger denial")
	}
}

func TestTextPathRecordsUsage(t *testing.T) {
	fx := newFixture()
	fx.completions.replies = []string{"Impressionism began in 1870s Paris."}

	response, err := fx.handler.handle(context.Background(), chatRequest("tell me about impressionism"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if response.Message != "Impressionism began in 1870s Paris." {
		t.Fatalf("unexpected message %q", response.Message)
	}
	if response.ImageURL != "" {
		t.Fatal("text replies must not carry an image url")
	}
	if len(fx.usage.records) != 1 {
		t.Fatalf("expected one usage record, got %d", len(fx.usage.records))
	}
	if fx.usage.records[0].TotalTokens != 15 {
		t.Fatalf("unexpected usage record: %+v", fx.usage.records[0])
	}
}

func TestCustomFunctionFailureBecomesChatMessage(t *testing.T) {
	fx := newFixture()
	fx.procedures.execErr = platformerrors.NewError(context.Background(),
		platformerrors.LayerRepository, platformerrors.ErrorTypeIntegration, "procedure blew up", nil, "")

	request := chatRequest("run my function")
	request.CustomFunctions = []persona.CustomFunction{{Name: "myFunc"}}

	// Model replies with a tool call for the custom function.
	fx.completions.replies = nil
	toolCall := &fakeToolCallCompletions{name: "myFunc", arguments: "{}"}
	fx.handler.completions = toolCall

	response, err := fx.handler.handle(context.Background(), request)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if response.Message != `The custom function "myFunc" failed to execute.` {
		t.Fatalf("unexpected message %q", response.Message)
	}
}

func TestIntegrationDispatch(t *testing.T) {
	fx := newFixture()
	fx.integrations.text = "sunny, 24 degrees"
	fx.handler.completions = &fakeToolCallCompletions{name: "weather", arguments: `{"city":"Lisbon"}`}

	request := chatRequest("what's the weather in Lisbon")
	request.Integrations = []persona.Integration{{
		Name:       "weather",
		Endpoint:   "https://api.example.com/weather",
		Method:     "GET",
		Headers:    map[string]string{},
		Parameters: map[string]string{"city": "City to query"},
	}}

	response, err := fx.handler.handle(context.Background(), request)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if response.Message != "sunny, 24 degrees" {
		t.Fatalf("unexpected message %q", response.Message)
	}
	if fx.integrations.calls != 1 {
		t.Fatalf("expected one integration call, got %d", fx.integrations.calls)
	}
}

type scriptedImages struct {
	outcomes []error
	url      string
	calls    int
}

func (f *scriptedImages) GenerateImage(_ context.Context, _, _, _ string) (string, error) {
	idx := f.calls
	f.calls++
	if idx < len(f.outcomes) && f.outcomes[idx] != nil {
		return "", f.outcomes[idx]
	}
	return f.url, nil
}

func TestGenerateWithRetry(t *testing.T) {
	transient := platformerrors.NewError(context.Background(),
		platformerrors.LayerInfrastructure, platformerrors.ErrorTypeUpstream, "provider hiccup", nil, "")
	policy := platformerrors.NewError(context.Background(),
		platformerrors.LayerInfrastructure, platformerrors.ErrorTypeContentPolicy, "prompt rejected", nil, "")

	cases := []struct {
		name       string
		outcomes   []error
		wantURL    string
		wantErr    platformerrors.ErrorType
		wantCalls  int
		wantSleeps []time.Duration
	}{
		{
			name:       "transient errors exhaust all attempts",
			outcomes:   []error{transient, transient, transient},
			wantErr:    platformerrors.ErrorTypeUpstream,
			wantCalls:  3,
			wantSleeps: []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:       "policy rejection is not retried",
			outcomes:   []error{policy},
			wantErr:    platformerrors.ErrorTypeContentPolicy,
			wantCalls:  1,
			wantSleeps: nil,
		},
		{
			name:       "transient error then success",
			outcomes:   []error{transient, nil},
			wantURL:    "https://img.example.com/out.png",
			wantCalls:  2,
			wantSleeps: []time.Duration{time.Second},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture()
			images := &scriptedImages{outcomes: tc.outcomes, url: "https://img.example.com/out.png"}
			fx.handler.images = images

			var sleeps []time.Duration
			fx.handler.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

			url, err := fx.handler.generateWithRetry(context.Background(), "a quiet harbor at dawn", "")

			if tc.wantErr != "" {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !platformerrors.IsErrorType(err, tc.wantErr) {
					t.Fatalf("expected %s kind, got %v", tc.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("generateWithRetry: %v", err)
				}
				if url != tc.wantURL {
					t.Fatalf("unexpected url %q", url)
				}
			}
			if images.calls != tc.wantCalls {
				t.Fatalf("expected %d attempts, got %d", tc.wantCalls, images.calls)
			}
			if len(sleeps) != len(tc.wantSleeps) {
				t.Fatalf("expected sleeps %v, got %v", tc.wantSleeps, sleeps)
			}
			for i := range sleeps {
				if sleeps[i] != tc.wantSleeps[i] {
					t.Fatalf("expected sleeps %v, got %v", tc.wantSleeps, sleeps)
				}
			}
		})
	}
}

type fakeToolCallCompletions struct {
	name      string
	arguments string
}

func (f *fakeToolCallCompletions) CreateCompletion(context.Context, openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	return &openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{
				Message: openai.ChatCompletionMessage{
					ToolCalls: []openai.ToolCall{
						{
							Type: openai.ToolTypeFunction,
							Function: openai.FunctionCall{
								Name:      f.name,
								Arguments: f.arguments,
							},
						},
					},
				},
			},
		},
		Usage: openai.Usage{PromptTokens: 8, CompletionTokens: 2, TotalTokens: 10},
	}, nil
}

func TestChatEndpointHTTPErrorShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fx := newFixture()

	router := gin.New()
	router.POST("/v1/chat", fx.handler.Chat)

	body, _ := json.Marshal(map[string]any{
		"messages":     []map[string]string{{"role": "user", "content": "hi"}},
		"personaId":    "persona-1",
		"userId":       "user-1",
		"personality":  []string{"curious"},
		"knowledge":    []string{"art"},
		"tone":         "friendly",
		"tokensNeeded": 50,
	})

	fx.checker.allow = false
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on token denial, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("error responses must be JSON: %v", err)
	}
	if payload["error"] == "" {
		t.Fatal("error responses must carry an error message")
	}
}
