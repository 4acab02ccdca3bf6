package inference

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionService is the injected chat-completion capability. Tests
// substitute fakes; production wiring uses the OpenAI-wire resty client.
type CompletionService interface {
	CreateCompletion(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// ImageService is the injected image-generation capability.
type ImageService interface {
	GenerateImage(ctx context.Context, model, prompt, style string) (string, error)
}

// SpeechService is the injected speech-synthesis capability, keyed on the
// shared OpenAI speech request shape.
type SpeechService interface {
	Synthesize(ctx context.Context, request SpeechRequest) ([]byte, error)
}

// SpeechRequest is the provider-facing speech synthesis payload.
type SpeechRequest struct {
	Model string  `json:"model"`
	Input string  `json:"input"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed,omitempty"`
}
