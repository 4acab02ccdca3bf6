package imagery

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"persona-server/internal/utils/platformerrors"
)

const (
	// DefaultMaxRetries bounds the completion-rewrite attempts.
	DefaultMaxRetries = 3

	rewriteTemperature = 0.2
	rewriteMaxTokens   = 200

	rewriteInstruction = "Rewrite the user's message into a single vivid, detailed image-generation prompt. " +
		"Describe the subject, setting, lighting and style. Reply with the prompt only."

	fallbackWordLimit = 10
)

// CompletionService is the minimal completion capability the extractor needs.
type CompletionService interface {
	CreateCompletion(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
}

// Extractor turns a raw user message into a validated image-generation prompt
// by asking the completion API to rewrite it, retrying with linear backoff and
// falling back to a keyword-trimmed prompt when every attempt is rejected.
type Extractor struct {
	completions CompletionService
	model       string
	maxRetries  int
	sleep       func(time.Duration)
}

// NewExtractor builds an Extractor with the default retry budget.
func NewExtractor(completions CompletionService, model string) *Extractor {
	return &Extractor{
		completions: completions,
		model:       model,
		maxRetries:  DefaultMaxRetries,
		sleep:       time.Sleep,
	}
}

// WithMaxRetries overrides the attempt budget. Values below 1 are clamped.
func (e *Extractor) WithMaxRetries(n int) *Extractor {
	if n < 1 {
		n = 1
	}
	e.maxRetries = n
	return e
}

// Extract runs the rewrite/validate/retry protocol. It holds no state across
// calls beyond the loop counter.
func (e *Extractor) Extract(ctx context.Context, message string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		prompt, err := e.rewrite(ctx, message)
		if err == nil {
			result := ValidatePrompt(prompt)
			if result.Valid {
				return strings.TrimSpace(prompt), nil
			}
			err = platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeContentPolicy, result.Reason, nil, "")
		}

		lastErr = err
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", e.maxRetries).
			Msg("image prompt extraction attempt failed")

		// Linear backoff; no wait after the final attempt.
		if attempt < e.maxRetries {
			e.sleep(time.Duration(attempt) * time.Second)
		}
	}

	fallback := FallbackPrompt(message)
	if result := ValidatePrompt(fallback); result.Valid {
		log.Info().Str("prompt", fallback).Msg("using fallback image prompt")
		return fallback, nil
	}

	return "", platformerrors.AsError(ctx, platformerrors.LayerDomain, lastErr,
		"failed to extract a usable image prompt")
}

func (e *Extractor) rewrite(ctx context.Context, message string) (string, error) {
	resp, err := e.completions.CreateCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: rewriteTemperature,
		MaxTokens:   rewriteMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rewriteInstruction},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream, "completion returned no choices", nil, "")
	}
	return resp.Choices[0].Message.Content, nil
}

// FallbackPrompt builds a simplified prompt from the raw message: punctuation
// stripped, words of length <= 2 discarded, first 10 remaining words kept.
func FallbackPrompt(message string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, message)

	kept := make([]string, 0, fallbackWordLimit)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		kept = append(kept, word)
		if len(kept) == fallbackWordLimit {
			break
		}
	}
	return strings.Join(kept, " ")
}
