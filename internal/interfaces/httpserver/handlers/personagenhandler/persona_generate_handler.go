package personagenhandler

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"

	"persona-server/internal/config"
	"persona-server/internal/infrastructure/inference"
	"persona-server/internal/infrastructure/logger"
	"persona-server/internal/interfaces/httpserver/requests/personagen"
	"persona-server/internal/interfaces/httpserver/responses"
	"persona-server/internal/utils/platformerrors"
)

const suggestionInstruction = "You design AI chat personas. From the user's description, produce a persona " +
	"suggestion as a single JSON object with exactly these fields: " +
	`"name" (string), "personality" (array of short trait strings), ` +
	`"knowledge" (array of subject strings), "tone" (string), ` +
	`"voice" (one of: alloy, echo, fable, onyx, nova, shimmer), ` +
	`"instructions" (string). Reply with the JSON object only.`

// Suggestion is one generated persona configuration.
type Suggestion struct {
	Name         string   `json:"name"`
	Personality  []string `json:"personality"`
	Knowledge    []string `json:"knowledge"`
	Tone         string   `json:"tone"`
	Voice        string   `json:"voice"`
	Instructions string   `json:"instructions"`
}

// PersonaGenerateHandler turns a free-form description into persona
// configuration suggestions.
type PersonaGenerateHandler struct {
	completions inference.CompletionService
	cfg         *config.Config
}

func NewPersonaGenerateHandler(completions inference.CompletionService, cfg *config.Config) *PersonaGenerateHandler {
	return &PersonaGenerateHandler{completions: completions, cfg: cfg}
}

// Generate handles POST /v1/personas/generate.
func (h *PersonaGenerateHandler) Generate(reqCtx *gin.Context) {
	var payload personagen.GenerateRequest
	if err := reqCtx.ShouldBindJSON(&payload); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid generate request: "+err.Error(), "")
		return
	}

	ctx := reqCtx.Request.Context()
	count := payload.EffectiveCount()

	if count == 1 {
		suggestion, err := h.generateOne(ctx, payload.Message)
		if err != nil {
			responses.HandleError(reqCtx, err, "persona generation failed")
			return
		}
		reqCtx.JSON(200, suggestion)
		return
	}

	// Suggestions are generated sequentially; as long as at least one
	// succeeds the successes are returned.
	suggestions := make([]*Suggestion, 0, count)
	var lastErr error
	for i := 0; i < count; i++ {
		suggestion, err := h.generateOne(ctx, payload.Message)
		if err != nil {
			lastErr = err
			lg := logger.GetLogger()
			lg.Warn().Err(err).Int("index", i).Msg("persona suggestion failed")
			continue
		}
		suggestions = append(suggestions, suggestion)
	}
	if len(suggestions) == 0 {
		responses.HandleError(reqCtx, lastErr, "persona generation failed")
		return
	}
	reqCtx.JSON(200, suggestions)
}

func (h *PersonaGenerateHandler) generateOne(ctx context.Context, message string) (*Suggestion, error) {
	resp, err := h.completions.CreateCompletion(ctx, openai.ChatCompletionRequest{
		Model: h.cfg.CompletionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestionInstruction},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		Temperature: 0.9,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeUpstream, "completion returned no choices", nil, "")
	}

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(trimCodeFence(resp.Choices[0].Message.Content)), &suggestion); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeUpstream, "model returned malformed persona suggestion", err, "")
	}
	if suggestion.Name == "" || len(suggestion.Personality) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeUpstream, "model returned incomplete persona suggestion", nil, "")
	}
	return &suggestion, nil
}

// trimCodeFence strips a markdown code fence the model sometimes wraps JSON in.
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
