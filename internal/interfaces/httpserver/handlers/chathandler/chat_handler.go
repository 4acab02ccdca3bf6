package chathandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"

	"persona-server/internal/config"
	"persona-server/internal/domain/imagery"
	"persona-server/internal/domain/persona"
	"persona-server/internal/domain/tokenusage"
	"persona-server/internal/infrastructure/inference"
	"persona-server/internal/infrastructure/logger"
	"persona-server/internal/infrastructure/metrics"
	"persona-server/internal/infrastructure/observability"
	"persona-server/internal/interfaces/httpserver/middlewares"
	chatrequests "persona-server/internal/interfaces/httpserver/requests/chat"
	"persona-server/internal/interfaces/httpserver/responses"
	"persona-server/internal/utils/platformerrors"
)

const (
	// maxImageAttempts bounds provider-side image generation retries.
	maxImageAttempts = 3

	imagePreamble = "Here is the image you asked for. "
)

// ProcedureRunner executes stored custom functions through the database.
type ProcedureRunner interface {
	PrepareCustomFunctionContext(ctx context.Context, personaID, functionName string) (string, error)
	ExecuteCustomFunction(ctx context.Context, personaID, functionName string, args map[string]any) (string, error)
}

// IntegrationCaller dispatches a model-requested integration call.
type IntegrationCaller interface {
	Call(ctx context.Context, integration *persona.Integration, args map[string]any) (string, error)
}

// ChatResponse is the orchestrator's reply envelope.
type ChatResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ChatHandler orchestrates a persona chat turn: validation, image-request
// detection, prompt assembly, token budgeting, completion and tool dispatch.
type ChatHandler struct {
	completions  inference.CompletionService
	images       inference.ImageService
	extractor    *imagery.Extractor
	integrations IntegrationCaller
	procedures   ProcedureRunner
	tokens       *tokenusage.Service
	cfg          *config.Config

	sleep func(time.Duration)
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	completions inference.CompletionService,
	images inference.ImageService,
	extractor *imagery.Extractor,
	integrations IntegrationCaller,
	procedures ProcedureRunner,
	tokens *tokenusage.Service,
	cfg *config.Config,
) *ChatHandler {
	return &ChatHandler{
		completions:  completions,
		images:       images,
		extractor:    extractor,
		integrations: integrations,
		procedures:   procedures,
		tokens:       tokens,
		cfg:          cfg,
		sleep:        time.Sleep,
	}
}

// Chat handles POST /v1/chat.
func (h *ChatHandler) Chat(reqCtx *gin.Context) {
	var payload chatrequests.ChatRequest
	if err := reqCtx.ShouldBindJSON(&payload); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid chat request: "+err.Error(), "")
		return
	}

	ctx := reqCtx.Request.Context()
	if requestID := middlewares.RequestIDFromContext(reqCtx); requestID != "" {
		ctx = context.WithValue(ctx, "requestID", requestID) //nolint:staticcheck
	}

	response, err := h.handle(ctx, payload.ToDomain())
	if err != nil {
		responses.HandleError(reqCtx, err, "chat request failed")
		return
	}
	reqCtx.JSON(200, response)
}

func (h *ChatHandler) handle(ctx context.Context, request *persona.ChatRequest) (*ChatResponse, error) {
	ctx, span := observability.StartSpan(ctx, "persona-server", "ChatHandler.handle")
	defer span.End()

	// Everything is checked before the first external call.
	if err := request.Validate(ctx); err != nil {
		return nil, err
	}

	observability.AddSpanAttributes(ctx,
		attribute.String("persona.id", request.PersonaID),
		attribute.Int("chat.message_count", len(request.Messages)),
	)

	latest := request.LatestMessage()
	if latest.Role == persona.RoleUser && imagery.IsImageRequest(latest.Content) {
		return h.handleImageRequest(ctx, request, latest.Content)
	}
	return h.handleTextRequest(ctx, request)
}

// handleImageRequest runs the explicit image path: extract a safe prompt,
// generate the image with bounded retries, then ask the completion API for a
// one-line description to accompany it.
func (h *ChatHandler) handleImageRequest(ctx context.Context, request *persona.ChatRequest, message string) (*ChatResponse, error) {
	prompt, err := h.extractor.Extract(ctx, message)
	if err != nil {
		return nil, err
	}

	imageURL, err := h.generateWithRetry(ctx, prompt, "")
	if err != nil {
		metrics.RecordImageOutcome("error")
		return nil, err
	}
	metrics.RecordImageOutcome("ok")

	description := h.describeImage(ctx, request, prompt)

	return &ChatResponse{
		Message:  imagePreamble + description,
		ImageURL: imageURL,
	}, nil
}

// generateWithRetry calls the image provider up to maxImageAttempts times with
// linear backoff. Policy rejections are deterministic and not retried.
func (h *ChatHandler) generateWithRetry(ctx context.Context, prompt, style string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxImageAttempts; attempt++ {
		url, err := h.images.GenerateImage(ctx, h.cfg.ImageModel, prompt, style)
		if err == nil {
			return url, nil
		}
		lastErr = err
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeContentPolicy) {
			break
		}
		lg := logger.GetLogger()
		lg.Warn().
			Err(err).
			Int("attempt", attempt).
			Msg("image generation failed")
		metrics.ImageRetriesTotal.Inc()
		if attempt < maxImageAttempts {
			h.sleep(time.Duration(attempt) * time.Second)
		}
	}
	return "", platformerrors.AsError(ctx, platformerrors.LayerHandler, lastErr, "image generation failed")
}

// describeImage asks for a short in-character description of the generated
// image. A description failure never fails the whole request.
func (h *ChatHandler) describeImage(ctx context.Context, request *persona.ChatRequest, prompt string) string {
	resp, err := h.completions.CreateCompletion(ctx, openai.ChatCompletionRequest{
		Model: h.cfg.CompletionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: persona.BuildSystemPrompt(request.Personality, request.Knowledge,
					request.Tone, nil, nil),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "In one short sentence, describe this image to the user: " + prompt,
			},
		},
		MaxTokens:   60,
		Temperature: 0.7,
	})
	if err != nil || len(resp.Choices) == 0 {
		lg := logger.GetLogger()
		lg.Warn().Err(err).Msg("image description completion failed")
		return "I generated an image based on your request."
	}
	h.recordUsage(ctx, request, resp)
	return resp.Choices[0].Message.Content
}

// handleTextRequest runs the text path: prompt assembly, token budgeting, one
// completion offering the full tool surface, then outcome dispatch.
func (h *ChatHandler) handleTextRequest(ctx context.Context, request *persona.ChatRequest) (*ChatResponse, error) {
	systemPrompt := persona.BuildSystemPrompt(request.Personality, request.Knowledge,
		request.Tone, request.CustomFunctions, request.Integrations)

	estimated := tokenusage.EstimateTokens(systemPrompt, request.Messages)
	if err := h.tokens.Authorize(ctx, request.UserID, estimated, request.TokensNeeded); err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeTokenLimit) {
			metrics.TokenDenialsTotal.Inc()
		}
		return nil, err
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(request.Messages)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range request.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	start := time.Now()
	resp, err := h.completions.CreateCompletion(ctx, openai.ChatCompletionRequest{
		Model:    h.cfg.CompletionModel,
		Messages: messages,
		Tools:    inference.BuildTools(request),
	})
	if err != nil {
		metrics.RecordProviderError("completion", "request")
		return nil, err
	}
	metrics.RecordCompletionDuration(h.cfg.CompletionModel, time.Since(start).Seconds())
	h.recordUsage(ctx, request, resp)

	outcome, err := inference.ParseOutcome(ctx, resp, request)
	if err != nil {
		return nil, err
	}

	switch outcome.Kind {
	case inference.OutcomeCustomFunction:
		return h.runCustomFunction(ctx, request, outcome.CustomFunction)
	case inference.OutcomeImageCall:
		return h.runInlineImage(ctx, request, outcome.Image)
	case inference.OutcomeIntegration:
		return h.runIntegration(ctx, request, outcome.Integration)
	default:
		return &ChatResponse{Message: outcome.Text}, nil
	}
}

// runCustomFunction prepares and executes a stored custom function. Execution
// failures come back to the user as a chat message rather than an HTTP error.
func (h *ChatHandler) runCustomFunction(ctx context.Context, request *persona.ChatRequest, call *inference.CustomFunctionCall) (*ChatResponse, error) {
	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler,
				platformerrors.ErrorTypeIntegration,
				fmt.Sprintf("malformed arguments for custom function %q", call.Name), err, "")
		}
	}

	if _, err := h.procedures.PrepareCustomFunctionContext(ctx, request.PersonaID, call.Name); err != nil {
		lg := logger.GetLogger()
		lg.Warn().Err(err).Str("function", call.Name).Msg("custom function preparation failed")
		return &ChatResponse{Message: fmt.Sprintf("The custom function %q is not available right now.", call.Name)}, nil
	}

	result, err := h.procedures.ExecuteCustomFunction(ctx, request.PersonaID, call.Name, args)
	if err != nil {
		lg := logger.GetLogger()
		lg.Warn().Err(err).Str("function", call.Name).Msg("custom function execution failed")
		return &ChatResponse{Message: fmt.Sprintf("The custom function %q failed to execute.", call.Name)}, nil
	}
	return &ChatResponse{Message: result}, nil
}

// runInlineImage serves a model-initiated generateImage call inside the text
// path.
func (h *ChatHandler) runInlineImage(ctx context.Context, request *persona.ChatRequest, call *inference.ImageCall) (*ChatResponse, error) {
	result := imagery.ValidatePrompt(call.Prompt)
	if !result.Valid {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeContentPolicy, result.Reason, nil, "")
	}

	imageURL, err := h.generateWithRetry(ctx, call.Prompt, call.Style)
	if err != nil {
		metrics.RecordImageOutcome("error")
		return nil, err
	}
	metrics.RecordImageOutcome("ok")

	description := h.describeImage(ctx, request, call.Prompt)
	return &ChatResponse{
		Message:  imagePreamble + description,
		ImageURL: imageURL,
	}, nil
}

func (h *ChatHandler) runIntegration(ctx context.Context, request *persona.ChatRequest, call *inference.IntegrationCall) (*ChatResponse, error) {
	integration := request.IntegrationByName(call.Name)
	if integration == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeIntegration,
			fmt.Sprintf("model requested unknown integration %q", call.Name), nil, "")
	}

	text, err := h.integrations.Call(ctx, integration, call.Args)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{Message: text}, nil
}

func (h *ChatHandler) recordUsage(ctx context.Context, request *persona.ChatRequest, resp *openai.ChatCompletionResponse) {
	if resp == nil || resp.Usage.TotalTokens == 0 {
		return
	}
	metrics.RecordTokens(h.cfg.CompletionModel, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	usage := &tokenusage.TokenUsage{
		UserID:           request.UserID,
		PersonaID:        request.PersonaID,
		Model:            h.cfg.CompletionModel,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if err := h.tokens.RecordUsage(ctx, usage); err != nil {
		lg := logger.GetLogger()
		lg.Warn().Err(err).Msg("failed to record token usage")
	}
}
