package widgethandler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"

	"persona-server/internal/config"
	"persona-server/internal/domain/persona"
	"persona-server/internal/domain/widget"
	"persona-server/internal/infrastructure/inference"
	"persona-server/internal/infrastructure/logger"
	"persona-server/internal/infrastructure/metrics"
	"persona-server/internal/interfaces/httpserver/requests/widgetchat"
	"persona-server/internal/interfaces/httpserver/responses"
	"persona-server/internal/utils/platformerrors"
)

// historyWindow caps how many stored turns are replayed into the prompt.
const historyWindow = 20

// SessionValidator resolves and checks widget sessions.
type SessionValidator interface {
	ValidateWidgetSession(ctx context.Context, sessionID string) (*widget.Session, error)
}

// WidgetResponse is the widget chat reply envelope.
type WidgetResponse struct {
	Message string `json:"message"`
}

// WidgetHandler serves the embedded chat widget: session-scoped chat backed
// by a stored persona configuration and persisted message history.
type WidgetHandler struct {
	completions inference.CompletionService
	sessions    SessionValidator
	personas    persona.Repository
	messages    widget.Repository
	cfg         *config.Config
}

func NewWidgetHandler(
	completions inference.CompletionService,
	sessions SessionValidator,
	personas persona.Repository,
	messages widget.Repository,
	cfg *config.Config,
) *WidgetHandler {
	return &WidgetHandler{
		completions: completions,
		sessions:    sessions,
		personas:    personas,
		messages:    messages,
		cfg:         cfg,
	}
}

// Chat handles POST /v1/widget/chat.
func (h *WidgetHandler) Chat(reqCtx *gin.Context) {
	var payload widgetchat.WidgetChatRequest
	if err := reqCtx.ShouldBindJSON(&payload); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid widget chat request: "+err.Error(), "")
		return
	}

	ctx := reqCtx.Request.Context()
	response, err := h.handle(ctx, &payload)
	if err != nil {
		responses.HandleError(reqCtx, err, "widget chat failed")
		return
	}
	reqCtx.JSON(200, response)
}

func (h *WidgetHandler) handle(ctx context.Context, payload *widgetchat.WidgetChatRequest) (*WidgetResponse, error) {
	session, err := h.sessions.ValidateWidgetSession(ctx, payload.SessionID)
	if err != nil {
		return nil, err
	}
	if session.PersonaID != payload.PersonaID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeForbidden, "session does not belong to this persona", nil, "")
	}

	record, err := h.personas.FindByPublicID(ctx, payload.PersonaID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeNotFound, "persona not found", nil, "")
	}

	history, err := h.messages.RecentMessages(ctx, session.PublicID, historyWindow)
	if err != nil {
		return nil, err
	}

	if err := h.messages.InsertMessage(ctx, &widget.Message{
		SessionID: session.PublicID,
		Role:      persona.RoleUser,
		Content:   payload.Message,
	}); err != nil {
		return nil, err
	}
	metrics.RecordWidgetMessage(persona.RoleUser)

	systemPrompt := persona.BuildSystemPrompt(record.Personality, record.Knowledge, record.Tone, nil, nil)
	if record.Instructions != "" {
		systemPrompt = fmt.Sprintf("%s\n\nAdditional instructions: %s", systemPrompt, record.Instructions)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: payload.Message,
	})

	resp, err := h.completions.CreateCompletion(ctx, openai.ChatCompletionRequest{
		Model:    h.cfg.CompletionModel,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler,
			platformerrors.ErrorTypeUpstream, "completion returned no choices", nil, "")
	}
	reply := resp.Choices[0].Message.Content

	if err := h.messages.InsertMessage(ctx, &widget.Message{
		SessionID: session.PublicID,
		Role:      persona.RoleAssistant,
		Content:   reply,
	}); err != nil {
		// The user already has their answer; losing one history row is logged,
		// not surfaced.
		lg := logger.GetLogger()
		lg.Warn().Err(err).Str("session_id", session.PublicID).
			Msg("failed to persist assistant message")
	} else {
		metrics.RecordWidgetMessage(persona.RoleAssistant)
	}

	return &WidgetResponse{Message: reply}, nil
}
