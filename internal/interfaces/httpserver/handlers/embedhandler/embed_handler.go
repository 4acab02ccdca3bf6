package embedhandler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"persona-server/internal/config"
	"persona-server/internal/domain/persona"
	"persona-server/internal/interfaces/httpserver/responses"
	"persona-server/internal/utils/platformerrors"
)

// EmbedResponse carries everything a site needs to embed the widget.
type EmbedResponse struct {
	Persona   *persona.Record `json:"persona"`
	EmbedCode string          `json:"embedCode"`
}

// EmbedHandler serves the widget embed snippet for a persona.
type EmbedHandler struct {
	personas persona.Repository
	cfg      *config.Config
}

func NewEmbedHandler(personas persona.Repository, cfg *config.Config) *EmbedHandler {
	return &EmbedHandler{personas: personas, cfg: cfg}
}

// Embed handles GET /v1/embed?personaId=.
func (h *EmbedHandler) Embed(reqCtx *gin.Context) {
	personaID := reqCtx.Query("personaId")
	if !persona.ValidIdentifier(personaID) {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "personaId is missing or malformed", "")
		return
	}

	record, err := h.personas.FindByPublicID(reqCtx.Request.Context(), personaID)
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to load persona")
		return
	}
	if record == nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeNotFound, "persona not found", "")
		return
	}

	embedCode := fmt.Sprintf(
		`<script src="%s/widget.js" data-persona-id="%s" async></script>`,
		h.cfg.WidgetBaseURL, record.PublicID,
	)

	reqCtx.JSON(200, EmbedResponse{
		Persona:   record,
		EmbedCode: embedCode,
	})
}
