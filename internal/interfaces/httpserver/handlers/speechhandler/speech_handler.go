package speechhandler

import (
	"github.com/gin-gonic/gin"

	"persona-server/internal/config"
	"persona-server/internal/infrastructure/inference"
	speechrequests "persona-server/internal/interfaces/httpserver/requests/speech"
	"persona-server/internal/interfaces/httpserver/responses"
	"persona-server/internal/utils/platformerrors"
	"persona-server/internal/utils/stringutils"
)

const defaultVoice = "alloy"

// SpeechHandler relays persona replies to the speech provider as plain
// prose and streams the audio back.
type SpeechHandler struct {
	speech inference.SpeechService
	cfg    *config.Config
}

func NewSpeechHandler(speech inference.SpeechService, cfg *config.Config) *SpeechHandler {
	return &SpeechHandler{speech: speech, cfg: cfg}
}

// Synthesize handles POST /v1/speech.
func (h *SpeechHandler) Synthesize(reqCtx *gin.Context) {
	var payload speechrequests.SpeechRequest
	if err := reqCtx.ShouldBindJSON(&payload); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid speech request: "+err.Error(), "")
		return
	}

	text := stringutils.StripMarkdown(payload.Text)
	if text == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "text contains nothing to speak", "")
		return
	}

	voice := payload.Voice
	if voice == "" {
		voice = defaultVoice
	}

	audio, err := h.speech.Synthesize(reqCtx.Request.Context(), inference.SpeechRequest{
		Model: h.cfg.SpeechModel,
		Input: text,
		Voice: voice,
		Speed: payload.Speed,
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "speech synthesis failed")
		return
	}

	reqCtx.Data(200, "audio/mpeg", audio)
}
