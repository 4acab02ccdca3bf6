package speech

// SpeechRequest asks for spoken audio of a piece of text.
type SpeechRequest struct {
	Text  string  `json:"text" binding:"required"`
	Voice string  `json:"voice,omitempty"`
	Speed float64 `json:"speed,omitempty" binding:"omitempty,gte=0.25,lte=4"`
	// Pitch is accepted for callers that persist voice settings, but the
	// speech provider has no pitch control, so it is not forwarded.
	Pitch float64 `json:"pitch,omitempty"`
}
