package widgetchat

// WidgetChatRequest is one chat turn from the embedded widget.
type WidgetChatRequest struct {
	Message   string `json:"message" binding:"required"`
	PersonaID string `json:"personaId" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
}
