package chat

import (
	"persona-server/internal/domain/persona"
)

// MessageInput is one conversation turn.
type MessageInput struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// IntegrationInput describes an external HTTP integration the persona may call.
type IntegrationInput struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description,omitempty"`
	Endpoint    string            `json:"endpoint" binding:"required"`
	Method      string            `json:"method" binding:"required"`
	Headers     map[string]string `json:"headers,omitempty"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}

// CustomFunctionInput references a stored custom function.
type CustomFunctionInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	CodeRef     string `json:"codeRef,omitempty"`
}

// ChatRequest is the full persona chat payload.
type ChatRequest struct {
	Messages        []MessageInput        `json:"messages" binding:"required"`
	PersonaID       string                `json:"personaId" binding:"required"`
	UserID          string                `json:"userId" binding:"required"`
	Personality     []string              `json:"personality" binding:"required"`
	Knowledge       []string              `json:"knowledge" binding:"required"`
	Tone            string                `json:"tone" binding:"required"`
	CustomFunctions []CustomFunctionInput `json:"customFunctions,omitempty"`
	Integrations    []IntegrationInput    `json:"integrations,omitempty"`
	TokensNeeded    int                   `json:"tokensNeeded" binding:"required,gt=0"`
}

// ToDomain converts the payload into the domain chat request.
func (r *ChatRequest) ToDomain() *persona.ChatRequest {
	req := &persona.ChatRequest{
		PersonaID:    r.PersonaID,
		UserID:       r.UserID,
		Personality:  r.Personality,
		Knowledge:    r.Knowledge,
		Tone:         r.Tone,
		TokensNeeded: r.TokensNeeded,
	}
	for _, m := range r.Messages {
		req.Messages = append(req.Messages, persona.Message{Role: m.Role, Content: m.Content})
	}
	for _, f := range r.CustomFunctions {
		req.CustomFunctions = append(req.CustomFunctions, persona.CustomFunction{
			Name:        f.Name,
			Description: f.Description,
			CodeRef:     f.CodeRef,
		})
	}
	for _, in := range r.Integrations {
		req.Integrations = append(req.Integrations, persona.Integration{
			Name:        in.Name,
			Description: in.Description,
			Endpoint:    in.Endpoint,
			Method:      in.Method,
			Headers:     in.Headers,
			Parameters:  in.Parameters,
		})
	}
	return req
}
