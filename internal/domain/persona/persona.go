package persona

// Message is a single turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Integration is a caller-declared external HTTP endpoint the completion step
// may invoke by name.
type Integration struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Headers     map[string]string `json:"headers"`
	Parameters  map[string]string `json:"parameters"`
}

// CustomFunction is a caller-declared, externally stored executable. The code
// itself never runs in-process; CodeRef is handed to the database procedure.
type CustomFunction struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CodeRef     string `json:"codeRef"`
}

// ChatRequest is one inbound chat turn with the persona configuration it
// should be answered under. Constructed per request, never persisted.
type ChatRequest struct {
	Messages        []Message        `json:"messages"`
	PersonaID       string           `json:"personaId"`
	UserID          string           `json:"userId"`
	Personality     []string         `json:"personality"`
	Knowledge       []string         `json:"knowledge"`
	Tone            string           `json:"tone"`
	CustomFunctions []CustomFunction `json:"customFunctions,omitempty"`
	Integrations    []Integration    `json:"integrations,omitempty"`
	TokensNeeded    int              `json:"tokensNeeded"`
}

// LatestMessage returns the last message of the conversation, or nil when the
// sequence is empty.
func (r *ChatRequest) LatestMessage() *Message {
	if len(r.Messages) == 0 {
		return nil
	}
	return &r.Messages[len(r.Messages)-1]
}

// CustomFunctionByName looks up a caller-supplied custom function.
func (r *ChatRequest) CustomFunctionByName(name string) *CustomFunction {
	for i := range r.CustomFunctions {
		if r.CustomFunctions[i].Name == name {
			return &r.CustomFunctions[i]
		}
	}
	return nil
}

// IntegrationByName looks up a caller-supplied integration.
func (r *ChatRequest) IntegrationByName(name string) *Integration {
	for i := range r.Integrations {
		if r.Integrations[i].Name == name {
			return &r.Integrations[i]
		}
	}
	return nil
}
