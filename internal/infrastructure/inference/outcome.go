package inference

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"persona-server/internal/domain/persona"
	"persona-server/internal/utils/platformerrors"
)

// GenerateImageFunction is the built-in function name always offered to the
// model alongside caller-supplied integrations and custom functions.
const GenerateImageFunction = "generateImage"

// OutcomeKind tags what the model decided to do with its turn.
type OutcomeKind string

const (
	OutcomeText           OutcomeKind = "text"
	OutcomeImageCall      OutcomeKind = "image_call"
	OutcomeIntegration    OutcomeKind = "integration_call"
	OutcomeCustomFunction OutcomeKind = "custom_function_call"
)

// ImageCall carries the arguments of a model-requested image generation.
type ImageCall struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
}

// IntegrationCall carries a model-requested integration invocation.
type IntegrationCall struct {
	Name string
	Args map[string]any
}

// CustomFunctionCall carries a model-requested custom-function execution.
type CustomFunctionCall struct {
	Name      string
	Arguments string
}

// Outcome is the tagged variant of a completion reply: exactly one branch is
// set, selected by Kind.
type Outcome struct {
	Kind           OutcomeKind
	Text           string
	Image          *ImageCall
	Integration    *IntegrationCall
	CustomFunction *CustomFunctionCall
}

// BuildTools assembles the function surface offered to the model: the
// built-in generateImage plus every caller-supplied integration and custom
// function.
func BuildTools(request *persona.ChatRequest) []openai.Tool {
	tools := make([]openai.Tool, 0, 1+len(request.Integrations)+len(request.CustomFunctions))

	tools = append(tools, openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        GenerateImageFunction,
			Description: "Generate an image from a text prompt when the user asks for a visual.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"prompt": map[string]any{
						"type":        "string",
						"description": "A vivid, detailed description of the image to generate.",
					},
					"style": map[string]any{
						"type":        "string",
						"description": "Optional visual style, e.g. vivid or natural.",
					},
				},
				"required": []string{"prompt"},
			},
		},
	})

	for _, integration := range request.Integrations {
		properties := make(map[string]any, len(integration.Parameters))
		for name, description := range integration.Parameters {
			properties[name] = map[string]any{
				"type":        "string",
				"description": description,
			}
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        integration.Name,
				Description: integration.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
				},
			},
		})
	}

	for _, fn := range request.CustomFunctions {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        fn.Name,
				Description: fn.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		})
	}

	return tools
}

// ParseOutcome classifies the model's reply against the declared surface.
// Lookup order: caller-supplied custom functions, the built-in generateImage,
// caller-supplied integrations.
func ParseOutcome(ctx context.Context, response *openai.ChatCompletionResponse, request *persona.ChatRequest) (*Outcome, error) {
	if response == nil || len(response.Choices) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream, "completion returned no choices", nil, "")
	}

	message := response.Choices[0].Message

	name, arguments := calledFunction(message)
	if name == "" {
		return &Outcome{Kind: OutcomeText, Text: message.Content}, nil
	}

	if fn := request.CustomFunctionByName(name); fn != nil {
		return &Outcome{
			Kind:           OutcomeCustomFunction,
			CustomFunction: &CustomFunctionCall{Name: name, Arguments: arguments},
		}, nil
	}

	if name == GenerateImageFunction {
		var call ImageCall
		if err := json.Unmarshal([]byte(arguments), &call); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeUpstream, "malformed generateImage arguments", err, "")
		}
		return &Outcome{Kind: OutcomeImageCall, Image: &call}, nil
	}

	if integration := request.IntegrationByName(name); integration != nil {
		args := map[string]any{}
		if arguments != "" {
			if err := json.Unmarshal([]byte(arguments), &args); err != nil {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
					platformerrors.ErrorTypeUpstream,
					fmt.Sprintf("malformed arguments for integration %q", name), err, "")
			}
		}
		return &Outcome{
			Kind:        OutcomeIntegration,
			Integration: &IntegrationCall{Name: name, Args: args},
		}, nil
	}

	return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeIntegration,
		fmt.Sprintf("model requested unknown function %q", name), nil, "")
}

func calledFunction(message openai.ChatCompletionMessage) (name, arguments string) {
	if len(message.ToolCalls) > 0 {
		call := message.ToolCalls[0]
		return call.Function.Name, call.Function.Arguments
	}
	if message.FunctionCall != nil {
		return message.FunctionCall.Name, message.FunctionCall.Arguments
	}
	return "", ""
}
