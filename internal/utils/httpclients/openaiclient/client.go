package openaiclient

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"persona-server/internal/infrastructure/inference"
	"persona-server/internal/utils/platformerrors"
)

// Client speaks the OpenAI wire format against a configurable base URL. It
// covers the three capabilities this service needs: chat completions, image
// generation and speech synthesis.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
}

// apiError mirrors the provider's error envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func New(client *resty.Client, baseURL, apiKey string) *Client {
	return &Client{
		client:  client,
		baseURL: normalizeBaseURL(baseURL),
		apiKey:  apiKey,
	}
}

func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

func (c *Client) prepareRequest(ctx context.Context) (*resty.Request, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstreamAuth, "completion API credential is not configured", nil, "")
	}
	return c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.apiKey), nil
}

// CreateCompletion performs a non-streaming chat completion.
func (c *Client) CreateCompletion(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	req, err := c.prepareRequest(ctx)
	if err != nil {
		return nil, err
	}

	var respBody openai.ChatCompletionResponse
	var errBody apiError
	resp, err := req.
		SetBody(request).
		SetResult(&respBody).
		SetError(&errBody).
		Post(c.endpoint("/chat/completions"))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream, "completion request failed", err, "")
	}
	if resp.IsError() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream,
			fmt.Sprintf("completion provider returned %d: %s", resp.StatusCode(), errBody.Error.Message),
			nil, "")
	}
	return &respBody, nil
}

// GenerateImage asks the provider for one image and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, model, prompt, style string) (string, error) {
	req, err := c.prepareRequest(ctx)
	if err != nil {
		return "", err
	}

	body := openai.ImageRequest{
		Model:          model,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	}
	if style != "" {
		body.Style = style
	}

	var respBody openai.ImageResponse
	var errBody apiError
	resp, err := req.
		SetBody(body).
		SetResult(&respBody).
		SetError(&errBody).
		Post(c.endpoint("/images/generations"))
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream, "image generation request failed", err, "")
	}
	if resp.IsError() {
		if errBody.Error.Code == "content_policy_violation" || errBody.Error.Type == "invalid_request_error" {
			return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeContentPolicy,
				fmt.Sprintf("image provider rejected the prompt: %s", errBody.Error.Message),
				nil, "")
		}
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal,
			fmt.Sprintf("image provider returned %d: %s", resp.StatusCode(), errBody.Error.Message),
			nil, "")
	}
	if len(respBody.Data) == 0 || respBody.Data[0].URL == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal, "image provider returned no image", nil, "")
	}
	return respBody.Data[0].URL, nil
}

// Synthesize returns raw audio bytes for the given text.
func (c *Client) Synthesize(ctx context.Context, request inference.SpeechRequest) ([]byte, error) {
	req, err := c.prepareRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetBody(request).
		Post(c.endpoint("/audio/speech"))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream, "speech request failed", err, "")
	}

	if resp.IsError() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUpstream,
			fmt.Sprintf("speech provider returned %d", resp.StatusCode()), nil, "")
	}

	return resp.Bytes(), nil
}
