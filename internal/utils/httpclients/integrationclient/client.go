package integrationclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resty.dev/v3"

	"persona-server/internal/domain/persona"
	"persona-server/internal/utils/platformerrors"
)

// Client dispatches model-requested integration calls to the caller-declared
// HTTP endpoint with its configured method, headers and parameters.
type Client struct {
	client *resty.Client
}

func New(client *resty.Client) *Client {
	return &Client{client: client}
}

// Call performs the integration's HTTP request and returns the response's
// "message" field when the body is a JSON object carrying one, otherwise the
// raw body as text.
func (c *Client) Call(ctx context.Context, integration *persona.Integration, args map[string]any) (string, error) {
	method := strings.ToUpper(strings.TrimSpace(integration.Method))

	req := c.client.R().
		SetContext(ctx).
		SetHeaders(integration.Headers)

	var resp *resty.Response
	var err error
	switch method {
	case http.MethodGet, http.MethodDelete:
		params := make(map[string]string, len(args))
		for name, value := range args {
			params[name] = fmt.Sprintf("%v", value)
		}
		resp, err = req.SetQueryParams(params).Execute(method, integration.Endpoint)
	default:
		resp, err = req.
			SetHeader("Content-Type", "application/json").
			SetBody(args).
			Execute(method, integration.Endpoint)
	}
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeIntegration,
			fmt.Sprintf("failed to call integration %q", integration.Name), err, "")
	}
	if resp.IsError() {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeIntegration,
			fmt.Sprintf("integration %q returned %d", integration.Name, resp.StatusCode()), nil, "")
	}

	body := resp.Bytes()

	var payload map[string]any
	if jsonErr := json.Unmarshal(body, &payload); jsonErr == nil {
		if message, ok := payload["message"].(string); ok && message != "" {
			return message, nil
		}
	}
	return string(body), nil
}
