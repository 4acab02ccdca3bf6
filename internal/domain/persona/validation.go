package persona

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"persona-server/internal/utils/platformerrors"
)

// identifierPattern matches persona and user identifiers: UUIDs or short
// url-safe slugs, 1-64 characters.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

var allowedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

// ValidIdentifier reports whether s is a well-formed persona/user identifier.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Validate checks the request shape. It returns a VALIDATION error naming the
// first offending field; no external call may be made before this passes.
func (r *ChatRequest) Validate(ctx context.Context) error {
	fail := func(msg string) error {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, msg, nil, "")
	}

	if len(r.Messages) == 0 {
		return fail("messages cannot be empty")
	}
	for i, msg := range r.Messages {
		switch msg.Role {
		case RoleUser, RoleAssistant, RoleSystem:
		default:
			return fail(fmt.Sprintf("messages[%d]: invalid role %q", i, msg.Role))
		}
		if strings.TrimSpace(msg.Content) == "" {
			return fail(fmt.Sprintf("messages[%d]: content cannot be blank", i))
		}
	}

	if !ValidIdentifier(r.PersonaID) {
		return fail("personaId is not a well-formed identifier")
	}
	if !ValidIdentifier(r.UserID) {
		return fail("userId is not a well-formed identifier")
	}

	if len(r.Personality) == 0 {
		return fail("personality cannot be empty")
	}
	for i, trait := range r.Personality {
		if strings.TrimSpace(trait) == "" {
			return fail(fmt.Sprintf("personality[%d] cannot be blank", i))
		}
	}

	if len(r.Knowledge) == 0 {
		return fail("knowledge cannot be empty")
	}
	for i, area := range r.Knowledge {
		if strings.TrimSpace(area) == "" {
			return fail(fmt.Sprintf("knowledge[%d] cannot be blank", i))
		}
	}

	if strings.TrimSpace(r.Tone) == "" {
		return fail("tone cannot be blank")
	}

	if r.TokensNeeded <= 0 {
		return fail("tokensNeeded must be a positive integer")
	}

	for i := range r.Integrations {
		if err := r.Integrations[i].validate(ctx, i); err != nil {
			return err
		}
	}

	for i, fn := range r.CustomFunctions {
		if strings.TrimSpace(fn.Name) == "" {
			return fail(fmt.Sprintf("customFunctions[%d]: name is required", i))
		}
	}

	return nil
}

func (in *Integration) validate(ctx context.Context, idx int) error {
	fail := func(field string) error {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("integrations[%d]: %s", idx, field), nil, "")
	}

	if strings.TrimSpace(in.Name) == "" {
		return fail("name is required")
	}
	if strings.TrimSpace(in.Endpoint) == "" {
		return fail("endpoint is required")
	}
	if _, err := url.ParseRequestURI(in.Endpoint); err != nil {
		return fail("endpoint is not a valid URL")
	}
	if !allowedMethods[strings.ToUpper(strings.TrimSpace(in.Method))] {
		return fail("method must be one of GET, POST, PUT, PATCH, DELETE")
	}
	if in.Headers == nil {
		return fail("headers are required")
	}
	if in.Parameters == nil {
		return fail("parameters are required")
	}
	return nil
}
