package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"persona-server/internal/domain/widget"
	"persona-server/internal/utils/platformerrors"
)

// ProcedureClient invokes the stored procedures that back the token ledger,
// widget sessions, and sandboxed custom-function execution.
type ProcedureClient struct {
	db *gorm.DB
}

func NewProcedureClient(db *gorm.DB) *ProcedureClient {
	return &ProcedureClient{db: db}
}

// CheckTokenUsage asks the ledger whether a user may spend tokensNeeded more
// tokens in the current billing period.
func (c *ProcedureClient) CheckTokenUsage(ctx context.Context, userID string, tokensNeeded int) (bool, error) {
	var allowed bool
	err := c.db.WithContext(ctx).
		Raw("SELECT persona.check_token_usage(?, ?)", userID, tokensNeeded).
		Scan(&allowed).Error
	if err != nil {
		return false, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to check token usage", err, "",
			map[string]any{"user_id": userID})
	}
	return allowed, nil
}

type widgetSessionRow struct {
	PublicID  string
	PersonaID string
	ExpiresAt time.Time
}

// ValidateWidgetSession resolves a widget session and rejects expired or
// unknown ones.
func (c *ProcedureClient) ValidateWidgetSession(ctx context.Context, sessionID string) (*widget.Session, error) {
	var row widgetSessionRow
	err := c.db.WithContext(ctx).
		Raw("SELECT public_id, persona_id, expires_at FROM persona.widget_sessions WHERE public_id = ? AND expires_at > now()", sessionID).
		Scan(&row).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to validate widget session", err, "")
	}
	if row.PublicID == "" {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeUnauthorized, "widget session is invalid or expired", nil, "",
			map[string]any{"session_id": sessionID})
	}
	return &widget.Session{
		PublicID:  row.PublicID,
		PersonaID: row.PersonaID,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// PrepareCustomFunctionContext loads the execution context a stored custom
// function needs before it can run.
func (c *ProcedureClient) PrepareCustomFunctionContext(ctx context.Context, personaID, functionName string) (string, error) {
	var prepared string
	err := c.db.WithContext(ctx).
		Raw("SELECT persona.prepare_custom_function_context(?, ?)", personaID, functionName).
		Scan(&prepared).Error
	if err != nil {
		return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeIntegration, "failed to prepare custom function context", err, "",
			map[string]any{"persona_id": personaID, "function": functionName})
	}
	if prepared == "" {
		return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeIntegration, "custom function is not defined for persona", nil, "",
			map[string]any{"persona_id": personaID, "function": functionName})
	}
	return prepared, nil
}

// ExecuteCustomFunction runs a stored custom function with the model-supplied
// arguments and returns its textual result.
func (c *ProcedureClient) ExecuteCustomFunction(ctx context.Context, personaID, functionName string, args map[string]any) (string, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeIntegration, "failed to encode custom function arguments", err, "")
	}

	var result string
	err = c.db.WithContext(ctx).
		Raw("SELECT persona.execute_custom_function(?, ?, ?::jsonb)", personaID, functionName, string(encoded)).
		Scan(&result).Error
	if err != nil {
		return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeIntegration, "failed to execute custom function", err, "",
			map[string]any{"persona_id": personaID, "function": functionName})
	}
	return result, nil
}

// IsRecordNotFound reports whether err is gorm's missing-row sentinel.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
