package tokenusage

import (
	"context"
	"fmt"

	"persona-server/internal/domain/persona"
	"persona-server/internal/utils/platformerrors"
)

// RequestTokenCeiling caps the estimated size of any single completion call.
const RequestTokenCeiling = 6000

// Service provides token budget enforcement and usage recording.
type Service struct {
	repo    Repository
	checker BudgetChecker
}

// NewService creates a new token usage service
func NewService(repo Repository, checker BudgetChecker) *Service {
	return &Service{repo: repo, checker: checker}
}

// EstimateTokens approximates the token footprint of a conversation plus its
// system prompt. Four characters per token is the provider's own rule of thumb.
func EstimateTokens(systemPrompt string, messages []persona.Message) int {
	chars := len(systemPrompt)
	for _, msg := range messages {
		chars += len(msg.Content)
	}
	return chars/4 + len(messages)*4
}

// Authorize rejects requests whose estimate exceeds the per-request ceiling,
// then consults the external ledger. A denial and a ledger failure are
// distinct error kinds.
func (s *Service) Authorize(ctx context.Context, userID string, estimated, tokensNeeded int) error {
	if estimated > RequestTokenCeiling {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeTokenLimit,
			fmt.Sprintf("request estimate %d exceeds the per-request ceiling of %d tokens", estimated, RequestTokenCeiling),
			nil, "")
	}

	allowed, err := s.checker.CheckTokenUsage(ctx, userID, tokensNeeded)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "failed to check token usage", err, "")
	}
	if !allowed {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeTokenLimit, "token limit exceeded for user", nil, "")
	}
	return nil
}

// RecordUsage records a new token usage event
func (s *Service) RecordUsage(ctx context.Context, usage *TokenUsage) error {
	if usage.EstimatedCostUSD.IsZero() {
		usage.EstimatedCostUSD = CalculateCost(usage.Model, usage.PromptTokens, usage.CompletionTokens)
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	return s.repo.Create(ctx, usage)
}
