package tokenusage

import "context"

// Repository defines the interface for token usage data access
type Repository interface {
	// Create stores a new token usage record
	Create(ctx context.Context, usage *TokenUsage) error
}

// BudgetChecker asks the external ledger whether a user may spend the given
// number of tokens. The ledger's atomicity is its own concern.
type BudgetChecker interface {
	CheckTokenUsage(ctx context.Context, userID string, tokensNeeded int) (bool, error)
}
