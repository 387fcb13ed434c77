// Package context carries request-scoped values across layer boundaries,
// currently the ambient database transaction.
package context

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const (
	TRANSACTION_KEY contextKey = "transaction"
)

// WithTransaction stashes a transaction in the context. Set by
// TransactionService.Execute so nested units of work and
// context-resolved reads join the same transaction.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, TRANSACTION_KEY, tx)
}

// GetTransaction returns the ambient transaction, if one is in flight.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(TRANSACTION_KEY).(*gorm.DB)
	return tx, ok
}
