// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces; the implementation lives in
// infrastructure/storage/postgres.
package tx

import (
	"context"
	"errors"
)

// Manager defines the contract for transaction management.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrNoManager is returned when no Manager was attached to the context.
var ErrNoManager = errors.New("transaction manager not found in context")

type managerKey struct{}

// WithManager attaches a Manager to the context (done by HTTP middleware and CLI wiring).
func WithManager(ctx context.Context, m Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, m)
}

// GetManager returns the Manager from context.
func GetManager(ctx context.Context) (Manager, error) {
	if m, ok := ctx.Value(managerKey{}).(Manager); ok && m != nil {
		return m, nil
	}
	return nil, ErrNoManager
}
