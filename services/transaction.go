package services

import (
	"context"

	"github.com/upb/casting-agency/repositories"
)

// WithTransactionResult runs fn inside a transaction and returns its result.
// fn receives the transaction-bound context; repositories called with it
// share the transaction.
func WithTransactionResult[T any](ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := txMgr.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
