// Package tx threads a gorm transaction through a context.Context.
package tx

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx returns ctx carrying tx. A nil tx leaves ctx unchanged.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

func From(ctx context.Context) (*gorm.DB, bool) {
	db, ok := ctx.Value(txKey{}).(*gorm.DB)
	return db, ok
}

// Run executes fn inside a transaction. When ctx already carries one, fn joins
// it through a savepoint instead of opening a second connection-level
// transaction.
func Run(ctx context.Context, db *gorm.DB, fn func(ctx context.Context, tx *gorm.DB) error) error {
	if existing, ok := From(ctx); ok {
		db = existing
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx), tx)
	})
}
