package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type note struct {
	ID   uint `gorm:"primaryKey"`
	Body string
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection to :memory: would see its own empty database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&note{}))
	return db
}

func TestFromEmptyContext(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)
}

func TestWithTxNilIsNoop(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	_, ok := From(ctx)
	assert.False(t, ok)
}

func TestRun(t *testing.T) {
	t.Run("commits on success and exposes tx in context", func(t *testing.T) {
		db := openDB(t)
		err := Run(context.Background(), db, func(ctx context.Context, tx *gorm.DB) error {
			got, ok := From(ctx)
			require.True(t, ok)
			assert.Same(t, tx, got)
			return tx.Create(&note{Body: "kept"}).Error
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&note{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := openDB(t)
		boom := errors.New("boom")
		err := Run(context.Background(), db, func(ctx context.Context, tx *gorm.DB) error {
			require.NoError(t, tx.Create(&note{Body: "dropped"}).Error)
			return boom
		})
		require.ErrorIs(t, err, boom)

		var count int64
		require.NoError(t, db.Model(&note{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("nested run rolls back with the outer transaction", func(t *testing.T) {
		db := openDB(t)
		boom := errors.New("outer failed")
		err := Run(context.Background(), db, func(ctx context.Context, _ *gorm.DB) error {
			inner := Run(ctx, db, func(_ context.Context, tx *gorm.DB) error {
				return tx.Create(&note{Body: "inner"}).Error
			})
			require.NoError(t, inner)
			return boom
		})
		require.ErrorIs(t, err, boom)

		var count int64
		require.NoError(t, db.Model(&note{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}
