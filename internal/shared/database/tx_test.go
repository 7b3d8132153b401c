package database

import (
	"context"
	"errors"
	"testing"

	"tourbook/internal/shared/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	ID    uint `gorm:"primaryKey"`
	Value int
}

func TestWithinTransaction_CommitsAndRollsBack(t *testing.T) {
	db := testutil.NewSQLiteDB(t, &counter{})
	tx := NewTransactor(db)
	ctx := context.Background()

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return Conn(ctx, db).Create(&counter{Value: 1}).Error
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := Conn(ctx, db).Create(&counter{Value: 2}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&counter{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWithinTransaction_NestedJoinsOuter(t *testing.T) {
	db := testutil.NewSQLiteDB(t, &counter{})
	tx := NewTransactor(db)

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		outer := Conn(ctx, db)
		return tx.WithinTransaction(ctx, func(inner context.Context) error {
			assert.Same(t, outer, Conn(inner, db))
			return Conn(inner, db).Create(&counter{Value: 3}).Error
		})
	})
	require.NoError(t, err)
}

func TestApplyConstraints_SkipsNonPostgres(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	assert.NoError(t, ApplyConstraints(db))
}

func TestHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	db := &DB{
		PostgreSQL: testutil.NewSQLiteDB(t),
		Redis:      redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
	t.Cleanup(func() { _ = db.Redis.Close() })

	require.NoError(t, db.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, db.HealthCheck(context.Background()))
}
