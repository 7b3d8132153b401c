package settings

import (
	"context"
	"testing"

	"tourbook/internal/pricing"
	"tourbook/internal/shared/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	db := testutil.NewSQLiteDB(t, &PlatformSetting{})
	return NewService(NewRepository(db), 10)
}

func TestCommissionRate_DefaultsWhenUnset(t *testing.T) {
	svc := newTestService(t)

	rate, err := svc.CommissionRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, rate)

	resp, err := svc.GetCommission(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
}

func TestSetCommission_ReadFreshOnNextCall(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetCommission(ctx, 12.5)
	require.NoError(t, err)
	rate, err := svc.CommissionRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.5, rate)

	_, err = svc.SetCommission(ctx, 15)
	require.NoError(t, err)
	rate, err = svc.CommissionRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15.0, rate)
}

func TestSetCommission_RejectsOutOfRange(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SetCommission(context.Background(), 101)
	assert.ErrorIs(t, err, pricing.ErrInvalidCommissionRate)
}
