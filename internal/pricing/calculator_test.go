package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Example(t *testing.T) {
	q, err := Calculate(100, 2, 12, 10)
	require.NoError(t, err)

	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, 20.0, q.CommissionAmount)
	assert.Equal(t, 180.0, q.GuideEarnings)
	assert.Equal(t, 200.0, q.TotalPrice)
	assert.Equal(t, 10.0, q.CommissionRate)
}

func TestCalculate_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice float64
		guests    int
		maxGroup  int
		rate      float64
		wantErr   error
	}{
		{"zero guests", 50, 0, 10, 10, ErrInvalidGuests},
		{"negative guests", 50, -1, 10, 10, ErrInvalidGuests},
		{"over group size", 50, 11, 10, 10, ErrGroupSizeExceeded},
		{"zero price", 0, 1, 10, 10, ErrInvalidUnitPrice},
		{"negative price", -5, 1, 10, 10, ErrInvalidUnitPrice},
		{"negative rate", 50, 1, 10, -1, ErrInvalidCommissionRate},
		{"rate over 100", 50, 1, 10, 100.5, ErrInvalidCommissionRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.unitPrice, tt.guests, tt.maxGroup, tt.rate)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalculate_BoundaryRates(t *testing.T) {
	q, err := Calculate(33.33, 3, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, q.CommissionAmount)
	assert.Equal(t, q.Subtotal, q.GuideEarnings)

	q, err = Calculate(33.33, 3, 3, 100)
	require.NoError(t, err)
	assert.Equal(t, q.Subtotal, q.CommissionAmount)
	assert.Equal(t, 0.0, q.GuideEarnings)
}

func TestCalculate_SharesSumToSubtotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		unitPrice := RoundCents(0.01 + rng.Float64()*999)
		maxGroup := 1 + rng.Intn(30)
		guests := 1 + rng.Intn(maxGroup)
		rate := RoundCents(rng.Float64() * 100)

		q, err := Calculate(unitPrice, guests, maxGroup, rate)
		require.NoError(t, err)

		assert.InDelta(t, q.Subtotal, q.CommissionAmount+q.GuideEarnings, 1e-9)
		assert.InDelta(t, unitPrice*float64(guests), q.Subtotal, 0.005+1e-9)
		assert.Equal(t, q.Subtotal, q.TotalPrice)
		assert.GreaterOrEqual(t, q.GuideEarnings, 0.0)
	}
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(20000), ToMinorUnits(200))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
}
