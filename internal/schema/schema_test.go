package schema

import (
	"testing"

	"tourbook/internal/shared/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "migrations are repeatable")

	for _, table := range []string{"users", "guide_profiles", "tours", "availability_slots", "bookings", "commission_payouts", "processed_payment_events"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
