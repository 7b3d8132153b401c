package database

import (
	"gorm.io/gorm"
)

// ApplyConstraints adds the checks that back capacity and payment
// reconciliation. Only PostgreSQL gets them; SQLite test databases rely on
// the conditional updates alone.
func ApplyConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	statements := []string{
		// capacity can never be oversold, whatever path writes booked_spots
		`DO $$ BEGIN
			ALTER TABLE availability_slots
			ADD CONSTRAINT chk_slots_booked_within_capacity
			CHECK (booked_spots >= 0 AND booked_spots <= available_spots);
		EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,

		`DO $$ BEGIN
			ALTER TABLE bookings
			ADD CONSTRAINT chk_bookings_guests_positive
			CHECK (guests >= 1);
		EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_guide_status
		ON bookings (guide_id, status);`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_payout_candidates
		ON bookings (guide_id, completed_at)
		WHERE status = 'completed' AND payout_id IS NULL;`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
