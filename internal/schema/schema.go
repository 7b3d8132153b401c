// Package schema owns the list of persisted models and brings a database
// up to date with them.
package schema

import (
	"fmt"

	"tourbook/internal/availability"
	"tourbook/internal/bookings"
	"tourbook/internal/guides"
	"tourbook/internal/payments"
	"tourbook/internal/payouts"
	"tourbook/internal/settings"
	"tourbook/internal/shared/database"
	"tourbook/internal/tours"
	"tourbook/internal/users"

	"gorm.io/gorm"
)

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&guides.GuideProfile{},
		&settings.PlatformSetting{},
		&tours.Tour{},
		&availability.Slot{},
		&payouts.CommissionPayout{},
		&bookings.Booking{},
		&payments.ProcessedPaymentEvent{},
	}
}

// Migrate runs AutoMigrate and then the database-level constraints
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := database.ApplyConstraints(db); err != nil {
		return fmt.Errorf("failed to apply constraints: %w", err)
	}
	return nil
}
