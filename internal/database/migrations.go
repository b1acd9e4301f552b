package database

import (
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.Booking{},
		&models.AdditionalService{},
		&models.CalendarEvent{},
		&models.Media{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.ServiceOrder{},
	)
	if err != nil {
		return err
	}

	// Update users table
	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS role text DEFAULT 'user'",
			"ADD COLUMN IF NOT EXISTS kyc_status text DEFAULT 'pending'",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('user', 'vendor', 'admin', 'service_provider'))`)
	}

	// One calendar slot per venue and date. Two concurrent bookings for
	// the same date hit a constraint error instead of double-booking.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_calendar_venue_date ON calendar_events (venue_id, date)`).Error; err != nil {
		return err
	}

	return nil
}
