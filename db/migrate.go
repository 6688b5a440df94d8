package db

import (
	"fmt"
	"log"

	"github.com/bookline-app/bookline/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.Location{},
		&models.StaffMember{},
		&models.Service{},
		&models.DurationVariant{},
		&models.WeeklyAvailabilityRule{},
		&models.DateAvailabilityOverride{},
		&models.Booking{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// The database, not request-level re-checking, is what guarantees that
	// two non-cancelled bookings for one staff member never overlap.
	constraints := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap`,
		`ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (
				staff_id WITH =,
				tsrange(scheduled_at, scheduled_at + (duration * interval '1 minute')) WITH &&
			)
			WHERE (status != 'cancelled' AND deleted_at IS NULL)`,
	}
	for _, stmt := range constraints {
		if err := DB.Exec(stmt).Error; err != nil {
			log.Fatal("Failed to install booking overlap constraint: ", err)
		}
	}

	fmt.Println("✅ Migrations applied successfully!")
}
