package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bookline-app/bookline/models"
	"github.com/bookline-app/bookline/scheduling"
)

// Gorm backs scheduling.Store with the Postgres database.
type Gorm struct {
	DB *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{DB: db}
}

func (s *Gorm) ActiveStaff(ctx context.Context) ([]models.StaffMember, error) {
	var staff []models.StaffMember
	err := s.DB.WithContext(ctx).Where("is_active = ?", true).Find(&staff).Error
	return staff, err
}

func (s *Gorm) LocationByID(ctx context.Context, id uint) (models.Location, error) {
	var location models.Location
	err := s.DB.WithContext(ctx).First(&location, id).Error
	return location, err
}

func (s *Gorm) VariantByID(ctx context.Context, id uint) (models.DurationVariant, error) {
	var variant models.DurationVariant
	err := s.DB.WithContext(ctx).Preload("Service").First(&variant, id).Error
	return variant, err
}

func (s *Gorm) WeeklyRules(ctx context.Context, staffIDs []uint) ([]models.WeeklyAvailabilityRule, error) {
	var rules []models.WeeklyAvailabilityRule
	err := s.DB.WithContext(ctx).Where("staff_id IN ?", staffIDs).Find(&rules).Error
	return rules, err
}

func (s *Gorm) DateOverrides(ctx context.Context, staffIDs []uint, fromDate, toDate string) ([]models.DateAvailabilityOverride, error) {
	var overrides []models.DateAvailabilityOverride
	err := s.DB.WithContext(ctx).
		Where("staff_id IN ? AND date >= ? AND date <= ?", staffIDs, fromDate, toDate).
		Find(&overrides).Error
	return overrides, err
}

func (s *Gorm) ActiveBookings(ctx context.Context, staffIDs []uint, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.WithContext(ctx).
		Where("staff_id IN ? AND status != ?", staffIDs, models.StatusCancelled).
		Where("scheduled_at < ? AND scheduled_at + (duration * interval '1 minute') > ?", to, from).
		Find(&bookings).Error
	return bookings, err
}

// CreateBooking inserts the booking inside a transaction that first locks
// any overlapping rows for the same staff member. The btree_gist exclusion
// constraint installed by db.Migrate is the real atomicity guarantee; the
// locked probe narrows the race window and gives a cleaner error in the
// common case.
func (s *Gorm) CreateBooking(ctx context.Context, booking *models.Booking) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conflicting models.Booking
		probe := tx.Raw(`
			SELECT *
			FROM bookings
			WHERE staff_id = ?
			  AND status != ?
			  AND deleted_at IS NULL
			  AND scheduled_at < ?
			  AND scheduled_at + (duration * interval '1 minute') > ?
			FOR UPDATE
			LIMIT 1
		`, booking.StaffID, models.StatusCancelled, booking.EndsAt(), booking.ScheduledAt).
			Scan(&conflicting)
		if probe.Error != nil {
			return probe.Error
		}
		if conflicting.ID != 0 {
			return scheduling.ErrSlotTaken
		}
		return tx.Create(booking).Error
	})
	if err != nil && isExclusionViolation(err) {
		return fmt.Errorf("%w: %v", scheduling.ErrSlotTaken, err)
	}
	return err
}

func isExclusionViolation(err error) bool {
	// 23P01 exclusion_violation, raised by the bookings_no_overlap constraint.
	return strings.Contains(err.Error(), "23P01") ||
		strings.Contains(err.Error(), "bookings_no_overlap")
}
