package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/models"
)

// GetDashboardOverview returns booking counts for the admin home screen
func GetDashboardOverview(c *fiber.Ctx) error {
	var statistics struct {
		TotalBookings  int64     `json:"total_bookings"`
		PendingCount   int64     `json:"pending_count"`
		ConfirmedCount int64     `json:"confirmed_count"`
		CompletedCount int64     `json:"completed_count"`
		CancelledCount int64     `json:"cancelled_count"`
		UpcomingWeek   int64     `json:"upcoming_week"`
		ActiveStaff    int64     `json:"active_staff"`
		TotalServices  int64     `json:"total_services"`
		LastUpdated    time.Time `json:"last_updated"`
	}

	// Each count needs its own query: reusing one chained *gorm.DB would
	// accumulate the status conditions across counts.
	locationID := c.Query("location_id")
	bookings := func() *gorm.DB {
		q := db.DB.Model(&models.Booking{})
		if locationID != "" {
			q = q.Where("location_id = ?", locationID)
		}
		return q
	}

	bookings().Count(&statistics.TotalBookings)
	bookings().Where("status = ?", models.StatusPending).Count(&statistics.PendingCount)
	bookings().Where("status = ?", models.StatusConfirmed).Count(&statistics.ConfirmedCount)
	bookings().Where("status = ?", models.StatusCompleted).Count(&statistics.CompletedCount)
	bookings().Where("status = ?", models.StatusCancelled).Count(&statistics.CancelledCount)

	now := time.Now()
	bookings().
		Where("status IN ?", []models.BookingStatus{models.StatusPending, models.StatusConfirmed}).
		Where("scheduled_at >= ? AND scheduled_at < ?", now, now.AddDate(0, 0, 7)).
		Count(&statistics.UpcomingWeek)

	db.DB.Model(&models.StaffMember{}).Where("is_active = ?", true).Count(&statistics.ActiveStaff)
	db.DB.Model(&models.Service{}).Count(&statistics.TotalServices)
	statistics.LastUpdated = now

	return c.JSON(statistics)
}
