package pos

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/controllers"
	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/models"
	"github.com/bookline-app/bookline/redis"
	"github.com/bookline-app/bookline/scheduling"
)

var engine *scheduling.Scheduler

// SetEngine wires the scheduling engine used by the POS data endpoints.
func SetEngine(e *scheduling.Scheduler) {
	engine = e
}

// GetAvailability is the POS terminal's slot feed. Unlike the storefront
// response it keeps the per-slot free staff ids, so the terminal can offer
// a staff pick without a second request.
func GetAvailability(c *fiber.Ctx) error {
	variantID := c.QueryInt("variant_id")
	locationID := c.QueryInt("location_id")
	date := c.Query("date", time.Now().Format("2006-01-02"))
	if variantID <= 0 || locationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "variant_id and location_id are required",
		})
	}

	query := scheduling.SlotQuery{
		VariantID:  uint(variantID),
		LocationID: uint(locationID),
		FromDate:   date,
		ToDate:     date,
	}
	if staffID := c.QueryInt("staff_id"); staffID > 0 {
		id := uint(staffID)
		query.StaffID = &id
	}

	slots, err := engine.AvailableSlots(c.Context(), query)
	if err != nil {
		fmt.Println("POS availability error:", err)
		return c.JSON(fiber.Map{"date": date, "slots": []scheduling.Slot{}})
	}
	return c.JSON(fiber.Map{
		"date":  date,
		"slots": slots[date],
	})
}

// GetDaySheet lists the day's bookings for the terminal, in start order
func GetDaySheet(c *fiber.Ctx) error {
	locationID := c.QueryInt("location_id")
	if locationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "location_id is required",
		})
	}
	date := c.Query("date", time.Now().Format("2006-01-02"))

	var location models.Location
	if err := db.DB.First(&location, locationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, use YYYY-MM-DD",
		})
	}
	next := day.AddDate(0, 0, 1)
	from := scheduling.LocalWallClockToUTC(day.Year(), day.Month(), day.Day(), 0, 0, location.Timezone)
	to := scheduling.LocalWallClockToUTC(next.Year(), next.Month(), next.Day(), 0, 0, location.Timezone)

	var bookings []models.Booking
	if err := db.DB.
		Preload("Staff").
		Preload("Variant.Service").
		Where("location_id = ? AND status != ?", locationID, models.StatusCancelled).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Order("scheduled_at asc").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"date":     date,
		"bookings": bookings,
	})
}

type createBookingBody struct {
	VariantID    uint   `json:"variant_id"`
	LocationID   uint   `json:"location_id"`
	StaffID      *uint  `json:"staff_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	CustomerName string `json:"customer_name"`
}

// CreateBooking books a walk-in from the terminal. POS bookings are
// confirmed immediately since the customer is standing there.
func CreateBooking(c *fiber.Ctx) error {
	var body createBookingBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"reason":  "invalid request body",
		})
	}

	booking, err := engine.Schedule(c.Context(), scheduling.BookingRequest{
		VariantID:    body.VariantID,
		LocationID:   body.LocationID,
		StaffID:      body.StaffID,
		Date:         body.Date,
		Time:         body.Time,
		CustomerName: body.CustomerName,
		Confirm:      true,
	})
	if err != nil {
		if errors.Is(err, scheduling.ErrSlotNoLongerAvailable) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"reason":  "slot_no_longer_available",
			})
		}
		if errors.Is(err, scheduling.ErrNoQualifiedStaff) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"reason":  "no_qualified_staff",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"reason":  "internal error",
		})
	}

	redis.BumpSlotsVersion(booking.LocationID)
	controllers.SendBookingEmails(booking)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}
