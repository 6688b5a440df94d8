package storefront

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/controllers"
	"github.com/bookline-app/bookline/redis"
	"github.com/bookline-app/bookline/scheduling"
)

var engine *scheduling.Scheduler

// SetEngine wires the scheduling engine used by the storefront widget
// endpoints.
func SetEngine(e *scheduling.Scheduler) {
	engine = e
}

// GetAvailability returns the bookable start times for a duration variant
// at a location over a date range, as { "slots": { date: ["HH:MM", ...] } }.
// Responses are cached briefly in Redis; the cache key embeds the
// location's slot version so booking mutations invalidate it. Internal
// failures degrade to an empty slot map rather than an error, so the
// widget just shows "no availability".
func GetAvailability(c *fiber.Ctx) error {
	variantID := c.QueryInt("variant_id")
	locationID := c.QueryInt("location_id")
	from := c.Query("from")
	to := c.Query("to", from)
	if variantID <= 0 || locationID <= 0 || from == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "variant_id, location_id and from are required",
		})
	}

	query := scheduling.SlotQuery{
		VariantID:  uint(variantID),
		LocationID: uint(locationID),
		FromDate:   from,
		ToDate:     to,
	}
	staffID := c.QueryInt("staff_id")
	if staffID > 0 {
		id := uint(staffID)
		query.StaffID = &id
	}

	cacheKey := fmt.Sprintf("slots:%d:%d:%d:%d:%s:%s",
		redis.SlotsVersion(query.LocationID), query.LocationID, query.VariantID, staffID, from, to)
	if cached, ok := redis.GetCachedSlots(cacheKey); ok {
		c.Set("Content-Type", "application/json")
		return c.SendString(cached)
	}

	slots, err := engine.AvailableSlots(c.Context(), query)
	if err != nil {
		fmt.Println("Availability error:", err)
		return c.JSON(fiber.Map{"slots": map[string][]string{}})
	}

	// The widget only needs the times, not the free-staff bookkeeping.
	times := make(map[string][]string, len(slots))
	for date, daySlots := range slots {
		list := make([]string, 0, len(daySlots))
		for _, slot := range daySlots {
			list = append(list, slot.Time)
		}
		times[date] = list
	}

	body, err := json.Marshal(fiber.Map{"slots": times})
	if err != nil {
		return c.JSON(fiber.Map{"slots": times})
	}
	redis.SetCachedSlots(cacheKey, string(body))
	c.Set("Content-Type", "application/json")
	return c.Send(body)
}

type createBookingBody struct {
	VariantID     uint   `json:"variant_id"`
	LocationID    uint   `json:"location_id"`
	StaffID       *uint  `json:"staff_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	CustomerID    *uint  `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// CreateBooking books a slot from the storefront widget. The engine
// re-validates against fresh data before persisting; a conflict comes back
// as 409 slot_no_longer_available, prompting the widget to re-query.
func CreateBooking(c *fiber.Ctx) error {
	var body createBookingBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"reason":  "invalid request body",
		})
	}
	if body.CustomerName == "" && body.CustomerID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"reason":  "customer identity is required",
		})
	}

	booking, err := engine.Schedule(c.Context(), scheduling.BookingRequest{
		VariantID:     body.VariantID,
		LocationID:    body.LocationID,
		StaffID:       body.StaffID,
		Date:          body.Date,
		Time:          body.Time,
		CustomerID:    body.CustomerID,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
	})
	if err != nil {
		return storefrontScheduleError(c, err)
	}

	redis.BumpSlotsVersion(booking.LocationID)
	controllers.SendBookingEmails(booking)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

func storefrontScheduleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scheduling.ErrSlotNoLongerAvailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"reason":  "slot_no_longer_available",
		})
	case errors.Is(err, scheduling.ErrNoQualifiedStaff):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"reason":  "no_qualified_staff",
		})
	case errors.Is(err, scheduling.ErrInvalidTimeFormat), errors.Is(err, scheduling.ErrOutOfRange):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"reason":  "invalid date or time",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"reason":  "internal error",
		})
	}
}
