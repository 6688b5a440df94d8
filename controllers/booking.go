package controllers

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/models"
	"github.com/bookline-app/bookline/redis"
	"github.com/bookline-app/bookline/scheduling"
	"github.com/bookline-app/bookline/utils"
)

// GetAllBookings lists bookings for the admin calendar, filtered the same
// way the dashboard filters: today, tomorrow, week or month.
func GetAllBookings(c *fiber.Ctx) error {
	now := time.Now()
	startDate := now
	endDate := now.AddDate(0, 1, 0)

	dateFilter := c.Query("filter", "month")
	switch dateFilter {
	case "today":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = startDate.AddDate(0, 0, 1)
	case "tomorrow":
		tomorrow := now.AddDate(0, 0, 1)
		startDate = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, now.Location())
		endDate = startDate.AddDate(0, 0, 1)
	case "week":
		endDate = now.AddDate(0, 0, 7)
	case "month":
		endDate = now.AddDate(0, 1, 0)
	case "all":
		startDate = time.Time{}
		endDate = now.AddDate(10, 0, 0)
	}

	query := db.DB.
		Preload("Staff").
		Preload("Variant.Service").
		Preload("Location").
		Where("scheduled_at >= ? AND scheduled_at < ?", startDate, endDate)

	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if locationID := c.Query("location_id"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("scheduled_at asc").Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
		"count":    len(bookings),
		"filter":   dateFilter,
	})
}

func GetBooking(c *fiber.Ctx) error {
	id := c.Params("id")
	var booking models.Booking
	if err := db.DB.Preload("Staff").Preload("Variant.Service").Preload("Location").
		First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(booking)
}

// GetCalendarSlots is the admin calendar's availability feed. It goes
// through the same engine as the storefront and POS so the three surfaces
// can never drift apart.
func GetCalendarSlots(c *fiber.Ctx) error {
	query, err := parseSlotQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	slots, err := engine.AvailableSlots(c.Context(), query)
	if err != nil {
		// Availability degrades to empty rather than failing the calendar.
		fmt.Println("Calendar slots error:", err)
		return c.JSON(fiber.Map{"slots": map[string][]scheduling.Slot{}})
	}
	return c.JSON(fiber.Map{"slots": slots})
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

// CreateBooking is manual admin entry. Admin-created bookings start out
// confirmed; the engine still re-checks the slot before persisting.
func CreateBooking(c *fiber.Ctx) error {
	var body createBookingBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
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
		Confirm:       true,
	})
	if err != nil {
		return scheduleErrorResponse(c, err)
	}

	redis.BumpSlotsVersion(booking.LocationID)
	SendBookingEmails(booking)
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// UpdateBookingStatus applies a state machine transition:
// pending -> confirmed/cancelled, confirmed -> completed/cancelled.
func UpdateBookingStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var booking models.Booking
	if err := db.DB.First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
			Error:   err.Error(),
		})
	}

	var body struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if err := booking.UpdateStatus(db.DB, body.Status); err != nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Invalid status transition",
			Error:   err.Error(),
		})
	}

	// A cancellation frees the slot for other customers.
	if body.Status == models.StatusCancelled {
		redis.BumpSlotsVersion(booking.LocationID)
	}
	return c.JSON(booking)
}

// UpdatePaymentStatus syncs the payment axis from the commerce order's
// financial status. It never touches the booking state machine.
func UpdatePaymentStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var booking models.Booking
	if err := db.DB.First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
			Error:   err.Error(),
		})
	}

	var body struct {
		PaymentStatus models.PaymentStatus `json:"payment_status"`
		OrderID       string               `json:"order_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if body.PaymentStatus != models.PaymentPaid && body.PaymentStatus != models.PaymentNotPaid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "payment_status must be paid or not_paid",
		})
	}

	booking.PaymentStatus = body.PaymentStatus
	if body.OrderID != "" {
		booking.OrderID = body.OrderID
	}
	if err := db.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(booking)
}

// DeleteBooking removes a booking record entirely, an explicit admin action;
// prefer cancelling so history is kept
func DeleteBooking(c *fiber.Ctx) error {
	id := c.Params("id")
	var booking models.Booking
	if err := db.DB.First(&booking, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Booking not found",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Delete(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete booking",
			Error:   err.Error(),
		})
	}
	redis.BumpSlotsVersion(booking.LocationID)
	return c.SendStatus(fiber.StatusNoContent)
}

// parseSlotQuery reads the shared availability query parameters.
func parseSlotQuery(c *fiber.Ctx) (scheduling.SlotQuery, error) {
	variantID := c.QueryInt("variant_id")
	locationID := c.QueryInt("location_id")
	from := c.Query("from")
	to := c.Query("to", from)
	if variantID <= 0 || locationID <= 0 || from == "" {
		return scheduling.SlotQuery{}, fmt.Errorf("variant_id, location_id and from are required")
	}

	query := scheduling.SlotQuery{
		VariantID:  uint(variantID),
		LocationID: uint(locationID),
		FromDate:   from,
		ToDate:     to,
	}
	if staffID := c.QueryInt("staff_id"); staffID > 0 {
		id := uint(staffID)
		query.StaffID = &id
	}
	return query, nil
}

func scheduleErrorResponse(c *fiber.Ctx, err error) error {
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
			"reason":  err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create booking",
			Error:   err.Error(),
		})
	}
}

// SendBookingEmails notifies the customer and, when NOTIFY_EMAIL is set,
// sends a copy to the shop. Failures are logged, not surfaced: the booking
// is already persisted.
func SendBookingEmails(booking *models.Booking) {
	var full models.Booking
	if err := db.DB.Preload("Staff").Preload("Variant.Service").Preload("Location").
		First(&full, booking.ID).Error; err != nil {
		fmt.Println("Failed to load booking for emails:", err)
		return
	}

	when := full.ScheduledAt.Format("2006-01-02 15:04:05 MST")
	if full.CustomerEmail != "" {
		body := fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>Your appointment has been booked.</p>
			<p><strong>Details:</strong></p>
			<ul>
				<li><strong>Service:</strong> %s</li>
				<li><strong>With:</strong> %s</li>
				<li><strong>Location:</strong> %s</li>
				<li><strong>Time:</strong> %s</li>
				<li><strong>Reference:</strong> %s</li>
			</ul>
			<p>Thank you for booking with us!</p>
		`, full.CustomerName, full.Variant.Service.Name, full.Staff.Name,
			full.Location.Name, when, full.Reference)
		if err := utils.SendEmail(full.CustomerEmail, "Booking Confirmation", body); err != nil {
			fmt.Println("Failed to send customer email:", err)
		}
	}

	if notify := os.Getenv("NOTIFY_EMAIL"); notify != "" {
		body := fmt.Sprintf(`
			<p>New booking %s</p>
			<ul>
				<li><strong>Customer:</strong> %s</li>
				<li><strong>Service:</strong> %s</li>
				<li><strong>With:</strong> %s</li>
				<li><strong>Location:</strong> %s</li>
				<li><strong>Time:</strong> %s</li>
			</ul>
		`, full.Reference, full.CustomerName, full.Variant.Service.Name,
			full.Staff.Name, full.Location.Name, when)
		if err := utils.SendEmail(notify, "New Booking", body); err != nil {
			fmt.Println("Failed to send shop notification email:", err)
		}
	}
}
