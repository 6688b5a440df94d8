package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/controllers"
	"github.com/bookline-app/bookline/middleware"
)

// SetupBookingRoutes configures the admin calendar and booking routes
func SetupBookingRoutes(app *fiber.App) {
	booking := app.Group("/admin/bookings", middleware.SessionToken())
	booking.Get("/", controllers.GetAllBookings)
	booking.Get("/calendar", controllers.GetCalendarSlots)
	booking.Get("/:id", controllers.GetBooking)
	booking.Post("/", controllers.CreateBooking)
	booking.Post("/:id/status", controllers.UpdateBookingStatus)
	booking.Patch("/:id/payment", controllers.UpdatePaymentStatus)
	booking.Delete("/:id", controllers.DeleteBooking)

	app.Get("/admin/dashboard", middleware.SessionToken(), controllers.GetDashboardOverview)
}
