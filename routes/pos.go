package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/controllers/pos"
	"github.com/bookline-app/bookline/middleware"
)

// SetupPOSRoutes configures the POS extension data endpoints
func SetupPOSRoutes(app *fiber.App) {
	terminal := app.Group("/pos", middleware.SessionToken())
	terminal.Get("/availability", pos.GetAvailability)
	terminal.Get("/day-sheet", pos.GetDaySheet)
	terminal.Post("/bookings", pos.CreateBooking)
}
