package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/controllers/storefront"
)

// SetupStorefrontRoutes configures the public widget endpoints
func SetupStorefrontRoutes(app *fiber.App) {
	sf := app.Group("/storefront")
	sf.Get("/availability", storefront.GetAvailability)
	sf.Post("/bookings", storefront.CreateBooking)
}
