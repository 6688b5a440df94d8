package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/controllers"
	"github.com/bookline-app/bookline/middleware"
)

// SetupAvailabilityRoutes configures weekly rule and date override routes
func SetupAvailabilityRoutes(app *fiber.App) {
	availability := app.Group("/admin/availability", middleware.SessionToken())

	availability.Get("/rules", controllers.GetWeeklyRules)
	availability.Post("/rules", controllers.CreateWeeklyRule)
	availability.Patch("/rules/:id", controllers.UpdateWeeklyRule)
	availability.Delete("/rules/:id", controllers.DeleteWeeklyRule)

	availability.Get("/overrides", controllers.GetDateOverrides)
	availability.Post("/overrides", controllers.CreateDateOverride)
	availability.Delete("/overrides/:id", controllers.DeleteDateOverride)
}
