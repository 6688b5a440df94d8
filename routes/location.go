package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/controllers"
	"github.com/bookline-app/bookline/middleware"
)

// SetupLocationRoutes configures all location related routes
func SetupLocationRoutes(app *fiber.App) {
	location := app.Group("/admin/locations", middleware.SessionToken())
	location.Get("/", controllers.GetAllLocations)
	location.Get("/:id", controllers.GetLocation)
	location.Post("/", controllers.CreateLocation)
	location.Patch("/:id", controllers.UpdateLocation)
	location.Delete("/:id", controllers.DeleteLocation)
}
