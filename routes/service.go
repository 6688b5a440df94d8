package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/controllers"
	"github.com/bookline-app/bookline/middleware"
)

// SetupServiceRoutes configures all service related routes
func SetupServiceRoutes(app *fiber.App) {
	service := app.Group("/admin/services", middleware.SessionToken())
	service.Get("/", controllers.GetAllServices)
	service.Get("/:id", controllers.GetService)
	service.Post("/", controllers.CreateService)
	service.Patch("/:id", controllers.UpdateService)
	service.Delete("/:id", controllers.DeleteService)
	service.Post("/:id/variants", controllers.CreateVariant)
	service.Delete("/:id/variants/:variantId", controllers.DeleteVariant)
}
