package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/controllers"
	"github.com/bookline-app/bookline/middleware"
)

// SetupStaffRoutes configures all staff roster related routes
func SetupStaffRoutes(app *fiber.App) {
	staff := app.Group("/admin/staff", middleware.SessionToken())
	staff.Get("/", controllers.GetAllStaff)
	staff.Get("/:id", controllers.GetStaffMember)
	staff.Post("/", controllers.CreateStaffMember)
	staff.Patch("/:id", controllers.UpdateStaffMember)
	staff.Post("/:id/photo", controllers.UploadStaffPhoto)
	staff.Delete("/:id", controllers.DeleteStaffMember)
}
