package main

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/bookline-app/bookline/controllers"
	"github.com/bookline-app/bookline/controllers/pos"
	"github.com/bookline-app/bookline/controllers/storefront"
	bookcron "github.com/bookline-app/bookline/cron"
	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/redis"
	"github.com/bookline-app/bookline/routes"
	"github.com/bookline-app/bookline/scheduling"
	"github.com/bookline-app/bookline/store"
)

func main() {
	app := fiber.New()
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		db.Migrate()
	} else {
		db.Init()
	}
	redis.InitRedis()

	engine := scheduling.New(store.NewGorm(db.DB))
	if g, err := strconv.Atoi(os.Getenv("SLOT_GRANULARITY")); err == nil && g > 0 {
		engine.Granularity = g
	}
	controllers.SetEngine(engine)
	storefront.SetEngine(engine)
	pos.SetEngine(engine)

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Bookline API")
	})
	routes.SetupServiceRoutes(app)
	routes.SetupStaffRoutes(app)
	routes.SetupLocationRoutes(app)
	routes.SetupAvailabilityRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupStorefrontRoutes(app)
	routes.SetupPOSRoutes(app)

	bookcron.StartCronJobs()

	app.Listen(":8000")
}
