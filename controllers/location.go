package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/models"
	"github.com/bookline-app/bookline/redis"
)

// GetAllLocations returns all locations
func GetAllLocations(c *fiber.Ctx) error {
	var locations []models.Location
	query := db.DB
	if c.Query("bookable") == "true" {
		query = query.Where("offers_services = ?", true)
	}
	if err := query.Find(&locations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(locations)
}

func GetLocation(c *fiber.Ctx) error {
	id := c.Params("id")
	var location models.Location
	if err := db.DB.First(&location, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}
	return c.JSON(location)
}

// CreateLocation creates a new location. The timezone must be a valid IANA
// identifier since every booking at the location is scheduled against it.
func CreateLocation(c *fiber.Ctx) error {
	location := new(models.Location)
	if err := c.BodyParser(location); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if location.Timezone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Timezone is required",
		})
	}
	if _, err := time.LoadLocation(location.Timezone); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown IANA timezone: " + location.Timezone,
		})
	}
	if err := db.DB.Create(location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

// UpdateLocation updates name, address, timezone or the bookable flag.
// Fields omitted from the body keep their stored values.
func UpdateLocation(c *fiber.Ctx) error {
	id := c.Params("id")
	var location models.Location
	if db.DB.First(&location, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}
	var body struct {
		Name           *string `json:"name"`
		Address        *string `json:"address"`
		Timezone       *string `json:"timezone"`
		OffersServices *bool   `json:"offers_services"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	timezoneChanged := false
	if body.Timezone != nil && *body.Timezone != location.Timezone {
		// LoadLocation("") succeeds as UTC, so reject empty explicitly.
		if *body.Timezone == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Timezone is required",
			})
		}
		if _, err := time.LoadLocation(*body.Timezone); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown IANA timezone: " + *body.Timezone,
			})
		}
		location.Timezone = *body.Timezone
		timezoneChanged = true
	}
	if body.Name != nil {
		location.Name = *body.Name
	}
	if body.Address != nil {
		location.Address = *body.Address
	}
	if body.OffersServices != nil {
		location.OffersServices = *body.OffersServices
	}
	if err := db.DB.Save(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	// A timezone change shifts every cached slot for the location.
	if timezoneChanged {
		redis.BumpSlotsVersion(location.ID)
	}
	return c.JSON(location)
}

// DeleteLocation deletes a location
func DeleteLocation(c *fiber.Ctx) error {
	id := c.Params("id")
	var location models.Location
	if db.DB.First(&location, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Location not found",
		})
	}
	if err := db.DB.Delete(&location).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete location",
		})
	}
	redis.BumpSlotsVersion(location.ID)
	return c.SendStatus(fiber.StatusNoContent)
}
