package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/models"
	"github.com/bookline-app/bookline/redis"
	"github.com/bookline-app/bookline/scheduling"
)

// invalidateSlotCache bumps the cached-availability version for one
// location, or for every location when the change is not location-bound.
func invalidateSlotCache(locationID *uint) {
	if locationID != nil {
		redis.BumpSlotsVersion(*locationID)
		return
	}
	var ids []uint
	if err := db.DB.Model(&models.Location{}).Pluck("id", &ids).Error; err != nil {
		return
	}
	for _, id := range ids {
		redis.BumpSlotsVersion(id)
	}
}

// GetWeeklyRules lists recurring weekly availability rules, optionally
// filtered by staff member
func GetWeeklyRules(c *fiber.Ctx) error {
	var rules []models.WeeklyAvailabilityRule
	query := db.DB
	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if err := query.Find(&rules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(rules)
}

// CreateWeeklyRule creates a recurring weekly availability rule
func CreateWeeklyRule(c *fiber.Ctx) error {
	rule := new(models.WeeklyAvailabilityRule)
	if err := c.BodyParser(rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := validateRuleTimes(rule.StartTime, rule.EndTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if len(rule.Weekdays) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one weekday is required",
		})
	}
	if err := db.DB.Create(rule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	invalidateSlotCache(rule.LocationID)
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// UpdateWeeklyRule updates an existing weekly rule
func UpdateWeeklyRule(c *fiber.Ctx) error {
	id := c.Params("id")
	var rule models.WeeklyAvailabilityRule
	if err := db.DB.First(&rule, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Rule not found",
		})
	}
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := validateRuleTimes(rule.StartTime, rule.EndTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := db.DB.Save(&rule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	invalidateSlotCache(rule.LocationID)
	return c.JSON(rule)
}

// DeleteWeeklyRule deletes a weekly rule
func DeleteWeeklyRule(c *fiber.Ctx) error {
	id := c.Params("id")
	var rule models.WeeklyAvailabilityRule
	if db.DB.First(&rule, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Rule not found",
		})
	}
	if err := db.DB.Delete(&rule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete rule",
		})
	}
	invalidateSlotCache(rule.LocationID)
	return c.SendStatus(fiber.StatusNoContent)
}

// GetDateOverrides lists date-specific overrides, optionally by staff and
// date range
func GetDateOverrides(c *fiber.Ctx) error {
	var overrides []models.DateAvailabilityOverride
	query := db.DB
	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if err := query.Find(&overrides).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(overrides)
}

// CreateDateOverride creates a one-off special-hours or closure record for
// an exact date. With is_available=false it forces a closure even on an
// otherwise-open weekday.
func CreateDateOverride(c *fiber.Ctx) error {
	override := new(models.DateAvailabilityOverride)
	if err := c.BodyParser(override); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if _, err := time.Parse("2006-01-02", override.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, use YYYY-MM-DD",
		})
	}
	if override.IsAvailable {
		if err := validateRuleTimes(override.StartTime, override.EndTime); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}
	if err := db.DB.Create(override).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	invalidateSlotCache(override.LocationID)
	return c.Status(fiber.StatusCreated).JSON(override)
}

// DeleteDateOverride deletes a date override
func DeleteDateOverride(c *fiber.Ctx) error {
	id := c.Params("id")
	var override models.DateAvailabilityOverride
	if db.DB.First(&override, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Override not found",
		})
	}
	if err := db.DB.Delete(&override).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete override",
		})
	}
	invalidateSlotCache(override.LocationID)
	return c.SendStatus(fiber.StatusNoContent)
}

func validateRuleTimes(startTime, endTime string) error {
	start, err := scheduling.ParseClockTime(startTime)
	if err != nil {
		return err
	}
	end, err := scheduling.ParseClockTime(endTime)
	if err != nil {
		return err
	}
	if end <= start {
		return fiber.NewError(fiber.StatusBadRequest, "End time must be after start time")
	}
	return nil
}
