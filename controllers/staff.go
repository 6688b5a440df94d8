package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/models"
	"github.com/bookline-app/bookline/utils"
)

// GetAllStaff returns the full roster, active and inactive
func GetAllStaff(c *fiber.Ctx) error {
	var staff []models.StaffMember
	query := db.DB
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&staff).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(staff)
}

func GetStaffMember(c *fiber.Ctx) error {
	id := c.Params("id")
	var member models.StaffMember
	if err := db.DB.Preload("WeeklyRules").Preload("Overrides").First(&member, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}
	return c.JSON(member)
}

// CreateStaffMember creates a new staff member
func CreateStaffMember(c *fiber.Ctx) error {
	member := new(models.StaffMember)
	if err := c.BodyParser(member); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	member.IsActive = true
	if err := db.DB.Create(member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// UpdateStaffMember updates name, bio or the active flag. Deactivating a
// staff member stops all future slot computation for them; their existing
// bookings stay visible.
func UpdateStaffMember(c *fiber.Ctx) error {
	id := c.Params("id")
	var member models.StaffMember
	if db.DB.First(&member, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}
	var body struct {
		Name     *string `json:"name"`
		Bio      *string `json:"bio"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if body.Name != nil {
		member.Name = *body.Name
	}
	if body.Bio != nil {
		member.Bio = *body.Bio
	}
	activeChanged := body.IsActive != nil && member.IsActive != *body.IsActive
	if body.IsActive != nil {
		member.IsActive = *body.IsActive
	}
	if err := db.DB.Save(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if activeChanged {
		invalidateSlotCache(nil)
	}
	return c.JSON(member)
}

// UploadStaffPhoto stores a staff member's photo and saves the URL
func UploadStaffPhoto(c *fiber.Ctx) error {
	id := c.Params("id")
	var member models.StaffMember
	if db.DB.First(&member, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Photo file is required",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to open uploaded file",
		})
	}
	defer file.Close()

	url, err := utils.UploadStaffPhoto(file, fmt.Sprintf("staff-%d", member.ID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload photo",
			Error:   err.Error(),
		})
	}

	member.PhotoURL = url
	if err := db.DB.Save(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(member)
}

// DeleteStaffMember removes a staff member entirely. Prefer deactivation;
// deletion is for roster entries created by mistake.
func DeleteStaffMember(c *fiber.Ctx) error {
	id := c.Params("id")
	var member models.StaffMember
	if db.DB.First(&member, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staff member not found",
		})
	}
	if err := db.DB.Delete(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete staff member",
		})
	}
	invalidateSlotCache(nil)
	return c.SendStatus(fiber.StatusNoContent)
}
