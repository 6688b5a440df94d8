package controllers

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/models"
)

func TestUpdateServiceKeepsOmittedFields(t *testing.T) {
	newTestDB(t)
	app := fiber.New()
	app.Patch("/admin/services/:id", UpdateService)

	service := models.Service{Name: "Haircut", Description: "Classic cut and finish"}
	require.NoError(t, db.DB.Create(&service).Error)

	resp := doJSON(t, app, fiber.MethodPatch,
		fmt.Sprintf("/admin/services/%d", service.ID), `{"name":"Haircut & Style"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Service
	require.NoError(t, db.DB.First(&updated, service.ID).Error)
	assert.Equal(t, "Haircut & Style", updated.Name)
	assert.Equal(t, "Classic cut and finish", updated.Description, "omitted description must survive the patch")
}
