package controllers

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/models"
	"github.com/bookline-app/bookline/redis"
)

func seedLocation(t *testing.T) models.Location {
	t.Helper()
	location := models.Location{
		Name:           "NYC",
		Address:        "1 Main St",
		Timezone:       "America/New_York",
		OffersServices: true,
	}
	require.NoError(t, db.DB.Create(&location).Error)
	return location
}

func TestUpdateLocationKeepsOmittedFields(t *testing.T) {
	newTestDB(t)
	app := fiber.New()
	app.Patch("/admin/locations/:id", UpdateLocation)
	location := seedLocation(t)

	resp := doJSON(t, app, fiber.MethodPatch,
		fmt.Sprintf("/admin/locations/%d", location.ID), `{"name":"Downtown"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Location
	require.NoError(t, db.DB.First(&updated, location.ID).Error)
	assert.Equal(t, "Downtown", updated.Name)
	assert.Equal(t, "America/New_York", updated.Timezone, "omitted timezone must survive the patch")
	assert.Equal(t, "1 Main St", updated.Address)
	assert.True(t, updated.OffersServices)
}

func TestUpdateLocationTimezone(t *testing.T) {
	newTestDB(t)
	app := fiber.New()
	app.Patch("/admin/locations/:id", UpdateLocation)
	location := seedLocation(t)
	path := fmt.Sprintf("/admin/locations/%d", location.ID)

	resp := doJSON(t, app, fiber.MethodPatch, path, `{"timezone":"America/Chicago"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated models.Location
	require.NoError(t, db.DB.First(&updated, location.ID).Error)
	assert.Equal(t, "America/Chicago", updated.Timezone)

	resp = doJSON(t, app, fiber.MethodPatch, path, `{"timezone":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "empty timezone would silently mean UTC")

	resp = doJSON(t, app, fiber.MethodPatch, path, `{"timezone":"Mars/Olympus"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	require.NoError(t, db.DB.First(&updated, location.ID).Error)
	assert.Equal(t, "America/Chicago", updated.Timezone, "rejected patches leave the stored timezone alone")
}

func TestLocationMutationsBumpSlotCache(t *testing.T) {
	newTestDB(t)
	mr := miniredis.RunT(t)
	prev := redis.Client
	redis.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		redis.Client.Close()
		redis.Client = prev
	})

	app := fiber.New()
	app.Patch("/admin/locations/:id", UpdateLocation)
	app.Delete("/admin/locations/:id", DeleteLocation)
	location := seedLocation(t)
	path := fmt.Sprintf("/admin/locations/%d", location.ID)

	before := redis.SlotsVersion(location.ID)

	resp := doJSON(t, app, fiber.MethodPatch, path, `{"timezone":"America/Denver"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	afterTimezone := redis.SlotsVersion(location.ID)
	assert.Greater(t, afterTimezone, before, "re-zoning invalidates cached availability")

	resp = doJSON(t, app, fiber.MethodPatch, path, `{"name":"Renamed"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, afterTimezone, redis.SlotsVersion(location.ID), "a rename does not touch slots")

	resp = doJSON(t, app, fiber.MethodDelete, path, "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Greater(t, redis.SlotsVersion(location.ID), afterTimezone, "deletion invalidates cached availability")
}
