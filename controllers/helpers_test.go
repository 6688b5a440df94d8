package controllers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bookline-app/bookline/db"
	"github.com/bookline-app/bookline/models"
)

// newTestDB swaps the package-level connection for a throwaway sqlite file
// for the duration of the test.
func newTestDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.Location{},
		&models.StaffMember{},
		&models.Service{},
		&models.DurationVariant{},
		&models.WeeklyAvailabilityRule{},
		&models.DateAvailabilityOverride{},
		&models.Booking{},
	))
	prev := db.DB
	db.DB = gdb
	t.Cleanup(func() { db.DB = prev })
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}
