package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookline-app/bookline/models"
)

func uintPtr(v uint) *uint { return &v }

func TestResolveWindow(t *testing.T) {
	weeklyNineToFive := models.WeeklyAvailabilityRule{
		StaffID:     1,
		Weekdays:    models.WeekdaySet{"monday", "tuesday", "wednesday"},
		StartTime:   "09:00",
		EndTime:     "17:00",
		IsAvailable: true,
	}

	tests := []struct {
		name      string
		staffID   uint
		location  *uint
		date      string
		weekday   string
		overrides []models.DateAvailabilityOverride
		rules     []models.WeeklyAvailabilityRule
		wantOpen  bool
		want      Window
	}{
		{
			name:     "weekly rule matches weekday",
			staffID:  1,
			date:     "2026-09-07",
			weekday:  "monday",
			rules:    []models.WeeklyAvailabilityRule{weeklyNineToFive},
			wantOpen: true,
			want:     Window{Start: 540, End: 1020},
		},
		{
			name:     "weekday not in rule set",
			staffID:  1,
			date:     "2026-09-12",
			weekday:  "saturday",
			rules:    []models.WeeklyAvailabilityRule{weeklyNineToFive},
			wantOpen: false,
		},
		{
			name:    "override replaces weekly hours",
			staffID: 1,
			date:    "2026-09-07",
			weekday: "monday",
			overrides: []models.DateAvailabilityOverride{{
				StaffID: 1, Date: "2026-09-07", StartTime: "12:00", EndTime: "15:00", IsAvailable: true,
			}},
			rules:    []models.WeeklyAvailabilityRule{weeklyNineToFive},
			wantOpen: true,
			want:     Window{Start: 720, End: 900},
		},
		{
			name:    "closed override suppresses open weekday",
			staffID: 1,
			date:    "2026-09-07",
			weekday: "monday",
			overrides: []models.DateAvailabilityOverride{{
				StaffID: 1, Date: "2026-09-07", IsAvailable: false,
			}},
			rules:    []models.WeeklyAvailabilityRule{weeklyNineToFive},
			wantOpen: false,
		},
		{
			name:    "override for another date is ignored",
			staffID: 1,
			date:    "2026-09-07",
			weekday: "monday",
			overrides: []models.DateAvailabilityOverride{{
				StaffID: 1, Date: "2026-09-08", IsAvailable: false,
			}},
			rules:    []models.WeeklyAvailabilityRule{weeklyNineToFive},
			wantOpen: true,
			want:     Window{Start: 540, End: 1020},
		},
		{
			name:     "rule for another staff member is ignored",
			staffID:  2,
			date:     "2026-09-07",
			weekday:  "monday",
			rules:    []models.WeeklyAvailabilityRule{weeklyNineToFive},
			wantOpen: false,
		},
		{
			name:     "nil rule location matches any requested location",
			staffID:  1,
			location: uintPtr(5),
			date:     "2026-09-07",
			weekday:  "monday",
			rules:    []models.WeeklyAvailabilityRule{weeklyNineToFive},
			wantOpen: true,
			want:     Window{Start: 540, End: 1020},
		},
		{
			name:     "location-bound rule requires matching location",
			staffID:  1,
			location: uintPtr(5),
			date:     "2026-09-07",
			weekday:  "monday",
			rules: []models.WeeklyAvailabilityRule{{
				StaffID:     1,
				LocationID:  uintPtr(9),
				Weekdays:    models.WeekdaySet{"monday"},
				StartTime:   "09:00",
				EndTime:     "17:00",
				IsAvailable: true,
			}},
			wantOpen: false,
		},
		{
			name:    "unavailable weekly rule never opens",
			staffID: 1,
			date:    "2026-09-07",
			weekday: "monday",
			rules: []models.WeeklyAvailabilityRule{{
				StaffID:     1,
				Weekdays:    models.WeekdaySet{"monday"},
				StartTime:   "09:00",
				EndTime:     "17:00",
				IsAvailable: false,
			}},
			wantOpen: false,
		},
		{
			name:    "inverted override times stay closed",
			staffID: 1,
			date:    "2026-09-07",
			weekday: "monday",
			overrides: []models.DateAvailabilityOverride{{
				StaffID: 1, Date: "2026-09-07", StartTime: "15:00", EndTime: "12:00", IsAvailable: true,
			}},
			wantOpen: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, open := ResolveWindow(tt.staffID, tt.location, tt.date, tt.weekday, tt.overrides, tt.rules)
			assert.Equal(t, tt.wantOpen, open)
			if tt.wantOpen {
				assert.Equal(t, tt.want, window)
			}
		})
	}
}
