package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// WeekdaySet stores lowercase weekday names ("sunday".."saturday") as JSONB.
type WeekdaySet []string

// Value implements the driver.Valuer interface
func (w WeekdaySet) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // Return as string for JSONB type
}

// Scan implements the sql.Scanner interface
func (w *WeekdaySet) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal WeekdaySet: unsupported type %T", value)
	}

	return json.Unmarshal(data, w)
}

// Contains reports whether the set includes the given weekday name,
// compared case-insensitively.
func (w WeekdaySet) Contains(weekday string) bool {
	for _, day := range w {
		if strings.EqualFold(day, weekday) {
			return true
		}
	}
	return false
}

// WeeklyAvailabilityRule is a recurring weekly open window for a staff
// member. LocationID nil means the rule applies at any location. Multiple
// rules may exist per staff member, e.g. different hours per location.
type WeeklyAvailabilityRule struct {
	gorm.Model
	StaffID     uint        `json:"staff_id"`
	Staff       StaffMember `json:"-" gorm:"foreignKey:StaffID"`
	LocationID  *uint       `json:"location_id"`
	Weekdays    WeekdaySet  `json:"weekdays" gorm:"type:jsonb"`
	StartTime   string      `json:"start_time"` // Format "HH:MM" in 24h
	EndTime     string      `json:"end_time"`   // Format "HH:MM" in 24h
	IsAvailable bool        `json:"is_available" gorm:"default:true"`
}

// DateAvailabilityOverride replaces the weekly rule for one exact local
// calendar date. It wins even with IsAvailable=false, which is how an admin
// forces a closure on an otherwise-open weekday. Date is kept as the local
// "YYYY-MM-DD" string so matching is by calendar date, not by instant.
type DateAvailabilityOverride struct {
	gorm.Model
	StaffID     uint        `json:"staff_id"`
	Staff       StaffMember `json:"-" gorm:"foreignKey:StaffID"`
	LocationID  *uint       `json:"location_id"`
	Date        string      `json:"date" gorm:"index"` // "YYYY-MM-DD", local to the location
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	IsAvailable bool        `json:"is_available"`
}
