package models

import (
	"gorm.io/gorm"
)

// StaffMember is someone bookable through the shop. Deactivated staff are
// excluded from all future slot computation but keep their historical
// bookings.
type StaffMember struct {
	gorm.Model
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	WeeklyRules []WeeklyAvailabilityRule   `json:"weekly_rules,omitempty" gorm:"foreignKey:StaffID"`
	Overrides   []DateAvailabilityOverride `json:"overrides,omitempty" gorm:"foreignKey:StaffID"`
	Bookings    []Booking                  `json:"bookings,omitempty" gorm:"foreignKey:StaffID"`
}
