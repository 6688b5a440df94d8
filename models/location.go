package models

import (
	"gorm.io/gorm"
)

// Location is a physical place bookings happen at. All scheduling time
// arithmetic for a booking is anchored to the location's IANA timezone,
// never to the server's or the browser's local zone.
type Location struct {
	gorm.Model
	Name           string `json:"name"`
	Address        string `json:"address"`
	Timezone       string `json:"timezone" gorm:"default:'America/New_York'"` // IANA identifier
	OffersServices bool   `json:"offers_services" gorm:"default:true"`
}
