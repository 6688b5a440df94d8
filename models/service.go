package models

import (
	"gorm.io/gorm"
)

// Service is a bookable offering with one or more duration variants.
type Service struct {
	gorm.Model
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Variants    []DurationVariant `json:"variants,omitempty" gorm:"foreignKey:ServiceID"`
}

// DurationVariant is one sellable duration/price combination of a service.
// A single-duration service has exactly one variant.
type DurationVariant struct {
	gorm.Model
	ServiceID uint    `json:"service_id"`
	Service   Service `json:"-" gorm:"foreignKey:ServiceID"`
	Duration  int     `json:"duration"` // minutes
	Price     float64 `json:"price"`
}
