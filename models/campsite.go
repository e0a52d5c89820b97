package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Campsite struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	LocationName  string          `gorm:"size:255;not null" json:"location_name"`
	Latitude      decimal.Decimal `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude     decimal.Decimal `gorm:"type:decimal(11,8);not null" json:"longitude"`
	Capacity      int             `gorm:"not null;default:50" json:"capacity"`
	PricePerNight decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	Facilities    string          `gorm:"type:text" json:"facilities"`
	ImageURL      string          `gorm:"size:500" json:"image_url"`

	// Soft delete flag. Inactive campsites stay referenced by old bookings.
	IsActive bool `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
