package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var bookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}

func BookingStatuses() []BookingStatus {
	out := make([]BookingStatus, len(bookingStatuses))
	copy(out, bookingStatuses)
	return out
}

func (s BookingStatus) IsValid() bool {
	for _, st := range bookingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s BookingStatus) String() string { return string(s) }

// Booking is a reservation fact. Price columns are snapshots taken at
// creation and never recomputed from the campsite.
type Booking struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	BookingCode string `gorm:"size:20;uniqueIndex;not null" json:"booking_code"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	CampsiteID  uint   `gorm:"index;not null" json:"campsite_id"`

	CheckInDate  datatypes.Date `gorm:"not null;index" json:"check_in_date"`
	CheckOutDate datatypes.Date `gorm:"not null" json:"check_out_date"`
	NumPeople    int            `gorm:"not null" json:"num_people"`
	NumTents     int            `gorm:"not null;default:1" json:"num_tents"`
	TotalNights  int            `gorm:"not null" json:"total_nights"`

	PricePerNight decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tax_amount"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`

	Status          BookingStatus `gorm:"column:booking_status;type:varchar(20);not null;default:pending;index" json:"booking_status"`
	SpecialRequests string        `gorm:"type:text" json:"special_requests"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     User     `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Campsite Campsite `gorm:"foreignKey:CampsiteID;references:ID" json:"-"`
}
