package controllers

import (
	"encoding/json"
	"time"

	"campsite-backend/models"
	"campsite-backend/services"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// money renders a decimal as a bare JSON number with two places.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func coord(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func day(d datatypes.Date) string {
	return time.Time(d).Format(services.DateLayout)
}

type UserResponse struct {
	ID                 uint      `json:"id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	PhoneNumber        string    `json:"phone_number"`
	Address            string    `json:"address"`
	Role               string    `json:"role"`
	RegistrationStatus string    `json:"registration_status"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FullName:           u.FullName,
		PhoneNumber:        u.PhoneNumber,
		Address:            u.Address,
		Role:               string(u.Role),
		RegistrationStatus: string(u.RegistrationStatus),
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
	}
}

type CampsiteResponse struct {
	ID            uint        `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	LocationName  string      `json:"location_name"`
	Latitude      json.Number `json:"latitude"`
	Longitude     json.Number `json:"longitude"`
	Capacity      int         `json:"capacity"`
	PricePerNight json.Number `json:"price_per_night"`
	Facilities    string      `json:"facilities"`
	ImageURL      string      `json:"image_url"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
}

func toCampsiteResponse(c models.Campsite) CampsiteResponse {
	return CampsiteResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		LocationName:  c.LocationName,
		Latitude:      coord(c.Latitude),
		Longitude:     coord(c.Longitude),
		Capacity:      c.Capacity,
		PricePerNight: money(c.PricePerNight),
		Facilities:    c.Facilities,
		ImageURL:      c.ImageURL,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
	}
}

func toCampsiteResponses(list []models.Campsite) []CampsiteResponse {
	out := make([]CampsiteResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCampsiteResponse(c))
	}
	return out
}

type BookingResponse struct {
	ID              uint        `json:"id"`
	BookingCode     string      `json:"booking_code"`
	UserID          uint        `json:"user_id"`
	CampsiteID      uint        `json:"campsite_id"`
	CampsiteName    string      `json:"campsite_name"`
	CheckInDate     string      `json:"check_in_date"`
	CheckOutDate    string      `json:"check_out_date"`
	NumPeople       int         `json:"num_people"`
	NumTents        int         `json:"num_tents"`
	TotalNights     int         `json:"total_nights"`
	PricePerNight   json.Number `json:"price_per_night"`
	Subtotal        json.Number `json:"subtotal"`
	TaxAmount       json.Number `json:"tax_amount"`
	TotalPrice      json.Number `json:"total_price"`
	BookingStatus   string      `json:"booking_status"`
	SpecialRequests string      `json:"special_requests"`
	CreatedAt       time.Time   `json:"created_at"`

	// Admin views only.
	UserEmail string `json:"user_email,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

func toBookingResponse(b models.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		BookingCode:     b.BookingCode,
		UserID:          b.UserID,
		CampsiteID:      b.CampsiteID,
		CampsiteName:    b.Campsite.Name,
		CheckInDate:     day(b.CheckInDate),
		CheckOutDate:    day(b.CheckOutDate),
		NumPeople:       b.NumPeople,
		NumTents:        b.NumTents,
		TotalNights:     b.TotalNights,
		PricePerNight:   money(b.PricePerNight),
		Subtotal:        money(b.Subtotal),
		TaxAmount:       money(b.TaxAmount),
		TotalPrice:      money(b.TotalPrice),
		BookingStatus:   string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
	}
}

func toAdminBookingResponse(b models.Booking) BookingResponse {
	r := toBookingResponse(b)
	r.UserEmail = b.User.Email
	r.UserName = b.User.FullName
	return r
}

func toBookingResponses(list []models.Booking, admin bool) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		if admin {
			out = append(out, toAdminBookingResponse(b))
		} else {
			out = append(out, toBookingResponse(b))
		}
	}
	return out
}
