package controllers

import (
	"net/http"

	"campsite-backend/services"
	"campsite-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings *services.BookingService
	Tickets  *services.TicketService
}

func NewBookingController(bookings *services.BookingService, tickets *services.TicketService) *BookingController {
	return &BookingController{Bookings: bookings, Tickets: tickets}
}

type CreateBookingRequest struct {
	CampsiteID      *uint   `json:"campsite_id"`
	CheckInDate     *string `json:"check_in_date"`
	CheckOutDate    *string `json:"check_out_date"`
	NumPeople       *int    `json:"num_people"`
	NumTents        *int    `json:"num_tents"`
	SpecialRequests string  `json:"special_requests"`
}

// ----------------------------------------------------
// POST /api/bookings
// ----------------------------------------------------

func (ctl *BookingController) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	bk, err := ctl.Bookings.CreateBooking(c.Request.Context(), principal(c).UserID, services.CreateBookingInput{
		CampsiteID:      req.CampsiteID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		NumPeople:       req.NumPeople,
		NumTents:        req.NumTents,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"booking": toBookingResponse(*bk),
	})
}

// ----------------------------------------------------
// GET /api/bookings/my-bookings
// ----------------------------------------------------

func (ctl *BookingController) MyBookings(c *gin.Context) {
	list, err := ctl.Bookings.ListBookingsForUser(c.Request.Context(), principal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"bookings": toBookingResponses(list, false)})
}

// ----------------------------------------------------
// GET /api/bookings/bookings-list (admin)
// ----------------------------------------------------

func (ctl *BookingController) ListAll(c *gin.Context) {
	list, err := ctl.Bookings.ListAllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"bookings": toBookingResponses(list, true)})
}

// ----------------------------------------------------
// GET /api/bookings/:id/ticket
// ----------------------------------------------------

func (ctl *BookingController) Ticket(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	pdf, name, err := ctl.Tickets.Ticket(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
