package controllers

import (
	"net/http"
	"time"

	"campsite-backend/services"
	"campsite-backend/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminController serves the moderation and reporting console.
type AdminController struct {
	Users    *services.UserService
	Bookings *services.BookingService
	Reports  *services.ReportService
	now      func() time.Time
}

func NewAdminController(users *services.UserService, bookings *services.BookingService, reports *services.ReportService) *AdminController {
	return &AdminController{Users: users, Bookings: bookings, Reports: reports, now: time.Now}
}

type ApprovalRequest struct {
	Action string `json:"action"`
}

type BookingStatusRequest struct {
	Status string `json:"status"`
}

type pendingUserResponse struct {
	UserResponse
	DaysPending int `json:"days_pending"`
}

type userDetailResponse struct {
	UserResponse
	BookingCount int64 `json:"booking_count"`
}

// ====================================================
// Users
// ====================================================

// GET /api/admin/users?status=
func (ctl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctl.Users.ListUsers(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"users": out})
}

// GET /api/admin/users/pending
func (ctl *AdminController) PendingUsers(c *gin.Context) {
	users, err := ctl.Users.ListPendingUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]pendingUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, pendingUserResponse{UserResponse: toUserResponse(u.User), DaysPending: u.DaysPending})
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"users": out, "count": len(out)})
}

// GET /api/admin/users/:id
func (ctl *AdminController) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := ctl.Users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"user": userDetailResponse{UserResponse: toUserResponse(u.User), BookingCount: u.BookingCount},
	})
}

// GET /api/admin/users/total
func (ctl *AdminController) UserTotals(c *gin.Context) {
	counters, err := ctl.Users.Counters(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"stats": counters})
}

// PUT /api/admin/users/:id/approval
func (ctl *AdminController) ReviewUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	u, msg, err := ctl.Users.ReviewRegistration(c.Request.Context(), principal(c), id, services.ReviewAction(req.Action))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": msg, "user": toUserResponse(*u)})
}

// ====================================================
// Bookings
// ====================================================

// GET /api/admin/bookings/:id
func (ctl *AdminController) GetBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	bk, err := ctl.Bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"booking": toAdminBookingResponse(*bk)})
}

// PUT /api/admin/bookings/:id/status
func (ctl *AdminController) UpdateBookingStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload")
		return
	}

	bk, err := ctl.Bookings.UpdateBookingStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"message": "Booking status updated",
		"booking": toAdminBookingResponse(*bk),
	})
}

// GET /api/admin/bookings/total
func (ctl *AdminController) BookingTotals(c *gin.Context) {
	counters, err := ctl.Bookings.Counters(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"stats": counters})
}

// GET /api/admin/bookings/today
func (ctl *AdminController) BookingsToday(c *gin.Context) {
	counters, err := ctl.Bookings.Counters(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"date":            ctl.now().Format(services.DateLayout),
		"created_today":   counters.CreatedToday,
		"check_ins_today": counters.CheckInsToday,
	})
}

// GET /api/admin/bookings/export
func (ctl *AdminController) ExportBookings(c *gin.Context) {
	data, err := ctl.Reports.ExportBookings(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	name := "bookings-" + ctl.now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, xlsxContentType, data)
}
