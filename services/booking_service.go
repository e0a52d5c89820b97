// services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campsite-backend/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns booking creation, pricing and the status lifecycle.
type BookingService struct {
	DB     *gorm.DB
	Policy StatusPolicy

	logger       *zap.Logger
	now          func() time.Time
	newCode      func(time.Time) (string, error)
	codeAttempts int
}

func NewBookingService(db *gorm.DB, policy StatusPolicy, logger *zap.Logger) *BookingService {
	if policy == nil {
		policy = PermissiveStatusPolicy{}
	}
	return &BookingService{
		DB:           db,
		Policy:       policy,
		logger:       logger,
		now:          time.Now,
		newCode:      GenerateBookingCode,
		codeAttempts: maxBookingCodeAttempts,
	}
}

// CreateBookingInput mirrors the request body. Pointer fields are required
// and nil means the client left them out.
type CreateBookingInput struct {
	CampsiteID      *uint
	CheckInDate     *string
	CheckOutDate    *string
	NumPeople       *int
	NumTents        *int
	SpecialRequests string
}

func (in CreateBookingInput) validate() error {
	switch {
	case in.CampsiteID == nil || *in.CampsiteID == 0:
		return validationError("campsite_id is required")
	case in.CheckInDate == nil || strings.TrimSpace(*in.CheckInDate) == "":
		return validationError("check_in_date is required")
	case in.CheckOutDate == nil || strings.TrimSpace(*in.CheckOutDate) == "":
		return validationError("check_out_date is required")
	case in.NumPeople == nil:
		return validationError("num_people is required")
	case *in.NumPeople < 1:
		return validationError("num_people must be at least 1")
	case in.NumTents != nil && *in.NumTents < 1:
		return validationError("num_tents must be at least 1")
	}
	return nil
}

// CreateBooking validates the request against the campsite and date range,
// prices the stay and stores a pending booking under a fresh code.
func (s *BookingService) CreateBooking(ctx context.Context, userID uint, in CreateBookingInput) (*models.Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)

	var campsite models.Campsite
	if err := db.First(&campsite, *in.CampsiteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Campsite not found")
		}
		return nil, fmt.Errorf("find campsite: %w", err)
	}

	checkIn, err := parseDate(*in.CheckInDate)
	if err != nil {
		return nil, wrapError(ErrValidation, "Invalid check_in_date, expected YYYY-MM-DD", err)
	}
	checkOut, err := parseDate(*in.CheckOutDate)
	if err != nil {
		return nil, wrapError(ErrValidation, "Invalid check_out_date, expected YYYY-MM-DD", err)
	}

	if !checkIn.Before(checkOut) {
		return nil, validationError("Check-out date must be after check-in date")
	}
	now := s.now()
	if checkIn.Before(dateOf(now)) {
		return nil, validationError("Check-in date cannot be in the past")
	}

	tents := 1
	if in.NumTents != nil {
		tents = *in.NumTents
	}

	quote := QuoteStay(campsite.PricePerNight, daysBetween(checkIn, checkOut))

	booking := models.Booking{
		UserID:          userID,
		CampsiteID:      campsite.ID,
		CheckInDate:     datatypes.Date(checkIn),
		CheckOutDate:    datatypes.Date(checkOut),
		NumPeople:       *in.NumPeople,
		NumTents:        tents,
		TotalNights:     quote.Nights,
		PricePerNight:   quote.PricePerNight,
		Subtotal:        quote.Subtotal,
		TaxAmount:       quote.TaxAmount,
		TotalPrice:      quote.TotalPrice,
		Status:          models.BookingPending,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
	}

	var lastErr error
	for attempt := 1; attempt <= s.codeAttempts; attempt++ {
		code, err := s.newCode(now)
		if err != nil {
			return nil, err
		}
		booking.BookingCode = code

		err = db.Transaction(func(tx *gorm.DB) error {
			return tx.Omit(clause.Associations).Create(&booking).Error
		})
		if err == nil {
			booking.Campsite = campsite
			s.logger.Info("Booking created",
				zap.Uint("booking_id", booking.ID),
				zap.String("booking_code", booking.BookingCode),
				zap.Uint("user_id", userID),
				zap.Uint("campsite_id", campsite.ID),
				zap.Int("nights", booking.TotalNights),
				zap.String("total_price", booking.TotalPrice.StringFixed(2)))
			return &booking, nil
		}
		if !IsDuplicateKey(err) {
			return nil, fmt.Errorf("create booking: %w", err)
		}

		lastErr = err
		booking.ID = 0
		s.logger.Warn("Booking code collision, retrying",
			zap.String("booking_code", code),
			zap.Int("attempt", attempt))
	}

	return nil, wrapError(ErrExhaustedRetries, "Could not allocate a unique booking code, please retry", lastErr)
}

// ListBookingsForUser returns the user's bookings, newest first, with the
// campsite loaded for display.
func (s *BookingService) ListBookingsForUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Campsite").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return list, nil
}

// ListAllBookings is the admin view over every booking.
func (s *BookingService) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Campsite").
		Preload("User").
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return list, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var bk models.Booking
	if err := s.DB.WithContext(ctx).Preload("Campsite").Preload("User").First(&bk, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Booking not found")
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &bk, nil
}

// GetBookingFor returns the booking if actor owns it or is an admin.
func (s *BookingService) GetBookingFor(ctx context.Context, actor models.Principal, id uint) (*models.Booking, error) {
	bk, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if bk.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, forbiddenError("You do not have access to this booking")
	}
	return bk, nil
}

// UpdateBookingStatus is admin-only. Allowed transitions come from Policy.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, actor models.Principal, id uint, newStatus string) (*models.Booking, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	next := models.BookingStatus(newStatus)
	if !next.IsValid() {
		return nil, validationError("Invalid booking status")
	}

	var bk models.Booking
	var prev models.BookingStatus
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bk, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Booking not found")
			}
			return fmt.Errorf("find booking: %w", err)
		}

		prev = bk.Status
		if err := s.Policy.Allow(prev, next); err != nil {
			return err
		}

		if err := tx.Model(&bk).Update("booking_status", next).Error; err != nil {
			return fmt.Errorf("update booking status: %w", err)
		}

		return tx.Preload("Campsite").Preload("User").First(&bk, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking status changed",
		zap.Uint("booking_id", bk.ID),
		zap.Uint("admin_id", actor.UserID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)))
	return &bk, nil
}

type BookingCounters struct {
	Total         int64            `json:"total"`
	CreatedToday  int64            `json:"created_today"`
	CheckInsToday int64            `json:"check_ins_today"`
	ByStatus      map[string]int64 `json:"by_status"`
}

func (s *BookingService) Counters(ctx context.Context) (*BookingCounters, error) {
	db := s.DB.WithContext(ctx)
	bc := &BookingCounters{ByStatus: make(map[string]int64, len(bookingStatusKeys()))}
	for _, k := range bookingStatusKeys() {
		bc.ByStatus[k] = 0
	}

	type row struct {
		Status models.BookingStatus
		N      int64
	}
	var rows []row
	if err := db.Model(&models.Booking{}).
		Select("booking_status AS status, COUNT(*) AS n").
		Group("booking_status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}
	for _, r := range rows {
		bc.Total += r.N
		bc.ByStatus[string(r.Status)] = r.N
	}

	now := s.now()
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.Booking{}).
		Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1)).
		Count(&bc.CreatedToday).Error; err != nil {
		return nil, fmt.Errorf("count bookings created today: %w", err)
	}
	if err := db.Model(&models.Booking{}).
		Where("check_in_date = ?", datatypes.Date(dateOf(now))).
		Where("booking_status <> ?", models.BookingCancelled).
		Count(&bc.CheckInsToday).Error; err != nil {
		return nil, fmt.Errorf("count check-ins today: %w", err)
	}
	return bc, nil
}

func bookingStatusKeys() []string {
	statuses := models.BookingStatuses()
	keys := make([]string, 0, len(statuses))
	for _, st := range statuses {
		keys = append(keys, string(st))
	}
	return keys
}
