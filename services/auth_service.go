package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campsite-backend/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgPendingApproval    = "Your account is pending approval"
	msgDeactivated        = "Account is deactivated"
	msgEmailTaken         = "Email already registered"
)

type AuthService struct {
	DB     *gorm.DB
	Tokens *TokenService

	logger   *zap.Logger
	now      func() time.Time
	hashCost int
}

func NewAuthService(db *gorm.DB, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		DB:       db,
		Tokens:   tokens,
		logger:   logger,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	Address     string
}

func (in RegisterInput) normalized() RegisterInput {
	return RegisterInput{
		Email:       strings.TrimSpace(in.Email),
		Password:    in.Password,
		FullName:    strings.TrimSpace(in.FullName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Address:     strings.TrimSpace(in.Address),
	}
}

func (in RegisterInput) validate() error {
	switch {
	case in.Email == "":
		return validationError("email is required")
	case in.Password == "":
		return validationError("password is required")
	case in.FullName == "":
		return validationError("full_name is required")
	case in.PhoneNumber == "":
		return validationError("phone_number is required")
	}
	return nil
}

// Register creates a pending client account and returns its id.
// Email matching is exact (case-sensitive).
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:              in.Email,
		PasswordHash:       string(hash),
		FullName:           in.FullName,
		PhoneNumber:        in.PhoneNumber,
		Address:            in.Address,
		Role:               models.RoleClient,
		RegistrationStatus: models.RegistrationPending,
		IsActive:           true,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return newError(ErrConflict, msgEmailTaken)
		}
		if err := tx.Create(&user).Error; err != nil {
			if IsDuplicateKey(err) {
				return wrapError(ErrConflict, msgEmailTaken, err)
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("User registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user.ID, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

// Authenticate checks credentials and issues a bearer token. Unknown email
// and wrong password produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validationError("Email and password required")
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrUnauthorized, msgInvalidCredentials)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, newError(ErrUnauthorized, msgInvalidCredentials)
	}

	if user.RegistrationStatus != models.RegistrationApproved {
		return nil, forbiddenError(msgPendingApproval)
	}
	if !user.IsActive {
		return nil, forbiddenError(msgDeactivated)
	}

	token, exp, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

type TripCounters struct {
	Total     int64 `json:"total_trips"`
	Upcoming  int64 `json:"upcoming_trips"`
	Completed int64 `json:"completed_trips"`
	Cancelled int64 `json:"cancelled_trips"`
}

type Profile struct {
	User  models.User
	Trips TripCounters
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	trips, err := s.tripCounters(db, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Trips: trips}, nil
}

func (s *AuthService) tripCounters(db *gorm.DB, userID uint) (TripCounters, error) {
	var tc TripCounters
	base := func() *gorm.DB { return db.Model(&models.Booking{}).Where("user_id = ?", userID) }

	if err := base().Count(&tc.Total).Error; err != nil {
		return tc, fmt.Errorf("count trips: %w", err)
	}

	today := datatypes.Date(dateOf(s.now()))
	if err := base().
		Where("booking_status IN ?", []models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
		Where("check_in_date >= ?", today).
		Count(&tc.Upcoming).Error; err != nil {
		return tc, fmt.Errorf("count upcoming trips: %w", err)
	}
	if err := base().Where("booking_status = ?", models.BookingCompleted).Count(&tc.Completed).Error; err != nil {
		return tc, fmt.Errorf("count completed trips: %w", err)
	}
	if err := base().Where("booking_status = ?", models.BookingCancelled).Count(&tc.Cancelled).Error; err != nil {
		return tc, fmt.Errorf("count cancelled trips: %w", err)
	}
	return tc, nil
}
