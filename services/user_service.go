package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"campsite-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// RegistrationNotifier tells applicants about review outcomes.
type RegistrationNotifier interface {
	SendRegistrationDecision(email, name string, approved bool) error
}

// UserService holds the admin side of the registration workflow.
type UserService struct {
	DB       *gorm.DB
	Notifier RegistrationNotifier

	logger  *zap.Logger
	now     func() time.Time
	pending sync.WaitGroup
}

func NewUserService(db *gorm.DB, notifier RegistrationNotifier, logger *zap.Logger) *UserService {
	return &UserService{DB: db, Notifier: notifier, logger: logger, now: time.Now}
}

// ReviewRegistration moves a user from pending to approved or rejected.
// Repeating a transition is allowed.
func (s *UserService) ReviewRegistration(ctx context.Context, actor models.Principal, targetID uint, action ReviewAction) (*models.User, string, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, "", err
	}

	var user models.User
	var message string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("User not found")
			}
			return fmt.Errorf("find user: %w", err)
		}

		var next models.RegistrationStatus
		switch action {
		case ActionApprove:
			next, message = models.RegistrationApproved, "User approved successfully"
		case ActionReject:
			next, message = models.RegistrationRejected, "User rejected"
		default:
			return validationError("Invalid action")
		}

		if err := tx.Model(&user).Update("registration_status", next).Error; err != nil {
			return fmt.Errorf("update registration status: %w", err)
		}
		user.RegistrationStatus = next
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Registration reviewed",
		zap.Uint("admin_id", actor.UserID),
		zap.Uint("user_id", user.ID),
		zap.String("status", string(user.RegistrationStatus)))

	if s.Notifier != nil {
		s.pending.Add(1)
		go s.notify(user)
	}
	return &user, message, nil
}

// notify runs off the request path. Delivery failures do not undo the review.
func (s *UserService) notify(user models.User) {
	defer s.pending.Done()
	if err := s.Notifier.SendRegistrationDecision(user.Email, user.FullName, user.RegistrationStatus == models.RegistrationApproved); err != nil {
		s.logger.Warn("Registration notice not sent", zap.Uint("user_id", user.ID), zap.Error(err))
	}
}

// Wait blocks until every queued decision notice has been attempted.
func (s *UserService) Wait() { s.pending.Wait() }

// ListUsers returns all users, optionally filtered by registration status.
func (s *UserService) ListUsers(ctx context.Context, status string) ([]models.User, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if status = strings.TrimSpace(status); status != "" {
		st := models.RegistrationStatus(status)
		if st != models.RegistrationPending && st != models.RegistrationApproved && st != models.RegistrationRejected {
			return nil, validationError("Invalid registration status")
		}
		q = q.Where("registration_status = ?", st)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

type PendingUser struct {
	models.User
	DaysPending int
}

// ListPendingUsers returns users awaiting review, oldest first.
func (s *UserService) ListPendingUsers(ctx context.Context) ([]PendingUser, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).
		Where("registration_status = ?", models.RegistrationPending).
		Order("created_at ASC").Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list pending users: %w", err)
	}

	now := s.now()
	out := make([]PendingUser, 0, len(users))
	for _, u := range users {
		out = append(out, PendingUser{User: u, DaysPending: int(now.Sub(u.CreatedAt).Hours() / 24)})
	}
	return out, nil
}

type UserDetail struct {
	models.User
	BookingCount int64
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*UserDetail, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var n int64
	if err := db.Model(&models.Booking{}).Where("user_id = ?", id).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	return &UserDetail{User: user, BookingCount: n}, nil
}

type UserCounters struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Active   int64 `json:"active"`
}

func (s *UserService) Counters(ctx context.Context) (*UserCounters, error) {
	db := s.DB.WithContext(ctx)

	type row struct {
		Status models.RegistrationStatus
		N      int64
	}
	var rows []row
	if err := db.Model(&models.User{}).
		Select("registration_status AS status, COUNT(*) AS n").
		Group("registration_status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count users by status: %w", err)
	}

	uc := &UserCounters{}
	for _, r := range rows {
		uc.Total += r.N
		switch r.Status {
		case models.RegistrationPending:
			uc.Pending = r.N
		case models.RegistrationApproved:
			uc.Approved = r.N
		case models.RegistrationRejected:
			uc.Rejected = r.N
		}
	}

	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&uc.Active).Error; err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	return uc, nil
}
