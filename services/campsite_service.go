package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campsite-backend/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CampsiteService struct {
	DB     *gorm.DB
	Images *ImageStore
	logger *zap.Logger
}

func NewCampsiteService(db *gorm.DB, images *ImageStore, logger *zap.Logger) *CampsiteService {
	return &CampsiteService{DB: db, Images: images, logger: logger}
}

// CampsiteInput is used for both create and partial update. On update only
// non-nil fields are written.
type CampsiteInput struct {
	Name          *string
	Description   *string
	LocationName  *string
	Latitude      *decimal.Decimal
	Longitude     *decimal.Decimal
	Capacity      *int
	PricePerNight *decimal.Decimal
	Facilities    *string
	ImageURL      *string
	IsActive      *bool
}

func (in CampsiteInput) validateRanges() error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return validationError("name cannot be empty")
	}
	if in.LocationName != nil && strings.TrimSpace(*in.LocationName) == "" {
		return validationError("location_name cannot be empty")
	}
	if in.Latitude != nil && (in.Latitude.LessThan(decimal.NewFromInt(-90)) || in.Latitude.GreaterThan(decimal.NewFromInt(90))) {
		return validationError("latitude must be between -90 and 90")
	}
	if in.Longitude != nil && (in.Longitude.LessThan(decimal.NewFromInt(-180)) || in.Longitude.GreaterThan(decimal.NewFromInt(180))) {
		return validationError("longitude must be between -180 and 180")
	}
	if in.Capacity != nil && *in.Capacity < 1 {
		return validationError("capacity must be at least 1")
	}
	if in.PricePerNight != nil && in.PricePerNight.IsNegative() {
		return validationError("price_per_night cannot be negative")
	}
	return nil
}

func (s *CampsiteService) ListActive(ctx context.Context) ([]models.Campsite, error) {
	var list []models.Campsite
	if err := s.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list campsites: %w", err)
	}
	return list, nil
}

// ListAll includes soft-deleted campsites.
func (s *CampsiteService) ListAll(ctx context.Context) ([]models.Campsite, error) {
	var list []models.Campsite
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list campsites: %w", err)
	}
	return list, nil
}

// Get returns a campsite. Inactive campsites are reported as not found
// unless includeInactive is set.
func (s *CampsiteService) Get(ctx context.Context, id uint, includeInactive bool) (*models.Campsite, error) {
	var c models.Campsite
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Campsite not found")
		}
		return nil, fmt.Errorf("find campsite: %w", err)
	}
	if !c.IsActive && !includeInactive {
		return nil, notFoundError("Campsite not found")
	}
	return &c, nil
}

func (s *CampsiteService) Create(ctx context.Context, actor models.Principal, in CampsiteInput) (*models.Campsite, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	switch {
	case in.Name == nil:
		return nil, validationError("name is required")
	case in.LocationName == nil:
		return nil, validationError("location_name is required")
	case in.Latitude == nil:
		return nil, validationError("latitude is required")
	case in.Longitude == nil:
		return nil, validationError("longitude is required")
	case in.PricePerNight == nil:
		return nil, validationError("price_per_night is required")
	}
	if err := in.validateRanges(); err != nil {
		return nil, err
	}

	c := models.Campsite{
		Name:          strings.TrimSpace(*in.Name),
		LocationName:  strings.TrimSpace(*in.LocationName),
		Latitude:      *in.Latitude,
		Longitude:     *in.Longitude,
		Capacity:      50,
		PricePerNight: in.PricePerNight.Round(2),
		IsActive:      true,
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Capacity != nil {
		c.Capacity = *in.Capacity
	}
	if in.Facilities != nil {
		c.Facilities = *in.Facilities
	}
	if in.ImageURL != nil {
		c.ImageURL = strings.TrimSpace(*in.ImageURL)
	}

	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create campsite: %w", err)
	}

	s.logger.Info("Campsite created", zap.Uint("campsite_id", c.ID), zap.String("name", c.Name))
	return &c, nil
}

// Update applies a partial update. Existing bookings keep their price
// snapshot regardless of price changes here.
func (s *CampsiteService) Update(ctx context.Context, actor models.Principal, id uint, in CampsiteInput) (*models.Campsite, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := in.validateRanges(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.LocationName != nil {
		updates["location_name"] = strings.TrimSpace(*in.LocationName)
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.Capacity != nil {
		updates["capacity"] = *in.Capacity
	}
	if in.PricePerNight != nil {
		updates["price_per_night"] = in.PricePerNight.Round(2)
	}
	if in.Facilities != nil {
		updates["facilities"] = *in.Facilities
	}
	if in.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*in.ImageURL)
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	var c models.Campsite
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("Campsite not found")
			}
			return fmt.Errorf("find campsite: %w", err)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&c).Updates(updates).Error; err != nil {
			return fmt.Errorf("update campsite: %w", err)
		}
		return tx.First(&c, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Campsite updated", zap.Uint("campsite_id", c.ID), zap.Int("fields", len(updates)))
	return &c, nil
}

// Deactivate soft-deletes a campsite. Bookings that reference it stay
// readable.
func (s *CampsiteService) Deactivate(ctx context.Context, actor models.Principal, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	res := s.DB.WithContext(ctx).Model(&models.Campsite{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate campsite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either unknown or already inactive.
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.Campsite{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("find campsite: %w", err)
		}
		if count == 0 {
			return notFoundError("Campsite not found")
		}
	}

	s.logger.Info("Campsite deactivated", zap.Uint("campsite_id", id), zap.Uint("admin_id", actor.UserID))
	return nil
}

// SetImage stores an uploaded photo and points the campsite at it.
func (s *CampsiteService) SetImage(ctx context.Context, actor models.Principal, id uint, imageBase64 string) (*models.Campsite, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if s.Images == nil {
		return nil, errors.New("image uploads are not configured")
	}
	if _, err := s.Get(ctx, id, true); err != nil {
		return nil, err
	}

	url, err := s.Images.SaveBase64(imageBase64, "campsites")
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, actor, id, CampsiteInput{ImageURL: &url})
}
