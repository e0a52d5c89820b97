// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"campsite-backend/config"
	"campsite-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
// A single connection is used, so code under test must not touch the
// root handle while a transaction is open.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.AutoMigrate(db))
	return db
}

type UserOption func(*models.User)

func WithRole(r models.Role) UserOption {
	return func(u *models.User) { u.Role = r }
}

func WithStatus(s models.RegistrationStatus) UserOption {
	return func(u *models.User) { u.RegistrationStatus = s }
}

func Inactive() UserOption {
	return func(u *models.User) { u.IsActive = false }
}

// CreateUser inserts an approved, active client with the given password.
func CreateUser(t testing.TB, db *gorm.DB, email, password string, opts ...UserOption) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := models.User{
		Email:              email,
		PasswordHash:       string(hash),
		FullName:           "Test User",
		PhoneNumber:        "0800000000",
		Role:               models.RoleClient,
		RegistrationStatus: models.RegistrationApproved,
		IsActive:           true,
	}
	for _, opt := range opts {
		opt(&u)
	}
	// is_active has a column default, so a false value is skipped on insert.
	active := u.IsActive
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Model(&u).Update("is_active", active).Error)
	u.IsActive = active
	return u
}

// CreateCampsite inserts an active campsite priced at price per night.
func CreateCampsite(t testing.TB, db *gorm.DB, name, price string) models.Campsite {
	t.Helper()

	c := models.Campsite{
		Name:          name,
		Description:   "Lakeside pitches",
		LocationName:  "Khao Yai",
		Latitude:      decimal.RequireFromString("14.43910000"),
		Longitude:     decimal.RequireFromString("101.37230000"),
		Capacity:      40,
		PricePerNight: decimal.RequireFromString(price),
		Facilities:    "toilets, showers",
		IsActive:      true,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}
