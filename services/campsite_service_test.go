package services

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"campsite-backend/models"
	"campsite-backend/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var adminActor = models.Principal{UserID: 1, Role: models.RoleAdmin}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCampsiteCreateAndUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCampsiteService(db, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Principal{UserID: 2, Role: models.RoleClient}, CampsiteInput{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Create(ctx, adminActor, CampsiteInput{Name: strPtr("Ridge")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, adminActor, CampsiteInput{
		Name: strPtr("Ridge"), LocationName: strPtr("North"),
		Latitude: decPtr("95"), Longitude: decPtr("100"), PricePerNight: decPtr("10"),
	})
	assert.ErrorIs(t, err, ErrValidation)

	c, err := svc.Create(ctx, adminActor, CampsiteInput{
		Name:          strPtr(" Ridge "),
		LocationName:  strPtr("North Valley"),
		Latitude:      decPtr("18.78830000"),
		Longitude:     decPtr("98.98530000"),
		PricePerNight: decPtr("250.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ridge", c.Name)
	assert.Equal(t, 50, c.Capacity)
	assert.True(t, c.IsActive)
	assert.Equal(t, "250.50", c.PricePerNight.StringFixed(2))

	updated, err := svc.Update(ctx, adminActor, c.ID, CampsiteInput{Capacity: intPtr(80), Description: strPtr("Pines")})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Capacity)
	assert.Equal(t, "Pines", updated.Description)
	assert.Equal(t, "Ridge", updated.Name)

	_, err = svc.Update(ctx, adminActor, 9999, CampsiteInput{Capacity: intPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCampsiteSoftDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCampsiteService(db, nil, zap.NewNop())
	bookings := NewBookingService(db, nil, zap.NewNop())
	bookings.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "c@example.com", "pw")
	camp := testutil.CreateCampsite(t, db, "Riverside", "80.00")
	testutil.CreateCampsite(t, db, "Hilltop", "60.00")

	bk, err := bookings.CreateBooking(ctx, user.ID, CreateBookingInput{
		CampsiteID:   uintPtr(camp.ID),
		CheckInDate:  strPtr("2030-01-20"),
		CheckOutDate: strPtr("2030-01-22"),
		NumPeople:    intPtr(3),
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Deactivate(ctx, models.Principal{UserID: user.ID, Role: models.RoleClient}, camp.ID), ErrForbidden)
	require.NoError(t, svc.Deactivate(ctx, adminActor, camp.ID))
	require.NoError(t, svc.Deactivate(ctx, adminActor, camp.ID))
	assert.ErrorIs(t, svc.Deactivate(ctx, adminActor, 9999), ErrNotFound)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Hilltop", active[0].Name)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Get(ctx, camp.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)
	hidden, err := svc.Get(ctx, camp.ID, true)
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	list, err := bookings.ListBookingsForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bk.ID, list[0].ID)
	assert.Equal(t, "Riverside", list[0].Campsite.Name)
}

// 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestCampsiteSetImage(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()
	svc := NewCampsiteService(db, NewImageStore(dir, "/uploads"), zap.NewNop())
	ctx := context.Background()
	camp := testutil.CreateCampsite(t, db, "Dunes", "40.00")

	updated, err := svc.SetImage(ctx, adminActor, camp.ID, "data:image/png;base64,"+tinyPNG)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(updated.ImageURL, "/uploads/campsites/"))
	assert.True(t, strings.HasSuffix(updated.ImageURL, ".png"))

	onDisk := filepath.Join(dir, strings.TrimPrefix(updated.ImageURL, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	raw, _ := base64.StdEncoding.DecodeString(tinyPNG)
	assert.Equal(t, raw, data)

	_, err = svc.SetImage(ctx, adminActor, camp.ID, base64.StdEncoding.EncodeToString([]byte("plain text")))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetImage(ctx, adminActor, camp.ID, "!!not base64!!")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetImage(ctx, adminActor, 9999, tinyPNG)
	assert.ErrorIs(t, err, ErrNotFound)
}
