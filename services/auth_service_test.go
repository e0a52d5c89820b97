package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"campsite-backend/models"
	"campsite-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewAuthService(db, NewTokenService("test-secret", 7*24*time.Hour), zap.NewNop())
	svc.hashCost = bcrypt.MinCost
	return svc, db
}

func messageOf(t *testing.T, err error) string {
	t.Helper()
	var svcErr *Error
	require.True(t, errors.As(err, &svcErr), "expected *services.Error, got %T", err)
	return svcErr.Message
}

func TestRegister(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, RegisterInput{
		Email:       "  alice@example.com ",
		Password:    "pw-123",
		FullName:    "Alice",
		PhoneNumber: "0811111111",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	var u models.User
	require.NoError(t, db.First(&u, id).Error)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.RoleClient, u.Role)
	assert.Equal(t, models.RegistrationPending, u.RegistrationStatus)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "pw-123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw-123")))

	_, err = svc.Register(ctx, RegisterInput{
		Email: "alice@example.com", Password: "other", FullName: "Alice 2", PhoneNumber: "0822222222",
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Email already registered", messageOf(t, err))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_EmailIsCaseSensitive(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "pw", FullName: "Bob", PhoneNumber: "1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Email: "Bob@example.com", Password: "pw", FullName: "Bob", PhoneNumber: "1"})
	assert.NoError(t, err)
}

func TestRegister_RequiredFields(t *testing.T) {
	svc, _ := newAuthService(t)

	cases := map[string]RegisterInput{
		"email is required":        {Password: "pw", FullName: "A", PhoneNumber: "1"},
		"password is required":     {Email: "a@example.com", FullName: "A", PhoneNumber: "1"},
		"full_name is required":    {Email: "a@example.com", Password: "pw", FullName: "   ", PhoneNumber: "1"},
		"phone_number is required": {Email: "a@example.com", Password: "pw", FullName: "A"},
	}
	for want, in := range cases {
		_, err := svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, want, messageOf(t, err))
	}
}

func TestAuthenticate(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	approved := testutil.CreateUser(t, db, "ok@example.com", "right")
	testutil.CreateUser(t, db, "pending@example.com", "right", testutil.WithStatus(models.RegistrationPending))
	testutil.CreateUser(t, db, "rejected@example.com", "right", testutil.WithStatus(models.RegistrationRejected))
	testutil.CreateUser(t, db, "off@example.com", "right", testutil.Inactive())

	t.Run("success issues a token for the user", func(t *testing.T) {
		res, err := svc.Authenticate(ctx, "ok@example.com", "right")
		require.NoError(t, err)
		assert.Equal(t, approved.ID, res.User.ID)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), res.ExpiresAt, time.Minute)

		p, err := svc.Tokens.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, approved.ID, p.UserID)
		assert.Equal(t, models.RoleClient, p.Role)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, err1 := svc.Authenticate(ctx, "ok@example.com", "wrong")
		_, err2 := svc.Authenticate(ctx, "nobody@example.com", "right")
		assert.ErrorIs(t, err1, ErrUnauthorized)
		assert.ErrorIs(t, err2, ErrUnauthorized)
		assert.Equal(t, messageOf(t, err1), messageOf(t, err2))
		assert.Equal(t, "Invalid email or password", messageOf(t, err1))
	})

	t.Run("pending and rejected wait for approval", func(t *testing.T) {
		for _, email := range []string{"pending@example.com", "rejected@example.com"} {
			_, err := svc.Authenticate(ctx, email, "right")
			assert.ErrorIs(t, err, ErrForbidden)
			assert.Equal(t, "Your account is pending approval", messageOf(t, err))
		}
	})

	t.Run("deactivated", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "off@example.com", "right")
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, "Account is deactivated", messageOf(t, err))
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "", "right")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestProfile_TripCounters(t *testing.T) {
	svc, db := newAuthService(t)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "trips@example.com", "pw")
	camp := testutil.CreateCampsite(t, db, "Lakeside", "50.00")

	bookings := NewBookingService(db, nil, zap.NewNop())
	bookings.now = func() time.Time { return fixedNow }
	in := CreateBookingInput{CampsiteID: uintPtr(camp.ID), NumPeople: intPtr(1)}

	for _, dates := range [][2]string{{"2030-01-12", "2030-01-13"}, {"2030-02-01", "2030-02-03"}, {"2030-03-01", "2030-03-02"}} {
		in.CheckInDate, in.CheckOutDate = strPtr(dates[0]), strPtr(dates[1])
		_, err := bookings.CreateBooking(ctx, u.ID, in)
		require.NoError(t, err)
	}

	var list []models.Booking
	require.NoError(t, db.Order("id").Find(&list).Error)
	require.NoError(t, db.Model(&list[1]).Update("booking_status", models.BookingCancelled).Error)
	require.NoError(t, db.Model(&list[2]).Update("booking_status", models.BookingCompleted).Error)

	p, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, p.User.Email)
	assert.Equal(t, int64(3), p.Trips.Total)
	assert.Equal(t, int64(1), p.Trips.Upcoming)
	assert.Equal(t, int64(1), p.Trips.Cancelled)
	assert.Equal(t, int64(1), p.Trips.Completed)

	_, err = svc.Profile(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
