package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"campsite-backend/models"

	"github.com/phpdave11/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketPayload(t *testing.T) {
	svc := NewTicketService(nil, "ticket-secret")
	bk := &models.Booking{BookingCode: "BKG20300110123456", CampsiteID: 7}

	payload := svc.Payload(bk)
	assert.True(t, strings.HasPrefix(payload, "BKG20300110123456|7|"))

	code, ok := svc.Verify(payload)
	require.True(t, ok)
	assert.Equal(t, bk.BookingCode, code)

	t.Run("tampered campsite", func(t *testing.T) {
		_, ok := svc.Verify(strings.Replace(payload, "|7|", "|8|", 1))
		assert.False(t, ok)
	})

	t.Run("other secret", func(t *testing.T) {
		_, ok := NewTicketService(nil, "another").Verify(payload)
		assert.False(t, ok)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, p := range []string{"", "BKG|7", "BKG|x|sig", "a|1|b|c"} {
			_, ok := svc.Verify(p)
			assert.False(t, ok, p)
		}
	})
}

func TestTicket(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	svc := NewTicketService(f.svc, "ticket-secret")

	in := f.input("2030-01-15", "2030-01-17")
	in.SpecialRequests = "Near the lake"
	bk, err := f.svc.CreateBooking(ctx, f.client.ID, in)
	require.NoError(t, err)

	owner := models.Principal{UserID: f.client.ID, Role: models.RoleClient}
	pdf, name, err := svc.Ticket(ctx, owner, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, "ticket-"+bk.BookingCode+".pdf", name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, _, err = svc.Ticket(ctx, f.admin, bk.ID)
	assert.NoError(t, err)

	_, _, err = svc.Ticket(ctx, models.Principal{UserID: f.client.ID + 100, Role: models.RoleClient}, bk.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = svc.Ticket(ctx, owner, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderNonASCIIText(t *testing.T) {
	svc := NewTicketService(nil, "ticket-secret")
	bk := &models.Booking{
		BookingCode:     "BKG20300110000001",
		CampsiteID:      1,
		Campsite:        models.Campsite{Name: "Lac Émeraude", LocationName: "Chiang Mai"},
		User:            models.User{FullName: "Zoë Café"},
		SpecialRequests: "ที่จอดรถใกล้เต็นท์ please",
		Status:          models.BookingConfirmed,
	}

	pdf, err := svc.Render(bk)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	tr := gofpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")
	assert.Equal(t, "Zo\xeb Caf\xe9", tr("Zoë Café"))
}
