package services

import (
	"testing"
	"time"

	"campsite-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteStay(t *testing.T) {
	cases := []struct {
		price    string
		nights   int
		subtotal string
		tax      string
		total    string
	}{
		{"100.00", 3, "300.00", "30.00", "330.00"},
		{"450.00", 1, "450.00", "45.00", "495.00"},
		{"33.33", 1, "33.33", "3.33", "36.66"},
		{"12.35", 3, "37.05", "3.71", "40.76"},
		{"0.00", 2, "0.00", "0.00", "0.00"},
	}

	for _, tc := range cases {
		q := QuoteStay(decimal.RequireFromString(tc.price), tc.nights)
		assert.Equal(t, tc.nights, q.Nights)
		assert.Equal(t, tc.subtotal, q.Subtotal.StringFixed(2), "subtotal for %s x %d", tc.price, tc.nights)
		assert.Equal(t, tc.tax, q.TaxAmount.StringFixed(2), "tax for %s x %d", tc.price, tc.nights)
		assert.Equal(t, tc.total, q.TotalPrice.StringFixed(2), "total for %s x %d", tc.price, tc.nights)
		assert.True(t, q.TotalPrice.Equal(q.Subtotal.Add(q.TaxAmount)))
	}
}

func TestGenerateBookingCode(t *testing.T) {
	now := time.Date(2026, time.October, 18, 23, 59, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateBookingCode(now)
		require.NoError(t, err)
		assert.Regexp(t, `^BKG20261018\d{6}$`, code)
		assert.Len(t, code, 17)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestDaysBetween(t *testing.T) {
	from, err := parseDate("2026-03-28")
	require.NoError(t, err)
	to, err := parseDate("2026-04-02")
	require.NoError(t, err)

	assert.Equal(t, 5, daysBetween(from, to))
	assert.Equal(t, 0, daysBetween(from, from))
}

func TestStatusPolicies(t *testing.T) {
	all := models.BookingStatuses()

	for _, from := range all {
		for _, to := range all {
			assert.NoError(t, PermissiveStatusPolicy{}.Allow(from, to))
		}
	}

	strict := TerminalStatusPolicy{}
	assert.NoError(t, strict.Allow(models.BookingPending, models.BookingConfirmed))
	assert.NoError(t, strict.Allow(models.BookingConfirmed, models.BookingCompleted))
	assert.NoError(t, strict.Allow(models.BookingCancelled, models.BookingCancelled))
	assert.ErrorIs(t, strict.Allow(models.BookingCancelled, models.BookingConfirmed), ErrValidation)
	assert.ErrorIs(t, strict.Allow(models.BookingCompleted, models.BookingPending), ErrValidation)

	p, err := StatusPolicyByName("")
	require.NoError(t, err)
	assert.IsType(t, PermissiveStatusPolicy{}, p)

	p, err = StatusPolicyByName("strict")
	require.NoError(t, err)
	assert.IsType(t, TerminalStatusPolicy{}, p)

	_, err = StatusPolicyByName("lenient")
	assert.Error(t, err)
}
