package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	bookingCodePrefix      = "BKG"
	maxBookingCodeAttempts = 5
)

var bookingCodeSpace = big.NewInt(1_000_000)

// GenerateBookingCode returns BKG + YYYYMMDD + six random digits, e.g.
// BKG20261018042917. Uniqueness is enforced by the database.
func GenerateBookingCode(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, bookingCodeSpace)
	if err != nil {
		return "", fmt.Errorf("generate booking code: %w", err)
	}
	return fmt.Sprintf("%s%s%06d", bookingCodePrefix, now.Format("20060102"), n.Int64()), nil
}
