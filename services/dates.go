package services

import (
	"strings"
	"time"

	"campsite-backend/models"
)

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

// dateOf returns the calendar date of t (in t's location) as UTC midnight,
// so day arithmetic is free of DST shifts.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(dateOf(to).Sub(dateOf(from)).Hours() / 24)
}

func requireAdmin(actor models.Principal) error {
	if !actor.IsAdmin() {
		return forbiddenError("Admin access required")
	}
	return nil
}
