package services

import (
	"fmt"

	"campsite-backend/models"
)

// StatusPolicy decides whether a booking may move between two statuses.
type StatusPolicy interface {
	Allow(from, to models.BookingStatus) error
}

// PermissiveStatusPolicy allows every transition between known statuses.
type PermissiveStatusPolicy struct{}

func (PermissiveStatusPolicy) Allow(from, to models.BookingStatus) error { return nil }

// TerminalStatusPolicy treats cancelled and completed as final.
type TerminalStatusPolicy struct{}

var terminalTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled, models.BookingCompleted},
	models.BookingConfirmed: {models.BookingPending, models.BookingCancelled, models.BookingCompleted},
	models.BookingCancelled: {},
	models.BookingCompleted: {},
}

func (TerminalStatusPolicy) Allow(from, to models.BookingStatus) error {
	if from == to {
		return nil
	}
	for _, next := range terminalTransitions[from] {
		if next == to {
			return nil
		}
	}
	return validationError(fmt.Sprintf("Cannot change booking status from %s to %s", from, to))
}

// StatusPolicyByName maps the BOOKING_STATUS_POLICY setting to a policy.
func StatusPolicyByName(name string) (StatusPolicy, error) {
	switch name {
	case "", "permissive":
		return PermissiveStatusPolicy{}, nil
	case "strict", "terminal":
		return TerminalStatusPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown booking status policy %q", name)
	}
}
