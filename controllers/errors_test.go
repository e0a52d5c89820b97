package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"campsite-backend/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind error
		want int
	}{
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrConflict, http.StatusBadRequest},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrExhaustedRetries, http.StatusConflict},
		{services.ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{services.ErrUpstreamUnavailable, http.StatusServiceUnavailable},
		{services.ErrUpstreamBadGateway, http.StatusBadGateway},
		{services.ErrData, http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := fmt.Errorf("wrapped: %w", &services.Error{Kind: tc.kind, Message: "m"})
		assert.Equal(t, tc.want, statusFor(err), tc.kind.Error())
	}
}
