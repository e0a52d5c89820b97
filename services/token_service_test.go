package services

import (
	"testing"
	"time"

	"campsite-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	svc := NewTokenService("secret-a", time.Hour)
	u := models.User{ID: 42, Role: models.RoleAdmin}

	token, expiresAt, err := svc.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	p, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.Principal{UserID: 42, Role: models.RoleAdmin}, p)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenService("secret-b", time.Hour).Parse(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenService("secret-a", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Parse("not.a.token")
		assert.Error(t, err)
	})
}
