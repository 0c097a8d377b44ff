package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := New(&Config{Secret: "test-secret"})

	token, err := svc.GenerateAccessToken("mara@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "mara@example.com", claims.User())
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := New(&Config{Secret: "one"}).GenerateAccessToken("mara@example.com")
	require.NoError(t, err)

	_, err = New(&Config{Secret: "two"}).ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := New(&Config{Secret: "test-secret", TokenTTL: -time.Hour})

	token, err := svc.GenerateAccessToken("mara@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDisabledService(t *testing.T) {
	svc := New(&Config{})
	assert.False(t, svc.IsEnabled())

	_, err := svc.GenerateAccessToken("mara@example.com")
	assert.ErrorIs(t, err, ErrDisabled)
}
