package credential

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/minuend/internal/client/models"
	"github.com/dmitrijs2005/minuend/internal/common"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only-secret"))
	require.NoError(t, err)
	return tok
}

func validToken(t *testing.T) string {
	return sign(t, jwt.MapClaims{
		"sub":    "commander",
		"userId": 42,
		"iat":    now.Add(-time.Hour).Unix(),
		"exp":    now.Add(time.Hour).Unix(),
	})
}

func TestDecode_Valid(t *testing.T) {
	id, err := Decode(validToken(t), now)
	require.NoError(t, err)

	assert.Equal(t, "commander", id.Subject)
	assert.Equal(t, models.ID("42"), id.UserID)
	assert.Equal(t, now.Add(-time.Hour), id.IssuedAt.UTC())
	assert.Equal(t, now.Add(time.Hour), id.ExpiresAt.UTC())
}

func TestDecode_StringUserIDAndNoExpiry(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"sub": "scout", "userId": "u-7"})

	id, err := Decode(raw, now)
	require.NoError(t, err)
	assert.Equal(t, models.ID("u-7"), id.UserID)
	assert.True(t, id.ExpiresAt.IsZero())
}

func TestDecode_Expired(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"sub": "commander", "userId": 42, "exp": now.Add(-time.Second).Unix()})

	_, err := Decode(raw, now)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "a.b"},
		{"payload not json", "eyJhbGciOiJIUzI1NiJ9.bm90LWpzb24.sig"},
		{"missing user id", sign(t, jwt.MapClaims{"sub": "commander"})},
		{"zero user id", sign(t, jwt.MapClaims{"sub": "commander", "userId": 0})},
		{"missing subject", sign(t, jwt.MapClaims{"userId": 42})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw, now)
			require.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}

func TestDecode_SignatureIsNotChecked(t *testing.T) {
	raw := validToken(t)
	parts := strings.Split(raw, ".")
	parts[2] = "tampered"

	_, err := Decode(strings.Join(parts, "."), now)
	require.NoError(t, err)
}
