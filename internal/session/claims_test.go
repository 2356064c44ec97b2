package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekClaims_ReadsWithoutSecret(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		PhoneNumber: "0912345678",
		UserName:    "Ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString([]byte("server-only-secret"))
	require.NoError(t, err)

	claims, err := PeekClaims(signed)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "0912345678", claims.PhoneNumber)
	assert.Equal(t, "Ana", claims.UserName)
	assert.InDelta(t, time.Hour.Seconds(), claims.ExpiresIn(time.Now()).Seconds(), 5)
}

func TestPeekClaims_Garbage(t *testing.T) {
	_, err := PeekClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestClaims_ExpiresInWithoutExp(t *testing.T) {
	assert.Equal(t, time.Duration(0), Claims{}.ExpiresIn(time.Now()))
}
