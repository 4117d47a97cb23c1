package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := issueToken(42, "secret", time.Hour)
	require.NoError(t, err)

	userID, err := verifyToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, 42, userID)
}

func TestTokenExpired(t *testing.T) {
	token, err := issueToken(42, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = verifyToken(token, "secret")
	require.ErrorIs(t, err, errTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := issueToken(42, "secret", time.Hour)
	require.NoError(t, err)

	_, err = verifyToken(token, "another-secret")
	require.ErrorIs(t, err, errTokenSignature)
}

func TestTokenMalformed(t *testing.T) {
	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		_, err := verifyToken(tokenStr, "secret")
		require.ErrorIs(t, err, errTokenMalformed, "token %q", tokenStr)
	}
}

func TestTokenRejectsUnsignedAlg(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifyToken(tokenStr, "secret")
	require.Error(t, err)
}

func TestTokenRejectsNonNumericSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "not-a-user-id",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = verifyToken(token, "secret")
	require.ErrorIs(t, err, errTokenMalformed)
}
