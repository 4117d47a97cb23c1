package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// The three verification failures are kept apart for logging only; clients
// always receive the same generic 401.
var (
	errTokenMalformed = errors.New("token is malformed")
	errTokenExpired   = errors.New("token has expired")
	errTokenSignature = errors.New("token signature is invalid")
)

func issueToken(userID int, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func verifyToken(tokenStr, secret string) (int, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) {
			switch {
			case vErr.Errors&jwt.ValidationErrorMalformed != 0:
				return 0, errTokenMalformed
			case vErr.Errors&jwt.ValidationErrorExpired != 0:
				return 0, errTokenExpired
			case vErr.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				return 0, errTokenSignature
			}
		}
		return 0, errTokenMalformed
	}
	if !token.Valid {
		return 0, errTokenMalformed
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, errTokenMalformed
	}
	return userID, nil
}
