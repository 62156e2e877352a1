package devserver

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid token")

// claims carries the user id in Subject. Generation lets the server revoke
// every token issued before a call to InvalidateSessions.
type claims struct {
	jwt.RegisteredClaims
	Role       string `json:"role"`
	Generation int64  `json:"gen"`
}

func generateToken(userID int64, role string, gen int64, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:       role,
		Generation: gen,
	})
	return token.SignedString(secret)
}

func parseToken(tokenString string, secret []byte) (int64, int64, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, 0, err
	}
	if !token.Valid {
		return 0, 0, errInvalidToken
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, 0, errInvalidToken
	}
	return id, c.Generation, nil
}
