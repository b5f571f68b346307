package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim from a JWT without verifying the
// signature. The client only uses this to warn before making calls with a
// stale token; the server still verifies everything.
func TokenExpiry(tokenString string) (time.Time, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}

	return exp.Time, nil
}

// Claims is the subset of the JWT payload the client cares about
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenClaims reads the identity claims from a JWT without verifying the
// signature
func TokenClaims(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()
	mapClaims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, mapClaims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims := &Claims{}
	if v, ok := mapClaims["user_id"].(string); ok {
		claims.UserID = v
	}
	if v, ok := mapClaims["email"].(string); ok {
		claims.Email = v
	}
	if v, ok := mapClaims["role"].(string); ok {
		claims.Role = v
	}
	return claims, nil
}

// TokenExpired reports whether the token's exp claim has passed. A token
// that cannot be parsed counts as expired.
func TokenExpired(tokenString string) bool {
	expiry, err := TokenExpiry(tokenString)
	if err != nil {
		return true
	}
	return time.Now().After(expiry)
}
