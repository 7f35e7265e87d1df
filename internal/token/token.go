package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	inErrors "github.com/mahardika/storefront/internal/errors"
)

// Verify checks that raw is a bearer token signed with the shared backend
// secret. The gateway only verifies; tokens are always minted by the backend.
func Verify(raw string, secret string) error {
	claims := jwt.RegisteredClaims{}

	jwtToken, err := jwt.ParseWithClaims(
		raw,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("failed parsing with claims with error=%w", err)
	}
	if !jwtToken.Valid {
		return inErrors.ErrTokenInvalid
	}
	return nil
}

// Subject extracts the subject claim without verifying the signature. Used
// only for log enrichment, never for authorization decisions.
func Subject(raw string) string {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
