package customer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "bankcore"
	tokenAudience = "customer-service"
	tokenTTL      = time.Minute
)

// tokenSigner issues short living HS256 tokens to call other services
type tokenSigner struct {
	key []byte
	alg jwt.SigningMethod
}

func newTokenSigner(secretKey string) *tokenSigner {
	return &tokenSigner{
		key: []byte(secretKey),
		alg: jwt.SigningMethodHS256,
	}
}

func (s *tokenSigner) Sign(now time.Time) (string, error) {
	now = now.Truncate(time.Second)

	token := jwt.NewWithClaims(s.alg, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("error while signing service token. Err: %w", err)
	}
	return signed, nil
}
