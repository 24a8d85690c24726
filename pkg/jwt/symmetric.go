package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type symmetricSigner struct {
	secret []byte
}

func (s *symmetricSigner) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// NewSymmetric builds a Manager that signs and verifies with a shared HS256
// secret. Verification rejects tokens signed with any non-HMAC method.
func NewSymmetric(secret []byte, issuer string) (*Manager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("JWT secret cannot be empty")
	}

	return &Manager{
		signer: &symmetricSigner{secret: secret},
		issuer: issuer,
		keyFunc: func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
	}, nil
}
