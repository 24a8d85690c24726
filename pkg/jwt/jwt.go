package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors returned by Parse. Callers match with errors.Is instead of
// inspecting the underlying library error.
var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenNotValidYet      = errors.New("token is not yet valid")
	ErrTokenInvalid          = errors.New("token is invalid")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

// Signer produces a signed compact token from a set of claims. The concrete
// implementation decides the algorithm (HMAC or RSA).
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
}

// Claims carries the registered claim set plus a free-form application payload.
type Claims struct {
	jwt.RegisteredClaims
	Payload map[string]interface{} `json:"payload"`
}

// Manager issues and verifies tokens. Construct one with NewSymmetric or
// NewAsymmetric so that signing and verification keys stay paired.
type Manager struct {
	signer  Signer
	issuer  string
	keyFunc jwt.Keyfunc
}

// Option mutates claims before signing.
type Option func(*Claims)

// WithExpiresAt sets the token expiry.
func WithExpiresAt(t time.Time) Option {
	return func(c *Claims) {
		c.ExpiresAt = jwt.NewNumericDate(t)
	}
}

// WithNotBefore sets the earliest time the token is accepted.
func WithNotBefore(t time.Time) Option {
	return func(c *Claims) {
		c.NotBefore = jwt.NewNumericDate(t)
	}
}

// Generate signs a token carrying the given payload. Issuer and issued-at are
// filled in automatically; everything else comes from opts.
func (m *Manager) Generate(payload map[string]interface{}, opts ...Option) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   m.issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Payload: payload,
	}
	for _, opt := range opts {
		opt(claims)
	}
	return m.signer.Sign(claims)
}

// Parse verifies the token and returns its payload. Validation failures map to
// the package sentinel errors.
func (m *Manager) Parse(tokenString string) (map[string]interface{}, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotValidYet
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims.Payload, nil
}
