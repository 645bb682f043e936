package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const cartTokenIssuer = "solutions-api"

// CartClaims identifies a cart session. It carries no user identity.
type CartClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CartTokenSigner issues and verifies HS256 cart session tokens.
type CartTokenSigner struct {
	secret []byte
}

// NewCartTokenSigner creates a signer for the given secret.
func NewCartTokenSigner(secret string) *CartTokenSigner {
	return &CartTokenSigner{secret: []byte(secret)}
}

// Issue signs a token for sessionID. The token carries no expiry: the
// session TTL slides on every command, so the store decides when a cart
// is gone and answers CART_NOT_FOUND from then on.
func (s *CartTokenSigner) Issue(sessionID string) (string, error) {
	claims := CartClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   cartTokenIssuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies token and returns the session id it names.
func (s *CartTokenSigner) Parse(token string) (string, error) {
	claims := &CartClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cartTokenIssuer),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCartToken, err)
	}
	if claims.SessionID == "" {
		return "", fmt.Errorf("%w: %v", ErrInvalidCartToken, errors.New("missing session id"))
	}
	return claims.SessionID, nil
}
