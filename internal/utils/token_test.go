package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartToken_RoundTrip(t *testing.T) {
	s := NewCartTokenSigner("secret")

	token, err := s.Issue("session-1")
	require.NoError(t, err)

	sid, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", sid)
}

func TestCartToken_CarriesNoExpiry(t *testing.T) {
	token, err := NewCartTokenSigner("secret").Issue("session-1")
	require.NoError(t, err)

	claims := &CartClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
}

func TestCartToken_Rejects(t *testing.T) {
	s := NewCartTokenSigner("secret")

	sign := func(claims CartClaims, key string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return token
	}

	wrongSecret, err := NewCartTokenSigner("other").Issue("session-1")
	require.NoError(t, err)

	noSession, err := s.Issue("")
	require.NoError(t, err)

	expired := sign(CartClaims{
		SessionID: "session-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cartTokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, "secret")

	foreign := sign(CartClaims{
		SessionID:        "session-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	}, "secret")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, CartClaims{
		SessionID:        "session-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: cartTokenIssuer},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"wrong secret": wrongSecret,
		"expired":      expired,
		"no session":   noSession,
		"wrong issuer": foreign,
		"alg none":     unsigned,
		"garbage":      "abc.def.ghi",
		"empty":        "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidCartToken)
		})
	}
}
