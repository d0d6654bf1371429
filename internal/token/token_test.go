// internal/token/token_test.go
//
// Run: go test ./internal/token -v

package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueParse(t *testing.T) {
	iss, err := NewIssuer(secret, time.Hour)
	require.NoError(t, err)

	raw, err := iss.Issue("u-1", "Jo", "jo@x.com")
	require.NoError(t, err)

	c, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.Subject)
	assert.Equal(t, "Jo", c.Name)
	assert.Equal(t, "jo@x.com", c.Email)
}

func TestParse_Rejects(t *testing.T) {
	iss, _ := NewIssuer(secret, time.Hour)
	raw, _ := iss.Issue("u-1", "Jo", "jo@x.com")

	other, _ := NewIssuer([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
	_, err := other.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid, "wrong secret")

	iss.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = iss.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u-1", Issuer: "gobarber"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = other.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalid, "alg none")

	_, err = iss.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestNewIssuer_Rejects(t *testing.T) {
	_, err := NewIssuer([]byte("short"), time.Hour)
	assert.Error(t, err)
	_, err = NewIssuer(secret, 0)
	assert.Error(t, err)
}
