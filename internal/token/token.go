// internal/token/token.go
//
// GoBarber – session tokens.
//
// Context
//   POST /api/sessions answers with an HS256 JWT that identifies the user.
//   The web screens keep that token in an HttpOnly cookie, and internal/auth
//   parses it on every request.  Both sides share one Issuer built from
//   security.jwt_secret, so tokens minted by an external backend with the
//   same secret are accepted too.
//
// Notes
//   •  Only HMAC signing methods are accepted; "none" and RSA are rejected.
//   •  Subject is the user UUID.  Name and Email ride along so the
//      dashboard renders without a database round-trip.
//
//------------------------------------------------------------------------------

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "gobarber"

// ErrInvalid covers every parse failure: bad signature, expiry, or shape.
var ErrInvalid = errors.New("token: invalid")

// Claims is the JWT payload.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and parses tokens.  Safe for concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer.  secret must be at least 32 bytes.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) < 32 {
		return nil, errors.New("token: secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	return &Issuer{secret: append([]byte(nil), secret...), ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue mints a token for the given user.
func (i *Issuer) Issue(userID, name, email string) (string, error) {
	now := i.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	s, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Parse verifies raw and returns its claims.  Any failure wraps ErrInvalid.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalid)
	}
	return &c, nil
}
