// internal/form/csrf.go
//
// GoBarber – Forms subsystem: stateless CSRF tokens.
//
// Context
//   Every rendered form embeds a hidden `csrf_token`.  The token is
//
//      base64url( nonce | unixMicro | HMAC_SHA256(key, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.  Makes each render a distinct form instance.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – proves the server issued it.
//
//   Verification needs no server-side state.  The token string is also the
//   form-instance key used by Instances (inflight.go).
//
// Workflow
//   •  NewCSRF(key)       → signer; key must be at least 32 bytes.
//   •  Generate()         → token string for the renderer.
//   •  Verify(tok)        → constant-time check of signature and age.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

const (
	nonceBytes   = 16
	tokenBytes   = nonceBytes + 8 + sha256.Size
	csrfMaxAge   = 2 * time.Hour
	clockSkew    = time.Minute
	minCSRFBytes = 32
)

// CSRF issues and verifies form tokens.
type CSRF struct {
	key []byte
	now func() time.Time
}

// NewCSRF returns a signer for key.
func NewCSRF(key []byte) (*CSRF, error) {
	if len(key) < minCSRFBytes {
		return nil, errors.New("csrf: key must be at least 32 bytes")
	}
	return &CSRF{key: append([]byte(nil), key...), now: time.Now}, nil
}

// RandomKey returns a fresh 32-byte key.  Tokens signed with it die with the
// process, which is fine for development.
func RandomKey() ([]byte, error) {
	k := make([]byte, minCSRFBytes)
	if _, err := rand.Read(k); err != nil {
		return nil, err
	}
	return k, nil
}

// Generate creates a new token.  Call once per form render.
func (c *CSRF) Generate() (string, error) {
	buf := make([]byte, nonceBytes+8, tokenBytes)
	if _, err := rand.Read(buf[:nonceBytes]); err != nil {
		return "", err
	}
	binary.BigEndian.PutUint64(buf[nonceBytes:], uint64(c.now().UnixMicro()))
	buf = append(buf, c.sign(buf)...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok is authentic and within its age window.
func (c *CSRF) Verify(tok string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	body, sig := raw[:nonceBytes+8], raw[nonceBytes+8:]
	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(body[nonceBytes:])))
	now := c.now()
	if now.Sub(issued) > csrfMaxAge || issued.Sub(now) > clockSkew {
		return false
	}
	return hmac.Equal(sig, c.sign(body))
}

func (c *CSRF) sign(body []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(body)
	return mac.Sum(nil)
}
