// internal/api/client.go
//
// GoBarber – users API client.
//
// Context
//   The sign-in and sign-up screens never touch the database.  They talk to
//   the users API (components/users, or any backend speaking the same JSON)
//   through this client:
//
//      POST {base}/users     {"name","email","password"}  → 201 user
//      POST {base}/sessions  {"email","password"}         → 200 {token,user}
//
//   Non-2xx answers are decoded from the error envelope into *Error.
//
// Workflow
//   •  Transport is hashicorp/go-retryablehttp.  Only connection failures
//      are retried; a POST that reached the server is never resent, since
//      user creation is not idempotent.
//   •  Retry chatter goes to zap through a LeveledLogger adapter.
//
//------------------------------------------------------------------------------

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// NewUser is the registration payload.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the public view of an account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the answer to a successful sign-in.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Options tunes the Client.  Zero values pick defaults.
type Options struct {
	Timeout  time.Duration // per attempt; default 10s
	RetryMax int           // transport-level retries; default 0
}

// Client is safe for concurrent use.
type Client struct {
	base string
	http *retryablehttp.Client
}

// New returns a Client for baseURL, e.g. "http://127.0.0.1:8080/api".
func New(baseURL string, opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.Logger = leveled{zap.S().With("component", "api")}
	rc.CheckRetry = transportOnly
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	} else {
		rc.HTTPClient.Timeout = 10 * time.Second
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: rc}
}

// RegisterUser creates an account.
func (c *Client) RegisterUser(ctx context.Context, u NewUser) (User, error) {
	var out User
	err := c.post(ctx, "/users", u, http.StatusCreated, &out)
	return out, err
}

// CreateSession exchanges credentials for a token.
func (c *Client) CreateSession(ctx context.Context, email, password string) (Session, error) {
	var out Session
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	err := c.post(ctx, "/sessions", body, http.StatusOK, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, in any, want int, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return fmt.Errorf("api %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("api %s: read body: %w", path, err)
	}
	if resp.StatusCode != want {
		return decodeError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api %s: decode: %w", path, err)
	}
	return nil
}

// transportOnly retries connection failures and nothing else.
func transportOnly(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil && resp == nil, nil
}

// leveled adapts a SugaredLogger to retryablehttp.LeveledLogger.
type leveled struct{ s *zap.SugaredLogger }

func (l leveled) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveled) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveled) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
