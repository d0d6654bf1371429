// internal/session/starter_test.go
//
// Run: go test ./internal/session -v

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/gobarber/internal/api"
	"github.com/yanizio/gobarber/internal/form"
	"github.com/yanizio/gobarber/internal/message"
)

type fakeAuth struct {
	sess api.Session
	err  error
	hook func()
}

func (f fakeAuth) CreateSession(context.Context, string, string) (api.Session, error) {
	if f.hook != nil {
		f.hook()
	}
	return f.sess, f.err
}

func TestStarter_Success(t *testing.T) {
	rec := form.NewRecorder()
	s := NewStarter(fakeAuth{sess: api.Session{Token: "jwt"}}, rec, rec)

	s.CreateSession(context.Background(), "a@b.com", "secret")

	sess, ok := s.Session()
	require.True(t, ok)
	assert.Equal(t, "jwt", sess.Token)
	v := rec.Snapshot()
	assert.Equal(t, DashboardRoute, v.Redirect)
	assert.Empty(t, v.Notices)
}

func TestStarter_Failures(t *testing.T) {
	cases := map[string]struct {
		err  error
		want message.Notice
	}{
		"rejected": {&api.Error{Status: 401, Code: api.CodeInvalidCredentials}, InvalidCredentials},
		"down":     {errors.New("dial tcp: refused"), Unavailable},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := form.NewRecorder()
			s := NewStarter(fakeAuth{err: tc.err}, rec, rec)

			s.CreateSession(context.Background(), "a@b.com", "secret")

			_, ok := s.Session()
			assert.False(t, ok)
			v := rec.Snapshot()
			assert.Equal(t, []message.Notice{tc.want}, v.Notices)
			assert.Empty(t, v.Redirect)
			assert.Empty(t, v.Errors)
		})
	}
}

func TestStarter_AbandonedIsSilent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := form.NewRecorder()
	s := NewStarter(fakeAuth{err: context.Canceled, hook: cancel}, rec, rec)

	s.CreateSession(ctx, "a@b.com", "secret")
	assert.Empty(t, rec.Snapshot().Notices)
}

func TestStarter_DeadlineIsUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()
	rec := form.NewRecorder()
	s := NewStarter(fakeAuth{err: context.DeadlineExceeded}, rec, rec)

	s.CreateSession(ctx, "a@b.com", "secret")

	assert.Equal(t, []message.Notice{Unavailable}, rec.Snapshot().Notices)
	assert.Empty(t, rec.Snapshot().Redirect)
}

func TestCookieRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	LoginUser(w, r, "jwt", time.Hour)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	tok, ok := CurrentToken(r2)
	require.True(t, ok)
	assert.Equal(t, "jwt", tok)

	w = httptest.NewRecorder()
	LogoutUser(w, r2)
	assert.Equal(t, -1, w.Result().Cookies()[0].MaxAge)

	_, ok = CurrentToken(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
