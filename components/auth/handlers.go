// components/auth/handlers.go
//
// HTTP handlers for the auth screens.
//
// Context
//   Every POST follows the same path:
//
//     1. Verify the CSRF token.  A bad token re-renders the form with a
//        notice and never validates.
//     2. Run the attempt through form.Do keyed by page and token, so a
//        double-click runs the action once and both requests render the
//        same result.
//     3. Set the session cookie if one was created, then redirect (with
//        notices carried in the flash cookie) or re-render with field
//        errors, notices, and prefill.
//
//   The attempt runs on a context detached from any single request,
//   bounded by the component timeout.  A browser that aborts the first of
//   two duplicate requests must not cancel the work the second is waiting
//   on.

package auth

import (
	"context"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	authctx "github.com/yanizio/gobarber/internal/auth"
	"github.com/yanizio/gobarber/internal/form"
	"github.com/yanizio/gobarber/internal/message"
	"github.com/yanizio/gobarber/internal/requestinfo"
	"github.com/yanizio/gobarber/internal/session"
	"github.com/yanizio/gobarber/internal/view"
)

// CSRFExpired is shown when a POST carries a missing, forged, or stale token.
var CSRFExpired = message.Error("form expired", "please review the form and submit it again.")

// SignedOut is shown after logout.
var SignedOut = message.Notice{Type: message.TypeInfo, Title: "signed out"}

type formPage struct {
	Form template.HTML
}

type dashboardPage struct {
	User      authctx.User
	CSRFToken string
}

/*──────────────────────────── sign-in ─────────────────────────────────────*/

func (c *Component) handleSignInGET(w http.ResponseWriter, r *http.Request) {
	c.renderForm(w, r, http.StatusOK, "signin", c.signIn, nil, nil, message.TakeFlash(w, r))
}

func (c *Component) handleSignInPOST(w http.ResponseWriter, r *http.Request) {
	c.submit(w, r, "signin", c.signIn, c.signInAttempt)
}

/*──────────────────────────── sign-up ─────────────────────────────────────*/

func (c *Component) handleSignUpGET(w http.ResponseWriter, r *http.Request) {
	c.renderForm(w, r, http.StatusOK, "signup", c.signUp, nil, nil, message.TakeFlash(w, r))
}

func (c *Component) handleSignUpPOST(w http.ResponseWriter, r *http.Request) {
	c.submit(w, r, "signup", c.signUp, c.signUpAttempt)
}

/*──────────────────────────── dashboard ───────────────────────────────────*/

func (c *Component) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u, _ := authctx.UserFrom(r.Context())
	tok, err := c.csrf.Generate()
	if err != nil {
		c.fail(w, "csrf generate", err)
		return
	}
	err = c.views.Render(w, http.StatusOK, "dashboard", view.Page{
		Title:   "Dashboard",
		Notices: message.TakeFlash(w, r),
		Data:    dashboardPage{User: u, CSRFToken: tok},
	})
	if err != nil {
		c.fail(w, "render dashboard", err)
	}
}

func (c *Component) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || !c.csrf.Verify(r.PostForm.Get("csrf_token")) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	session.LogoutUser(w, r)
	_ = message.SetFlash(w, r, []message.Notice{SignedOut})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

/*──────────────────────────── shared flow ─────────────────────────────────*/

func (c *Component) submit(
	w http.ResponseWriter,
	r *http.Request,
	page string,
	fd *form.FormDef,
	run func(context.Context, form.Payload) attempt,
) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	schema := fd.Schema()
	p := form.PayloadFrom(r.PostForm.Get, schema)

	key := r.PostForm.Get("csrf_token")
	if !c.csrf.Verify(key) {
		c.renderForm(w, r, http.StatusForbidden, page, fd, p, nil, []message.Notice{CSRFExpired})
		return
	}

	// Tokens are not bound to a page; scope the instance key so a token
	// posted to two screens never shares one attempt.
	res, shared := form.Do(&c.inflight, page+":"+key, func() attempt {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), c.timeout)
		defer cancel()
		return run(ctx, p)
	})

	fields := append([]any{
		"form", fd.ID,
		"outcome", res.Outcome.String(),
		"shared", shared,
	}, requestinfo.FromContext(r.Context()).LogFields()...)
	zap.S().Infow("form submitted", fields...)

	if res.Token != "" {
		session.LoginUser(w, r, res.Token, c.sessionTTL)
	}
	if res.View.Redirect != "" {
		if err := message.SetFlash(w, r, res.View.Notices); err != nil {
			zap.S().Warnw("flash write failed", "err", err)
		}
		http.Redirect(w, r, res.View.Redirect, http.StatusSeeOther)
		return
	}

	status := http.StatusOK
	if res.Outcome == form.OutcomeInvalid {
		status = http.StatusUnprocessableEntity
	}
	c.renderForm(w, r, status, page, fd, res.Payload, res.View.Errors, res.View.Notices)
}

// renderForm draws page with a fresh CSRF token.  Each render is a new form
// instance.
func (c *Component) renderForm(
	w http.ResponseWriter,
	_ *http.Request,
	status int,
	page string,
	fd *form.FormDef,
	prefill form.Payload,
	errs form.FieldErrors,
	notices []message.Notice,
) {
	tok, err := c.csrf.Generate()
	if err != nil {
		c.fail(w, "csrf generate", err)
		return
	}
	html, err := form.RenderForm(fd, form.RenderOptions{
		CSRFToken: tok,
		Prefill:   prefill,
		Errors:    errs,
	})
	if err != nil {
		c.fail(w, "render form", err)
		return
	}
	err = c.views.Render(w, status, page, view.Page{
		Title:   fd.Title,
		Notices: notices,
		Data:    formPage{Form: html},
	})
	if err != nil {
		c.fail(w, "render "+page, err)
	}
}

func (c *Component) fail(w http.ResponseWriter, op string, err error) {
	zap.S().Errorw("auth handler failure", "op", op, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
