// components/users/handlers.go
//
// HTTP handlers for the users API.

package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/gobarber/internal/api"
	"github.com/yanizio/gobarber/internal/metrics"
	store "github.com/yanizio/gobarber/internal/users"
)

const (
	maxBody        = 1 << 16
	bcryptMaxBytes = 72
)

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,bcryptmax"`
}

type createSessionRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	// bcrypt hashes at most 72 bytes; max=72 would count runes.
	if err := v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	}); err != nil {
		panic(err)
	}
	return v
}

/*──────────────────────────── POST /api/users ─────────────────────────────*/

func (c *Component) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !c.decode(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(c.strip.Sanitize(req.Name))
	req.Email = normaliseEmail(req.Email)
	if !c.check(w, &req) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.internal(w, "hash password", err)
		return
	}

	u := &store.User{Name: req.Name, Email: req.Email, PasswordHash: string(hash)}
	if err := c.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			api.WriteError(w, &api.Error{
				Status:  http.StatusConflict,
				Code:    api.CodeDuplicateEmail,
				Message: "e-mail already registered",
			})
			return
		}
		c.internal(w, "create user", err)
		return
	}

	metrics.UsersRegistered.Inc()
	zap.S().Infow("user registered", "user_id", u.ID)
	api.WriteJSON(w, http.StatusCreated, api.User{ID: u.ID, Name: u.Name, Email: u.Email})
}

/*─────────────────────────── POST /api/sessions ───────────────────────────*/

func (c *Component) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !c.decode(w, r, &req) {
		return
	}
	req.Email = normaliseEmail(req.Email)
	if !c.check(w, &req) {
		return
	}

	u, err := c.users.ByEmail(r.Context(), req.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Same bcrypt cost as a real mismatch.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		c.badCredentials(w)
		return
	case err != nil:
		c.internal(w, "lookup user", err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		c.badCredentials(w)
		return
	}

	tok, err := c.tokens.Issue(u.ID, u.Name, u.Email)
	if err != nil {
		c.internal(w, "issue token", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.Session{
		Token: tok,
		User:  api.User{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gobarber-dummy-password"), bcrypt.DefaultCost)

func normaliseEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (c *Component) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		api.WriteError(w, &api.Error{
			Status:  http.StatusBadRequest,
			Code:    api.CodeBadRequest,
			Message: "request body must be a JSON object",
		})
		return false
	}
	return true
}

func (c *Component) check(w http.ResponseWriter, v any) bool {
	err := c.validate.Struct(v)
	if err == nil {
		return true
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		c.internal(w, "validate request", err)
		return false
	}
	details := make([]api.Detail, 0, len(ves))
	for _, fe := range ves {
		details = append(details, api.Detail{Field: fe.Field(), Message: fe.Tag()})
	}
	api.WriteError(w, &api.Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    api.CodeValidation,
		Message: "request validation failed",
		Details: details,
	})
	return false
}

func (c *Component) badCredentials(w http.ResponseWriter) {
	api.WriteError(w, &api.Error{
		Status:  http.StatusUnauthorized,
		Code:    api.CodeInvalidCredentials,
		Message: "invalid e-mail or password",
	})
}

func (c *Component) internal(w http.ResponseWriter, op string, err error) {
	zap.S().Errorw("users api failure", "op", op, "err", err)
	api.WriteError(w, &api.Error{
		Status:  http.StatusInternalServerError,
		Code:    api.CodeInternal,
		Message: "internal error",
	})
}
