// internal/message/message.go
//
// GoBarber – user-facing notices (toasts).
//
// Context
//   Screens report global outcomes, such as a failed registration, through a
//   dismissable notice rather than a field error.  A Notice is plain data; the
//   layout template decides how to draw it.  When a handler redirects after
//   raising notices, the notices travel to the next page in a short-lived
//   flash cookie so the user still sees them.
//
// Workflow
//   •  Success / Error build a Notice.
//   •  SetFlash writes notices into the flash cookie before a redirect.
//   •  TakeFlash reads and clears them on the next GET.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// Type classifies a Notice.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
)

// Notice is one toast.  Description is optional.
type Notice struct {
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Success returns a success Notice.
func Success(title, description string) Notice {
	return Notice{Type: TypeSuccess, Title: title, Description: description}
}

// Error returns an error Notice.
func Error(title, description string) Notice {
	return Notice{Type: TypeError, Title: title, Description: description}
}

const (
	flashCookie = "gobarber_flash"
	flashMaxAge = 60 * time.Second
)

// SetFlash stores notices for the next request.  An empty slice is a no-op.
func SetFlash(w http.ResponseWriter, r *http.Request, notices []Notice) error {
	if len(notices) == 0 {
		return nil
	}
	raw, err := json.Marshal(notices)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flashMaxAge.Seconds()),
	})
	return nil
}

// TakeFlash returns pending notices and clears the cookie.  A missing or
// malformed cookie yields nil.
func TakeFlash(w http.ResponseWriter, r *http.Request) []Notice {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var notices []Notice
	if err := json.Unmarshal(raw, &notices); err != nil {
		return nil
	}
	return notices
}
