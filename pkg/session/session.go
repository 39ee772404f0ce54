package session

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/rowdysden/rowdysden-backend/pkg/config"
)

const ownerIDKey = "owner_id"

// Manager issues and reads the signed guest-session cookie.
type Manager struct {
	store *sessions.CookieStore
	name  string
}

// New builds a cookie store keyed by the session secret.
func New(cfg config.SessionConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	name := cfg.CookieName
	if name == "" {
		name = "rowdysden_session"
	}
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge(),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, name: name}, nil
}

// OwnerID returns the guest id stored in the cookie, issuing a new one and
// writing the cookie when the request carries none or an invalid one.
func (m *Manager) OwnerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	// Get returns a fresh session alongside decode errors, so a tampered
	// cookie is replaced instead of failing the request.
	sess, _ := m.store.Get(r, m.name)
	if raw, ok := sess.Values[ownerIDKey].(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			return id, nil
		}
	}

	id := uuid.New()
	sess.Values[ownerIDKey] = id.String()
	if err := sess.Save(r, w); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
