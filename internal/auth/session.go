package auth

import (
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// sessionKey is the scalar slot holding the logged-in user's id,
// stored in the local mirror independent of any entity table.
const sessionKey = "session_user_id"

// SessionGate resolves and validates the current user. It is built
// entirely on top of the synchronizing user store and the local scalar
// slot — it never talks to a backend adapter directly.
type SessionGate struct {
	Users *store.Store[models.User]
	Local *store.LocalStore
}

func NewSessionGate(users *store.Store[models.User], local *store.LocalStore) *SessionGate {
	return &SessionGate{Users: users, Local: local}
}

// Login matches the username and verifies the bcrypt hash. A wrong
// password and an unknown username both come back as (nil, nil) — the
// caller cannot tell them apart, and neither is an error.
func (g *SessionGate) Login(username, password string) (*models.User, error) {
	for _, user := range g.Users.All() {
		if user.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return nil, nil
		}
		if err := g.Set(&user); err != nil {
			return nil, err
		}
		return &user, nil
	}
	return nil, nil
}

// Current resolves the persisted session pointer to a user record.
// A missing pointer or an id that no longer resolves means no session.
func (g *SessionGate) Current() *models.User {
	id, ok := g.Local.GetValue(sessionKey)
	if !ok || id == "" {
		return nil
	}
	user, found := g.Users.GetByID(id)
	if !found {
		return nil
	}
	return &user
}

// Set persists (or, with nil, clears) the session pointer. It touches
// nothing but the scalar slot.
func (g *SessionGate) Set(user *models.User) error {
	if user == nil {
		return g.Local.DeleteValue(sessionKey)
	}
	return g.Local.SetValue(sessionKey, user.ID)
}
