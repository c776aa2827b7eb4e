package auth

import (
	"path/filepath"
	"testing"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"golang.org/x/crypto/bcrypt"
)

func newGate(t *testing.T) (*SessionGate, *store.Store[models.User]) {
	t.Helper()
	local := store.OpenLocal(filepath.Join(t.TempDir(), "local.db"))
	if !local.Available() {
		t.Fatal("test local store failed to open")
	}
	users := store.NewStore[models.User]("users", &store.RemoteStore{}, local)
	return NewSessionGate(users, local), users
}

func seedUser(t *testing.T, users *store.Store[models.User], username, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{
		ID:           "u-" + username,
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleStaff,
	}
	if err := users.Save(&user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginSuccess(t *testing.T) {
	gate, users := newGate(t)
	seedUser(t, users, "asha", "secret123")

	user, err := gate.Login("asha", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user == nil || user.Username != "asha" {
		t.Fatalf("login returned %v, want asha", user)
	}

	// Login persists the session pointer
	current := gate.Current()
	if current == nil || current.ID != user.ID {
		t.Errorf("Current() = %v, want the logged-in user", current)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	gate, users := newGate(t)
	seedUser(t, users, "asha", "secret123")

	wrongPass, err1 := gate.Login("asha", "wrong")
	unknownUser, err2 := gate.Login("nobody", "whatever")

	if err1 != nil || err2 != nil {
		t.Fatalf("bad credentials must not error: %v / %v", err1, err2)
	}
	if wrongPass != nil || unknownUser != nil {
		t.Errorf("wrong password -> %v, unknown user -> %v; both must be nil", wrongPass, unknownUser)
	}
}

func TestSessionPointerLifecycle(t *testing.T) {
	gate, users := newGate(t)

	if gate.Current() != nil {
		t.Fatal("session present before any login")
	}

	user := seedUser(t, users, "ravi", "pass")
	if err := gate.Set(&user); err != nil {
		t.Fatalf("set: %v", err)
	}
	if current := gate.Current(); current == nil || current.ID != user.ID {
		t.Fatalf("Current() = %v, want ravi", current)
	}

	// Clearing the pointer logs out without touching the user record
	if err := gate.Set(nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if gate.Current() != nil {
		t.Error("session survived Set(nil)")
	}
	if len(users.All()) != 1 {
		t.Error("logout must not delete the user record")
	}
}

func TestStaleSessionPointerResolvesToNothing(t *testing.T) {
	gate, users := newGate(t)
	user := seedUser(t, users, "asha", "pass")
	if err := gate.Set(&user); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Deleting the user leaves a dangling pointer; Current must cope
	if err := users.Delete(user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gate.Current() != nil {
		t.Error("Current() resolved a deleted user")
	}
}
