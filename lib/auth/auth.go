package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/trybenon/peopled/lib/store"
)

// HashPassword returns the hex-encoded SHA-256 digest of the password. The
// same derivation runs on registration and on every authentication attempt,
// so only digests ever reach the store.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Manager answers registration and authentication requests against the user
// table of the backing store.
type Manager struct {
	store store.IStore
}

// NewManager creates an auth manager backed by the given store.
func NewManager(s store.IStore) *Manager {
	return &Manager{store: s}
}

// Register creates a new user. It returns an error if the login is empty,
// already taken, or the store is unreachable.
func (m *Manager) Register(login, password string) error {
	if strings.TrimSpace(login) == "" {
		return fmt.Errorf("login must not be empty")
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	created, err := m.store.AddUser(login, HashPassword(password))
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("login %q is already taken", login)
	}
	return nil
}

// Verify reports whether the login/password pair matches a registered user.
// A missing user and a wrong password are indistinguishable to the caller.
func (m *Manager) Verify(login, password string) (bool, error) {
	stored, found, err := m.store.UserHash(login)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(HashPassword(password))) == 1, nil
}
