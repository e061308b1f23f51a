package auth

import (
	"testing"

	"github.com/trybenon/peopled/lib/store/memstore"
)

func TestHashPassword(t *testing.T) {
	h := HashPassword("secret")
	if len(h) != 64 {
		t.Fatalf("expected 64 hex chars, got %d (%s)", len(h), h)
	}
	if h != HashPassword("secret") {
		t.Errorf("hash is not deterministic")
	}
	if h == HashPassword("Secret") {
		t.Errorf("different passwords produced the same hash")
	}
}

func TestRegisterAndVerify(t *testing.T) {
	m := NewManager(memstore.NewMemoryStore())

	if err := m.Register("bob", "secret"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// duplicate login
	if err := m.Register("bob", "other"); err == nil {
		t.Errorf("expected error for duplicate login")
	}

	// empty login / password
	if err := m.Register("", "x"); err == nil {
		t.Errorf("expected error for empty login")
	}
	if err := m.Register("eve", ""); err == nil {
		t.Errorf("expected error for empty password")
	}

	testCases := []struct {
		name     string
		login    string
		password string
		want     bool
	}{
		{"correct credentials", "bob", "secret", true},
		{"wrong password", "bob", "wrong", false},
		{"unknown user", "mallory", "secret", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := m.Verify(tc.login, tc.password)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if ok != tc.want {
				t.Errorf("Verify(%s, %s) = %v, want %v", tc.login, tc.password, ok, tc.want)
			}
		})
	}
}
