// internal/pkg/auth/password_test.go
package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func passwordTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Security.BcryptCost = bcrypt.MinCost
	return cfg
}

func TestHashPassword_RoundTrip(t *testing.T) {
	mgr := NewPasswordManager(passwordTestConfig())

	hash, err := mgr.HashPassword("Sup3rSecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", hash)

	assert.NoError(t, mgr.VerifyPassword("Sup3rSecret", hash))
	assert.Error(t, mgr.VerifyPassword("WrongPass1", hash))
}

func TestHashPassword_RejectsWeakPasswords(t *testing.T) {
	mgr := NewPasswordManager(passwordTestConfig())

	_, err := mgr.HashPassword("short")
	assert.Error(t, err)
}

func TestValidatePassword(t *testing.T) {
	mgr := NewPasswordManager(passwordTestConfig())

	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sup3rSecret", false},
		{"too short", "Ab1", true},
		{"too long", "A1" + strings.Repeat("a", 127), true},
		{"no uppercase", "sup3rsecret", true},
		{"no lowercase", "SUP3RSECRET", true},
		{"no number", "SuperSecret", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := mgr.ValidatePassword(tc.password)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
