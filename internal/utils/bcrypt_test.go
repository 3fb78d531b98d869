package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_UsesPasswordCost(t *testing.T) {
	hash, err := HashPassword("Admin@123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
	assert.NotContains(t, hash, "Admin@123")
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("staff-secret")
	require.NoError(t, err)
	second, err := HashPassword("staff-secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("staff-secret", first))
	assert.True(t, CheckPasswordHash("staff-secret", second))
}

func TestCheckPasswordHash_StaffPasswords(t *testing.T) {
	hash, err := HashPassword("Admin@123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"exact match", "Admin@123", true},
		{"case differs", "admin@123", false},
		{"trailing space", "Admin@123 ", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPasswordHash(tt.password, hash))
		})
	}
}

func TestCheckPasswordHash_MalformedStoredHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("Admin@123", "not-a-bcrypt-hash"))
	assert.False(t, CheckPasswordHash("Admin@123", ""))
}
