package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-core/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	actor := domain.Actor{Name: "Ana", Role: domain.RoleTechnician}

	token, expiresAt, err := tm.GenerateToken(actor)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, domain.RoleTechnician, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 60)
	other := NewTokenManager("secret-b", 60)

	token, _, err := tm.GenerateToken(domain.Actor{Name: "Marta", Role: domain.RoleManager})
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestTokenTTLDefault(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	_, expiresAt, err := tm.GenerateToken(domain.Actor{Name: "Ana", Role: domain.RoleTechnician})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(480*time.Minute), expiresAt, 5*time.Second)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("MANAGER"))
	assert.True(t, ValidRole("GUEST"))
	assert.False(t, ValidRole("WIZARD"))
	assert.False(t, ValidRole(""))
}
