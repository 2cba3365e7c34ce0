package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken(7, "alice", RoleManager)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, RoleManager, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	SetSecret("one")
	token, err := GenerateToken(1, "bob", RoleEmployee)
	require.NoError(t, err)

	SetSecret("two")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole(RoleAdmin, RoleAdmin, RoleManager))
	assert.False(t, HasRole(RoleEmployee, RoleAdmin, RoleManager))
	assert.False(t, HasRole("", RoleAdmin))
}
