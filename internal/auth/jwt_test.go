package auth

import (
	"testing"

	"billing-export/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "nimbus-console"
	return NewJWTManager(cfg)
}

func TestValidateToken(t *testing.T) {
	mgr := testManager("test-secret")

	token, err := mgr.GenerateToken(42, "jane@example.com")
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.AccountID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "nimbus-console", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := testManager("secret-a").GenerateToken(42, "jane@example.com")
	require.NoError(t, err)

	_, err = testManager("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := testManager("test-secret").ValidateToken("not.a.token")
	assert.Error(t, err)
}
