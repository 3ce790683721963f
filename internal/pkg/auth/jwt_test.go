package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bagstore/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "bagstore"
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough"
	cfg.JWT.AccessTokenExpiry = time.Hour
	return cfg
}

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(7, "marta", "marta@shop.test", true)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "marta", claims.Username)
	assert.Equal(t, "marta@shop.test", claims.Email)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, "user:7", claims.Subject)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager(testConfig()).GenerateAccessToken(7, "marta", "", false)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "a-completely-different-secret-value"
	_, err = NewJWTManager(other).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute

	m := NewJWTManager(cfg)
	token, err := m.GenerateAccessToken(7, "marta", "", false)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRejectsOtherTokenTypes(t *testing.T) {
	cfg := testConfig()
	claims := &Claims{
		UserID:    7,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	_, err = NewJWTManager(cfg).ValidateAccessToken(token)
	assert.ErrorContains(t, err, "invalid token type")
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}
