package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("64f1c2d3e4a5b6c7d8e9f0a1", "9876543210", "farmer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1c2d3e4a5b6c7d8e9f0a1", claims.UserID)
	assert.Equal(t, "9876543210", claims.Phone)
	assert.Equal(t, "farmer", claims.Role)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}

func TestParseTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("64f1c2d3e4a5b6c7d8e9f0a1", "9876543210", "labourer")
	require.NoError(t, err)

	// Flip a character in the signature.
	tampered := token[:len(token)-2] + "xx"
	_, err = ParseToken(tampered)
	assert.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateJWT("64f1c2d3e4a5b6c7d8e9f0a1", "9876543210", "farmer")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := ParseToken("not.a.token")
	assert.Error(t, err)

	_, err = ParseToken("")
	assert.Error(t, err)
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT("64f1c2d3e4a5b6c7d8e9f0a1", "9876543210", "farmer")
	assert.Error(t, err)
}

// A missing secret must surface as an error, never a panic: ParseToken runs
// on tokens supplied by unauthenticated socket clients.
func TestParseTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT("64f1c2d3e4a5b6c7d8e9f0a1", "9876543210", "farmer")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "")

	assert.NotPanics(t, func() {
		_, err = ParseToken(token)
		assert.Error(t, err)
	})
}
