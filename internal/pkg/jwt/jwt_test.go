package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTripsClaims(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken(42, "budi@example.com", "Employee")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	id, ok := UserIDFromClaims(claims)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "Employee", claims["role"])
	assert.True(t, IsAccessToken(claims))
}

func TestUserIDFromClaims_Rejects(t *testing.T) {
	cases := []map[string]interface{}{
		{},
		{"user_id": 42.0},
		{"user_id": "abc"},
		{"user_id": "0"},
	}
	for _, c := range cases {
		_, ok := UserIDFromClaims(c)
		assert.False(t, ok, "%v", c)
	}
}

func TestDecode_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, _, err := issuer.GenerateAccessToken(1, "a@b.cd", "Intern")
	require.NoError(t, err)

	_, err = verifier.JWTAuth().Decode(token)
	assert.Error(t, err)
}
