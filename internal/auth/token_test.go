package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	verifier := NewVerifier("test-secret", time.Hour)

	token, err := verifier.GenerateToken("user-42")
	require.NoError(t, err)

	userID, err := verifier.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-42", userID)
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	token, err := NewVerifier("secret-a", time.Hour).GenerateToken("user-42")
	require.NoError(t, err)

	_, err = NewVerifier("secret-b", time.Hour).ValidateToken(token)
	require.Error(t, err)
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	verifier := NewVerifier("test-secret", -time.Minute)

	token, err := verifier.GenerateToken("user-42")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestVerifier_RejectsGarbage(t *testing.T) {
	_, err := NewVerifier("test-secret", time.Hour).ValidateToken("not-a-token")
	require.Error(t, err)
}
