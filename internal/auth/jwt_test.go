package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, exp, err := m.GenerateToken(42, "rep", RoleSalesRep, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "rep", claims.Username)
	require.Equal(t, RoleSalesRep, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a").GenerateToken(1, "rep", RoleSalesRep, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret")
	token, _, err := m.GenerateToken(1, "rep", RoleSalesRep, -time.Minute)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret").ParseToken("not.a.token")
	require.Error(t, err)
}
