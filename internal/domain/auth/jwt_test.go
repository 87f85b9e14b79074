package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser("worker@example.com", "Worker", "s3cret-pass")
	require.NoError(t, err)
	return u
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "stockpile", time.Hour)
	u := testUser(t)
	u.IsAdmin = true

	token, expiresAt, err := issuer.Issue(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, u.Email, claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestTokenIssuer_Verify_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "stockpile", time.Hour)
	other := NewTokenIssuer("other-secret", "stockpile", time.Hour)

	token, _, err := issuer.Issue(testUser(t))
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestTokenIssuer_Verify_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "stockpile", -time.Minute)

	token, _, err := issuer.Issue(testUser(t))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
}

func TestTokenIssuer_Verify_WrongIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "stockpile", time.Hour)
	other := NewTokenIssuer("test-secret", "someone-else", time.Hour)

	token, _, err := other.Issue(testUser(t))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
}

func TestUser_Password(t *testing.T) {
	u := testUser(t)

	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))

	err := u.SetPassword("short")
	require.Error(t, err)
}
