package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, expiresAt, err := m.Issue("Worker@Example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	email, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "worker@example.com", email)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	m := NewManager("secret", time.Hour)

	other, _, err := NewManager("other", time.Hour).Issue("a@example.com")
	require.NoError(t, err)
	_, err = m.Verify(other)
	assert.Error(t, err)

	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := m.Issue("a@example.com")
	require.NoError(t, err)
	m.now = time.Now
	_, err = m.Verify(expired)
	assert.Error(t, err)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{Email: "a@example.com"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(none)
	assert.Error(t, err)

	_, err = m.Verify("garbage")
	assert.Error(t, err)
}
