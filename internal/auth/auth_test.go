package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)

	token, err := m.Issue("anna@example.com")
	require.NoError(t, err)

	subject, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", subject)
}

func TestVerifyRejectsForeignSecretAndExpiry(t *testing.T) {
	issuer, _ := NewJWTManager("secret", time.Hour)
	other, _ := NewJWTManager("other", time.Hour)

	token, err := issuer.Issue("anna@example.com")
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := issuer.Issue("anna@example.com")
	require.NoError(t, err)
	issuer.now = time.Now
	_, err = issuer.Verify(expired)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = issuer.Verify("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	m, _ := NewJWTManager("secret", time.Hour)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "anna@example.com", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestNewJWTManagerValidates(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.Error(t, err)
	_, err = NewJWTManager("s", 0)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
