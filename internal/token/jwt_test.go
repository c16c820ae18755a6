package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_Roundtrip(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", 0)

	tok, err := c.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), got)
}

func TestCodec_Expiry(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", 0)

	issuedAt := time.Now()
	c.now = func() time.Time { return issuedAt }

	tok, err := c.Issue(7)
	require.NoError(t, err)

	// Still valid just before the horizon.
	c.now = func() time.Time { return issuedAt.Add(DefaultTTL - time.Minute) }
	got, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got)

	// Expired once the horizon elapses.
	c.now = func() time.Time { return issuedAt.Add(DefaultTTL + time.Minute) }
	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestCodec_InvalidTokens(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", 0)

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		_, err := c.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		other := NewCodec("other-secret", 0)
		tok, err := other.Issue(1)
		require.NoError(t, err)
		_, err = c.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		t.Parallel()
		claims := jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "someone-else",
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = c.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		t.Parallel()
		claims := jwt.RegisteredClaims{
			Subject:   "abc",
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = c.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestCodec_VerifyDoesNotAcceptNoneAlg(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", 0)

	claims := jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
