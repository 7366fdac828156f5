package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	t.Parallel()
	issuer := NewTokenIssuer("secret", time.Hour)

	tok, err := issuer.Issue(42)
	require.NoError(t, err)

	id, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseExpired(t *testing.T) {
	t.Parallel()
	issuer := NewTokenIssuer("secret", time.Minute)

	tok, err := issuer.Issue(1)
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err = issuer.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer("right", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewTokenIssuer("wrong", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTampered(t *testing.T) {
	t.Parallel()
	issuer := NewTokenIssuer("secret", time.Hour)

	tok, err := issuer.Issue(1)
	require.NoError(t, err)

	// Swap the payload for one claiming another subject, keep the signature
	other, err := issuer.Issue(2)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	forged := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

	_, err = issuer.Parse(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseMissingAndMalformed(t *testing.T) {
	t.Parallel()
	issuer := NewTokenIssuer("secret", time.Hour)

	_, err := issuer.Parse("")
	assert.ErrorIs(t, err, ErrTokenMissing)

	_, err = issuer.Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseBadSubject(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
