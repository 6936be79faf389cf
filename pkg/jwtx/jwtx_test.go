package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillworks/quill/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newSigner(t *testing.T) *jwtx.HS256Signer {
	t.Helper()
	s, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	return s
}

func TestNewSignerHS256RejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("too-short"))
	require.Error(t, err)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	signer := newSigner(t)
	verifier := jwtx.NewVerifierHS256(testSecret, "quill-auth")

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims("user-1", []string{"user", "admin"}, 15*time.Minute, "quill-auth", now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, []string{"user", "admin"}, got.Roles)
	require.Equal(t, "quill-auth", got.Issuer)
	require.NotEmpty(t, got.ID)
}

func TestVerifyClassifiesFailures(t *testing.T) {
	signer := newSigner(t)
	now := time.Now().UTC()

	t.Run("wrong secret", func(t *testing.T) {
		otherVerifier := jwtx.NewVerifierHS256([]byte("ffffffffffffffffffffffffffffffff"), "")

		token, err := signer.Sign(jwtx.NewAccessClaims("u", nil, time.Minute, "", now))
		require.NoError(t, err)

		_, err = otherVerifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("tampered payload", func(t *testing.T) {
		verifier := jwtx.NewVerifierHS256(testSecret, "")

		token, err := signer.Sign(jwtx.NewAccessClaims("u", nil, time.Minute, "", now))
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		// Flip a character in the payload; the signature no longer matches.
		payload := []byte(parts[1])
		if payload[0] == 'A' {
			payload[0] = 'B'
		} else {
			payload[0] = 'A'
		}
		tampered := parts[0] + "." + string(payload) + "." + parts[2]

		_, err = verifier.Verify(tampered)
		require.Error(t, err)
		require.NotErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("expired", func(t *testing.T) {
		verifier := jwtx.NewVerifierHS256(testSecret, "")

		token, err := signer.Sign(jwtx.NewAccessClaims("u", nil, -time.Minute, "", now))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		verifier := jwtx.NewVerifierHS256(testSecret, "")
		_, err := verifier.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		verifier := jwtx.NewVerifierHS256(testSecret, "quill-auth")

		token, err := signer.Sign(jwtx.NewAccessClaims("u", nil, time.Minute, "someone-else", now))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("alg none rejected", func(t *testing.T) {
		verifier := jwtx.NewVerifierHS256(testSecret, "")

		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u"})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "quill-auth"},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("quill-auth"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("posts-service"), jwtx.ErrIssuer)
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(1 * time.Minute)),
			},
		}
		require.NoError(t, claims.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				NotBefore: jwt.NewNumericDate(now.Add(1 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("no exp or nbf", func(t *testing.T) {
		claims := &jwtx.Claims{}
		require.NoError(t, claims.ValidateExpiry())
	})
}
