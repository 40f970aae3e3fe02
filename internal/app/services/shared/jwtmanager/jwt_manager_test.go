package jwtmanager

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret = "test-secret"
	testIssuer = "mindhub-auth"
)

func newTestManager(t *testing.T, mutate func(cfg *config.InternalConfig)) *JWTManager {
	t.Helper()
	cfg := &config.InternalConfig{
		JWT: config.AppJWT{
			Secret:               testSecret,
			Issuer:               testIssuer,
			ServiceTokenSubject:  "mindhub-service",
			ServiceTokenAudience: "clinimetrix",
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	jm, err := NewJWTManager(cfg, zap.NewNop())
	require.NoError(t, err)
	return jm
}

func signHS256(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func userClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       "clinician-1",
		"role":      constvars.MindhubRoleClinician,
		"clinic_id": "clinic-1",
		"iss":       testIssuer,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
}

func assertRejected(t *testing.T, err error) {
	t.Helper()
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr), "expected a CustomError, got %v", err)
	assert.Equal(t, constvars.StatusUnauthorized, customErr.StatusCode)
}

func TestVerifyUserToken(t *testing.T) {
	ctx := context.Background()
	jm := newTestManager(t, nil)

	t.Run("valid token", func(t *testing.T) {
		claims, err := jm.VerifyUserToken(ctx, signHS256(t, userClaims()))
		require.NoError(t, err)
		assert.Equal(t, "clinician-1", claims.Subject)
		assert.Equal(t, constvars.MindhubRoleClinician, claims.Role)
		assert.Equal(t, "clinic-1", claims.ClinicID)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, userClaims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = jm.VerifyUserToken(ctx, token)
		assertRejected(t, err)
	})

	t.Run("asymmetric algorithm", func(t *testing.T) {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		token, err := jwt.NewWithClaims(jwt.SigningMethodES256, userClaims()).SignedString(key)
		require.NoError(t, err)

		_, err = jm.VerifyUserToken(ctx, token)
		assertRejected(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, userClaims()).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = jm.VerifyUserToken(ctx, token)
		assertRejected(t, err)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := userClaims()
		delete(claims, "exp")

		_, err := jm.VerifyUserToken(ctx, signHS256(t, claims))
		assertRejected(t, err)
		assert.Contains(t, err.Error(), ErrMissingExpiry.Error())
	})

	t.Run("expired", func(t *testing.T) {
		claims := userClaims()
		claims["exp"] = time.Now().Add(-time.Minute).Unix()

		_, err := jm.VerifyUserToken(ctx, signHS256(t, claims))
		assertRejected(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := userClaims()
		claims["iss"] = "someone-else"

		_, err := jm.VerifyUserToken(ctx, signHS256(t, claims))
		assertRejected(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := userClaims()
		claims["sub"] = " "

		_, err := jm.VerifyUserToken(ctx, signHS256(t, claims))
		assertRejected(t, err)
		assert.Contains(t, err.Error(), ErrMissingSubject.Error())
	})
}

func ecPEM(t *testing.T) (string, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})), key
}

func TestServiceToken(t *testing.T) {
	ctx := context.Background()

	t.Run("mints, caches and re-mints near expiry", func(t *testing.T) {
		pemKey, key := ecPEM(t)
		jm := newTestManager(t, func(cfg *config.InternalConfig) {
			cfg.JWT.ServiceTokenKey = pemKey
			cfg.JWT.ServiceTokenTTLInMinutes = 5
		})
		now := time.Now()
		jm.now = func() time.Time { return now }

		first, err := jm.ServiceToken(ctx)
		require.NoError(t, err)

		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(first, claims, func(token *jwt.Token) (interface{}, error) {
			_, ok := token.Method.(*jwt.SigningMethodECDSA)
			require.True(t, ok)
			return &key.PublicKey, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "mindhub-service", claims["sub"])
		assert.Equal(t, constvars.MindhubRoleService, claims["role"])
		assert.Equal(t, "clinimetrix", claims["aud"])

		cached, err := jm.ServiceToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, cached)

		now = now.Add(5*time.Minute - serviceTokenLeeway + time.Second)
		renewed, err := jm.ServiceToken(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, first, renewed)
	})

	t.Run("invalidate drops the cache", func(t *testing.T) {
		pemKey, _ := ecPEM(t)
		jm := newTestManager(t, func(cfg *config.InternalConfig) { cfg.JWT.ServiceTokenKey = pemKey })

		_, err := jm.ServiceToken(ctx)
		require.NoError(t, err)
		jm.Invalidate()
		assert.Empty(t, jm.cached)
	})

	t.Run("no key configured", func(t *testing.T) {
		jm := newTestManager(t, nil)

		_, err := jm.ServiceToken(ctx)
		assert.Error(t, err)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		pemKey, _ := ecPEM(t)
		_, err := NewJWTManager(&config.InternalConfig{JWT: config.AppJWT{ServiceTokenKey: pemKey, ServiceTokenAlg: "HS512"}}, zap.NewNop())
		assert.Error(t, err)
	})
}
