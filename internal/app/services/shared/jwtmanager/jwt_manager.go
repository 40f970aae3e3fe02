package jwtmanager

import (
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const (
	algES256 = "ES256"
	algRS256 = "RS256"

	// serviceTokenLeeway re-mints a cached service token before it expires.
	serviceTokenLeeway = 30 * time.Second
)

var (
	ErrServiceKeyNotConfigured = errors.New("service token key is not configured")
	ErrMissingSubject          = errors.New("token subject is empty")
	ErrMissingExpiry           = errors.New("token has no expiry")
)

// JWTManager verifies user tokens issued by the auth provider (HS256 shared
// secret) and mints service tokens for background calls to the clinical
// backend (ES256 or RS256 private key).
type JWTManager struct {
	log      *zap.Logger
	secret   []byte
	issuer   string
	alg      string
	ttl      time.Duration
	subject  string
	audience string
	ecPriv   *ecdsa.PrivateKey
	rsaPriv  *rsa.PrivateKey

	mu        sync.Mutex
	cached    string
	cachedExp time.Time
	now       func() time.Time
}

// UserClaims are the claims MindHub reads from a user token.
type UserClaims struct {
	Role     string `json:"role"`
	ClinicID string `json:"clinic_id"`
	jwt.RegisteredClaims
}

type CreateTokenInput struct {
	Subject string
	Role    string
}

type CreateTokenOutput struct {
	Token     string
	ExpiresAt time.Time
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (*JWTManager, error) {
	jm := &JWTManager{
		log:      log,
		secret:   []byte(cfg.JWT.Secret),
		issuer:   cfg.JWT.Issuer,
		ttl:      time.Duration(cfg.JWT.ServiceTokenTTLInMinutes) * time.Minute,
		subject:  cfg.JWT.ServiceTokenSubject,
		audience: cfg.JWT.ServiceTokenAudience,
		now:      time.Now,
	}
	if jm.ttl <= 0 {
		jm.ttl = 5 * time.Minute
	}

	pemKey := strings.TrimSpace(cfg.JWT.ServiceTokenKey)
	if pemKey == "" {
		log.Warn("JWTManager service token key is empty, background calls to the clinical backend are disabled")
		return jm, nil
	}

	alg := strings.ToUpper(strings.TrimSpace(cfg.JWT.ServiceTokenAlg))
	if alg == "" {
		alg = algES256
	}
	jm.alg = alg

	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM for service token key")
	}

	switch alg {
	case algES256:
		ecKey, err := parseECPrivateKey(block)
		if err != nil {
			return nil, err
		}
		jm.ecPriv = ecKey
	case algRS256:
		rsaKey, err := parseRSAPrivateKey(block)
		if err != nil {
			return nil, err
		}
		jm.rsaPriv = rsaKey
	default:
		return nil, fmt.Errorf("unsupported JWT algorithm: %s", alg)
	}

	return jm, nil
}

// VerifyUserToken validates an HS256 token from the auth provider. The token
// must carry an expiry and a subject.
func (j *JWTManager) VerifyUserToken(ctx context.Context, token string) (*UserClaims, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	claims := new(UserClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(constvars.ErrDevAuthSigningMethod, t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		j.log.Info("JWTManager.VerifyUserToken rejected token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if err == nil {
			err = errors.New("token is not valid")
		}
		return nil, exceptions.ErrTokenInvalidOrExpired(err)
	}

	if claims.ExpiresAt == nil {
		return nil, exceptions.ErrTokenInvalidOrExpired(ErrMissingExpiry)
	}
	if j.issuer != "" && !claims.VerifyIssuer(j.issuer, true) {
		return nil, exceptions.ErrTokenInvalidOrExpired(fmt.Errorf("unexpected issuer %q", claims.Issuer))
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, exceptions.ErrTokenInvalidOrExpired(ErrMissingSubject)
	}
	return claims, nil
}

// CreateToken signs a short lived token with the service key.
func (j *JWTManager) CreateToken(ctx context.Context, in *CreateTokenInput) (*CreateTokenOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.CreateToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if in == nil || strings.TrimSpace(in.Subject) == "" {
		return nil, ErrMissingSubject
	}

	now := j.now().UTC()
	expiresAt := now.Add(j.ttl)
	claims := jwt.MapClaims{
		"sub":  in.Subject,
		"role": in.Role,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	if j.issuer != "" {
		claims["iss"] = j.issuer
	}
	if j.audience != "" {
		claims["aud"] = j.audience
	}

	var signed string
	var err error
	switch {
	case j.alg == algES256 && j.ecPriv != nil:
		signed, err = jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(j.ecPriv)
	case j.alg == algRS256 && j.rsaPriv != nil:
		signed, err = jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(j.rsaPriv)
	default:
		return nil, ErrServiceKeyNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return &CreateTokenOutput{Token: signed, ExpiresAt: expiresAt}, nil
}

// ServiceToken returns a cached service token, minting a new one when the
// cached token is close to expiry.
func (j *JWTManager) ServiceToken(ctx context.Context) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cached != "" && j.now().Add(serviceTokenLeeway).Before(j.cachedExp) {
		return j.cached, nil
	}

	out, err := j.CreateToken(ctx, &CreateTokenInput{Subject: j.subject, Role: constvars.MindhubRoleService})
	if err != nil {
		return "", exceptions.ErrTokenGenerate(err)
	}
	j.cached = out.Token
	j.cachedExp = out.ExpiresAt
	return j.cached, nil
}

// Invalidate drops the cached service token so the next call re-mints it.
func (j *JWTManager) Invalidate() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cached = ""
	j.cachedExp = time.Time{}
}

func parseECPrivateKey(block *pem.Block) (*ecdsa.PrivateKey, error) {
	if block.Type == "EC PRIVATE KEY" {
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse EC private key: %w", err)
		}
		return key, nil
	}
	if block.Type == "PRIVATE KEY" {
		keyAny, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PKCS8 private key: %w", err)
		}
		if ec, ok := keyAny.(*ecdsa.PrivateKey); ok {
			return ec, nil
		}
		return nil, fmt.Errorf("PKCS8 key is not ECDSA")
	}
	return nil, fmt.Errorf("unsupported EC PEM type: %s", block.Type)
}

func parseRSAPrivateKey(block *pem.Block) (*rsa.PrivateKey, error) {
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PKCS1 private key: %w", err)
		}
		return key, nil
	case "PRIVATE KEY":
		keyAny, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PKCS8 private key: %w", err)
		}
		if rsaKey, ok := keyAny.(*rsa.PrivateKey); ok {
			return rsaKey, nil
		}
		return nil, fmt.Errorf("PKCS8 key is not RSA")
	default:
		return nil, fmt.Errorf("unsupported RSA PEM type: %s", block.Type)
	}
}
