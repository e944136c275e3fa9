package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

var (
	// ErrVerification is wrapped by every token verification failure.
	ErrVerification = errors.New("token verification failed")
	// ErrEmptySubject is returned when issuing a token without a subject.
	ErrEmptySubject = errors.New("subject id is required")
)

// Credential is a signed, time-bounded bearer token for a single subject.
type Credential struct {
	Token     string
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims describes the JWT payload. Only the subject is carried; the jti is
// kept so a denylist could key on it.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenConfig is the immutable signing configuration.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenManager builds a new manager. It refuses to start without a secret.
func NewTokenManager(cfg TokenConfig, opts ...TokenOption) (*TokenManager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, &apperrors.ConfigurationError{Key: "AUTH_JWT_SECRET", Reason: "is required"}
	}
	if cfg.TTL <= 0 {
		return nil, &apperrors.ConfigurationError{Key: "AUTH_TOKEN_TTL_MINUTES", Reason: "must be positive"}
	}

	tm := &TokenManager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(tm.now),
	}
	if tm.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(tm.issuer))
	}
	tm.parser = jwt.NewParser(parserOpts...)
	return tm, nil
}

// TTL returns the lifetime applied to issued credentials.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue builds and signs a credential for the subject.
func (tm *TokenManager) Issue(subjectID string) (Credential, error) {
	if strings.TrimSpace(subjectID) == "" {
		return Credential{}, ErrEmptySubject
	}

	issuedAt := tm.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID,
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return Credential{}, fmt.Errorf("sign token: %w", err)
	}
	return Credential{
		Token:     tokenString,
		SubjectID: subjectID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify validates signature, issuer and expiry and returns the claims.
// Every failure wraps ErrVerification.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := tm.parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerification, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrVerification)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrVerification)
	}
	return claims, nil
}
