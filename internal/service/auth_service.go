package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

const minPasswordLength = 6

// Login failure reasons reported to the recorder.
const (
	FailureUnknownEmail = "unknown_email"
	FailureBadPassword  = "bad_password"
	FailureSuspended    = "suspended"
	FailureThrottled    = "throttled"
)

// LoginRecorder receives issuance and login failure counts.
type LoginRecorder interface {
	RecordTokenIssued()
	RecordLoginFailure(reason string)
}

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users       repository.UserRepository
	attempts    repository.LoginAttemptRepository
	tokens      *auth.TokenManager
	dispatcher  events.Dispatcher
	recorder    LoginRecorder
	logger      *zap.Logger
	bcryptCost  int
	maxAttempts int
	window      time.Duration
}

// AuthDependencies encapsulates collaborators for the auth service. Only
// UserRepo and Tokens are required.
type AuthDependencies struct {
	UserRepo      repository.UserRepository
	LoginAttempts repository.LoginAttemptRepository
	Tokens        *auth.TokenManager
	Dispatcher    events.Dispatcher
	Recorder      LoginRecorder
	Logger        *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		attempts:    deps.LoginAttempts,
		tokens:      deps.Tokens,
		dispatcher:  deps.Dispatcher,
		recorder:    deps.Recorder,
		logger:      logger,
		bcryptCost:  cfg.BcryptCost,
		maxAttempts: cfg.LoginMaxAttempts,
		window:      cfg.LoginWindow(),
	}
}

// RegisterUser creates a new account and issues its first credential.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, auth.Credential, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, auth.Credential{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, auth.Credential{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, auth.Credential{}, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
		}
		return nil, auth.Credential{}, apperrors.NewInternalError(err)
	}

	cred, err := s.issue(user.ID)
	if err != nil {
		return nil, auth.Credential{}, err
	}
	s.publish(ctx, events.EventUserRegistered, user.ID, events.LoginPayload{Email: email, ExpiresAt: cred.ExpiresAt})
	return user, cred, nil
}

// LoginUser verifies the password and issues a credential.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, auth.Credential, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, auth.Credential{}, apperrors.NewValidationError("email and password required", nil)
	}

	if attempts, throttled := s.throttled(ctx, email); throttled {
		s.recordFailure(FailureThrottled)
		s.publish(ctx, events.EventLoginThrottled, "", events.ThrottledPayload{Email: email, Attempts: attempts})
		return nil, auth.Credential{}, apperrors.NewTooManyRequests("too many failed login attempts; try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.registerFailure(ctx, email, FailureUnknownEmail)
			return nil, auth.Credential{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, auth.Credential{}, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.registerFailure(ctx, email, FailureBadPassword)
		return nil, auth.Credential{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.CanLogin() {
		s.recordFailure(FailureSuspended)
		return nil, auth.Credential{}, apperrors.NewForbidden("account suspended")
	}

	s.resetFailures(ctx, email)
	cred, err := s.issue(user.ID)
	if err != nil {
		return nil, auth.Credential{}, err
	}
	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.LoginPayload{Email: email, ExpiresAt: cred.ExpiresAt})
	return user, cred, nil
}

// Logout records the event. Tokens are stateless, so nothing is revoked.
func (s *AuthService) Logout(ctx context.Context, id auth.Identity) {
	subjectID, ok := id.SubjectID()
	if !ok {
		return
	}
	s.publish(ctx, events.EventUserLoggedOut, subjectID, nil)
}

func (s *AuthService) issue(subjectID string) (auth.Credential, error) {
	cred, err := s.tokens.Issue(subjectID)
	if err != nil {
		return auth.Credential{}, apperrors.NewInternalError(err)
	}
	if s.recorder != nil {
		s.recorder.RecordTokenIssued()
	}
	return cred, nil
}

func (s *AuthService) throttled(ctx context.Context, email string) (int64, bool) {
	if s.attempts == nil || s.maxAttempts <= 0 {
		return 0, false
	}
	count, err := s.attempts.Count(ctx, email)
	if err != nil {
		s.logger.Warn("login attempt lookup failed", zap.Error(err))
		return 0, false
	}
	return count, count >= int64(s.maxAttempts)
}

func (s *AuthService) registerFailure(ctx context.Context, email, reason string) {
	s.recordFailure(reason)
	if s.attempts == nil || s.maxAttempts <= 0 {
		return
	}
	if _, err := s.attempts.Increment(ctx, email, s.window); err != nil {
		s.logger.Warn("login attempt increment failed", zap.Error(err))
	}
}

func (s *AuthService) resetFailures(ctx context.Context, email string) {
	if s.attempts == nil || s.maxAttempts <= 0 {
		return
	}
	if err := s.attempts.Reset(ctx, email); err != nil {
		s.logger.Warn("login attempt reset failed", zap.Error(err))
	}
}

func (s *AuthService) recordFailure(reason string) {
	if s.recorder != nil {
		s.recorder.RecordLoginFailure(reason)
	}
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func validateRegistration(name, email, password string) error {
	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if email == "" {
		details["email"] = "required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "invalid"
	}
	if password == "" {
		details["password"] = "required"
	} else if len(password) < minPasswordLength {
		details["password"] = "too short"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration", details)
	}
	return nil
}
