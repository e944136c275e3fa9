package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Identity is the per-request resolved subject. The zero value is anonymous.
type Identity struct {
	subjectID string
}

// Anonymous returns the empty identity.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns an identity for the subject.
func Authenticated(subjectID string) Identity {
	return Identity{subjectID: subjectID}
}

// SubjectID returns the subject and whether one is present.
func (i Identity) SubjectID() (string, bool) {
	return i.subjectID, i.subjectID != ""
}

// IsAuthenticated reports whether a subject was resolved.
func (i Identity) IsAuthenticated() bool {
	return i.subjectID != ""
}

// Is reports whether the identity belongs to subjectID.
func (i Identity) Is(subjectID string) bool {
	return i.subjectID != "" && i.subjectID == subjectID
}

// Resolution outcomes reported to a ResolutionObserver.
const (
	OutcomeCookie   = "cookie"
	OutcomeHeader   = "header"
	OutcomeMissing  = "missing"
	OutcomeExpired  = "expired"
	OutcomeRejected = "rejected"
)

const bearerScheme = "Bearer"

// ResolutionObserver receives one outcome per checked credential source.
type ResolutionObserver interface {
	ObserveIdentityResolution(outcome string)
}

// IdentityResolver extracts and verifies the request credential.
type IdentityResolver struct {
	tokens     *TokenManager
	cookieName string
	logger     *zap.Logger
	observer   ResolutionObserver
}

// NewIdentityResolver constructs a resolver. logger and observer may be nil.
func NewIdentityResolver(tokens *TokenManager, cookieName string, logger *zap.Logger, observer ResolutionObserver) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityResolver{tokens: tokens, cookieName: cookieName, logger: logger, observer: observer}
}

// Resolve classifies the request as an identity or anonymous. It never fails.
func (r *IdentityResolver) Resolve(c *fiber.Ctx) Identity {
	return r.ResolveCredentials(c.Cookies(r.cookieName), c.Get(fiber.HeaderAuthorization))
}

// ResolveCredentials checks the cookie value first and the Authorization header
// second. A present cookie decides the outcome: if it fails verification the
// request is anonymous and the header is not consulted.
func (r *IdentityResolver) ResolveCredentials(cookieValue, authorization string) Identity {
	if token := strings.TrimSpace(cookieValue); token != "" {
		id, _ := r.verify(token, OutcomeCookie)
		return id
	}

	if token, ok := BearerToken(authorization); ok {
		id, _ := r.verify(token, OutcomeHeader)
		return id
	}

	r.observe(OutcomeMissing)
	return Anonymous()
}

func (r *IdentityResolver) verify(token, source string) (Identity, bool) {
	claims, err := r.tokens.Verify(token)
	if err != nil {
		outcome := OutcomeRejected
		if isExpired(err) {
			outcome = OutcomeExpired
		}
		r.observe(outcome)
		r.logger.Debug("credential rejected",
			zap.String("source", source),
			zap.String("outcome", outcome),
			zap.Error(err))
		return Anonymous(), false
	}
	r.observe(source)
	return Authenticated(claims.Subject), true
}

func (r *IdentityResolver) observe(outcome string) {
	if r.observer != nil {
		r.observer.ObserveIdentityResolution(outcome)
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func isExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
