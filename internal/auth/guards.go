package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// RequireUser rejects anonymous callers on REST routes.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !FromFiber(c).User.IsAuthenticated() {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireSubject returns the authenticated subject or an UNAUTHORIZED error.
func RequireSubject(id Identity) (string, error) {
	subjectID, ok := id.SubjectID()
	if !ok {
		return "", apperrors.NewUnauthorized("authentication required")
	}
	return subjectID, nil
}

// RequireOwner fails with FORBIDDEN unless id is the owner of the resource.
func RequireOwner(id Identity, ownerID string) error {
	if _, err := RequireSubject(id); err != nil {
		return err
	}
	if !id.Is(ownerID) {
		return apperrors.NewForbidden("not allowed to modify this resource")
	}
	return nil
}
