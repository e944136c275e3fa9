package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/config"
)

const cookiePath = "/"

// SessionWriter sets and clears the HTTP-only session cookie. It never keeps
// server side state; clearing the cookie does not invalidate the token.
type SessionWriter struct {
	cfg config.CookieConfig
}

// NewSessionWriter builds a writer for the configured cookie.
func NewSessionWriter(cfg config.CookieConfig) *SessionWriter {
	return &SessionWriter{cfg: cfg}
}

// CookieName returns the session cookie name.
func (s *SessionWriter) CookieName() string {
	return s.cfg.Name
}

// Set attaches the credential as an HTTP-only cookie expiring with the token.
func (s *SessionWriter) Set(c *fiber.Ctx, cred Credential) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.Name,
		Value:    cred.Token,
		Path:     cookiePath,
		Domain:   s.cfg.Domain,
		Expires:  cred.ExpiresAt,
		Secure:   s.cfg.Secure,
		HTTPOnly: true,
		SameSite: s.cfg.SameSite,
	})
}

// Clear overwrites the session cookie with an empty, already expired value.
func (s *SessionWriter) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.Name,
		Value:    "",
		Path:     cookiePath,
		Domain:   s.cfg.Domain,
		Expires:  time.Unix(0, 0),
		Secure:   s.cfg.Secure,
		HTTPOnly: true,
		SameSite: s.cfg.SameSite,
	})
}
