package graph

import (
	"context"
	"time"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/graph/generated"
	"github.com/spec-kit/blog-service/internal/graph/model"
	"github.com/spec-kit/blog-service/internal/service"
)

// Resolver wires the root fields of the schema to the services. The caller's
// identity comes from the context.Context; cookies are written through the
// fiber handle stored next to it.
type Resolver struct {
	auth     *service.AuthService
	users    *service.UserService
	sessions *auth.SessionWriter
}

// NewResolver constructs the root resolver.
func NewResolver(authService *service.AuthService, users *service.UserService, sessions *auth.SessionWriter) *Resolver {
	return &Resolver{auth: authService, users: users, sessions: sessions}
}

// Mutation returns generated.MutationResolver implementation.
func (r *Resolver) Mutation() generated.MutationResolver { return &mutationResolver{r} }

// Query returns generated.QueryResolver implementation.
func (r *Resolver) Query() generated.QueryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }

func (r *Resolver) startSession(ctx context.Context, cred auth.Credential) {
	if rc, ok := auth.RequestContextFromContext(ctx); ok {
		r.sessions.Set(rc.Fiber, cred)
	}
}

func (r *Resolver) endSession(ctx context.Context) {
	if rc, ok := auth.RequestContextFromContext(ctx); ok {
		r.sessions.Clear(rc.Fiber)
	}
}

func authPayload(user *domain.User, cred auth.Credential) *model.AuthPayload {
	return &model.AuthPayload{
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt.UTC().Format(time.RFC3339),
		User:      userModel(user, auth.Authenticated(user.ID)),
	}
}

// userModel projects user for viewer. The email is only shown to its owner.
func userModel(user *domain.User, viewer auth.Identity) *model.User {
	if user == nil {
		return nil
	}
	out := &model.User{
		ID:        user.ID,
		Name:      user.Name,
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if viewer.Is(user.ID) {
		email := user.Email
		out.Email = &email
	}
	return out
}
