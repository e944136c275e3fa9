package graph

import (
	"context"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/graph/model"
)

// Register is the resolver for the register field.
func (r *mutationResolver) Register(ctx context.Context, name string, email string, password string) (*model.AuthPayload, error) {
	user, cred, err := r.auth.RegisterUser(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	r.startSession(ctx, cred)
	return authPayload(user, cred), nil
}

// Login is the resolver for the login field.
func (r *mutationResolver) Login(ctx context.Context, email string, password string) (*model.AuthPayload, error) {
	user, cred, err := r.auth.LoginUser(ctx, email, password)
	if err != nil {
		return nil, err
	}
	r.startSession(ctx, cred)
	return authPayload(user, cred), nil
}

// Logout is the resolver for the logout field.
func (r *mutationResolver) Logout(ctx context.Context) (bool, error) {
	r.endSession(ctx)
	r.auth.Logout(ctx, auth.IdentityFromContext(ctx))
	return true, nil
}

// UpdateUser is the resolver for the updateUser field.
func (r *mutationResolver) UpdateUser(ctx context.Context, id string, name string) (*model.User, error) {
	viewer := auth.IdentityFromContext(ctx)
	user, err := r.users.UpdateName(ctx, viewer, id, name)
	if err != nil {
		return nil, err
	}
	return userModel(user, viewer), nil
}

// Me is the resolver for the me field.
func (r *queryResolver) Me(ctx context.Context) (*model.User, error) {
	viewer := auth.IdentityFromContext(ctx)
	user, err := r.users.CurrentUser(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return userModel(user, viewer), nil
}

// User is the resolver for the user field.
func (r *queryResolver) User(ctx context.Context, id string) (*model.User, error) {
	user, err := r.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return userModel(user, auth.IdentityFromContext(ctx)), nil
}
