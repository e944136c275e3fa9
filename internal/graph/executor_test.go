package graph

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/graph/generated"
	"github.com/spec-kit/blog-service/internal/graph/model"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// stubResolver answers every root field from optional funcs; unset fields
// resolve to null.
type stubResolver struct {
	me         func(ctx context.Context) (*model.User, error)
	user       func(ctx context.Context, id string) (*model.User, error)
	register   func(ctx context.Context, name, email, password string) (*model.AuthPayload, error)
	login      func(ctx context.Context, email, password string) (*model.AuthPayload, error)
	logout     func(ctx context.Context) (bool, error)
	updateUser func(ctx context.Context, id, name string) (*model.User, error)
}

func (s *stubResolver) Query() generated.QueryResolver { return stubQuery{s} }
func (s *stubResolver) Mutation() generated.MutationResolver { return stubMutation{s} }

type stubQuery struct{ *stubResolver }

func (s stubQuery) Me(ctx context.Context) (*model.User, error) {
	if s.me == nil {
		return nil, nil
	}
	return s.me(ctx)
}

func (s stubQuery) User(ctx context.Context, id string) (*model.User, error) {
	if s.user == nil {
		return nil, nil
	}
	return s.user(ctx, id)
}

type stubMutation struct{ *stubResolver }

func (s stubMutation) Register(ctx context.Context, name, email, password string) (*model.AuthPayload, error) {
	if s.register == nil {
		return nil, nil
	}
	return s.register(ctx, name, email, password)
}

func (s stubMutation) Login(ctx context.Context, email, password string) (*model.AuthPayload, error) {
	if s.login == nil {
		return nil, nil
	}
	return s.login(ctx, email, password)
}

func (s stubMutation) Logout(ctx context.Context) (bool, error) {
	if s.logout == nil {
		return false, errors.New("logout not stubbed")
	}
	return s.logout(ctx)
}

func (s stubMutation) UpdateUser(ctx context.Context, id, name string) (*model.User, error) {
	if s.updateUser == nil {
		return nil, nil
	}
	return s.updateUser(ctx, id, name)
}

func ada() *model.User {
	email := "ada@example.com"
	return &model.User{ID: "u1", Name: "Ada", Email: &email, Status: "ACTIVE", CreatedAt: "2026-03-01T12:00:00Z"}
}

func run(t *testing.T, r generated.ResolverRoot, query string, vars map[string]any) *graphql.Response {
	t.Helper()
	return runNamed(t, r, query, "", vars)
}

func runNamed(t *testing.T, r generated.ResolverRoot, query, operation string, vars map[string]any) *graphql.Response {
	t.Helper()
	exec := NewExecutor(r, nil)
	ctx := graphql.StartOperationTrace(auth.WithIdentity(context.Background(), auth.Anonymous()))
	opCtx, errs := exec.CreateOperationContext(ctx, &graphql.RawParams{Query: query, OperationName: operation, Variables: vars})
	if len(errs) > 0 {
		return exec.DispatchError(graphql.WithOperationContext(ctx, opCtx), errs)
	}
	responses, ctx := exec.DispatchOperation(ctx, opCtx)
	resp := responses(ctx)
	require.NotNil(t, resp)
	return resp
}

func TestSchemaMatchesSDL(t *testing.T) {
	sdl, err := os.ReadFile("schema.graphqls")
	require.NoError(t, err)
	want := gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: string(sdl)})
	got := generated.NewExecutableSchema(generated.Config{Resolvers: &stubResolver{}}).Schema()

	for _, name := range []string{"Query", "Mutation", "User", "AuthPayload"} {
		wantDef, gotDef := want.Types[name], got.Types[name]
		require.NotNil(t, gotDef, name)
		require.Len(t, gotDef.Fields, len(wantDef.Fields), name)
		for i, field := range wantDef.Fields {
			assert.Equal(t, field.Name, gotDef.Fields[i].Name, name)
			assert.Equal(t, field.Type.String(), gotDef.Fields[i].Type.String(), name+"."+field.Name)
			assert.Len(t, gotDef.Fields[i].Arguments, len(field.Arguments), name+"."+field.Name)
		}
	}
}

func TestExecute_ProjectsSelectionInOrder(t *testing.T) {
	r := &stubResolver{me: func(context.Context) (*model.User, error) { return ada(), nil }}

	resp := run(t, r, `{ me { name id who: email __typename } __typename }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t,
		`{"me":{"name":"Ada","id":"u1","who":"ada@example.com","__typename":"User"},"__typename":"Query"}`,
		string(resp.Data))
}

func TestExecute_FragmentsAndDirectives(t *testing.T) {
	r := &stubResolver{me: func(context.Context) (*model.User, error) { return ada(), nil }}

	query := `
query Me($hideEmail: Boolean!, $withStatus: Boolean!) {
  me {
    ...Basics
    email @skip(if: $hideEmail)
    ... on User { status @include(if: $withStatus) }
  }
}
fragment Basics on User { id name }`

	resp := run(t, r, query, map[string]any{"hideEmail": true, "withStatus": true})
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"me":{"id":"u1","name":"Ada","status":"ACTIVE"}}`, string(resp.Data))
}

func TestExecute_PassesArgumentsAndVariables(t *testing.T) {
	var gotEmail, gotPassword string
	r := &stubResolver{login: func(_ context.Context, email, password string) (*model.AuthPayload, error) {
		gotEmail, gotPassword = email, password
		return &model.AuthPayload{Token: "t", ExpiresAt: "x", User: ada()}, nil
	}}

	resp := run(t, r, `mutation Login($email: String!) { login(email: $email, password: "secret1") { token user { id } } }`,
		map[string]any{"email": "ada@example.com"})
	require.Empty(t, resp.Errors)
	assert.Equal(t, "ada@example.com", gotEmail)
	assert.Equal(t, "secret1", gotPassword)
	assert.Equal(t, `{"login":{"token":"t","user":{"id":"u1"}}}`, string(resp.Data))
}

func TestExecute_ResolversReadIdentityFromContext(t *testing.T) {
	var seen auth.Identity
	r := &stubResolver{me: func(ctx context.Context) (*model.User, error) {
		seen = auth.IdentityFromContext(ctx)
		return nil, nil
	}}

	resp := run(t, r, `{ me { id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, auth.Anonymous(), seen)
}

func TestExecute_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		operation string
		vars      map[string]any
	}{
		{name: "empty query", query: "  "},
		{name: "syntax error", query: `{ me { id `},
		{name: "unknown field", query: `{ posts { id } }`},
		{name: "missing required argument", query: `{ user { id } }`},
		{name: "missing variable", query: `query Q($id: ID!) { user(id: $id) { id } }`},
		{name: "unknown operation", query: `query A { me { id } }`, operation: "B"},
		{name: "ambiguous operation", query: `query A { me { id } } query B { me { id } }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			r := &stubResolver{me: func(context.Context) (*model.User, error) {
				called = true
				return ada(), nil
			}}
			resp := runNamed(t, r, tt.query, tt.operation, tt.vars)
			assert.NotEmpty(t, resp.Errors)
			assert.Nil(t, resp.Data)
			assert.False(t, called)
		})
	}
}

func TestExecute_SelectsNamedOperation(t *testing.T) {
	r := &stubResolver{me: func(context.Context) (*model.User, error) { return ada(), nil }}

	resp := runNamed(t, r, `query A { me { id } } query B { me { name } }`, "B", nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"me":{"name":"Ada"}}`, string(resp.Data))
}

func TestExecute_ErrorCodes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{name: "unauthorized", err: apperrors.NewUnauthorized("authentication required"), code: CodeUnauthenticated, message: "authentication required"},
		{name: "forbidden", err: apperrors.NewForbidden("nope"), code: CodeForbidden, message: "nope"},
		{name: "validation", err: apperrors.NewValidationError("bad", nil), code: CodeBadUserInput, message: "bad"},
		{name: "not found", err: apperrors.NewNotFound("user", nil), code: apperrors.CodeNotFound, message: "user not found"},
		{name: "throttled", err: apperrors.NewTooManyRequests("slow down"), code: apperrors.CodeTooManyRequests, message: "slow down"},
		{name: "unknown error is hidden", err: errors.New("pq: connection reset"), code: CodeInternal, message: "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &stubResolver{user: func(context.Context, string) (*model.User, error) { return nil, tt.err }}

			resp := run(t, r, `{ user(id: "u1") { id } }`, nil)
			require.Len(t, resp.Errors, 1)
			gqlErr := resp.Errors[0]
			assert.Equal(t, tt.message, gqlErr.Message)
			assert.Equal(t, tt.code, gqlErr.Extensions["code"])
			assert.Equal(t, "user", gqlErr.Path.String())
			require.Len(t, gqlErr.Locations, 1)
			assert.Equal(t, `{"user":null}`, string(resp.Data))
		})
	}
}

func TestExecute_ValidationDetailsInExtensions(t *testing.T) {
	r := &stubResolver{register: func(context.Context, string, string, string) (*model.AuthPayload, error) {
		return nil, apperrors.NewValidationError("invalid registration", map[string]any{"email": "invalid"})
	}}

	resp := run(t, r, `mutation { register(name: "a", email: "b", password: "c") { token } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, map[string]any{"email": "invalid"}, resp.Errors[0].Extensions["details"])
	// register is non-null, so data is null
	assert.Equal(t, `null`, string(resp.Data))
}

func TestExecute_NullPropagation(t *testing.T) {
	t.Run("null non-null nested object nulls the parent", func(t *testing.T) {
		r := &stubResolver{login: func(context.Context, string, string) (*model.AuthPayload, error) {
			return &model.AuthPayload{Token: "t"}, nil
		}}
		resp := run(t, r, `mutation { login(email: "a", password: "b") { token user { id } } }`, nil)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "must not be null", resp.Errors[0].Message)
		assert.Equal(t, "login.user", resp.Errors[0].Path.String())
		assert.Equal(t, `null`, string(resp.Data))
	})

	t.Run("null non-null root is reported once", func(t *testing.T) {
		r := &stubResolver{}
		resp := run(t, r, `mutation { updateUser(id: "u1", name: "Ada") { id } }`, nil)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "updateUser", resp.Errors[0].Path.String())
		assert.Equal(t, `null`, string(resp.Data))
	})

	t.Run("nullable root resolving nil is not an error", func(t *testing.T) {
		resp := run(t, &stubResolver{}, `{ me { id } }`, nil)
		assert.Empty(t, resp.Errors)
		assert.Equal(t, `{"me":null}`, string(resp.Data))
	})

	t.Run("absent email is null", func(t *testing.T) {
		r := &stubResolver{me: func(context.Context) (*model.User, error) {
			return &model.User{ID: "u1", Name: "Ada"}, nil
		}}
		resp := run(t, r, `{ me { id email } }`, nil)
		assert.Empty(t, resp.Errors)
		assert.Equal(t, `{"me":{"id":"u1","email":null}}`, string(resp.Data))
	})
}

func TestExecute_MutationsRunInDocumentOrder(t *testing.T) {
	var calls []string
	r := &stubResolver{
		logout: func(context.Context) (bool, error) {
			calls = append(calls, "logout")
			return true, nil
		},
		updateUser: func(context.Context, string, string) (*model.User, error) {
			calls = append(calls, "updateUser")
			return ada(), nil
		},
	}

	resp := run(t, r, `mutation { first: logout rename: updateUser(id: "u1", name: "Ada") { id } second: logout }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, []string{"logout", "updateUser", "logout"}, calls)
	assert.Equal(t, `{"first":true,"rename":{"id":"u1"},"second":true}`, string(resp.Data))
}

func TestExecute_RecoversResolverPanics(t *testing.T) {
	r := &stubResolver{me: func(context.Context) (*model.User, error) { panic("boom") }}

	resp := run(t, r, `{ me { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "internal server error", resp.Errors[0].Message)
	assert.Equal(t, CodeInternal, resp.Errors[0].Extensions["code"])
	assert.Equal(t, `{"me":null}`, string(resp.Data))
}

func TestExecute_RejectsIntrospection(t *testing.T) {
	resp := run(t, &stubResolver{}, `{ __schema { queryType { name } } }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "introspection")
}

func TestUserModel_EmailOnlyForOwner(t *testing.T) {
	user := &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Status: domain.UserStatusActive}

	owner := userModel(user, auth.Authenticated("u1"))
	require.NotNil(t, owner.Email)
	assert.Equal(t, "ada@example.com", *owner.Email)

	assert.Nil(t, userModel(user, auth.Authenticated("u2")).Email)
	assert.Nil(t, userModel(user, auth.Anonymous()).Email)
	assert.Nil(t, userModel(nil, auth.Anonymous()))
}
