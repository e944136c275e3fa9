package generated

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/spec-kit/blog-service/internal/graph/model"
)

//go:generate go run github.com/99designs/gqlgen generate --config ../../../gqlgen.yml

// NewExecutableSchema creates an ExecutableSchema from the ResolverRoot interface.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{resolvers: cfg.Resolvers, schema: parsedSchema}
}

type Config struct {
	Resolvers ResolverRoot
}

type ResolverRoot interface {
	Mutation() MutationResolver
	Query() QueryResolver
}

type MutationResolver interface {
	Register(ctx context.Context, name string, email string, password string) (*model.AuthPayload, error)
	Login(ctx context.Context, email string, password string) (*model.AuthPayload, error)
	Logout(ctx context.Context) (bool, error)
	UpdateUser(ctx context.Context, id string, name string) (*model.User, error)
}

type QueryResolver interface {
	Me(ctx context.Context) (*model.User, error)
	User(ctx context.Context, id string) (*model.User, error)
}

type executableSchema struct {
	resolvers ResolverRoot
	schema    *ast.Schema
}

func (e *executableSchema) Schema() *ast.Schema {
	return e.schema
}

// Complexity reports no custom costs, so every field counts as its children plus one.
func (e *executableSchema) Complexity(ctx context.Context, typeName, field string, childComplexity int, rawArgs map[string]any) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	ec := executionContext{OperationContext: opCtx, executableSchema: e}
	first := true

	switch opCtx.Operation.Operation {
	case ast.Query:
		return func(ctx context.Context) *graphql.Response {
			if !first {
				return nil
			}
			first = false
			data := ec._Query(ctx, opCtx.Operation.SelectionSet)
			var buf bytes.Buffer
			data.MarshalGQL(&buf)
			return &graphql.Response{Data: buf.Bytes()}
		}
	case ast.Mutation:
		return func(ctx context.Context) *graphql.Response {
			if !first {
				return nil
			}
			first = false
			data := ec._Mutation(ctx, opCtx.Operation.SelectionSet)
			var buf bytes.Buffer
			data.MarshalGQL(&buf)
			return &graphql.Response{Data: buf.Bytes()}
		}
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}
}

type executionContext struct {
	*graphql.OperationContext
	*executableSchema
}

var parsedSchema = gqlparser.MustLoadSchema(sources...)

var sources = []*ast.Source{
	{Name: "../schema.graphqls", Input: `"An account that authors posts and comments."
type User {
  id: ID!
  name: String!
  "Only returned to the account owner."
  email: String
  status: String!
  createdAt: String!
}

"Result of register and login. The token is also set as the session cookie."
type AuthPayload {
  token: String!
  expiresAt: String!
  user: User!
}

type Query {
  "The caller, or null when the request carries no valid credential."
  me: User
  user(id: ID!): User
}

type Mutation {
  register(name: String!, email: String!, password: String!): AuthPayload!
  login(email: String!, password: String!): AuthPayload!
  "Clears the session cookie. Tokens held elsewhere stay valid until they expire."
  logout: Boolean!
  updateUser(id: ID!, name: String!): User!
}
`, BuiltIn: false},
}

// region    ***************************** args.gotpl *****************************

func (ec *executionContext) stringArgs(field graphql.CollectedField, names ...string) (map[string]any, error) {
	raw := field.ArgumentMap(ec.Variables)
	args := make(map[string]any, len(names))
	for _, name := range names {
		v, err := graphql.UnmarshalString(raw[name])
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", name, err)
		}
		args[name] = v
	}
	return args, nil
}

// endregion ***************************** args.gotpl *****************************

// region    **************************** field.gotpl *****************************

// resolve runs next through the operation's field middleware. A returned error
// or a recovered panic is recorded on the field path in ctx.
func (ec *executionContext) resolve(ctx context.Context, next graphql.Resolver) (res any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			graphql.AddError(ctx, ec.Recover(ctx, r))
			res, ok = nil, false
		}
	}()

	var err error
	if ec.ResolverMiddleware != nil {
		res, err = ec.ResolverMiddleware(ctx, next)
	} else {
		res, err = next(ctx)
	}
	if err != nil {
		graphql.AddError(ctx, err)
		return nil, false
	}
	return res, true
}

func (ec *executionContext) rootField(ctx context.Context, object string, field graphql.CollectedField, argNames ...string) (context.Context, map[string]any, bool) {
	fc := &graphql.FieldContext{Object: object, Field: field, IsMethod: true, IsResolver: true}
	ctx = graphql.WithFieldContext(ctx, fc)
	args, err := ec.stringArgs(field, argNames...)
	if err != nil {
		graphql.AddError(ctx, err)
		return ctx, nil, false
	}
	fc.Args = args
	return ctx, args, true
}

func (ec *executionContext) _Query_me(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx, _, ok := ec.rootField(ctx, "Query", field)
	if !ok {
		return graphql.Null
	}
	res, ok := ec.resolve(ctx, func(rctx context.Context) (any, error) {
		return ec.resolvers.Query().Me(rctx)
	})
	if !ok {
		return graphql.Null
	}
	return ec.marshalOUser(ctx, field.Selections, res)
}

func (ec *executionContext) _Query_user(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx, args, ok := ec.rootField(ctx, "Query", field, "id")
	if !ok {
		return graphql.Null
	}
	res, ok := ec.resolve(ctx, func(rctx context.Context) (any, error) {
		return ec.resolvers.Query().User(rctx, args["id"].(string))
	})
	if !ok {
		return graphql.Null
	}
	return ec.marshalOUser(ctx, field.Selections, res)
}

func (ec *executionContext) _Query_introspection(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{Object: "Query", Field: field})
	graphql.AddErrorf(ctx, "introspection disabled")
	return graphql.Null
}

func (ec *executionContext) _Mutation_register(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx, args, ok := ec.rootField(ctx, "Mutation", field, "name", "email", "password")
	if !ok {
		return graphql.Null
	}
	res, ok := ec.resolve(ctx, func(rctx context.Context) (any, error) {
		return ec.resolvers.Mutation().Register(rctx, args["name"].(string), args["email"].(string), args["password"].(string))
	})
	if !ok {
		return graphql.Null
	}
	return ec.marshalNAuthPayload(ctx, field.Selections, res)
}

func (ec *executionContext) _Mutation_login(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx, args, ok := ec.rootField(ctx, "Mutation", field, "email", "password")
	if !ok {
		return graphql.Null
	}
	res, ok := ec.resolve(ctx, func(rctx context.Context) (any, error) {
		return ec.resolvers.Mutation().Login(rctx, args["email"].(string), args["password"].(string))
	})
	if !ok {
		return graphql.Null
	}
	return ec.marshalNAuthPayload(ctx, field.Selections, res)
}

func (ec *executionContext) _Mutation_logout(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx, _, ok := ec.rootField(ctx, "Mutation", field)
	if !ok {
		return graphql.Null
	}
	res, ok := ec.resolve(ctx, func(rctx context.Context) (any, error) {
		return ec.resolvers.Mutation().Logout(rctx)
	})
	if !ok {
		return graphql.Null
	}
	b, isBool := res.(bool)
	if !isBool {
		ec.mustNotBeNull(ctx)
		return graphql.Null
	}
	return graphql.MarshalBoolean(b)
}

func (ec *executionContext) _Mutation_updateUser(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	ctx, args, ok := ec.rootField(ctx, "Mutation", field, "id", "name")
	if !ok {
		return graphql.Null
	}
	res, ok := ec.resolve(ctx, func(rctx context.Context) (any, error) {
		return ec.resolvers.Mutation().UpdateUser(rctx, args["id"].(string), args["name"].(string))
	})
	if !ok {
		return graphql.Null
	}
	return ec.marshalNUser(ctx, field.Selections, res)
}

func (ec *executionContext) _AuthPayload_user(ctx context.Context, field graphql.CollectedField, obj *model.AuthPayload) graphql.Marshaler {
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{Object: "AuthPayload", Field: field})
	return ec.marshalNUser(ctx, field.Selections, obj.User)
}

// endregion **************************** field.gotpl *****************************

// region    **************************** object.gotpl ****************************

var queryImplementors = []string{"Query"}

func (ec *executionContext) _Query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, queryImplementors)
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{Object: "Query"})

	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Query")
		case "me":
			out.Values[i] = ec._Query_me(ctx, field)
		case "user":
			out.Values[i] = ec._Query_user(ctx, field)
		case "__schema", "__type":
			out.Values[i] = ec._Query_introspection(ctx, field)
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
	}
	if out.Invalids > 0 {
		return graphql.Null
	}
	return out
}

var mutationImplementors = []string{"Mutation"}

// _Mutation resolves root fields one at a time in document order.
func (ec *executionContext) _Mutation(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, mutationImplementors)
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{Object: "Mutation"})

	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Mutation")
		case "register":
			out.Values[i] = ec._Mutation_register(ctx, field)
		case "login":
			out.Values[i] = ec._Mutation_login(ctx, field)
		case "logout":
			out.Values[i] = ec._Mutation_logout(ctx, field)
		case "updateUser":
			out.Values[i] = ec._Mutation_updateUser(ctx, field)
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
		if out.Values[i] == graphql.Null && field.Name != "__typename" {
			out.Invalids++
		}
	}
	if out.Invalids > 0 {
		return graphql.Null
	}
	return out
}

var authPayloadImplementors = []string{"AuthPayload"}

func (ec *executionContext) _AuthPayload(ctx context.Context, sel ast.SelectionSet, obj *model.AuthPayload) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, authPayloadImplementors)

	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("AuthPayload")
		case "token":
			out.Values[i] = graphql.MarshalString(obj.Token)
		case "expiresAt":
			out.Values[i] = graphql.MarshalString(obj.ExpiresAt)
		case "user":
			out.Values[i] = ec._AuthPayload_user(ctx, field, obj)
			if out.Values[i] == graphql.Null {
				out.Invalids++
			}
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
	}
	if out.Invalids > 0 {
		return graphql.Null
	}
	return out
}

var userImplementors = []string{"User"}

func (ec *executionContext) _User(ctx context.Context, sel ast.SelectionSet, obj *model.User) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, userImplementors)

	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("User")
		case "id":
			out.Values[i] = graphql.MarshalID(obj.ID)
		case "name":
			out.Values[i] = graphql.MarshalString(obj.Name)
		case "email":
			if obj.Email == nil {
				out.Values[i] = graphql.Null
			} else {
				out.Values[i] = graphql.MarshalString(*obj.Email)
			}
		case "status":
			out.Values[i] = graphql.MarshalString(obj.Status)
		case "createdAt":
			out.Values[i] = graphql.MarshalString(obj.CreatedAt)
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
	}
	return out
}

// endregion **************************** object.gotpl ****************************

// region    ***************************** type.gotpl *****************************

func (ec *executionContext) mustNotBeNull(ctx context.Context) {
	if !graphql.HasFieldError(ctx, graphql.GetFieldContext(ctx)) {
		graphql.AddErrorf(ctx, "must not be null")
	}
}

func (ec *executionContext) marshalNAuthPayload(ctx context.Context, sel ast.SelectionSet, v any) graphql.Marshaler {
	payload, _ := v.(*model.AuthPayload)
	if payload == nil {
		ec.mustNotBeNull(ctx)
		return graphql.Null
	}
	return ec._AuthPayload(ctx, sel, payload)
}

func (ec *executionContext) marshalNUser(ctx context.Context, sel ast.SelectionSet, v any) graphql.Marshaler {
	user, _ := v.(*model.User)
	if user == nil {
		ec.mustNotBeNull(ctx)
		return graphql.Null
	}
	return ec._User(ctx, sel, user)
}

func (ec *executionContext) marshalOUser(ctx context.Context, sel ast.SelectionSet, v any) graphql.Marshaler {
	user, _ := v.(*model.User)
	if user == nil {
		return graphql.Null
	}
	return ec._User(ctx, sel, user)
}

// endregion ***************************** type.gotpl *****************************
