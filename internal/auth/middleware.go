package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const requestContextKey = "auth_request_context"

type (
	identityCtxKey       struct{}
	requestContextCtxKey struct{}
)

// RequestContext is built once per request before any handler runs. Handlers
// read User and use Fiber to set or clear cookies. It is reachable from the
// fiber locals and from the request's context.Context.
type RequestContext struct {
	Fiber *fiber.Ctx
	User  Identity
}

// Context returns the request scoped context.Context.
func (rc *RequestContext) Context() context.Context {
	if rc == nil || rc.Fiber == nil {
		return context.Background()
	}
	return rc.Fiber.UserContext()
}

// ContextBuilder resolves the caller identity and stores it on the request.
type ContextBuilder struct {
	resolver *IdentityResolver
}

// NewContextBuilder constructs the builder.
func NewContextBuilder(resolver *IdentityResolver) *ContextBuilder {
	return &ContextBuilder{resolver: resolver}
}

// Build resolves identity for c and records the result on it.
func (b *ContextBuilder) Build(c *fiber.Ctx) *RequestContext {
	rc := &RequestContext{Fiber: c, User: b.resolver.Resolve(c)}
	c.Locals(requestContextKey, rc)
	ctx := WithIdentity(c.UserContext(), rc.User)
	c.SetUserContext(context.WithValue(ctx, requestContextCtxKey{}, rc))
	return rc
}

// Handle is the fiber middleware form of Build. It never rejects a request.
func (b *ContextBuilder) Handle(c *fiber.Ctx) error {
	b.Build(c)
	return c.Next()
}

// FromFiber returns the request context built for c. Requests that skipped the
// builder are anonymous.
func FromFiber(c *fiber.Ctx) *RequestContext {
	if rc, ok := c.Locals(requestContextKey).(*RequestContext); ok && rc != nil {
		return rc
	}
	return &RequestContext{Fiber: c, User: Anonymous()}
}

// RequestContextFromContext returns the request context stored by the builder.
// ok is false outside an HTTP request, for example in resolver unit tests.
func RequestContextFromContext(ctx context.Context) (rc *RequestContext, ok bool) {
	rc, ok = ctx.Value(requestContextCtxKey{}).(*RequestContext)
	return rc, ok && rc != nil
}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, anonymous if none.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityCtxKey{}).(Identity); ok {
		return id
	}
	return Anonymous()
}
