package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
)

const defaultGraphQLPath = "/graphql"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	GraphQL        *handlers.GraphQLHandler
	GraphQLPath    string
	Metrics        fiber.Handler
	ContextBuilder *auth.ContextBuilder
}

// RegisterRoutes wires HTTP routes. Identity is resolved for every route after
// the probes, so handlers can read auth.FromFiber.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	app.Use(cfg.ContextBuilder.Handle)

	graphqlPath := cfg.GraphQLPath
	if graphqlPath == "" {
		graphqlPath = defaultGraphQLPath
	}
	app.Post(graphqlPath, cfg.GraphQL.Post)
	app.Get(graphqlPath, cfg.GraphQL.Get)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/users/logout", cfg.Users.Logout)
	authGroup.Get("/users/me", auth.RequireUser(), cfg.Users.Me)
}
