package graph

import (
	"context"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/graph/generated"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// ComplexityLimit caps the cost of a single operation.
const ComplexityLimit = 200

// NewExecutor builds the operation executor for resolver. Introspection stays
// disabled.
func NewExecutor(resolver generated.ResolverRoot, logger *zap.Logger) *executor.Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	exec := executor.New(generated.NewExecutableSchema(generated.Config{Resolvers: resolver}))
	exec.Use(extension.FixedComplexityLimit(ComplexityLimit))
	exec.SetErrorPresenter(ErrorPresenter(logger))
	exec.SetRecoverFunc(func(ctx context.Context, r any) error {
		return apperrors.NewInternalError(fmt.Errorf("panic at %s: %v", graphql.GetPath(ctx), r))
	})
	return exec
}
