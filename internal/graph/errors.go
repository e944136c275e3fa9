package graph

import (
	"context"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// GraphQL error codes placed in extensions.code.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

var graphCodes = map[string]string{
	apperrors.CodeUnauthorized: CodeUnauthenticated,
	apperrors.CodeForbidden:    CodeForbidden,
	apperrors.CodeValidation:   CodeBadUserInput,
	apperrors.CodeInternal:     CodeInternal,
}

// ErrorPresenter converts resolver errors into GraphQL errors. Domain errors
// keep their message and carry their code in extensions. Errors raised by the
// executor itself, such as validation failures, pass through. Any other cause
// is logged and replaced with a generic message.
func ErrorPresenter(logger *zap.Logger) graphql.ErrorPresenterFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, err error) *gqlerror.Error {
		gqlErr := graphql.DefaultErrorPresenter(ctx, err)
		if fc := graphql.GetFieldContext(ctx); fc != nil && fc.Field.Field != nil && fc.Field.Position != nil && len(gqlErr.Locations) == 0 {
			gqlErr.Locations = []gqlerror.Location{{Line: fc.Field.Position.Line, Column: fc.Field.Position.Column}}
		}

		var de *apperrors.DomainError
		if !errors.As(err, &de) {
			if gqlErr.Unwrap() == nil {
				return gqlErr
			}
			de = apperrors.ToDomainError(gqlErr.Unwrap())
		}

		code, ok := graphCodes[de.Code]
		if !ok {
			code = de.Code
		}
		if de.HTTPStatus >= 500 {
			logger.Error("resolver failed", zap.String("path", gqlErr.Path.String()), zap.Error(de))
		}

		gqlErr.Message = de.Message
		gqlErr.Extensions = map[string]interface{}{"code": code}
		if len(de.Details) > 0 {
			gqlErr.Extensions["details"] = de.Details
		}
		return gqlErr
	}
}
