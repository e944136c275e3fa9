package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/gofiber/fiber/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// CodeUnsupportedMediaType is returned for GraphQL POST bodies that are not JSON.
const CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"

// GraphQLHandler serves GraphQL over HTTP. Responses are always 200 once the
// request decodes; failures travel in the errors list.
type GraphQLHandler struct {
	executor *executor.Executor
	logger   *zap.Logger
}

// NewGraphQLHandler constructs handler.
func NewGraphQLHandler(exec *executor.Executor, logger *zap.Logger) *GraphQLHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphQLHandler{executor: exec, logger: logger}
}

// Post handles POST requests. Only application/json bodies are accepted, which
// a cross-site HTML form cannot send.
func (h *GraphQLHandler) Post(c *fiber.Ctx) error {
	if !c.Is("json") {
		return apperrors.NewDomainError(CodeUnsupportedMediaType,
			"graphql requests must use Content-Type application/json", http.StatusUnsupportedMediaType, nil)
	}
	var params graphql.RawParams
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		return apperrors.NewValidationError("invalid graphql request body", nil)
	}
	return h.execute(c, &params, false)
}

// Get handles GET requests carrying query and operationName parameters.
// Variables are read from a JSON encoded "variables" parameter. Mutations are
// refused so a cross-site link cannot change state with the session cookie.
func (h *GraphQLHandler) Get(c *fiber.Ctx) error {
	params := graphql.RawParams{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params.Variables); err != nil {
			return apperrors.NewValidationError("variables must be a JSON object", nil)
		}
	}
	return h.execute(c, &params, true)
}

func (h *GraphQLHandler) execute(c *fiber.Ctx, params *graphql.RawParams, queryOnly bool) error {
	ctx := graphql.StartOperationTrace(c.UserContext())

	opCtx, errs := h.executor.CreateOperationContext(ctx, params)
	if len(errs) == 0 && queryOnly && opCtx.Operation.Operation != ast.Query {
		errs = gqlerror.List{gqlerror.Errorf("GET requests only allow query operations")}
	}
	if len(errs) > 0 {
		return h.respond(c, params, h.executor.DispatchError(graphql.WithOperationContext(ctx, opCtx), errs))
	}

	responses, ctx := h.executor.DispatchOperation(ctx, opCtx)
	return h.respond(c, params, responses(ctx))
}

func (h *GraphQLHandler) respond(c *fiber.Ctx, params *graphql.RawParams, resp *graphql.Response) error {
	if len(resp.Errors) > 0 {
		h.logger.Debug("graphql operation returned errors",
			zap.String("operation", params.OperationName),
			zap.Int("errors", len(resp.Errors)))
	}
	return c.JSON(resp)
}
