package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/persistence"
	"github.com/dukex/flowgraph/pkg/registry"
	"github.com/dukex/flowgraph/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type APIHandlers struct {
	ctx        context.Context
	registry   *registry.Registry
	runner     *workflow.Runner
	repository persistence.RunRepository
	validator  *validator.Validate
	logger     *slog.Logger
	webhooks   *Webhooks

	inflight sync.WaitGroup
}

// NewAPIHandlers builds the handlers. Asynchronous runs are bound to ctx, so cancelling
// it cancels them.
func NewAPIHandlers(
	ctx context.Context,
	registry *registry.Registry,
	runner *workflow.Runner,
	repository persistence.RunRepository,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		ctx:        ctx,
		registry:   registry,
		runner:     runner,
		repository: repository,
		validator:  validator,
		logger:     logger.With("module", "api"),
		webhooks:   NewWebhooks(),
	}
}

// Webhooks returns the webhook routes served under /webhooks.
func (h *APIHandlers) Webhooks() *Webhooks {
	return h.webhooks
}

// Wait blocks until every asynchronous run has returned.
func (h *APIHandlers) Wait() {
	h.inflight.Wait()
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	factories := h.registry.GetAvailableNodes()

	nodeTypes := make([]NodeTypeResponse, 0, len(factories))
	for _, factory := range factories {
		nodeTypes = append(nodeTypes, TransformNodeType(factory))
	}

	return c.JSON(nodeTypes)
}

func (h *APIHandlers) GetNodeType(c fiber.Ctx) error {
	factory, ok := h.registry.Factory(c.Params("type"))
	if !ok {
		return notFound(c, "node type not found")
	}

	return c.JSON(TransformNodeType(factory))
}

func (h *APIHandlers) CreatePlan(c fiber.Ctx) error {
	var req PlanRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	plan, err := workflow.BuildExecutionPlan(req.Nodes, req.Connections)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(PlanResponse{Stages: plan.Stages})
}

func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	var wf models.Workflow
	if err := c.Bind().JSON(&wf); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := workflow.Validate(c.Context(), &wf, h.registry)
	if err == nil {
		return c.JSON(ValidationResponse{Valid: true})
	}

	return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationResponse{
		Valid:    false,
		Problems: flatten(err),
	})
}

func (h *APIHandlers) CreateExecution(c fiber.Ctx) error {
	var req ExecutionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := workflow.ValidateStructure(req.Workflow); err != nil {
		return handleEngineError(c, err)
	}

	if _, err := workflow.BuildExecutionPlan(req.Workflow.Nodes, req.Workflow.Connections); err != nil {
		return handleEngineError(c, err)
	}

	if req.Async {
		if h.repository == nil {
			return serviceUnavailable(c, "asynchronous executions need run persistence")
		}

		executionID := uuid.NewString()

		h.inflight.Add(1)

		go func() {
			defer h.inflight.Done()

			if _, err := h.runner.RunWithID(h.ctx, executionID, req.Workflow, req.Trigger); err != nil {
				h.logger.Warn("Asynchronous run ended with error", "execution_id", executionID, "error", err)
			}
		}()

		return c.Status(fiber.StatusAccepted).JSON(ExecutionAccepted{
			ExecutionID: executionID,
			Status:      models.RunStatusRunning,
		})
	}

	result, err := h.runner.Run(c.Context(), req.Workflow, req.Trigger)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	if h.repository == nil {
		return serviceUnavailable(c, "run persistence is not configured")
	}

	run, err := h.repository.RunByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(run)
}

func (h *APIHandlers) GetExecutions(c fiber.Ctx) error {
	if h.repository == nil {
		return serviceUnavailable(c, "run persistence is not configured")
	}

	runs, err := h.repository.Runs(c.Context(), c.Query("workflow_id"))
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(fiber.Map{
		"executions":  runs,
		"total_count": len(runs),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck := "run persistence not configured"
	healthy := true

	if h.repository != nil {
		repositoryCheck = "ok"

		if err := h.repository.HealthCheck(c.Context()); err != nil {
			repositoryCheck = "Persistence layer is unhealthy: " + err.Error()
			healthy = false
		}
	}

	status := "unhealthy"
	message := "flowgraph API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if healthy {
		status = "healthy"
		message = "flowgraph API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   len(h.registry.GetAvailableNodes()),
			"repository": repositoryCheck,
			"webhooks":   h.webhooks.Len(),
		},
		"timestamp": time.Now().UTC(),
	})
}

func flatten(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		problems := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			problems = append(problems, e.Error())
		}

		return problems
	}

	return []string{err.Error()}
}
