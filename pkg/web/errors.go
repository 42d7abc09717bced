package web

import (
	"errors"

	"github.com/dukex/flowgraph/pkg/persistence"
	"github.com/dukex/flowgraph/pkg/registry"
	"github.com/dukex/flowgraph/pkg/workflow"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func unprocessable(c fiber.Ctx, problemType string, detail string) error {
	problem := problems.NewStatusProblem(422).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)
}

func serviceUnavailable(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(503).
		WithInstance(c.Path()).
		WithType("unavailable").
		WithDetail(detail)

	return c.Status(fiber.StatusServiceUnavailable).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleEngineError maps planning, validation and storage errors onto problems.
func handleEngineError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, workflow.ErrCyclicGraph):
		return unprocessable(c, "cyclic_graph", err.Error())

	case errors.Is(err, workflow.ErrUnknownNode), errors.Is(err, workflow.ErrDuplicateNode):
		return unprocessable(c, "invalid_graph", err.Error())

	case errors.Is(err, workflow.ErrInvalidWorkflow):
		return badRequest(c, err.Error())

	case errors.Is(err, registry.ErrNodeNotRegistered), errors.Is(err, registry.ErrInvalidConfig):
		return unprocessable(c, "invalid_node", err.Error())

	case persistence.IsRunNotFound(err):
		return notFound(c, "execution not found")

	case errors.Is(err, persistence.ErrInvalidRunID):
		return badRequest(c, "invalid execution id")

	default:
		return internalError(c, err)
	}
}
