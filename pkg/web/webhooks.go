package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

var ErrNoWebhookTrigger = errors.New("workflow has no webhook trigger")

type webhookRoute struct {
	workflow *models.Workflow
	nodeID   string
	schema   map[string]any
}

// Webhooks maps webhook trigger paths onto the workflows that own them.
type Webhooks struct {
	mu     sync.RWMutex
	routes map[string]*webhookRoute
}

func NewWebhooks() *Webhooks {
	return &Webhooks{routes: make(map[string]*webhookRoute)}
}

func webhookKey(method, path string) string {
	return strings.ToUpper(method) + " /" + strings.Trim(path, "/")
}

// Register exposes every webhook_trigger node of wf. A path already registered by another
// workflow is an error and leaves the registered routes unchanged.
func (w *Webhooks) Register(wf *models.Workflow) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var keys []string

	pending := make(map[string]*webhookRoute)

	for _, node := range wf.Nodes {
		if node == nil || node.Type != models.NodeTypeWebhookTrigger {
			continue
		}

		path, _ := node.Data["path"].(string)
		if strings.Trim(path, "/") == "" {
			path = wf.ID
		}

		method, _ := node.Data["method"].(string)
		if method == "" {
			method = http.MethodPost
		}

		key := webhookKey(method, path)
		if existing, ok := w.routes[key]; ok && existing.workflow.ID != wf.ID {
			return nil, fmt.Errorf("webhook %s is already used by workflow %s", key, existing.workflow.ID)
		}

		schema, _ := node.Data["schema"].(map[string]any)

		if _, ok := pending[key]; !ok {
			keys = append(keys, key)
		}

		pending[key] = &webhookRoute{workflow: wf, nodeID: node.ID, schema: schema}
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoWebhookTrigger, wf.ID)
	}

	maps.Copy(w.routes, pending)

	return keys, nil
}

func (w *Webhooks) lookup(method, path string) (*webhookRoute, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	route, ok := w.routes[webhookKey(method, path)]

	return route, ok
}

// Len returns the number of exposed webhooks.
func (w *Webhooks) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.routes)
}

// HandleWebhook starts the workflow registered for the request path in the background.
// The trigger payload carries the decoded body and the request metadata.
func (h *APIHandlers) HandleWebhook(c fiber.Ctx) error {
	route, ok := h.webhooks.lookup(c.Method(), c.Params("*"))
	if !ok {
		return notFound(c, "webhook not found")
	}

	body := map[string]any{}
	if raw := c.Body(); len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			return badRequest(c, "Invalid JSON in request body")
		}
	}

	if route.schema != nil {
		if err := validateBody(route.schema, body); err != nil {
			return badRequest(c, err.Error())
		}
	}

	trigger := map[string]any{
		"webhook": map[string]any{
			"method":       strings.Clone(c.Method()),
			"path":         strings.Clone(c.Path()),
			"headers":      requestHeaders(c),
			"query_params": queryParams(c),
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		},
		"body": body,
	}

	executionID := uuid.NewString()

	h.logger.Info("Webhook received",
		"workflow_id", route.workflow.ID,
		"node_id", route.nodeID,
		"execution_id", executionID)

	h.inflight.Add(1)

	go func() {
		defer h.inflight.Done()

		if _, err := h.runner.RunWithID(h.ctx, executionID, route.workflow, trigger); err != nil {
			h.logger.Warn("Webhook run ended with error", "execution_id", executionID, "error", err)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(ExecutionAccepted{
		ExecutionID: executionID,
		Status:      models.RunStatusRunning,
	})
}

func validateBody(schema map[string]any, body map[string]any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(body))
	if err != nil {
		return fmt.Errorf("webhook schema could not be evaluated: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return fmt.Errorf("schema validation failed: %s", strings.Join(problems, "; "))
	}

	return nil
}

// Values handed to the background run must not alias fiber's request buffers.
func requestHeaders(c fiber.Ctx) map[string]string {
	headers := make(map[string]string)

	for name, values := range c.GetReqHeaders() {
		if len(values) > 0 {
			headers[strings.Clone(name)] = strings.Clone(strings.Join(values, ", "))
		}
	}

	return headers
}

func queryParams(c fiber.Ctx) map[string]string {
	params := make(map[string]string)

	for name, value := range c.Queries() {
		params[strings.Clone(name)] = strings.Clone(value)
	}

	return params
}
