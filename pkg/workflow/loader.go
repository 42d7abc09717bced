package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukex/flowgraph/pkg/models"
	"github.com/dukex/flowgraph/pkg/registry"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Definition formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported workflow format")
	ErrInvalidWorkflow   = errors.New("invalid workflow")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads a workflow definition from a .json, .yaml or .yml file.
func LoadFile(path string) (*models.Workflow, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open workflow file: %w", err)
	}

	defer func() { _ = file.Close() }()

	wf, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if wf.ID == "" {
		wf.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return wf, nil
}

// FormatFromPath picks the definition format from the file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode parses a workflow definition and checks its structure.
func Decode(r io.Reader, format string) (*models.Workflow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}

	var wf models.Workflow

	switch format {
	case FormatJSON:
		err = json.NewDecoder(bytes.NewReader(raw)).Decode(&wf)
	case FormatYAML:
		err = yaml.Unmarshal(raw, &wf)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode workflow: %w", err)
	}

	if err := ValidateStructure(&wf); err != nil {
		return nil, err
	}

	return &wf, nil
}

// ValidateStructure checks required fields on the workflow, its nodes and connections.
func ValidateStructure(wf *models.Workflow) error {
	err := validate.Struct(wf)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		problems := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			problems = append(problems, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
		}

		return fmt.Errorf("%w: %s", ErrInvalidWorkflow, strings.Join(problems, "; "))
	}

	return fmt.Errorf("%w: %w", ErrInvalidWorkflow, err)
}

// Validate checks the structure, the graph and every node configuration of wf.
// All problems found are joined into the returned error.
func Validate(ctx context.Context, wf *models.Workflow, reg *registry.Registry) error {
	if err := ValidateStructure(wf); err != nil {
		return err
	}

	var errs []error

	if _, err := BuildExecutionPlan(wf.Nodes, wf.Connections); err != nil {
		errs = append(errs, err)
	}

	for _, node := range wf.Nodes {
		if err := reg.ValidateConfig(ctx, node.Type, node.Data); err != nil {
			errs = append(errs, fmt.Errorf("node %s: %w", node.ID, err))
		}
	}

	return errors.Join(errs...)
}
