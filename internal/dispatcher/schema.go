package dispatcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

// Violation is one field-level schema failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func compileSchema(tool string, s common.Schema) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(s.JSON()))
	if err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	loc := tool + ".json"
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile(loc)
}

// validateArgs checks args against the compiled schema. Arguments are
// re-decoded from their JSON form so numbers reach the validator as
// json.Number regardless of how the caller built the map.
func validateArgs(tool string, schema *jsonschema.Schema, args map[string]any) error {
	payload, err := json.Marshal(args)
	if err != nil {
		return azuredevops.NewValidationError(
			fmt.Sprintf("Invalid arguments for %s: %v", tool, err), nil)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return azuredevops.NewValidationError(
			fmt.Sprintf("Invalid arguments for %s: %v", tool, err), nil)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return azuredevops.NewValidationError(
			fmt.Sprintf("Invalid arguments for %s: %v", tool, err), nil)
	}

	violations := violationsOf(verr)
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return azuredevops.NewValidationError(
		fmt.Sprintf("Invalid arguments for %s: %s", tool, strings.Join(parts, "; ")),
		violations)
}

// violationsOf flattens the basic output into one entry per failing field.
func violationsOf(verr *jsonschema.ValidationError) []Violation {
	var out []Violation
	for _, unit := range verr.BasicOutput().Errors {
		if unit.Error == nil {
			continue
		}
		if req, ok := unit.Error.Kind.(*kind.Required); ok {
			for _, name := range req.Missing {
				out = append(out, Violation{Field: fieldName(unit.InstanceLocation, name), Message: "Required"})
			}
			continue
		}
		out = append(out, Violation{Field: fieldName(unit.InstanceLocation, ""), Message: unit.Error.String()})
	}
	if len(out) == 0 {
		out = append(out, Violation{Field: "(root)", Message: verr.Error()})
	}
	return out
}

// fieldName turns a JSON pointer into a dotted path.
func fieldName(pointer, child string) string {
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	if parts[0] == "" {
		parts = parts[:0]
	}
	if child != "" {
		parts = append(parts, child)
	}
	if len(parts) == 0 {
		return "(root)"
	}
	return strings.Join(parts, ".")
}
