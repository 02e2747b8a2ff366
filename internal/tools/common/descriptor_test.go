package common

import (
	"context"
	"testing"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
)

type sampleArgs struct {
	ProjectID string `json:"projectId"`
	Top       *int   `json:"top"`
}

func TestHandle_DecodesArguments(t *testing.T) {
	var got sampleArgs
	h := Handle(func(_ context.Context, _ Connection, args sampleArgs) (any, error) {
		got = args
		return "ok", nil
	})

	out, err := h(context.Background(), nil, map[string]any{"projectId": "Fabrikam", "top": float64(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Errorf("result = %v, want ok", out)
	}
	if got.ProjectID != "Fabrikam" {
		t.Errorf("ProjectID = %q, want Fabrikam", got.ProjectID)
	}
	if got.Top == nil || *got.Top != 5 {
		t.Errorf("Top = %v, want 5", got.Top)
	}
}

func TestHandle_OptionalArgumentsStayNil(t *testing.T) {
	var got sampleArgs
	h := Handle(func(_ context.Context, _ Connection, args sampleArgs) (any, error) {
		got = args
		return nil, nil
	})

	if _, err := h(context.Background(), nil, map[string]any{"projectId": "Fabrikam"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Top != nil {
		t.Errorf("Top = %v, want nil", *got.Top)
	}
}

func TestHandle_DecodeFailureIsValidation(t *testing.T) {
	h := Handle(func(_ context.Context, _ Connection, _ sampleArgs) (any, error) {
		t.Error("handler must not run")
		return nil, nil
	})

	_, err := h(context.Background(), nil, map[string]any{"top": "five"})
	if !azuredevops.IsKind(err, azuredevops.KindValidation) {
		t.Errorf("expected a validation error, got %v", err)
	}
}
