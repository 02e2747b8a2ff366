package common

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSchema_Object(t *testing.T) {
	s := Schema{Fields: []Field{
		ProjectIDField(),
		{Name: "top", Type: TypeInteger, Description: "Maximum number of items", Minimum: Min(0)},
		{Name: "status", Type: TypeString, Enum: []string{"active", "closed"}},
	}}

	obj := s.Object()

	if obj["type"] != "object" {
		t.Errorf("type = %v, want object", obj["type"])
	}
	if got := obj["required"]; !reflect.DeepEqual(got, []string{"projectId"}) {
		t.Errorf("required = %v, want [projectId]", got)
	}

	props := obj["properties"].(map[string]any)
	if len(props) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(props))
	}
	top := props["top"].(map[string]any)
	if top["type"] != "integer" || top["minimum"] != 0 {
		t.Errorf("unexpected top property: %v", top)
	}
	status := props["status"].(map[string]any)
	if !reflect.DeepEqual(status["enum"], []string{"active", "closed"}) {
		t.Errorf("unexpected status enum: %v", status["enum"])
	}
	if _, ok := status["description"]; ok {
		t.Error("empty description should be omitted")
	}
}

func TestSchema_NoRequiredFields(t *testing.T) {
	obj := Schema{}.Object()

	if _, ok := obj["required"]; ok {
		t.Error("required should be omitted when no field is required")
	}
	if props := obj["properties"].(map[string]any); len(props) != 0 {
		t.Errorf("expected no properties, got %v", props)
	}
}

func TestSchema_JSONIsStable(t *testing.T) {
	s := Schema{Fields: []Field{
		{Name: "b", Type: TypeBoolean},
		{Name: "a", Type: TypeString, Required: true},
	}}

	first := string(s.JSON())
	for i := 0; i < 10; i++ {
		if got := string(s.JSON()); got != first {
			t.Fatalf("schema JSON changed between renders:\n%s\n%s", first, got)
		}
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(first), &decoded); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
}

func TestSchema_Field(t *testing.T) {
	s := Schema{Fields: []Field{ProjectIDField()}}

	if _, ok := s.Field("projectId"); !ok {
		t.Error("expected projectId field")
	}
	if _, ok := s.Field("missing"); ok {
		t.Error("unexpected field")
	}
}
