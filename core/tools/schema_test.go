package tools

import (
	"slices"
	"testing"
)

func TestDefinitionsCoverDispatchSet(t *testing.T) {
	want := []string{"get_tasks", "create_task", "update_task", "delete_task", "get_contacts", "create_contact"}

	defs := Definitions()
	if len(defs) != len(want) {
		t.Fatalf("expected %d definitions, got %d", len(want), len(defs))
	}
	for i, def := range defs {
		if def.Name != want[i] {
			t.Fatalf("expected definition %d to be %q, got %q", i, want[i], def.Name)
		}
		if def.Type != "function" {
			t.Fatalf("expected function type, got %q", def.Type)
		}
		if def.Description == "" || def.Parameters == nil {
			t.Fatalf("expected %q to carry description and parameters", def.Name)
		}
	}
}

func TestCreateTaskSchemaMarksRequiredFields(t *testing.T) {
	for _, def := range Definitions() {
		if def.Name != "create_task" {
			continue
		}

		if !slices.Contains(def.Parameters.Required, "title") {
			t.Fatalf("expected title to be required, got %v", def.Parameters.Required)
		}
		if !slices.Contains(def.Parameters.Required, "date") {
			t.Fatalf("expected date to be required, got %v", def.Parameters.Required)
		}
		if slices.Contains(def.Parameters.Required, "priority") {
			t.Fatalf("expected priority to be optional, got %v", def.Parameters.Required)
		}
		if _, ok := def.Parameters.Properties.Get("start_time"); !ok {
			t.Fatalf("expected start_time property to be declared")
		}
		return
	}
	t.Fatalf("create_task definition missing")
}
