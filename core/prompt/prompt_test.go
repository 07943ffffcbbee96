package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/voxtask/voice-core/core/store"
)

func fixedBuilder() *Builder {
	b := NewBuilder()
	b.now = func() time.Time {
		return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	}
	return b
}

func TestBuildIncludesDateAndPersona(t *testing.T) {
	instructions := fixedBuilder().Build(nil, nil)

	if !strings.Contains(instructions, "voice assistant") {
		t.Fatalf("expected persona text in instructions")
	}
	if !strings.Contains(instructions, "Sunday, 2025-06-01") {
		t.Fatalf("expected today's date in instructions, got:\n%s", instructions)
	}
	if !strings.Contains(instructions, "no tasks") {
		t.Fatalf("expected empty-task note in instructions")
	}
}

func TestBuildInlinesTasksAndContacts(t *testing.T) {
	tasks := []store.Task{
		{Title: "Gym", Date: "2025-06-01", StartTime: "18:00", Status: store.StatusTodo},
		{Title: "Dentist", Date: "2025-06-03"},
	}
	contacts := []store.Contact{
		{FirstName: "Ana", LastName: "Kovac", RelationshipType: store.RelationshipFamily},
	}

	instructions := fixedBuilder().Build(tasks, contacts)

	if !strings.Contains(instructions, `"Gym" on 2025-06-01 at 18:00 (todo)`) {
		t.Fatalf("expected gym task line, got:\n%s", instructions)
	}
	if !strings.Contains(instructions, `"Dentist" on 2025-06-03`) {
		t.Fatalf("expected dentist task line, got:\n%s", instructions)
	}
	if !strings.Contains(instructions, "Ana Kovac (family)") {
		t.Fatalf("expected contact line, got:\n%s", instructions)
	}
}

func TestBuildCapsContextItems(t *testing.T) {
	tasks := make([]store.Task, 40)
	for i := range tasks {
		tasks[i] = store.Task{Title: fmt.Sprintf("Task %d", i), Date: "2025-06-01"}
	}

	instructions := fixedBuilder().Build(tasks, nil)

	if !strings.Contains(instructions, "and 15 more") {
		t.Fatalf("expected overflow marker, got:\n%s", instructions)
	}
	if strings.Contains(instructions, "Task 30") {
		t.Fatalf("expected tasks past the cap to be omitted")
	}
}
