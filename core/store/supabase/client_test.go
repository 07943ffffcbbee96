package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voxtask/voice-core/core/auth"
	"github.com/voxtask/voice-core/core/store"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := auth.Static{AccessToken: "jwt-token", User: auth.Identity{UserID: "user-1"}}
	return NewClient(server.URL, "anon-key", tokens, WithHTTPClient(server.Client()))
}

func TestListTasksByDate(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotAPIKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("date")
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		_ = json.NewEncoder(w).Encode([]store.Task{{ID: "t1", Title: "Gym", Date: "2025-06-01"}})
	})

	tasks, err := client.ListTasks(context.Background(), store.TaskQuery{Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}

	if gotPath != "/rest/v1/tasks" {
		t.Fatalf("expected tasks path, got %q", gotPath)
	}
	if gotQuery != "eq.2025-06-01" {
		t.Fatalf("expected date filter eq.2025-06-01, got %q", gotQuery)
	}
	if gotAuth != "Bearer jwt-token" {
		t.Fatalf("expected bearer credential, got %q", gotAuth)
	}
	if gotAPIKey != "anon-key" {
		t.Fatalf("expected apikey header, got %q", gotAPIKey)
	}
	if len(tasks) != 1 || tasks[0].Title != "Gym" {
		t.Fatalf("expected one Gym task, got %v", tasks)
	}
}

func TestListTasksByRange(t *testing.T) {
	var gotDates []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotDates = r.URL.Query()["date"]
		_ = json.NewEncoder(w).Encode([]store.Task{})
	})

	_, err := client.ListTasks(context.Background(), store.TaskQuery{StartDate: "2025-06-01", EndDate: "2025-06-07"})
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}

	if len(gotDates) != 2 || gotDates[0] != "gte.2025-06-01" || gotDates[1] != "lte.2025-06-07" {
		t.Fatalf("expected range filters, got %v", gotDates)
	}
}

func TestCreateTaskReturnsRepresentation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if prefer := r.Header.Get("Prefer"); prefer != "return=representation" {
			t.Fatalf("expected representation preference, got %q", prefer)
		}

		var task store.Task
		if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if task.Status != store.StatusTodo || task.Priority != store.PriorityMedium {
			t.Fatalf("expected defaulted status/priority, got %q/%q", task.Status, task.Priority)
		}

		task.ID = "t9"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]store.Task{task})
	})

	created, err := client.CreateTask(context.Background(), store.Task{Title: "Gym", Date: "2025-06-01"})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if created.ID != "t9" || created.Title != "Gym" {
		t.Fatalf("expected created task back, got %+v", created)
	}
}

func TestUpdateTaskTargetsRow(t *testing.T) {
	var gotID, gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("id")
		gotMethod = r.Method
		_ = json.NewEncoder(w).Encode([]store.Task{{ID: "t1", Title: "Gym", Status: store.StatusDone}})
	})

	status := store.StatusDone
	updated, err := client.UpdateTask(context.Background(), "t1", store.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}

	if gotMethod != http.MethodPatch || gotID != "eq.t1" {
		t.Fatalf("expected PATCH on eq.t1, got %s %q", gotMethod, gotID)
	}
	if updated.Status != store.StatusDone {
		t.Fatalf("expected done status back, got %q", updated.Status)
	}
}

func TestDeleteTask(t *testing.T) {
	var gotID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("id")
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteTask(context.Background(), "t3"); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if gotID != "eq.t3" {
		t.Fatalf("expected delete of eq.t3, got %q", gotID)
	}
}

func TestBackendErrorIsWrapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"row level security"}`, http.StatusForbidden)
	})

	_, err := client.ListTasks(context.Background(), store.TaskQuery{})
	if err == nil {
		t.Fatalf("expected error from forbidden response")
	}
}

func TestMissingCredentialFailsBeforeRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key", auth.Static{}, WithHTTPClient(server.Client()))
	if _, err := client.ListTasks(context.Background(), store.TaskQuery{}); err == nil {
		t.Fatalf("expected error without credential")
	}
	if called {
		t.Fatalf("expected no request without credential")
	}
}

func TestListContactsByRelationship(t *testing.T) {
	var gotFilter string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("relationship_type")
		_ = json.NewEncoder(w).Encode([]store.Contact{{ID: "c1", FirstName: "Ana", RelationshipType: store.RelationshipFamily}})
	})

	contacts, err := client.ListContacts(context.Background(), store.ContactQuery{RelationshipType: store.RelationshipFamily})
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}
	if gotFilter != "eq.family" {
		t.Fatalf("expected relationship filter eq.family, got %q", gotFilter)
	}
	if len(contacts) != 1 || contacts[0].FirstName != "Ana" {
		t.Fatalf("expected Ana back, got %v", contacts)
	}
}
