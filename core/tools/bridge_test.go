package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/voxtask/voice-core/core/auth"
	"github.com/voxtask/voice-core/core/events"
	"github.com/voxtask/voice-core/core/store"
)

type taskStoreStub struct {
	listTasks []store.Task
	listErr   error

	created   []store.Task
	createErr error

	updatedID    string
	updatedPatch store.TaskPatch
	updateCalls  int

	deletedID   string
	deleteCalls int
	deleteErr   error
}

func (s *taskStoreStub) ListTasks(context.Context, store.TaskQuery) ([]store.Task, error) {
	return s.listTasks, s.listErr
}

func (s *taskStoreStub) CreateTask(_ context.Context, task store.Task) (*store.Task, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, task)
	task.ID = "created-id"
	return &task, nil
}

func (s *taskStoreStub) UpdateTask(_ context.Context, id string, patch store.TaskPatch) (*store.Task, error) {
	s.updateCalls++
	s.updatedID = id
	s.updatedPatch = patch
	title := "updated"
	if patch.Title != nil {
		title = *patch.Title
	}
	return &store.Task{ID: id, Title: title, Date: "2025-06-01"}, nil
}

func (s *taskStoreStub) DeleteTask(_ context.Context, id string) error {
	s.deleteCalls++
	s.deletedID = id
	return s.deleteErr
}

type contactStoreStub struct {
	contacts  []store.Contact
	created   []store.Contact
	createErr error
}

func (s *contactStoreStub) ListContacts(context.Context, store.ContactQuery) ([]store.Contact, error) {
	return s.contacts, nil
}

func (s *contactStoreStub) CreateContact(_ context.Context, contact store.Contact) (*store.Contact, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, contact)
	contact.ID = "created-id"
	return &contact, nil
}

var signedIn = auth.Static{AccessToken: "token", User: auth.Identity{UserID: "user-1"}}

func newTestBridge(tasks *taskStoreStub, contacts *contactStoreStub, tokens auth.TokenSource) *Bridge {
	if tasks == nil {
		tasks = &taskStoreStub{}
	}
	if contacts == nil {
		contacts = &contactStoreStub{}
	}
	cache := store.NewCache(tasks, contacts)
	_ = cache.Refresh(context.Background())
	return NewBridge(tasks, contacts, cache, tokens)
}

func TestExecuteUnknownFunction(t *testing.T) {
	bridge := newTestBridge(nil, nil, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "reboot_spaceship", "{}")
	if !strings.Contains(result, "Unknown function") {
		t.Fatalf("expected unknown-function message, got %q", result)
	}
}

func TestCreateTaskAuthenticated(t *testing.T) {
	tasks := &taskStoreStub{}
	bridge := newTestBridge(tasks, nil, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "create_task",
		`{"title":"Gym","date":"2025-06-01"}`)

	if len(tasks.created) != 1 {
		t.Fatalf("expected exactly one create call, got %d", len(tasks.created))
	}
	if tasks.created[0].Title != "Gym" || tasks.created[0].Date != "2025-06-01" {
		t.Fatalf("expected Gym on 2025-06-01, got %+v", tasks.created[0])
	}
	if !strings.Contains(result, "Gym") || !strings.Contains(result, "2025-06-01") {
		t.Fatalf("expected confirmation with title and date, got %q", result)
	}
}

func TestCreateTaskUnauthenticated(t *testing.T) {
	tasks := &taskStoreStub{}
	bridge := newTestBridge(tasks, nil, auth.Static{})

	result := bridge.Execute(context.Background(), "call-1", "create_task",
		`{"title":"Gym","date":"2025-06-01"}`)

	if len(tasks.created) != 0 {
		t.Fatalf("expected zero create calls, got %d", len(tasks.created))
	}
	if !strings.Contains(result, "not signed in") {
		t.Fatalf("expected non-authentication message, got %q", result)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	tasks := &taskStoreStub{}
	bridge := newTestBridge(tasks, nil, signedIn)

	for name, arguments := range map[string]string{
		"missing title": `{"date":"2025-06-01"}`,
		"missing date":  `{"title":"Gym"}`,
		"bad date":      `{"title":"Gym","date":"June first"}`,
		"bad priority":  `{"title":"Gym","date":"2025-06-01","priority":"urgent"}`,
		"wrong type":    `{"title":42,"date":"2025-06-01"}`,
		"broken json":   `{"title":`,
	} {
		result := bridge.Execute(context.Background(), "call-1", "create_task", arguments)
		if len(tasks.created) != 0 {
			t.Fatalf("%s: expected no create call", name)
		}
		if result == "" {
			t.Fatalf("%s: expected descriptive failure string", name)
		}
	}
}

func TestCreateTaskStoreFailure(t *testing.T) {
	tasks := &taskStoreStub{createErr: errors.New("row level security violation")}
	bridge := newTestBridge(tasks, nil, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "create_task",
		`{"title":"Gym","date":"2025-06-01"}`)

	if !strings.Contains(result, "row level security violation") {
		t.Fatalf("expected failure string embedding the cause, got %q", result)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	tasks := &taskStoreStub{listTasks: []store.Task{{ID: "t1", Title: "Gym", Date: "2025-06-01"}}}
	bridge := newTestBridge(tasks, nil, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "update_task",
		`{"task_title":"Dentist","new_status":"done"}`)

	if tasks.updateCalls != 0 {
		t.Fatalf("expected no update call, got %d", tasks.updateCalls)
	}
	if !strings.Contains(result, "couldn't find") {
		t.Fatalf("expected not-found message, got %q", result)
	}
}

func TestUpdateTaskPrefersTodayOnAmbiguousTitle(t *testing.T) {
	today := time.Now().Format(store.DateLayout)
	tasks := &taskStoreStub{listTasks: []store.Task{
		{ID: "t1", Title: "Gym", Date: "2025-06-01"},
		{ID: "t2", Title: "Gym", Date: today},
	}}
	bridge := newTestBridge(tasks, nil, signedIn)

	_ = bridge.Execute(context.Background(), "call-1", "update_task",
		`{"task_title":"gym","new_status":"done"}`)

	if tasks.updatedID != "t2" {
		t.Fatalf("expected the task dated today to win, got %q", tasks.updatedID)
	}
}

func TestUpdateTaskFallsBackToFirstMatch(t *testing.T) {
	tasks := &taskStoreStub{listTasks: []store.Task{
		{ID: "t1", Title: "Gym", Date: "2025-06-01"},
		{ID: "t2", Title: "Gym", Date: "2025-06-02"},
	}}
	bridge := newTestBridge(tasks, nil, signedIn)

	_ = bridge.Execute(context.Background(), "call-1", "update_task",
		`{"task_title":"Gym","new_status":"done"}`)

	if tasks.updatedID != "t1" {
		t.Fatalf("expected first match in list order, got %q", tasks.updatedID)
	}
	if tasks.updatedPatch.Status == nil || *tasks.updatedPatch.Status != store.StatusDone {
		t.Fatalf("expected done status in patch, got %+v", tasks.updatedPatch)
	}
}

func TestUpdateTaskWithNothingToChange(t *testing.T) {
	tasks := &taskStoreStub{listTasks: []store.Task{{ID: "t1", Title: "Gym", Date: "2025-06-01"}}}
	bridge := newTestBridge(tasks, nil, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "update_task", `{"task_title":"Gym"}`)

	if tasks.updateCalls != 0 {
		t.Fatalf("expected no update call, got %d", tasks.updateCalls)
	}
	if !strings.Contains(result, "Nothing to change") {
		t.Fatalf("expected nothing-to-change message, got %q", result)
	}
}

func TestDeleteTaskByPartialTitle(t *testing.T) {
	tasks := &taskStoreStub{listTasks: []store.Task{
		{ID: "t1", Title: "Dentist appointment", Date: "2025-06-03"},
	}}
	bridge := newTestBridge(tasks, nil, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "delete_task", `{"task_title":"dentist"}`)

	if tasks.deleteCalls != 1 || tasks.deletedID != "t1" {
		t.Fatalf("expected one delete of t1, got %d of %q", tasks.deleteCalls, tasks.deletedID)
	}
	if !strings.Contains(result, "Dentist appointment") {
		t.Fatalf("expected confirmation naming the task, got %q", result)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	tasks := &taskStoreStub{}
	bridge := newTestBridge(tasks, nil, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "delete_task", `{"task_title":"Gym"}`)

	if tasks.deleteCalls != 0 {
		t.Fatalf("expected no delete call, got %d", tasks.deleteCalls)
	}
	if !strings.Contains(result, "couldn't find") {
		t.Fatalf("expected not-found message, got %q", result)
	}
}

func TestGetTasksFormatsListing(t *testing.T) {
	tasks := &taskStoreStub{listTasks: []store.Task{
		{ID: "t1", Title: "Gym", Date: "2025-06-01", StartTime: "18:00", Status: store.StatusTodo},
	}}
	bridge := newTestBridge(tasks, nil, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "get_tasks", `{"date":"2025-06-01"}`)

	if !strings.Contains(result, "Gym") || !strings.Contains(result, "18:00") {
		t.Fatalf("expected task listing, got %q", result)
	}
}

func TestGetTasksStoreFailure(t *testing.T) {
	tasks := &taskStoreStub{listErr: errors.New("connection refused")}
	bridge := NewBridge(tasks, &contactStoreStub{}, store.NewCache(tasks, nil), signedIn)

	result := bridge.Execute(context.Background(), "call-1", "get_tasks", "{}")
	if !strings.Contains(result, "connection refused") {
		t.Fatalf("expected failure string embedding the cause, got %q", result)
	}
}

type panickingTaskStore struct {
	taskStoreStub
}

func (panickingTaskStore) ListTasks(context.Context, store.TaskQuery) ([]store.Task, error) {
	panic("nil map write")
}

func TestExecutePanicEmitsFailure(t *testing.T) {
	var recorded []events.Event
	tasks := &panickingTaskStore{}
	bridge := NewBridge(tasks, &contactStoreStub{}, store.NewCache(tasks, nil), signedIn,
		WithEventEmitter(func(event events.Event) {
			recorded = append(recorded, event)
		}))

	result := bridge.Execute(context.Background(), "call-1", "get_tasks", "{}")
	if !strings.Contains(result, "failed unexpectedly") {
		t.Fatalf("expected failure string, got %q", result)
	}

	if len(recorded) != 2 {
		t.Fatalf("expected started and failed events, got %d", len(recorded))
	}
	if recorded[0].Kind() != events.KindToolCallStarted {
		t.Errorf("first event was %q", recorded[0].Kind())
	}
	failed, ok := recorded[1].(events.ToolCallFailed)
	if !ok {
		t.Fatalf("second event was %q, want a tool call failure", recorded[1].Kind())
	}
	if failed.Name != "get_tasks" || !strings.Contains(failed.Error, "nil map write") {
		t.Errorf("unexpected failure event %+v", failed)
	}
}

func TestCreateContact(t *testing.T) {
	contacts := &contactStoreStub{}
	bridge := newTestBridge(nil, contacts, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "create_contact",
		`{"first_name":"Ana","relationship_type":"family","relationship_detail":"sister"}`)

	if len(contacts.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(contacts.created))
	}
	if !strings.Contains(result, "Ana") || !strings.Contains(result, "family") {
		t.Fatalf("expected confirmation with name and relationship, got %q", result)
	}
}

func TestCreateContactValidation(t *testing.T) {
	contacts := &contactStoreStub{}
	bridge := newTestBridge(nil, contacts, signedIn)

	for name, arguments := range map[string]string{
		"missing name":         `{"relationship_type":"family"}`,
		"missing relationship": `{"first_name":"Ana"}`,
		"bad relationship":     `{"first_name":"Ana","relationship_type":"enemy"}`,
	} {
		result := bridge.Execute(context.Background(), "call-1", "create_contact", arguments)
		if len(contacts.created) != 0 {
			t.Fatalf("%s: expected no create call", name)
		}
		if result == "" {
			t.Fatalf("%s: expected descriptive failure string", name)
		}
	}
}

func TestGetContactsIncludesBirthdays(t *testing.T) {
	contacts := &contactStoreStub{contacts: []store.Contact{
		{FirstName: "Ana", RelationshipType: store.RelationshipFamily, Birthday: "1990-03-14"},
	}}
	bridge := newTestBridge(nil, contacts, signedIn)

	result := bridge.Execute(context.Background(), "call-1", "get_contacts", `{"include_birthdays":true}`)
	if !strings.Contains(result, "1990-03-14") {
		t.Fatalf("expected birthday in listing, got %q", result)
	}

	result = bridge.Execute(context.Background(), "call-1", "get_contacts", "{}")
	if strings.Contains(result, "1990-03-14") {
		t.Fatalf("expected birthday to be omitted, got %q", result)
	}
}
