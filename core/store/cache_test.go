package store

import (
	"context"
	"errors"
	"testing"
)

type taskStoreStub struct {
	TaskStore
	tasks   []Task
	listErr error
	calls   int
}

func (s *taskStoreStub) ListTasks(context.Context, TaskQuery) ([]Task, error) {
	s.calls++
	return s.tasks, s.listErr
}

type contactStoreStub struct {
	ContactStore
	contacts []Contact
}

func (s *contactStoreStub) ListContacts(context.Context, ContactQuery) ([]Contact, error) {
	return s.contacts, nil
}

func TestCacheRefreshReplacesSnapshots(t *testing.T) {
	tasks := &taskStoreStub{tasks: []Task{{ID: "t1", Title: "Gym"}}}
	contacts := &contactStoreStub{contacts: []Contact{{ID: "c1", FirstName: "Ana"}}}
	cache := NewCache(tasks, contacts)

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("expected refresh to succeed, got %v", err)
	}

	if got := cache.Tasks(); len(got) != 1 || got[0].Title != "Gym" {
		t.Fatalf("expected cached Gym task, got %v", got)
	}
	if got := cache.Contacts(); len(got) != 1 || got[0].FirstName != "Ana" {
		t.Fatalf("expected cached Ana contact, got %v", got)
	}
}

func TestCacheFailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	tasks := &taskStoreStub{tasks: []Task{{ID: "t1", Title: "Gym"}}}
	cache := NewCache(tasks, nil)

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("expected first refresh to succeed, got %v", err)
	}

	tasks.listErr = errors.New("backend down")
	if err := cache.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error to surface")
	}

	if got := cache.Tasks(); len(got) != 1 || got[0].Title != "Gym" {
		t.Fatalf("expected previous snapshot to survive, got %v", got)
	}
}

func TestCacheSnapshotsAreIsolated(t *testing.T) {
	tasks := &taskStoreStub{tasks: []Task{{ID: "t1", Title: "Gym"}}}
	cache := NewCache(tasks, nil)
	_ = cache.Refresh(context.Background())

	snapshot := cache.Tasks()
	snapshot[0].Title = "mutated"

	if got := cache.Tasks(); got[0].Title != "Gym" {
		t.Fatalf("expected cache to be unaffected by snapshot mutation, got %q", got[0].Title)
	}
}
