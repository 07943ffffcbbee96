package store

import (
	"context"
	"sync"

	"github.com/jinzhu/copier"
)

// Cache keeps the last fetched task and contact lists in memory so title
// lookups and prompt context do not round-trip to the backend on every tool
// call. Refreshes are best-effort: a tool call issued immediately after a
// creation may still observe the previous snapshot.
type Cache struct {
	tasks    TaskStore
	contacts ContactStore

	mu          sync.RWMutex
	taskList    []Task
	contactList []Contact
}

func NewCache(tasks TaskStore, contacts ContactStore) *Cache {
	return &Cache{tasks: tasks, contacts: contacts}
}

// Refresh refetches both lists. Either list failing leaves its previous
// snapshot in place.
func (c *Cache) Refresh(ctx context.Context) error {
	var firstErr error

	if c.tasks != nil {
		if taskList, err := c.tasks.ListTasks(ctx, TaskQuery{}); err == nil {
			c.mu.Lock()
			c.taskList = taskList
			c.mu.Unlock()
		} else {
			firstErr = err
		}
	}

	if c.contacts != nil {
		if contactList, err := c.contacts.ListContacts(ctx, ContactQuery{}); err == nil {
			c.mu.Lock()
			c.contactList = contactList
			c.mu.Unlock()
		} else if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// RefreshAsync runs Refresh on its own goroutine and drops the error. Used
// after mutations where freshness is desirable but not required.
func (c *Cache) RefreshAsync(ctx context.Context) {
	go func() {
		if err := c.Refresh(ctx); err != nil {
			logger.Warn("background cache refresh failed", "error", err)
		}
	}()
}

// Tasks returns a deep copy of the cached task list so callers can hold it
// across a refresh.
func (c *Cache) Tasks() []Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var taskList []Task
	_ = copier.Copy(&taskList, c.taskList)
	return taskList
}

// Contacts returns a deep copy of the cached contact list.
func (c *Cache) Contacts() []Contact {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var contactList []Contact
	_ = copier.Copy(&contactList, c.contactList)
	return contactList
}
