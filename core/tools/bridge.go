// Package tools bridges model-issued function calls to the task/contact data
// store. Dispatch is by name against a fixed operation set; every path,
// including validation and backend failures, returns a human-readable string
// for the model to speak. Nothing escapes Execute as an error or panic, the
// caller is the receive loop that owns the whole session.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voxtask/voice-core/core/auth"
	"github.com/voxtask/voice-core/core/events"
	"github.com/voxtask/voice-core/core/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Bridge executes tool calls against the data store collaborators.
type Bridge struct {
	tasks    store.TaskStore
	contacts store.ContactStore
	cache    *store.Cache
	tokens   auth.TokenSource

	emit func(events.Event)
}

type Option func(*Bridge)

// WithEventEmitter wires tool execution lifecycle events to an observer.
func WithEventEmitter(emit func(events.Event)) Option {
	return func(b *Bridge) { b.emit = emit }
}

func NewBridge(tasks store.TaskStore, contacts store.ContactStore, cache *store.Cache, tokens auth.TokenSource, opts ...Option) *Bridge {
	bridge := &Bridge{
		tasks:    tasks,
		contacts: contacts,
		cache:    cache,
		tokens:   tokens,
		emit:     func(events.Event) {},
	}
	for _, opt := range opts {
		opt(bridge)
	}
	return bridge
}

// Execute runs one tool call and returns the textual result to relay back
// into the conversation. callID is only used for observer events.
func (b *Bridge) Execute(ctx context.Context, callID, name, arguments string) (output string) {
	ctx, span := tracer.Start(ctx, "execute tool call",
		trace.WithAttributes(attribute.String("tool.name", name)),
	)
	defer span.End()

	b.emit(events.NewToolCallStarted(callID, name))
	defer func() {
		if r := recover(); r != nil {
			output = fmt.Sprintf("The %s function failed unexpectedly.", name)
			span.SetStatus(codes.Error, fmt.Sprintf("tool call panicked: %v", r))
			logger.Error("tool call panicked", "name", name, "panic", r)
			b.emit(events.NewToolCallFailed(callID, name, fmt.Sprint(r)))
			return
		}
		b.emit(events.NewToolCallCompleted(callID, name, output))
	}()

	switch name {
	case "get_tasks":
		return b.getTasks(ctx, arguments)
	case "create_task":
		return b.createTask(ctx, arguments)
	case "update_task":
		return b.updateTask(ctx, arguments)
	case "delete_task":
		return b.deleteTask(ctx, arguments)
	case "get_contacts":
		return b.getContacts(ctx, arguments)
	case "create_contact":
		return b.createContact(ctx, arguments)
	}

	logger.Warn("unknown tool call", "name", name)
	return fmt.Sprintf("Unknown function %q. Available functions: get_tasks, create_task, update_task, delete_task, get_contacts, create_contact.", name)
}

// decodeArgs parses the raw JSON argument object. A decode failure covers
// both malformed JSON and wrongly typed primitives.
func decodeArgs(arguments string, into any) error {
	if arguments == "" {
		arguments = "{}"
	}
	if err := json.Unmarshal([]byte(arguments), into); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// requireUser gates mutating operations on a signed-in user.
func (b *Bridge) requireUser() (auth.Identity, string) {
	identity := b.tokens.Identity()
	if identity.IsZero() {
		return identity, "You are not signed in, so I can't change your data. Please sign in first."
	}
	return identity, ""
}
