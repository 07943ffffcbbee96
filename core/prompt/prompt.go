// Package prompt assembles the system instructions sent with the session
// configuration: a fixed assistant persona plus live task and contact context
// so the model can resolve references like "my dentist appointment" without a
// tool round-trip.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/voxtask/voice-core/core/store"
)

const persona = `You are a friendly, efficient voice assistant for a personal task manager.
Keep spoken replies short and conversational. When the user asks you to create,
change or remove tasks or contacts, use the provided functions instead of
guessing. Confirm what you did in one sentence. If a function reports a
failure, apologize briefly and ask the user to rephrase.`

// maxContextItems caps how many tasks/contacts are inlined so instructions
// stay well under the session message size limits.
const maxContextItems = 25

type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// Build renders the full instruction text for one session.
func (b *Builder) Build(tasks []store.Task, contacts []store.Contact) string {
	var sb strings.Builder
	sb.WriteString(persona)

	today := b.now()
	fmt.Fprintf(&sb, "\n\nToday is %s, %s.\n", today.Weekday(), today.Format(store.DateLayout))

	sb.WriteString(taskContext(tasks))
	sb.WriteString(contactContext(contacts))
	return sb.String()
}

func taskContext(tasks []store.Task) string {
	if len(tasks) == 0 {
		return "\nThe user currently has no tasks.\n"
	}

	var sb strings.Builder
	sb.WriteString("\nCurrent tasks:\n")
	for i, task := range tasks {
		if i == maxContextItems {
			fmt.Fprintf(&sb, "- and %d more\n", len(tasks)-maxContextItems)
			break
		}
		line := fmt.Sprintf("- %q on %s", task.Title, task.Date)
		if task.StartTime != "" {
			line += " at " + task.StartTime
		}
		if task.Status != "" {
			line += fmt.Sprintf(" (%s)", task.Status)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func contactContext(contacts []store.Contact) string {
	if len(contacts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\nKnown contacts:\n")
	for i, contact := range contacts {
		if i == maxContextItems {
			fmt.Fprintf(&sb, "- and %d more\n", len(contacts)-maxContextItems)
			break
		}
		fmt.Fprintf(&sb, "- %s (%s)\n", contact.DisplayName(), contact.RelationshipType)
	}
	return sb.String()
}
