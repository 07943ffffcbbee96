package tools

import (
	"github.com/invopop/jsonschema"
)

// Definition is one entry of the tool schema advertised in the session
// configuration, in the realtime API's flattened function layout.
type Definition struct {
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// Definitions returns the full tool schema the bridge can dispatch. The
// parameter schemas are reflected from the same argument structs Execute
// decodes into, so schema and validation cannot drift apart.
func Definitions() []Definition {
	return []Definition{
		define("get_tasks", "List the user's tasks for a day or a date range. With no arguments, lists every task.", getTasksArgs{}),
		define("create_task", "Create a new task with a title and a due date.", createTaskArgs{}),
		define("update_task", "Update an existing task found by its title: status, title, date or start time.", updateTaskArgs{}),
		define("delete_task", "Delete a task found by its title.", deleteTaskArgs{}),
		define("get_contacts", "List the user's contacts, optionally filtered by relationship type.", getContactsArgs{}),
		define("create_contact", "Save a new contact with at least a first name and a relationship type.", createContactArgs{}),
	}
}

func define(name, description string, args any) Definition {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(args)
	schema.Version = ""

	return Definition{
		Type:        "function",
		Name:        name,
		Description: description,
		Parameters:  schema,
	}
}
