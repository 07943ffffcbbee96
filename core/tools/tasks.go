package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/voxtask/voice-core/core/store"
)

type getTasksArgs struct {
	Date      string `json:"date,omitempty" jsonschema:"description=Single day to list, formatted YYYY-MM-DD"`
	StartDate string `json:"start_date,omitempty" jsonschema:"description=Range start, formatted YYYY-MM-DD"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"description=Range end, formatted YYYY-MM-DD"`
}

func (b *Bridge) getTasks(ctx context.Context, arguments string) string {
	var args getTasksArgs
	if err := decodeArgs(arguments, &args); err != nil {
		return fmt.Sprintf("I couldn't read the task query: %v.", err)
	}
	for _, date := range []string{args.Date, args.StartDate, args.EndDate} {
		if message := checkDate(date); message != "" {
			return message
		}
	}

	tasks, err := b.tasks.ListTasks(ctx, store.TaskQuery{
		Date:      args.Date,
		StartDate: args.StartDate,
		EndDate:   args.EndDate,
	})
	if err != nil {
		return fmt.Sprintf("Fetching tasks failed: %v.", err)
	}
	if len(tasks) == 0 {
		return "No tasks found for that period."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d task(s):\n", len(tasks))
	for _, task := range tasks {
		line := fmt.Sprintf("- %s on %s", task.Title, task.Date)
		if task.StartTime != "" {
			line += " at " + task.StartTime
		}
		if task.Status != "" {
			line += fmt.Sprintf(" [%s]", task.Status)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

type createTaskArgs struct {
	Title     string `json:"title" jsonschema:"description=Task title"`
	Date      string `json:"date" jsonschema:"description=Due date, formatted YYYY-MM-DD"`
	StartTime string `json:"start_time,omitempty" jsonschema:"description=Start time, formatted HH:MM"`
	Priority  string `json:"priority,omitempty" jsonschema:"description=Task priority,enum=low,enum=medium,enum=high"`
}

func (b *Bridge) createTask(ctx context.Context, arguments string) string {
	if _, message := b.requireUser(); message != "" {
		return message
	}

	var args createTaskArgs
	if err := decodeArgs(arguments, &args); err != nil {
		return fmt.Sprintf("I couldn't read the task details: %v.", err)
	}
	if args.Title == "" {
		return "A task needs a title, please tell me what the task is."
	}
	if args.Date == "" {
		return "A task needs a date, please tell me when it is due."
	}
	if message := checkDate(args.Date); message != "" {
		return message
	}
	if args.Priority != "" && !store.Priority(args.Priority).IsValid() {
		return fmt.Sprintf("Priority %q is not valid, use low, medium or high.", args.Priority)
	}

	created, err := b.tasks.CreateTask(ctx, store.Task{
		Title:     args.Title,
		Date:      args.Date,
		StartTime: args.StartTime,
		Priority:  store.Priority(args.Priority),
	})
	if err != nil {
		return fmt.Sprintf("Creating the task failed: %v.", err)
	}

	b.cache.RefreshAsync(context.WithoutCancel(ctx))
	return fmt.Sprintf("Created task %q on %s.", created.Title, created.Date)
}

type updateTaskArgs struct {
	TaskTitle    string `json:"task_title" jsonschema:"description=Title (or part of it) of the task to update"`
	NewStatus    string `json:"new_status,omitempty" jsonschema:"description=New status,enum=todo,enum=in_progress,enum=done,enum=missed"`
	NewTitle     string `json:"new_title,omitempty" jsonschema:"description=New title"`
	NewDate      string `json:"new_date,omitempty" jsonschema:"description=New date, formatted YYYY-MM-DD"`
	NewStartTime string `json:"new_start_time,omitempty" jsonschema:"description=New start time, formatted HH:MM"`
}

func (b *Bridge) updateTask(ctx context.Context, arguments string) string {
	if _, message := b.requireUser(); message != "" {
		return message
	}

	var args updateTaskArgs
	if err := decodeArgs(arguments, &args); err != nil {
		return fmt.Sprintf("I couldn't read the update details: %v.", err)
	}
	if args.TaskTitle == "" {
		return "Please tell me which task to update."
	}
	if args.NewStatus != "" && !store.Status(args.NewStatus).IsValid() {
		return fmt.Sprintf("Status %q is not valid, use todo, in_progress, done or missed.", args.NewStatus)
	}
	if message := checkDate(args.NewDate); message != "" {
		return message
	}

	var patch store.TaskPatch
	if args.NewTitle != "" {
		patch.Title = &args.NewTitle
	}
	if args.NewDate != "" {
		patch.Date = &args.NewDate
	}
	if args.NewStartTime != "" {
		patch.StartTime = &args.NewStartTime
	}
	if args.NewStatus != "" {
		status := store.Status(args.NewStatus)
		patch.Status = &status
	}
	if patch == (store.TaskPatch{}) {
		return fmt.Sprintf("Nothing to change on %q, tell me what to update.", args.TaskTitle)
	}

	task, found := b.findTaskByTitle(args.TaskTitle)
	if !found {
		return fmt.Sprintf("I couldn't find a task matching %q.", args.TaskTitle)
	}

	updated, err := b.tasks.UpdateTask(ctx, task.ID, patch)
	if err != nil {
		return fmt.Sprintf("Updating %q failed: %v.", task.Title, err)
	}

	b.cache.RefreshAsync(context.WithoutCancel(ctx))
	return fmt.Sprintf("Updated task %q on %s.", updated.Title, updated.Date)
}

type deleteTaskArgs struct {
	TaskTitle string `json:"task_title" jsonschema:"description=Title (or part of it) of the task to delete"`
}

func (b *Bridge) deleteTask(ctx context.Context, arguments string) string {
	if _, message := b.requireUser(); message != "" {
		return message
	}

	var args deleteTaskArgs
	if err := decodeArgs(arguments, &args); err != nil {
		return fmt.Sprintf("I couldn't read the delete request: %v.", err)
	}
	if args.TaskTitle == "" {
		return "Please tell me which task to delete."
	}

	task, found := b.findTaskByTitle(args.TaskTitle)
	if !found {
		return fmt.Sprintf("I couldn't find a task matching %q.", args.TaskTitle)
	}

	if err := b.tasks.DeleteTask(ctx, task.ID); err != nil {
		return fmt.Sprintf("Deleting %q failed: %v.", task.Title, err)
	}

	b.cache.RefreshAsync(context.WithoutCancel(ctx))
	return fmt.Sprintf("Deleted task %q that was scheduled for %s.", task.Title, task.Date)
}

// findTaskByTitle resolves a spoken title against the cached task list using
// case-insensitive substring match. When several tasks match, one dated today
// wins, otherwise the first match in list order. Ambiguous titles can resolve
// to the wrong item; this is a documented limitation of the heuristic.
func (b *Bridge) findTaskByTitle(title string) (store.Task, bool) {
	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return store.Task{}, false
	}

	var matches []store.Task
	for _, task := range b.cache.Tasks() {
		if strings.Contains(strings.ToLower(task.Title), needle) {
			matches = append(matches, task)
		}
	}
	if len(matches) == 0 {
		return store.Task{}, false
	}

	for _, task := range matches {
		if task.IsToday() {
			return task, true
		}
	}
	return matches[0], true
}

func checkDate(date string) string {
	if date == "" {
		return ""
	}
	if _, err := time.Parse(store.DateLayout, date); err != nil {
		return fmt.Sprintf("Date %q is not valid, use the YYYY-MM-DD format.", date)
	}
	return ""
}
