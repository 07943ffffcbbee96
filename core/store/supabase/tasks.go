package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/voxtask/voice-core/core/store"
)

const tasksTable = "tasks"

var _ store.TaskStore = (*Client)(nil)

func (c *Client) ListTasks(ctx context.Context, query store.TaskQuery) ([]store.Task, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("order", "date.asc,start_time.asc")
	switch {
	case query.Date != "":
		params.Set("date", "eq."+query.Date)
	case query.StartDate != "" && query.EndDate != "":
		params.Add("date", "gte."+query.StartDate)
		params.Add("date", "lte."+query.EndDate)
	case query.StartDate != "":
		params.Set("date", "gte."+query.StartDate)
	}

	var tasks []store.Task
	if err := c.do(ctx, http.MethodGet, tasksTable, params, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, task store.Task) (*store.Task, error) {
	if task.Status == "" {
		task.Status = store.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = store.PriorityMedium
	}

	var rows []store.Task
	if err := c.do(ctx, http.MethodPost, tasksTable, nil, task, &rows); err != nil {
		return nil, err
	}
	return firstRow(rows, "task")
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch store.TaskPatch) (*store.Task, error) {
	params := url.Values{}
	params.Set("id", "eq."+id)

	var rows []store.Task
	if err := c.do(ctx, http.MethodPatch, tasksTable, params, patch, &rows); err != nil {
		return nil, err
	}
	return firstRow(rows, "task")
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	params := url.Values{}
	params.Set("id", "eq."+id)
	return c.do(ctx, http.MethodDelete, tasksTable, params, nil, nil)
}
