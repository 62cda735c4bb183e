package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nirarg/esxi-console/pkg/types"
)

// ListTasks returns one page of tasks, newest first
func (c *Client) ListTasks(ctx context.Context, params types.TaskListParams) (*types.TaskListResponse, error) {
	q := pageQuery(params.Page, params.PageSize)
	if params.Status != "" {
		q.Set("status", string(params.Status))
	}
	if params.Type != "" {
		q.Set("type", string(params.Type))
	}

	var page types.TaskListResponse
	if err := c.get(ctx, "/tasks", q, &page); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if page.Items == nil {
		page.Items = []types.Task{}
	}
	return &page, nil
}

// GetTask returns a single task
func (c *Client) GetTask(ctx context.Context, id string) (*types.Task, error) {
	var task types.Task
	if err := c.get(ctx, "/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	return &task, nil
}
