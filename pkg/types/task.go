package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a backend task.
// Transitions are pending -> running -> success|failed.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusSuccess TaskStatus = "success"
	TaskStatusFailed  TaskStatus = "failed"
)

// Active reports whether the task may still change
func (s TaskStatus) Active() bool {
	return s == TaskStatusPending || s == TaskStatusRunning
}

// Terminal reports whether the task reached a final state
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusFailed
}

// TaskType identifies the operation a task tracks
type TaskType string

const (
	TaskTypeCloneVM      TaskType = "clone_vm"
	TaskTypeInstallTools TaskType = "install_tools"
	TaskTypePowerOps     TaskType = "power_ops"
	TaskTypeSyncHost     TaskType = "sync_host"
)

// Label returns a human readable name for the task type
func (t TaskType) Label() string {
	switch t {
	case TaskTypeCloneVM:
		return "Clone VM"
	case TaskTypeInstallTools:
		return "Install VMware Tools"
	case TaskTypePowerOps:
		return "Power operation"
	case TaskTypeSyncHost:
		return "Host sync"
	}
	return string(t)
}

// TaskResult is the typed payload of a finished (or progressing) task.
// The concrete type is selected by Task.Type.
type TaskResult interface {
	Kind() TaskType
}

// CloneResult is the result of a clone_vm task
type CloneResult struct {
	Source       string `json:"source" example:"web-server-01"`
	Target       string `json:"target" example:"web-server-01-clone"`
	NewVMMoref   string `json:"new_vm_moref,omitempty" example:"42"`
	NewVMXPath   string `json:"new_vmx_path,omitempty" example:"[datastore1] web-server-01-clone/web-server-01-clone.vmx"`
	IPConfigured bool   `json:"ip_configured" example:"true"`
	IPMessage    string `json:"ip_message,omitempty"`
}

func (CloneResult) Kind() TaskType { return TaskTypeCloneVM }

// PowerResult is the result of a power_ops task
type PowerResult struct {
	Action     string `json:"action,omitempty" example:"powerOn"`
	PowerState string `json:"power_state,omitempty" example:"poweredOn"`
}

func (PowerResult) Kind() TaskType { return TaskTypePowerOps }

// RawResult keeps the payload of task types without a dedicated shape
type RawResult struct {
	Type TaskType
	Data json.RawMessage
}

func (r RawResult) Kind() TaskType { return r.Type }

// MarshalJSON emits the raw payload unchanged
func (r RawResult) MarshalJSON() ([]byte, error) {
	if len(r.Data) == 0 {
		return []byte("null"), nil
	}
	return r.Data, nil
}

// Task is the console's read-only copy of a backend task record
type Task struct {
	ID        string     `json:"id" example:"0b6f0f7c-8a0e-4c55-b7a4-0c7f3c1f7e21"`
	Type      TaskType   `json:"type" example:"clone_vm"`
	TargetID  string     `json:"target_id,omitempty" example:"5f1c2a7e-3b0d-4e59-9c1f-4a8e2f6b7d10"`
	Status    TaskStatus `json:"status" example:"running"`
	Progress  int        `json:"progress" example:"40"`
	Message   string     `json:"message,omitempty" example:"copying disks"`
	Result    TaskResult `json:"result,omitempty" swaggertype:"object"`
	CreatedAt time.Time  `json:"created_at" example:"2024-01-15T14:30:00Z"`
	UpdatedAt time.Time  `json:"updated_at" example:"2024-01-15T14:31:00Z"`
}

type taskWire struct {
	ID        string          `json:"id"`
	Type      TaskType        `json:"type"`
	TargetID  *string         `json:"target_id"`
	Status    TaskStatus      `json:"status"`
	Progress  int             `json:"progress"`
	Message   *string         `json:"message"`
	Result    json.RawMessage `json:"result"`
	CreatedAt *time.Time      `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at"`
}

// UnmarshalJSON decodes a task and selects the result shape from its type
func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*t = Task{
		ID:       w.ID,
		Type:     w.Type,
		Status:   w.Status,
		Progress: w.Progress,
	}
	if w.TargetID != nil {
		t.TargetID = *w.TargetID
	}
	if w.Message != nil {
		t.Message = *w.Message
	}
	if w.CreatedAt != nil {
		t.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		t.UpdatedAt = *w.UpdatedAt
	}

	result, err := decodeTaskResult(w.Type, w.Result)
	if err != nil {
		return fmt.Errorf("task %s: %w", w.ID, err)
	}
	t.Result = result
	return nil
}

func decodeTaskResult(kind TaskType, raw json.RawMessage) (TaskResult, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch kind {
	case TaskTypeCloneVM:
		var r CloneResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("invalid clone result: %w", err)
		}
		return r, nil
	case TaskTypePowerOps:
		var r PowerResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("invalid power result: %w", err)
		}
		return r, nil
	}

	return RawResult{Type: kind, Data: append(json.RawMessage(nil), raw...)}, nil
}

// Subject describes what the task operates on: "source -> target" for
// clones, otherwise a shortened target id.
func (t Task) Subject() string {
	if r, ok := t.Result.(CloneResult); ok && r.Source != "" && r.Target != "" {
		return r.Source + " -> " + r.Target
	}
	if t.TargetID == "" {
		return ""
	}
	head, _, _ := strings.Cut(t.TargetID, "-")
	return head + "..."
}

// TaskListParams represents the query for GET /tasks
type TaskListParams struct {
	Status   TaskStatus `form:"status" json:"status,omitempty"`
	Type     TaskType   `form:"type" json:"type,omitempty"`
	Page     int        `form:"page" json:"page"`
	PageSize int        `form:"page_size" json:"page_size"`
}

// TaskListResponse is one page of tasks, newest first
type TaskListResponse = PageResult[Task]
