package types

import "time"

// Snapshot represents a VM snapshot
type Snapshot struct {
	ID          string    `json:"id" example:"snapshot-789"`
	Name        string    `json:"name" example:"before-upgrade"`
	Description string    `json:"description,omitempty" example:"Daily backup snapshot"`
	CreateTime  time.Time `json:"create_time" example:"2024-01-01T10:00:00Z"`
	State       string    `json:"state,omitempty" example:"poweredOn"`
}

// SnapshotCreateRequest represents a request to create a VM snapshot
type SnapshotCreateRequest struct {
	Name        string `json:"name" binding:"required" example:"before-upgrade"`
	Description string `json:"description,omitempty" example:"Backup before upgrade"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T10:00:00Z"`
	Service   string    `json:"service" example:"esxi-console"`
	Version   string    `json:"version,omitempty" example:"1.0.0"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request"`
	Code    string `json:"code,omitempty" example:"VALIDATION_FAILED"`
	Details string `json:"details,omitempty" example:"ip is required"`
}
