package types

import "time"

// Credential is a stored SSH login the backend can use on behalf of the console.
// The secret itself is never returned.
type Credential struct {
	ID          int       `json:"id" example:"3"`
	Name        string    `json:"name" example:"linux-root"`
	Username    string    `json:"username" example:"root"`
	Description string    `json:"description,omitempty" example:"default guest login"`
	CreatedAt   time.Time `json:"created_at" example:"2024-01-15T14:30:00Z"`
}

// CreateCredentialRequest is the body of POST /credentials
type CreateCredentialRequest struct {
	Name        string `json:"name" binding:"required" validate:"required" example:"linux-root"`
	Username    string `json:"username" binding:"required" validate:"required" example:"root"`
	Password    string `json:"password" binding:"required" validate:"required" example:"secret"`
	Description string `json:"description,omitempty" example:"default guest login"`
}
