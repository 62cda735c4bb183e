package types

import "time"

// HostStatus is the connection state the backend last observed for a host
type HostStatus string

const (
	HostStatusOnline    HostStatus = "online"
	HostStatusOffline   HostStatus = "offline"
	HostStatusAuthError HostStatus = "auth_error"
)

// EsxiHost represents a managed ESXi hypervisor
type EsxiHost struct {
	ID             int        `json:"id" example:"1"`
	IP             string     `json:"ip" example:"10.0.0.21"`
	Port           int        `json:"port,omitempty" example:"443"`
	Username       string     `json:"username,omitempty" example:"root"`
	Hostname       string     `json:"hostname" example:"esxi-01.lab"`
	Status         HostStatus `json:"status" example:"online"`
	Version        string     `json:"version,omitempty" example:"VMware ESXi 7.0.3"`
	Description    string     `json:"description,omitempty" example:"rack A"`
	SortOrder      int        `json:"sort_order,omitempty" example:"0"`
	CPUUsage       float64    `json:"cpu_usage,omitempty" example:"37.5"`
	MemoryUsage    float64    `json:"memory_usage,omitempty" example:"62.1"`
	CPUCores       int        `json:"cpu_cores,omitempty" example:"32"`
	MemoryTotalGB  float64    `json:"memory_total_gb,omitempty" example:"256"`
	StorageTotalGB float64    `json:"storage_total_gb,omitempty" example:"4096"`
	StorageFreeGB  float64    `json:"storage_free_gb,omitempty" example:"1024"`
	VMCount        int        `json:"vm_count" example:"24"`
	VMsRunning     int        `json:"vms_running,omitempty" example:"20"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty" example:"2024-01-15T14:30:00Z"`
}

// StorageUsage returns the used fraction of the host's datastores
func (h EsxiHost) StorageUsage() float64 {
	total := h.StorageTotalGB
	if total == 0 {
		total = 1
	}
	return (h.StorageTotalGB - h.StorageFreeGB) / total
}

// AddHostRequest is the body of POST /virtualization/hosts.
// With ProbeOnly set the backend only tests the connection.
type AddHostRequest struct {
	IP          string `json:"ip" binding:"required" example:"10.0.0.21"`
	Port        int    `json:"port,omitempty" example:"443"`
	Username    string `json:"username" example:"root"`
	Password    string `json:"password,omitempty" example:"secret"`
	Description string `json:"description,omitempty" example:"rack A"`
	ProbeOnly   bool   `json:"probe_only" example:"false"`
}

// UpdateHostRequest is the body of PUT /virtualization/hosts/{id}.
// Empty fields are left untouched by the backend.
type UpdateHostRequest struct {
	IP          string `json:"ip,omitempty" example:"10.0.0.21"`
	Port        int    `json:"port,omitempty" example:"443"`
	Username    string `json:"username,omitempty" example:"root"`
	Password    string `json:"password,omitempty" example:"secret"`
	Description string `json:"description,omitempty" example:"rack A"`
}

// SyncRequest is the body of POST /virtualization/sync; nil HostID syncs all hosts
type SyncRequest struct {
	HostID *int `json:"host_id,omitempty" example:"1"`
}

// ReorderRequest is the body of POST /virtualization/hosts/reorder
type ReorderRequest struct {
	HostIDs []int `json:"host_ids"`
}

// ActionResult is the generic acknowledgement returned by sync and reorder
type ActionResult struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Sync started for all hosts"`
}

// DatastoreStats aggregates datastore capacity across all hosts
type DatastoreStats struct {
	TotalCount      int     `json:"total_count" example:"8"`
	TotalCapacityGB float64 `json:"total_capacity_gb" example:"16384"`
	TotalFreeGB     float64 `json:"total_free_gb" example:"4096"`
}
