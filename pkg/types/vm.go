package types

import (
	"fmt"

	vim "github.com/vmware/govmomi/vim25/types"
)

// VirtualMachine represents a VM as reported by the backend inventory
type VirtualMachine struct {
	ID                string  `json:"id" example:"5f1c2a7e-3b0d-4e59-9c1f-4a8e2f6b7d10"`
	Name              string  `json:"name" example:"web-server-01"`
	HostID            int     `json:"host_id" example:"1"`
	HostIP            string  `json:"host_ip" example:"10.0.0.21"`
	PowerState        string  `json:"power_state" example:"poweredOn"`
	IPAddress         string  `json:"ip_address,omitempty" example:"10.0.10.15"`
	GuestOS           string  `json:"guest_os,omitempty" example:"CentOS 7 (64-bit)"`
	CPUCount          int     `json:"cpu_count" example:"4"`
	MemoryMB          int     `json:"memory_mb" example:"8192"`
	UptimeSeconds     int64   `json:"uptime_seconds,omitempty" example:"86400"`
	CPUUsageMHz       int     `json:"cpu_usage_mhz,omitempty" example:"1200"`
	MemoryUsageMB     int     `json:"memory_usage_mb,omitempty" example:"2048"`
	DiskUsedGB        float64 `json:"disk_used_gb,omitempty" example:"35.5"`
	DiskProvisionedGB float64 `json:"disk_provisioned_gb,omitempty" example:"100"`
	Description       string  `json:"description,omitempty" example:"nginx front"`
	ToolsStatus       string  `json:"tools_status,omitempty" example:"toolsOk"`
}

// PoweredOn reports whether the VM is running
func (vm VirtualMachine) PoweredOn() bool {
	return vm.PowerState == string(vim.VirtualMachinePowerStatePoweredOn)
}

// NeedsTools reports whether guest tools are missing or stopped, which is
// when the console offers the SSH install action.
func (vm VirtualMachine) NeedsTools() bool {
	switch vim.VirtualMachineToolsStatus(vm.ToolsStatus) {
	case vim.VirtualMachineToolsStatusToolsNotInstalled, vim.VirtualMachineToolsStatusToolsNotRunning:
		return true
	}
	return false
}

// ValidPowerStateFilter reports whether s can be used as a VM status filter.
// The empty string means "all".
func ValidPowerStateFilter(s string) bool {
	switch vim.VirtualMachinePowerState(s) {
	case "",
		vim.VirtualMachinePowerStatePoweredOn,
		vim.VirtualMachinePowerStatePoweredOff,
		vim.VirtualMachinePowerStateSuspended:
		return true
	}
	return false
}

// VMListParams represents the query for GET /virtualization/vms
type VMListParams struct {
	HostID   *int   `form:"host_id" json:"host_id,omitempty" example:"1"`
	Keyword  string `form:"keyword" json:"keyword,omitempty" example:"web"`
	Status   string `form:"status" json:"status,omitempty" example:"poweredOn"`
	Page     int    `form:"page" json:"page" example:"1"`
	PageSize int    `form:"page_size" json:"page_size" example:"10"`
}

// PageResult is a single page of a backend collection
type PageResult[T any] struct {
	Total int `json:"total" example:"12"`
	Items []T `json:"items"`
}

// VMPowerAction represents a power operation accepted by the backend
type VMPowerAction string

const (
	PowerActionPowerOn  VMPowerAction = "powerOn"
	PowerActionShutdown VMPowerAction = "shutdown"
	PowerActionPowerOff VMPowerAction = "powerOff"
	PowerActionReboot   VMPowerAction = "reboot"
	PowerActionReset    VMPowerAction = "reset"
	PowerActionSuspend  VMPowerAction = "suspend"
)

// ParsePowerAction validates a power action name
func ParsePowerAction(s string) (VMPowerAction, error) {
	switch a := VMPowerAction(s); a {
	case PowerActionPowerOn, PowerActionShutdown, PowerActionPowerOff,
		PowerActionReboot, PowerActionReset, PowerActionSuspend:
		return a, nil
	}
	return "", fmt.Errorf("unknown power action %q", s)
}

// PowerActionRequest is the body of POST /virtualization/vms/{id}/power
type PowerActionRequest struct {
	Action VMPowerAction `json:"action" binding:"required" example:"powerOn"`
}

// AsyncTaskResponse is returned by every call that starts background work
type AsyncTaskResponse struct {
	TaskID  string `json:"task_id" example:"0b6f0f7c-8a0e-4c55-b7a4-0c7f3c1f7e21"`
	Status  string `json:"status" example:"pending"`
	Message string `json:"message,omitempty" example:"clone task submitted"`
}

// CloneRequest is the body of POST /virtualization/vms/{id}/clone
type CloneRequest struct {
	NewName            string   `json:"new_name" example:"web-server-01-clone"`
	TargetDatastore    string   `json:"target_datastore,omitempty" example:"datastore1"`
	PowerOn            bool     `json:"power_on" example:"true"`
	AutoConfigIP       bool     `json:"auto_config_ip" example:"true"`
	GuestUsername      string   `json:"guest_username,omitempty" example:"root"`
	GuestPassword      string   `json:"guest_password,omitempty" example:"secret"`
	NewIP              string   `json:"new_ip,omitempty" example:"10.0.10.16"`
	Netmask            string   `json:"netmask,omitempty" example:"255.255.255.0"`
	Gateway            string   `json:"gateway,omitempty" example:"10.0.10.1"`
	DNS                []string `json:"dns,omitempty" example:"114.114.114.114"`
	NICName            string   `json:"nic_name,omitempty" example:"ens192"`
	DisconnectNICFirst bool     `json:"disconnect_nic_first" example:"true"`
	SourceIP           string   `json:"source_ip,omitempty" example:"10.0.10.15"`
}

// InstallToolsRequest is the body of POST /virtualization/vms/{id}/install-tools
type InstallToolsRequest struct {
	IP           string `json:"ip" example:"10.0.10.15"`
	Username     string `json:"username,omitempty" example:"root"`
	Password     string `json:"password,omitempty" example:"secret"`
	CredentialID *int   `json:"credential_id,omitempty" example:"3"`
}

// UpdateVMRequest is the body of PATCH /virtualization/vms/{id}
type UpdateVMRequest struct {
	Name        string `json:"name,omitempty" example:"web-server-01"`
	Description string `json:"description,omitempty" example:"nginx front"`
}

// VMConsoleInfo describes how to open a remote console to a VM
type VMConsoleInfo struct {
	Type   string `json:"type" example:"webmks"`
	URL    string `json:"url" example:"wss://proxy/ticket/123"`
	Ticket string `json:"ticket,omitempty"`
}
