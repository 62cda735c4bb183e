package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nirarg/esxi-console/pkg/types"
)

// ListVMs returns one page of VMs matching params
func (c *Client) ListVMs(ctx context.Context, params types.VMListParams) (*types.PageResult[types.VirtualMachine], error) {
	q := pageQuery(params.Page, params.PageSize)
	if params.HostID != nil {
		q.Set("host_id", strconv.Itoa(*params.HostID))
	}
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}

	var page types.PageResult[types.VirtualMachine]
	if err := c.get(ctx, "/virtualization/vms", q, &page); err != nil {
		return nil, fmt.Errorf("failed to list VMs: %w", err)
	}
	if page.Items == nil {
		page.Items = []types.VirtualMachine{}
	}
	return &page, nil
}

// UpdateVM renames a VM or changes its annotation
func (c *Client) UpdateVM(ctx context.Context, id string, req types.UpdateVMRequest) (*types.VirtualMachine, error) {
	var vm types.VirtualMachine
	if err := c.do(ctx, http.MethodPatch, vmPath(id), nil, req, &vm); err != nil {
		return nil, fmt.Errorf("failed to update VM %s: %w", id, err)
	}
	return &vm, nil
}

// PowerAction starts a power operation on a VM
func (c *Client) PowerAction(ctx context.Context, id string, action types.VMPowerAction) (*types.AsyncTaskResponse, error) {
	var resp types.AsyncTaskResponse
	if err := c.do(ctx, http.MethodPost, vmPath(id, "power"), nil, types.PowerActionRequest{Action: action}, &resp); err != nil {
		return nil, fmt.Errorf("failed to %s VM %s: %w", action, id, err)
	}
	return &resp, nil
}

// CloneVM submits a clone task
func (c *Client) CloneVM(ctx context.Context, id string, req types.CloneRequest) (*types.AsyncTaskResponse, error) {
	var resp types.AsyncTaskResponse
	if err := c.do(ctx, http.MethodPost, vmPath(id, "clone"), nil, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to clone VM %s: %w", id, err)
	}
	return &resp, nil
}

// InstallTools submits a guest tools installation over SSH, run by the backend
func (c *Client) InstallTools(ctx context.Context, id string, req types.InstallToolsRequest) (*types.AsyncTaskResponse, error) {
	var resp types.AsyncTaskResponse
	if err := c.do(ctx, http.MethodPost, vmPath(id, "install-tools"), nil, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to install tools on VM %s: %w", id, err)
	}
	return &resp, nil
}

// ConsoleURL returns the remote console connection info for a VM
func (c *Client) ConsoleURL(ctx context.Context, id string) (*types.VMConsoleInfo, error) {
	var info types.VMConsoleInfo
	if err := c.get(ctx, vmPath(id, "console"), nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get console for VM %s: %w", id, err)
	}
	return &info, nil
}

// ListSnapshots returns the snapshots of a VM
func (c *Client) ListSnapshots(ctx context.Context, id string) ([]types.Snapshot, error) {
	var snapshots []types.Snapshot
	if err := c.get(ctx, vmPath(id, "snapshots"), nil, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to list snapshots of VM %s: %w", id, err)
	}
	return snapshots, nil
}

// CreateSnapshot submits a snapshot task
func (c *Client) CreateSnapshot(ctx context.Context, id string, req types.SnapshotCreateRequest) (*types.AsyncTaskResponse, error) {
	var resp types.AsyncTaskResponse
	if err := c.do(ctx, http.MethodPost, vmPath(id, "snapshots"), nil, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create snapshot of VM %s: %w", id, err)
	}
	return &resp, nil
}

// RevertSnapshot submits a revert-to-snapshot task
func (c *Client) RevertSnapshot(ctx context.Context, id, snapshotID string) (*types.AsyncTaskResponse, error) {
	var resp types.AsyncTaskResponse
	if err := c.do(ctx, http.MethodPost, vmPath(id, "snapshots", snapshotID, "revert"), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to revert VM %s to snapshot %s: %w", id, snapshotID, err)
	}
	return &resp, nil
}

func vmPath(id string, elem ...string) string {
	p := "/virtualization/vms/" + url.PathEscape(id)
	for _, e := range elem {
		p += "/" + url.PathEscape(e)
	}
	return p
}
