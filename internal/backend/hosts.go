package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nirarg/esxi-console/pkg/types"
)

// ListHosts returns every managed host in the backend's sort order
func (c *Client) ListHosts(ctx context.Context) ([]types.EsxiHost, error) {
	var hosts []types.EsxiHost
	if err := c.get(ctx, "/virtualization/hosts", nil, &hosts); err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	return hosts, nil
}

// AddHost registers a host. With req.ProbeOnly the backend only tests the
// connection and returns the discovered host info without persisting it.
func (c *Client) AddHost(ctx context.Context, req types.AddHostRequest) (*types.EsxiHost, error) {
	var host types.EsxiHost
	if err := c.do(ctx, http.MethodPost, "/virtualization/hosts", nil, req, &host); err != nil {
		if req.ProbeOnly {
			return nil, fmt.Errorf("failed to probe host %s: %w", req.IP, err)
		}
		return nil, fmt.Errorf("failed to add host %s: %w", req.IP, err)
	}
	return &host, nil
}

// UpdateHost changes a host's connection settings or description
func (c *Client) UpdateHost(ctx context.Context, id int, req types.UpdateHostRequest) (*types.EsxiHost, error) {
	var host types.EsxiHost
	path := fmt.Sprintf("/virtualization/hosts/%d", id)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &host); err != nil {
		return nil, fmt.Errorf("failed to update host %d: %w", id, err)
	}
	return &host, nil
}

// DeleteHost removes a host and its inventory from the backend
func (c *Client) DeleteHost(ctx context.Context, id int) error {
	path := fmt.Sprintf("/virtualization/hosts/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete host %d: %w", id, err)
	}
	return nil
}

// SyncHosts asks the backend to resync inventory. A nil hostID syncs all hosts.
func (c *Client) SyncHosts(ctx context.Context, hostID *int) (*types.ActionResult, error) {
	var result types.ActionResult
	if err := c.do(ctx, http.MethodPost, "/virtualization/sync", nil, types.SyncRequest{HostID: hostID}, &result); err != nil {
		return nil, fmt.Errorf("failed to start sync: %w", err)
	}
	return &result, nil
}

// ReorderHosts persists the display order of hosts
func (c *Client) ReorderHosts(ctx context.Context, hostIDs []int) (*types.ActionResult, error) {
	var result types.ActionResult
	if err := c.do(ctx, http.MethodPost, "/virtualization/hosts/reorder", nil, types.ReorderRequest{HostIDs: hostIDs}, &result); err != nil {
		return nil, fmt.Errorf("failed to reorder hosts: %w", err)
	}
	return &result, nil
}

// DatastoreStats returns datastore capacity aggregated over all hosts
func (c *Client) DatastoreStats(ctx context.Context) (*types.DatastoreStats, error) {
	var stats types.DatastoreStats
	if err := c.get(ctx, "/virtualization/datastores/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to get datastore stats: %w", err)
	}
	return &stats, nil
}
