package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nirarg/esxi-console/pkg/types"
)

// ListCredentials returns the stored SSH credentials (without secrets)
func (c *Client) ListCredentials(ctx context.Context) ([]types.Credential, error) {
	var creds []types.Credential
	if err := c.get(ctx, "/credentials", nil, &creds); err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	return creds, nil
}

// CreateCredential stores a new SSH credential
func (c *Client) CreateCredential(ctx context.Context, req types.CreateCredentialRequest) (*types.Credential, error) {
	var cred types.Credential
	if err := c.do(ctx, http.MethodPost, "/credentials", nil, req, &cred); err != nil {
		return nil, fmt.Errorf("failed to create credential %s: %w", req.Name, err)
	}
	return &cred, nil
}

// DeleteCredential removes a stored credential
func (c *Client) DeleteCredential(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/credentials/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete credential %d: %w", id, err)
	}
	return nil
}
