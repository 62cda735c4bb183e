package console

import (
	"context"
	"fmt"

	"github.com/nirarg/esxi-console/internal/config"
	"github.com/nirarg/esxi-console/internal/polling"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// Backend is everything a console session needs from the backend
type Backend interface {
	TaskSource
	VMBackend
	HostBackend
	DashboardSource
	CredentialStore
}

// Session groups the views of one console user. Views are independent;
// each is opened and closed on its own.
type Session struct {
	Tasks       *TaskCenter
	VMs         *VMList
	Hosts       *HostList
	Dashboard   *Dashboard
	Credentials *CredentialSelector
}

// NewSession builds every view from the console configuration
func NewSession(b Backend, cc config.ConsoleConfig, logger *logrus.Logger, observer Observer) (*Session, error) {
	vms, err := NewVMList(b, VMListConfig{
		PageSize:         cc.VMPageSize,
		SearchDebounce:   cc.SearchDebounce,
		SyncRefreshDelay: cc.SyncRefreshDelay,
		Polling:          polling.ConfigFromConsole(cc),
	}, logger, observer)
	if err != nil {
		return nil, fmt.Errorf("failed to create VM list: %w", err)
	}

	return &Session{
		Tasks: NewTaskCenter(b, TaskCenterConfig{
			PageSize:        cc.TaskPageSize,
			RefreshInterval: cc.TaskRefreshInterval,
		}, logger, observer),
		VMs:         vms,
		Hosts:       NewHostList(b, cc.SyncRefreshDelay, logger, observer),
		Dashboard:   NewDashboard(b, cc.DashboardRefresh, logger, observer),
		Credentials: NewCredentialSelector(b, logger, observer),
	}, nil
}

// Clone submits a clone and opens the task center to follow it
func (s *Session) Clone(ctx context.Context, form *CloneForm) (*types.AsyncTaskResponse, error) {
	resp, err := s.VMs.Clone(ctx, form)
	if err != nil {
		return nil, err
	}
	_ = s.Tasks.Open(ctx)
	return resp, nil
}

// InstallTools submits a tools installation and opens the task center
func (s *Session) InstallTools(ctx context.Context, form *InstallToolsForm) (*types.AsyncTaskResponse, error) {
	resp, err := s.VMs.InstallTools(ctx, form)
	if err != nil {
		return nil, err
	}
	_ = s.Tasks.Open(ctx)
	return resp, nil
}

// Close closes every view
func (s *Session) Close() {
	s.Tasks.Close()
	s.VMs.Close()
	s.Hosts.Close()
	s.Dashboard.Close()
}
