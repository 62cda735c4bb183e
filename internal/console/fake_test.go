package console

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

// fakeBackend is an in-memory backend. Lists are paged the way the real
// backend pages them; every call is recorded.
type fakeBackend struct {
	mu sync.Mutex

	tasks     []types.Task
	taskCalls []types.TaskListParams
	taskErr   error

	vms     []types.VirtualMachine
	vmCalls []types.VMListParams
	vmErr   error

	hosts     []types.EsxiHost
	hostCalls int
	hostErr   error
	addReqs   []types.AddHostRequest
	reordered []int
	syncCalls []*int

	creds []types.Credential

	actionErr    error
	powerCalls   []types.VMPowerAction
	cloneReqs    []types.CloneRequest
	installReqs  []types.InstallToolsRequest
	snapshotReqs []types.SnapshotCreateRequest
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func makeTasks(n int, status types.TaskStatus) []types.Task {
	tasks := make([]types.Task, n)
	for i := range tasks {
		tasks[i] = types.Task{ID: fmt.Sprintf("t%d", i+1), Type: types.TaskTypePowerOps, Status: status}
	}
	return tasks
}

func makeVMs(n int) []types.VirtualMachine {
	vms := make([]types.VirtualMachine, n)
	for i := range vms {
		vms[i] = types.VirtualMachine{ID: fmt.Sprintf("vm-%d", i+1), Name: fmt.Sprintf("vm%02d", i+1), PowerState: "poweredOff"}
	}
	return vms
}

func paginate[T any](all []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(all) {
		return []T{}
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return append([]T(nil), all[start:end]...)
}

func (f *fakeBackend) setTasks(tasks []types.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = tasks
}

func (f *fakeBackend) taskCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.taskCalls)
}

func (f *fakeBackend) vmCallList() []types.VMListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.VMListParams(nil), f.vmCalls...)
}

func (f *fakeBackend) hostCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hostCalls
}

func (f *fakeBackend) ListTasks(ctx context.Context, params types.TaskListParams) (*types.TaskListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taskCalls = append(f.taskCalls, params)
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	return &types.TaskListResponse{Total: len(f.tasks), Items: paginate(f.tasks, params.Page, params.PageSize)}, nil
}

func (f *fakeBackend) ListVMs(ctx context.Context, params types.VMListParams) (*types.PageResult[types.VirtualMachine], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vmCalls = append(f.vmCalls, params)
	if f.vmErr != nil {
		return nil, f.vmErr
	}
	return &types.PageResult[types.VirtualMachine]{Total: len(f.vms), Items: paginate(f.vms, params.Page, params.PageSize)}, nil
}

func (f *fakeBackend) task(id string) *types.AsyncTaskResponse {
	return &types.AsyncTaskResponse{TaskID: id, Status: string(types.TaskStatusPending), Message: "submitted"}
}

func (f *fakeBackend) PowerAction(ctx context.Context, id string, action types.VMPowerAction) (*types.AsyncTaskResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	f.powerCalls = append(f.powerCalls, action)
	return f.task("power-" + id), nil
}

func (f *fakeBackend) CloneVM(ctx context.Context, id string, req types.CloneRequest) (*types.AsyncTaskResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	f.cloneReqs = append(f.cloneReqs, req)
	return f.task("clone-" + id), nil
}

func (f *fakeBackend) InstallTools(ctx context.Context, id string, req types.InstallToolsRequest) (*types.AsyncTaskResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	f.installReqs = append(f.installReqs, req)
	return f.task("tools-" + id), nil
}

func (f *fakeBackend) UpdateVM(ctx context.Context, id string, req types.UpdateVMRequest) (*types.VirtualMachine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	return &types.VirtualMachine{ID: id, Name: req.Name, Description: req.Description}, nil
}

func (f *fakeBackend) CreateSnapshot(ctx context.Context, id string, req types.SnapshotCreateRequest) (*types.AsyncTaskResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	f.snapshotReqs = append(f.snapshotReqs, req)
	return f.task("snap-" + id), nil
}

func (f *fakeBackend) RevertSnapshot(ctx context.Context, id, snapshotID string) (*types.AsyncTaskResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	return f.task("revert-" + id), nil
}

func (f *fakeBackend) ListHosts(ctx context.Context) ([]types.EsxiHost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hostCalls++
	if f.hostErr != nil {
		return nil, f.hostErr
	}
	return append([]types.EsxiHost(nil), f.hosts...), nil
}

func (f *fakeBackend) AddHost(ctx context.Context, req types.AddHostRequest) (*types.EsxiHost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addReqs = append(f.addReqs, req)
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	host := types.EsxiHost{ID: len(f.hosts) + 1, IP: req.IP, Version: "VMware ESXi 7.0.3"}
	if !req.ProbeOnly {
		f.hosts = append(f.hosts, host)
	} else {
		host.ID = 0
	}
	return &host, nil
}

func (f *fakeBackend) UpdateHost(ctx context.Context, id int, req types.UpdateHostRequest) (*types.EsxiHost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.hosts {
		if f.hosts[i].ID == id {
			if req.Description != "" {
				f.hosts[i].Description = req.Description
			}
			h := f.hosts[i]
			return &h, nil
		}
	}
	return nil, &backend.APIError{StatusCode: 404, Detail: "Host not found"}
}

func (f *fakeBackend) DeleteHost(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.hosts {
		if f.hosts[i].ID == id {
			f.hosts = append(f.hosts[:i], f.hosts[i+1:]...)
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Detail: "Host not found"}
}

func (f *fakeBackend) SyncHosts(ctx context.Context, hostID *int) (*types.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	f.syncCalls = append(f.syncCalls, hostID)
	return &types.ActionResult{Success: true, Message: "Sync started"}, nil
}

func (f *fakeBackend) ReorderHosts(ctx context.Context, hostIDs []int) (*types.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reordered = append([]int(nil), hostIDs...)
	return &types.ActionResult{Success: true}, nil
}

func (f *fakeBackend) DatastoreStats(ctx context.Context) (*types.DatastoreStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hostErr != nil {
		return nil, f.hostErr
	}
	return &types.DatastoreStats{TotalCount: 2, TotalCapacityGB: 2048, TotalFreeGB: 512}, nil
}

func (f *fakeBackend) ListCredentials(ctx context.Context) ([]types.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Credential(nil), f.creds...), nil
}

func (f *fakeBackend) CreateCredential(ctx context.Context, req types.CreateCredentialRequest) (*types.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cred := types.Credential{ID: len(f.creds) + 1, Name: req.Name, Username: req.Username}
	f.creds = append(f.creds, cred)
	return &cred, nil
}

func (f *fakeBackend) DeleteCredential(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.creds {
		if f.creds[i].ID == id {
			f.creds = append(f.creds[:i], f.creds[i+1:]...)
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Detail: "Credential not found"}
}

// recordingObserver captures observer callbacks
type recordingObserver struct {
	mu          sync.Mutex
	fetches     map[string]int
	failures    map[string]int
	submissions []Submission
	fast        []bool
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{fetches: map[string]int{}, failures: map[string]int{}}
}

func (r *recordingObserver) FetchCompleted(view string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches[view]++
	if err != nil {
		r.failures[view]++
	}
}

func (r *recordingObserver) ActionSubmitted(s Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, s)
}

func (r *recordingObserver) FastWindowChanged(_ string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fast = append(r.fast, active)
}
