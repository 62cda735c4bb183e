package console

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/pkg/types"
)

func sampleHosts() []types.EsxiHost {
	return []types.EsxiHost{
		{ID: 1, IP: "10.0.0.2", VMCount: 5, CPUUsage: 10, StorageTotalGB: 100, StorageFreeGB: 90, Version: "7.0"},
		{ID: 2, IP: "10.0.0.1", VMCount: 9, CPUUsage: 80, StorageTotalGB: 100, StorageFreeGB: 10, Version: "8.0"},
		{ID: 3, IP: "10.0.0.3", VMCount: 1, CPUUsage: 40, StorageTotalGB: 0, StorageFreeGB: 0, Version: "6.7"},
	}
}

func hostIDs(hosts []types.EsxiHost) []int {
	ids := make([]int, len(hosts))
	for i, h := range hosts {
		ids[i] = h.ID
	}
	return ids
}

func TestHostListSortToggle(t *testing.T) {
	fb := &fakeBackend{hosts: sampleHosts()}
	hl := NewHostList(fb, time.Second, testLogger(), nil)
	defer hl.Close()
	if err := hl.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	tests := []struct {
		key     HostSortKey
		wantDir SortDirection
		wantIDs []int
	}{
		{SortByVMCount, SortDesc, []int{2, 1, 3}},
		{SortByVMCount, SortAsc, []int{3, 1, 2}},
		{SortByVMCount, SortDesc, []int{2, 1, 3}},
		{SortByIP, SortDesc, []int{3, 1, 2}},
		{SortByStorageUsage, SortDesc, []int{2, 1, 3}},
		{SortByCPU, SortDesc, []int{2, 3, 1}},
		{SortByCPU, SortAsc, []int{1, 3, 2}},
	}

	for _, tt := range tests {
		hl.SortBy(tt.key)
		snap := hl.Snapshot()
		if snap.SortKey != tt.key || snap.SortDirection != tt.wantDir {
			t.Fatalf("SortBy(%s) state = %s %s, want %s", tt.key, snap.SortKey, snap.SortDirection, tt.wantDir)
		}
		if got := hostIDs(snap.Items); !reflect.DeepEqual(got, tt.wantIDs) {
			t.Fatalf("SortBy(%s %s) = %v, want %v", tt.key, tt.wantDir, got, tt.wantIDs)
		}
	}

	// a refresh keeps the active sort
	if err := hl.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := hostIDs(hl.Snapshot().Items); !reflect.DeepEqual(got, []int{1, 3, 2}) {
		t.Fatalf("after refresh = %v", got)
	}
}

func TestHostListSaveOrder(t *testing.T) {
	fb := &fakeBackend{hosts: sampleHosts()}
	hl := NewHostList(fb, time.Second, testLogger(), nil)
	defer hl.Close()
	ctx := context.Background()
	if err := hl.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	hl.SortBy(SortByIP)
	if _, err := hl.SaveOrder(ctx); err != nil {
		t.Fatalf("SaveOrder() error = %v", err)
	}
	if !reflect.DeepEqual(fb.reordered, []int{3, 1, 2}) {
		t.Fatalf("reordered = %v", fb.reordered)
	}

	if err := hl.SetOrder([]int{2, 2, 1}); !IsValidation(err) {
		t.Fatalf("SetOrder with repeat error = %v", err)
	}
	if err := hl.SetOrder([]int{2}); !IsValidation(err) {
		t.Fatalf("SetOrder with missing hosts error = %v", err)
	}
	if err := hl.SetOrder([]int{2, 3, 1}); err != nil {
		t.Fatalf("SetOrder() error = %v", err)
	}
	if snap := hl.Snapshot(); snap.SortKey != "" {
		t.Fatalf("manual order should clear sort, got %s", snap.SortKey)
	}
	if _, err := hl.SaveOrder(ctx); err != nil {
		t.Fatalf("SaveOrder() error = %v", err)
	}
	if !reflect.DeepEqual(fb.reordered, []int{2, 3, 1}) {
		t.Fatalf("reordered = %v", fb.reordered)
	}
}

func TestHostListSyncDelayedRefresh(t *testing.T) {
	fb := &fakeBackend{hosts: sampleHosts()}
	hl := NewHostList(fb, 30*time.Millisecond, testLogger(), nil)
	ctx := context.Background()
	if err := hl.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	id := 2
	if _, err := hl.Sync(ctx, &id); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if snap := hl.Snapshot(); !reflect.DeepEqual(snap.Syncing, []int{2}) {
		t.Fatalf("Syncing = %v", snap.Syncing)
	}
	if n := fb.hostCallCount(); n != 1 {
		t.Fatalf("refresh before delay: %d calls", n)
	}
	waitFor(t, time.Second, func() bool { return fb.hostCallCount() == 2 })
	waitFor(t, time.Second, func() bool { return len(hl.Snapshot().Syncing) == 0 })

	// closing cancels a pending delayed refresh
	if _, err := hl.Sync(ctx, nil); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	hl.Close()
	time.Sleep(80 * time.Millisecond)
	if n := fb.hostCallCount(); n != 2 {
		t.Fatalf("refresh after close: %d calls", n)
	}
	if len(fb.syncCalls) != 2 || fb.syncCalls[1] != nil {
		t.Fatalf("sync calls = %v", fb.syncCalls)
	}
}

func TestHostListProbe(t *testing.T) {
	fb := &fakeBackend{}
	hl := NewHostList(fb, time.Second, testLogger(), nil)
	ctx := context.Background()

	res, err := hl.Probe(ctx, types.AddHostRequest{IP: "10.0.0.9", Username: "root", Password: "pw"})
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if !res.Success || res.Version != "VMware ESXi 7.0.3" {
		t.Fatalf("probe = %+v", res)
	}
	if !fb.addReqs[0].ProbeOnly || len(fb.hosts) != 0 {
		t.Fatal("probe must not register the host")
	}

	fb.actionErr = &backend.APIError{StatusCode: 400, Detail: "Cannot complete login due to an incorrect user name or password."}
	res, err = hl.Probe(ctx, types.AddHostRequest{IP: "10.0.0.9", Username: "root", Password: "bad"})
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if res.Success || res.Message != "Cannot complete login due to an incorrect user name or password." {
		t.Fatalf("probe = %+v", res)
	}

	if _, err := hl.Probe(ctx, types.AddHostRequest{Username: "root"}); !IsValidation(err) {
		t.Fatalf("Probe() without ip error = %v", err)
	}
}

func TestHostListAddUpdateDelete(t *testing.T) {
	fb := &fakeBackend{}
	hl := NewHostList(fb, time.Second, testLogger(), nil)
	defer hl.Close()
	ctx := context.Background()
	if err := hl.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	host, err := hl.Add(ctx, types.AddHostRequest{IP: "10.0.0.9", Port: 443, Username: "root", Password: "pw", ProbeOnly: true})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if fb.addReqs[0].ProbeOnly {
		t.Fatal("Add must clear probe_only")
	}
	if len(hl.Snapshot().Items) != 1 {
		t.Fatal("list not reloaded after add")
	}

	if _, err := hl.Update(ctx, host.ID, types.UpdateHostRequest{Description: "rack B"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if hl.Snapshot().Items[0].Description != "rack B" {
		t.Fatal("list not reloaded after update")
	}

	if err := hl.Delete(ctx, host.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(hl.Snapshot().Items) != 0 {
		t.Fatal("list not reloaded after delete")
	}
	if err := hl.Delete(ctx, 42); !backend.IsNotFound(err) {
		t.Fatalf("Delete(42) error = %v", err)
	}
}
