package types

import (
	"encoding/json"
	"testing"
)

func TestTaskUnmarshalResult(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, task Task)
	}{
		{
			name:    "clone result",
			payload: `{"id":"t1","type":"clone_vm","status":"success","progress":100,"result":{"source":"db-01","target":"db-02","new_vm_moref":"42","ip_configured":true}}`,
			check: func(t *testing.T, task Task) {
				r, ok := task.Result.(CloneResult)
				if !ok {
					t.Fatalf("Result type = %T, want CloneResult", task.Result)
				}
				if r.NewVMMoref != "42" || !r.IPConfigured {
					t.Errorf("unexpected clone result %+v", r)
				}
				if task.Result.Kind() != TaskTypeCloneVM {
					t.Errorf("Kind() = %s", task.Result.Kind())
				}
			},
		},
		{
			name:    "power result",
			payload: `{"id":"t2","type":"power_ops","status":"success","result":{"action":"powerOff","power_state":"poweredOff"}}`,
			check: func(t *testing.T, task Task) {
				r, ok := task.Result.(PowerResult)
				if !ok || r.PowerState != "poweredOff" {
					t.Fatalf("unexpected result %#v", task.Result)
				}
			},
		},
		{
			name:    "unknown type keeps raw payload",
			payload: `{"id":"t3","type":"install_tools","status":"failed","message":"ssh timeout","result":{"log":"..."}}`,
			check: func(t *testing.T, task Task) {
				r, ok := task.Result.(RawResult)
				if !ok {
					t.Fatalf("Result type = %T, want RawResult", task.Result)
				}
				if r.Kind() != TaskTypeInstallTools || string(r.Data) != `{"log":"..."}` {
					t.Errorf("unexpected raw result %+v", r)
				}
				if task.Message != "ssh timeout" {
					t.Errorf("Message = %q", task.Message)
				}
			},
		},
		{
			name:    "null fields",
			payload: `{"id":"t4","type":"sync_host","status":"pending","target_id":null,"message":null,"result":null,"created_at":null}`,
			check: func(t *testing.T, task Task) {
				if task.Result != nil || task.TargetID != "" || !task.CreatedAt.IsZero() {
					t.Errorf("unexpected task %+v", task)
				}
				if !task.Status.Active() || task.Status.Terminal() {
					t.Errorf("pending should be active")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task Task
			if err := json.Unmarshal([]byte(tt.payload), &task); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			tt.check(t, task)
		})
	}
}

func TestTaskUnmarshalInvalidCloneResult(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":"t1","type":"clone_vm","result":"oops"}`), &task)
	if err == nil {
		t.Fatal("expected error for malformed clone result")
	}
}

func TestTaskSubject(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want string
	}{
		{
			name: "clone shows source and target",
			task: Task{Type: TaskTypeCloneVM, TargetID: "abc", Result: CloneResult{Source: "a", Target: "b"}},
			want: "a -> b",
		},
		{
			name: "target id prefix",
			task: Task{Type: TaskTypePowerOps, TargetID: "5f1c2a7e-3b0d-4e59"},
			want: "5f1c2a7e...",
		},
		{
			name: "no target",
			task: Task{Type: TaskTypeSyncHost},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Subject(); got != tt.want {
				t.Fatalf("Subject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePowerAction(t *testing.T) {
	if _, err := ParsePowerAction("reboot"); err != nil {
		t.Fatalf("ParsePowerAction(reboot) error = %v", err)
	}
	if _, err := ParsePowerAction("destroy"); err == nil {
		t.Fatal("ParsePowerAction(destroy) should fail")
	}
}

func TestVirtualMachineToolsHint(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"toolsNotInstalled", true},
		{"toolsNotRunning", true},
		{"toolsOk", false},
		{"toolsOld", false},
		{"", false},
	}
	for _, tt := range tests {
		vm := VirtualMachine{ToolsStatus: tt.status}
		if got := vm.NeedsTools(); got != tt.want {
			t.Errorf("NeedsTools(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
