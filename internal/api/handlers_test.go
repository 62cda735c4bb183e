package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/internal/config"
	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/internal/storage"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend records what the console sent to the virtualization backend
type fakeBackend struct {
	mu           sync.Mutex
	installs     []types.InstallToolsRequest
	powerActions []string
}

func (f *fakeBackend) router() *gin.Engine {
	r := gin.New()
	api := r.Group("/api")

	api.GET("/virtualization/vms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"total": 12,
			"items": []gin.H{
				{"id": "vm-1", "name": "web-01", "power_state": "poweredOff", "ip_address": "10.0.0.5", "tools_status": "toolsNotInstalled"},
				{"id": "vm-2", "name": "db-01", "power_state": "poweredOn", "ip_address": "10.0.0.6"},
			},
		})
	})
	api.POST("/virtualization/vms/:id/power", func(c *gin.Context) {
		var req types.PowerActionRequest
		_ = c.ShouldBindJSON(&req)
		f.mu.Lock()
		f.powerActions = append(f.powerActions, c.Param("id")+":"+string(req.Action))
		f.mu.Unlock()
		c.JSON(http.StatusOK, types.AsyncTaskResponse{TaskID: "t-power", Status: "pending", Message: "power task submitted"})
	})
	api.POST("/virtualization/vms/:id/clone", func(c *gin.Context) {
		c.JSON(http.StatusOK, types.AsyncTaskResponse{TaskID: "t-clone", Status: "pending", Message: "clone task submitted"})
	})
	api.POST("/virtualization/vms/:id/install-tools", func(c *gin.Context) {
		var req types.InstallToolsRequest
		_ = c.ShouldBindJSON(&req)
		f.mu.Lock()
		f.installs = append(f.installs, req)
		f.mu.Unlock()
		c.JSON(http.StatusOK, types.AsyncTaskResponse{TaskID: "t-tools", Status: "pending"})
	})
	api.GET("/tasks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"total": 1,
			"items": []gin.H{{"id": "t-clone", "type": "clone_vm", "status": "running", "progress": 10}},
		})
	})
	api.GET("/credentials", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"id": 3, "name": "linux", "username": "admin"}})
	})
	api.GET("/virtualization/hosts", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{})
	})
	api.POST("/virtualization/hosts", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot complete login due to an incorrect user name or password."})
	})
	return r
}

type testServer struct {
	router  *gin.Engine
	db      *storage.ConsoleDB
	session *console.Session
	backend *fakeBackend
}

func newTestServer(t *testing.T, baseURL string) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	fb := &fakeBackend{}
	if baseURL == "" {
		srv := httptest.NewServer(fb.router())
		t.Cleanup(srv.Close)
		baseURL = srv.URL + "/api"
	}

	client, err := backend.NewClient(config.BackendConfig{BaseURL: baseURL, RequestTimeout: 2 * time.Second}, log)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := storage.NewConsoleDB(gdb, log)
	if err != nil {
		t.Fatalf("NewConsoleDB() error = %v", err)
	}

	journal := storage.NewJournal(db, log)
	t.Cleanup(journal.Close)

	session, err := console.NewSession(client, config.DefaultConfig().Console, log, journal)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(session.Close)

	router := gin.New()
	NewHandler(session, db, db, log).RegisterRoutes(router.Group("/api/v1/console"))
	return &testServer{router: router, db: db, session: session, backend: fb}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, "/api/v1/console"+path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestGetVMsOpensView(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/vms", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	snap := decode[console.VMListSnapshot](t, rec)
	if !snap.Open || len(snap.Items) != 2 || snap.Total != 12 || snap.TotalPages != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.RefreshMinutes != 5 || snap.FastPolling {
		t.Fatalf("polling state = %d fast=%v", snap.RefreshMinutes, snap.FastPolling)
	}
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodGet, "/vms", nil)

	tests := []struct {
		name     string
		method   string
		path     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{"invalid status filter", http.MethodPut, "/vms/filter", gin.H{"status": "running"}, http.StatusBadRequest, CodeValidationFailed},
		{"unknown power action", http.MethodPost, "/vms/vm-1/power", gin.H{"action": "explode"}, http.StatusBadRequest, CodeValidationFailed},
		{"missing power action", http.MethodPost, "/vms/vm-1/power", gin.H{}, http.StatusBadRequest, CodeInvalidRequest},
		{"blank install ip", http.MethodPost, "/vms/vm-1/install-tools", gin.H{"ip": "   ", "password": "pw"}, http.StatusBadRequest, CodeValidationFailed},
		{"clone running vm", http.MethodPost, "/vms/vm-2/clone", gin.H{}, http.StatusBadRequest, CodeValidationFailed},
		{"clone vm not displayed", http.MethodPost, "/vms/vm-9/clone", gin.H{}, http.StatusNotFound, CodeNotFound},
		{"host rejected login", http.MethodPost, "/hosts", gin.H{"ip": "10.0.0.9", "username": "root", "password": "bad"}, http.StatusBadRequest, CodeBackendRejected},
		{"bad host id", http.MethodDelete, "/hosts/abc", nil, http.StatusBadRequest, CodeInvalidID},
		{"unknown sort key", http.MethodPost, "/hosts/sort", gin.H{"key": "uptime"}, http.StatusBadRequest, CodeInvalidRequest},
		{"unsupported refresh", http.MethodPut, "/preferences/refresh", gin.H{"minutes": 7}, http.StatusBadRequest, CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			resp := decode[types.ErrorResponse](t, rec)
			if resp.Code != tt.wantErr {
				t.Fatalf("code = %s, want %s", resp.Code, tt.wantErr)
			}
		})
	}
}

func TestBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := newTestServer(t, url+"/api")
	rec := s.do(t, http.MethodGet, "/vms", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp := decode[types.ErrorResponse](t, rec); resp.Code != CodeBackendUnavailable {
		t.Fatalf("code = %s", resp.Code)
	}
}

func TestPowerOpensFastWindowAndJournals(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodGet, "/vms", nil)

	rec := s.do(t, http.MethodPost, "/vms/vm-1/power", gin.H{"action": "powerOn"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp := decode[types.AsyncTaskResponse](t, rec); resp.TaskID != "t-power" || resp.Message != "power task submitted" {
		t.Fatalf("response = %+v", resp)
	}

	snap := decode[console.VMListSnapshot](t, s.do(t, http.MethodGet, "/vms", nil))
	if !snap.FastPolling || snap.IntervalSeconds != 15 {
		t.Fatalf("fast window not open: %+v", snap)
	}

	// the journal writes in the background
	var records []storage.SubmissionRecord
	for deadline := time.Now().Add(2 * time.Second); time.Now().Before(deadline); time.Sleep(10 * time.Millisecond) {
		records = decode[[]storage.SubmissionRecord](t, s.do(t, http.MethodGet, "/submissions?view=vms", nil))
		if len(records) > 0 {
			break
		}
	}
	if len(records) != 1 || records[0].TaskID != "t-power" || !records[0].Success {
		t.Fatalf("journal = %+v", records)
	}
	if rec := s.do(t, http.MethodGet, "/submissions?limit=0", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("limit=0 status = %d", rec.Code)
	}
}

func TestCloneOpensTaskCenter(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodGet, "/vms", nil)

	rec := s.do(t, http.MethodPost, "/vms/vm-1/clone", gin.H{"new_name": "web-02", "auto_config_ip": true, "new_ip": "10.0.0.7", "guest_password": "pw"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	tasks := decode[console.TaskCenterSnapshot](t, s.do(t, http.MethodGet, "/tasks", nil))
	if !tasks.Open || len(tasks.Items) != 1 || tasks.Items[0].ID != "t-clone" {
		t.Fatalf("task center = %+v", tasks)
	}
}

func TestInstallToolsWithCredential(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodGet, "/vms", nil)

	rec := s.do(t, http.MethodPost, "/vms/vm-1/install-tools", gin.H{"credential_id": 3, "password": "typed"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("password plus credential status = %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/vms/vm-1/install-tools", gin.H{"credential_id": 99})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown credential status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/vms/vm-1/install-tools", gin.H{"credential_id": 3})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if len(s.backend.installs) != 1 {
		t.Fatalf("backend installs = %d", len(s.backend.installs))
	}
	got := s.backend.installs[0]
	if got.IP != "10.0.0.5" || got.Username != "admin" || got.Password != "" || got.CredentialID == nil || *got.CredentialID != 3 {
		t.Fatalf("install request = %+v", got)
	}
}

func TestProbeReportsRejectedLogin(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/hosts/probe", gin.H{"ip": "10.0.0.9", "username": "root", "password": "bad"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	res := decode[console.ProbeResult](t, rec)
	if res.Success || res.Message != "Cannot complete login due to an incorrect user name or password." {
		t.Fatalf("probe = %+v", res)
	}
}

func TestRefreshPreferenceIsStored(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPut, "/preferences/refresh", gin.H{"minutes": 30})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if snap := decode[console.VMListSnapshot](t, rec); snap.RefreshMinutes != 30 {
		t.Fatalf("refresh minutes = %d", snap.RefreshMinutes)
	}

	pref, err := s.db.GetPreference(context.Background(), console.ViewVMs)
	if err != nil || pref == nil || pref.RefreshMinutes != 30 {
		t.Fatalf("stored preference = %+v, %v", pref, err)
	}

	// a second server restores the stored interval
	s2 := newTestServer(t, "")
	if err := s2.db.SavePreference(context.Background(), storage.ViewPreference{View: console.ViewVMs, RefreshMinutes: 60, PageSize: 20}); err != nil {
		t.Fatalf("SavePreference() error = %v", err)
	}
	h := NewHandler(s2.session, s2.db, s2.db, logrus.New())
	if err := h.RestorePreferences(context.Background()); err != nil {
		t.Fatalf("RestorePreferences() error = %v", err)
	}
	snap := s2.session.VMs.Snapshot()
	if snap.RefreshMinutes != 60 || snap.Filter.PageSize != 20 {
		t.Fatalf("restored state = %d minutes, page size %d", snap.RefreshMinutes, snap.Filter.PageSize)
	}
}

func TestPageSizeIsStored(t *testing.T) {
	s := newTestServer(t, "")
	ctx := context.Background()

	if rec := s.do(t, http.MethodPut, "/preferences/refresh", gin.H{"minutes": 10}); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec := s.do(t, http.MethodPut, "/vms/filter", gin.H{"page_size": 50})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	pref, err := s.db.GetPreference(ctx, console.ViewVMs)
	if err != nil || pref == nil {
		t.Fatalf("stored preference = %+v, %v", pref, err)
	}
	if pref.PageSize != 50 || pref.RefreshMinutes != 10 {
		t.Errorf("stored preference = %d minutes, page size %d; want 10, 50", pref.RefreshMinutes, pref.PageSize)
	}

	// filters without a page size leave the preference alone
	if rec := s.do(t, http.MethodPut, "/vms/filter", gin.H{"status": "poweredOn"}); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if pref, _ := s.db.GetPreference(ctx, console.ViewVMs); pref.PageSize != 50 {
		t.Errorf("page size = %d after status filter, want 50", pref.PageSize)
	}
}

func TestValidationDetailsListFields(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodGet, "/vms", nil)

	rec := s.do(t, http.MethodPost, "/vms/vm-9/install-tools", gin.H{"ip": "  ", "password": "pw"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp := decode[types.ErrorResponse](t, rec); resp.Details != "ip is required" {
		t.Fatalf("details = %q, want %q", resp.Details, "ip is required")
	}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if len(s.backend.installs) != 0 {
		t.Fatalf("backend installs = %d, want none", len(s.backend.installs))
	}
}
