package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nirarg/esxi-console/internal/config"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestClient(t *testing.T, router *gin.Engine) *Client {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := NewClient(config.BackendConfig{
		BaseURL:        srv.URL + "/api",
		Token:          "test-token",
		RequestTimeout: 2 * time.Second,
	}, logger)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestListVMsQuery(t *testing.T) {
	router := gin.New()
	var gotQuery map[string]string
	var gotAuth, gotRequestID string
	router.GET("/api/virtualization/vms", func(c *gin.Context) {
		gotAuth = c.GetHeader("Authorization")
		gotRequestID = c.GetHeader("X-Request-ID")
		gotQuery = map[string]string{}
		for k, v := range c.Request.URL.Query() {
			gotQuery[k] = v[0]
		}
		c.JSON(http.StatusOK, gin.H{
			"total": 12,
			"items": []gin.H{{"id": "vm-1", "name": "web-01", "power_state": "poweredOn"}},
		})
	})

	client := newTestClient(t, router)
	hostID := 3
	page, err := client.ListVMs(context.Background(), types.VMListParams{
		HostID:   &hostID,
		Keyword:  "web",
		Status:   "poweredOn",
		Page:     2,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("ListVMs() error = %v", err)
	}

	want := map[string]string{"host_id": "3", "keyword": "web", "status": "poweredOn", "page": "2", "page_size": "10"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header not set")
	}
	if page.Total != 12 || len(page.Items) != 1 || !page.Items[0].PoweredOn() {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestListVMsOmitsEmptyFilters(t *testing.T) {
	router := gin.New()
	var rawQuery string
	router.GET("/api/virtualization/vms", func(c *gin.Context) {
		rawQuery = c.Request.URL.RawQuery
		c.JSON(http.StatusOK, gin.H{"total": 0, "items": nil})
	})

	client := newTestClient(t, router)
	page, err := client.ListVMs(context.Background(), types.VMListParams{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListVMs() error = %v", err)
	}
	if rawQuery != "page=1&page_size=10" {
		t.Errorf("query = %q", rawQuery)
	}
	if page.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "string detail",
			status:     http.StatusBadRequest,
			body:       `{"detail":"Cannot clone a powered on VM"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "Cannot clone a powered on VM",
		},
		{
			name:       "validation list",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail":[{"loc":["body","ip"],"msg":"field required"},{"msg":"value is not a valid integer"}]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "field required; value is not a valid integer",
		},
		{
			name:       "plain text",
			status:     http.StatusBadGateway,
			body:       "upstream unavailable",
			wantStatus: http.StatusBadGateway,
			wantDetail: "upstream unavailable",
		},
		{
			name:       "html page is not a detail",
			status:     http.StatusInternalServerError,
			body:       "<html><body>500</body></html>",
			wantStatus: http.StatusInternalServerError,
			wantDetail: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/api/virtualization/vms/:id/power", func(c *gin.Context) {
				c.Data(tt.status, "application/json", []byte(tt.body))
			})
			client := newTestClient(t, router)

			_, err := client.PowerAction(context.Background(), "vm-1", types.PowerActionPowerOn)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.wantStatus)
			}
			if apiErr.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", apiErr.Detail, tt.wantDetail)
			}
			if got := Message(err, "Operation failed"); tt.wantDetail == "" && got != "Operation failed" {
				t.Errorf("Message() = %q, want fallback", got)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: url, RequestTimeout: time.Second}, logger)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.ListHosts(context.Background())
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	if !IsTransport(err) {
		t.Fatalf("IsTransport() = false for %v", err)
	}
	if got := Message(err, "Failed to load hosts"); got != "Failed to load hosts" {
		t.Errorf("Message() = %q", got)
	}
}

func TestRequestCanceled(t *testing.T) {
	router := gin.New()
	release := make(chan struct{})
	router.GET("/api/tasks", func(c *gin.Context) {
		select {
		case <-release:
		case <-c.Request.Context().Done():
		}
	})
	client := newTestClient(t, router)
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.ListTasks(ctx, types.TaskListParams{Page: 1, PageSize: 5})
	if !IsCanceled(err) {
		t.Fatalf("expected canceled error, got %v", err)
	}
}

func TestMutatingRequests(t *testing.T) {
	router := gin.New()
	var cloneBody types.CloneRequest
	var installBody types.InstallToolsRequest
	var syncBody map[string]interface{}
	var reorderBody types.ReorderRequest
	deleted := map[string]bool{}

	api := router.Group("/api")
	api.POST("/virtualization/vms/:id/clone", func(c *gin.Context) {
		if err := c.ShouldBindJSON(&cloneBody); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"task_id": "t-clone", "status": "pending", "message": "clone submitted"})
	})
	api.POST("/virtualization/vms/:id/install-tools", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&installBody)
		c.JSON(http.StatusOK, gin.H{"task_id": "t-tools", "status": "pending"})
	})
	api.POST("/virtualization/vms/:id/snapshots/:sid/revert", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"task_id": "t-revert-" + c.Param("sid"), "status": "pending"})
	})
	api.POST("/virtualization/sync", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&syncBody)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sync started for all hosts"})
	})
	api.POST("/virtualization/hosts/reorder", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&reorderBody)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	api.DELETE("/virtualization/hosts/:id", func(c *gin.Context) {
		deleted["host/"+c.Param("id")] = true
		c.Status(http.StatusNoContent)
	})
	api.DELETE("/credentials/:id", func(c *gin.Context) {
		deleted["credential/"+c.Param("id")] = true
		c.Status(http.StatusNoContent)
	})

	client := newTestClient(t, router)
	ctx := context.Background()

	resp, err := client.CloneVM(ctx, "vm-1", types.CloneRequest{NewName: "web-01-clone", PowerOn: true, DNS: []string{"8.8.8.8"}})
	if err != nil {
		t.Fatalf("CloneVM() error = %v", err)
	}
	if resp.TaskID != "t-clone" || resp.Message != "clone submitted" {
		t.Errorf("unexpected clone response %+v", resp)
	}
	if cloneBody.NewName != "web-01-clone" || !cloneBody.PowerOn || len(cloneBody.DNS) != 1 {
		t.Errorf("unexpected clone body %+v", cloneBody)
	}

	credID := 4
	if _, err := client.InstallTools(ctx, "vm-1", types.InstallToolsRequest{IP: "10.0.0.5", CredentialID: &credID}); err != nil {
		t.Fatalf("InstallTools() error = %v", err)
	}
	if installBody.CredentialID == nil || *installBody.CredentialID != 4 || installBody.Password != "" {
		t.Errorf("unexpected install body %+v", installBody)
	}

	revert, err := client.RevertSnapshot(ctx, "vm-1", "snap-2")
	if err != nil {
		t.Fatalf("RevertSnapshot() error = %v", err)
	}
	if revert.TaskID != "t-revert-snap-2" {
		t.Errorf("revert task = %q", revert.TaskID)
	}

	if _, err := client.SyncHosts(ctx, nil); err != nil {
		t.Fatalf("SyncHosts() error = %v", err)
	}
	if _, ok := syncBody["host_id"]; ok {
		t.Errorf("sync all should omit host_id, got %v", syncBody)
	}

	if _, err := client.ReorderHosts(ctx, []int{3, 1, 2}); err != nil {
		t.Fatalf("ReorderHosts() error = %v", err)
	}
	if len(reorderBody.HostIDs) != 3 || reorderBody.HostIDs[0] != 3 {
		t.Errorf("reorder body = %+v", reorderBody)
	}

	if err := client.DeleteHost(ctx, 7); err != nil {
		t.Fatalf("DeleteHost() error = %v", err)
	}
	if err := client.DeleteCredential(ctx, 9); err != nil {
		t.Fatalf("DeleteCredential() error = %v", err)
	}
	if !deleted["host/7"] || !deleted["credential/9"] {
		t.Errorf("deletes not received: %v", deleted)
	}
}

func TestListTasksDecodesResults(t *testing.T) {
	router := gin.New()
	router.GET("/api/tasks", func(c *gin.Context) {
		if c.Query("status") != "running" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "expected status filter"})
			return
		}
		c.Data(http.StatusOK, "application/json", []byte(`{
			"total": 2,
			"items": [
				{"id":"t1","type":"clone_vm","target_id":"abcd-ef","status":"running","progress":40,
				 "result":{"source":"web-01","target":"web-01-clone","ip_configured":false},
				 "created_at":"2024-01-15T14:30:00Z","updated_at":"2024-01-15T14:31:00Z"},
				{"id":"t2","type":"sync_host","target_id":null,"status":"running","progress":10,"message":null,"result":null}
			]
		}`))
	})

	client := newTestClient(t, router)
	page, err := client.ListTasks(context.Background(), types.TaskListParams{Status: types.TaskStatusRunning, Page: 1, PageSize: 5})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if got := page.Items[0].Subject(); got != "web-01 -> web-01-clone" {
		t.Errorf("Subject() = %q", got)
	}
	if page.Items[1].Result != nil {
		t.Errorf("null result should decode to nil, got %#v", page.Items[1].Result)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(config.BackendConfig{BaseURL: "http://[::1"}, logrus.New())
	if err == nil || !strings.Contains(err.Error(), "invalid backend URL") {
		t.Fatalf("NewClient() error = %v", err)
	}
}
