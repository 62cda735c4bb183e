package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetTasks godoc
// @Summary Get the task center
// @Description Returns the loaded tasks, paging and auto refresh state of the task center
// @Tags tasks
// @Produce json
// @Success 200 {object} console.TaskCenterSnapshot "Task center state"
// @Router /api/v1/console/tasks [get]
func (h *Handler) GetTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Tasks.Snapshot())
}

// OpenTasks godoc
// @Summary Open the task center
// @Description Loads the first page from scratch. While open, the list refreshes every few seconds as long as a task is pending or running.
// @Tags tasks
// @Produce json
// @Success 200 {object} console.TaskCenterSnapshot "Task center state"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/tasks/open [post]
func (h *Handler) OpenTasks(c *gin.Context) {
	if err := h.session.Tasks.Open(c.Request.Context()); err != nil {
		h.respondError(c, err, "Failed to load tasks")
		return
	}
	c.JSON(http.StatusOK, h.session.Tasks.Snapshot())
}

// CloseTasks godoc
// @Summary Close the task center
// @Tags tasks
// @Produce json
// @Success 200 {object} console.TaskCenterSnapshot "Task center state"
// @Router /api/v1/console/tasks/close [post]
func (h *Handler) CloseTasks(c *gin.Context) {
	h.session.Tasks.Close()
	c.JSON(http.StatusOK, h.session.Tasks.Snapshot())
}

// RefreshTasks godoc
// @Summary Reload the first task page
// @Description Replaces the first page and keeps any pages loaded after it
// @Tags tasks
// @Produce json
// @Success 200 {object} console.TaskCenterSnapshot "Task center state"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/tasks/refresh [post]
func (h *Handler) RefreshTasks(c *gin.Context) {
	if err := h.session.Tasks.Refresh(c.Request.Context()); err != nil {
		h.respondError(c, err, "Failed to refresh tasks")
		return
	}
	c.JSON(http.StatusOK, h.session.Tasks.Snapshot())
}

// LoadMoreTasks godoc
// @Summary Load the next task page
// @Description Appends the next page, skipping tasks already shown
// @Tags tasks
// @Produce json
// @Success 200 {object} console.TaskCenterSnapshot "Task center state"
// @Failure 502 {object} types.ErrorResponse "Backend error"
// @Failure 503 {object} types.ErrorResponse "Backend unavailable"
// @Router /api/v1/console/tasks/load-more [post]
func (h *Handler) LoadMoreTasks(c *gin.Context) {
	if err := h.session.Tasks.LoadMore(c.Request.Context()); err != nil {
		h.respondError(c, err, "Failed to load more tasks")
		return
	}
	c.JSON(http.StatusOK, h.session.Tasks.Snapshot())
}
