package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/books-api/internal/tasks"
)

// TaskQueue is the part of the background queue the controller uses.
type TaskQueue interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// CleanupTrigger enqueues an audit retention run on demand.
type CleanupTrigger interface {
	RunNow() string
}

// TasksController handles task queue endpoints.
type TasksController struct {
	queue   TaskQueue
	cleanup CleanupTrigger
}

// NewTasksController creates a new TasksController. cleanup may be nil.
func NewTasksController(queue TaskQueue, cleanup CleanupTrigger) *TasksController {
	return &TasksController{queue: queue, cleanup: cleanup}
}

// GetTaskStatus handles GET /tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunAuditCleanup handles POST /tasks/audit-cleanup
func (tc *TasksController) RunAuditCleanup(c *gin.Context) {
	if tc.cleanup == nil {
		respondNotFound(c, "audit cleanup")
		return
	}

	taskID := tc.cleanup.RunNow()
	if taskID == "" {
		respondInternalError(c, errEnqueueFailed, "enqueue audit cleanup")
		return
	}

	respondAccepted(c, "task enqueued", gin.H{
		"task_id": taskID,
		"type":    tasks.QueueCleanupAuditEvents,
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
