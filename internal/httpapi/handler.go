package httpapi

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"zenflow/internal/api"
	"zenflow/internal/domain"
	"zenflow/internal/errors"
	"zenflow/internal/logging"
	"zenflow/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxImportBytes bounds the size of an uploaded backup
const maxImportBytes = 10 << 20

// Handler serves the engine over HTTP
type Handler struct {
	api api.BusinessAPI
	log *logging.Logger
	// mu spans one request so the notifications it drains are the ones it raised
	mu sync.Mutex
}

// NewHandler creates a new Handler instance
func NewHandler(businessAPI api.BusinessAPI, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{api: businessAPI, log: log.Named("http")}
}

// exclusive runs one engine request at a time and discards notifications a failed request left behind
func (h *Handler) exclusive() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.mu.Lock()
		defer h.mu.Unlock()
		c.Next()
		h.api.Notifications()
	}
}

// respond writes data together with any notifications the request raised
func (h *Handler) respond(c *gin.Context, status int, data any) {
	notes := h.api.Notifications()
	if notes == nil {
		notes = []services.Notification{}
	}
	c.JSON(status, gin.H{"data": data, "notifications": notes})
}

// fail maps an error to a status code and writes it
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if errors.ShouldLogError(err) {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": errors.GetUserMessage(err), "code": errors.GetErrorCode(err)})
}

func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput, errors.ErrorTypeImport:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeInsufficientFunds:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "BAD_REQUEST"})
}

// ListTasks filters tasks with the q, status, priority, project, tag and sort query parameters
func (h *Handler) ListTasks(c *gin.Context) {
	opts := domain.SearchOptions{
		Text:    c.Query("q"),
		Project: c.Query("project"),
		Tag:     c.Query("tag"),
		Sort:    domain.SortOrder(c.DefaultQuery("sort", string(domain.SortDefault))),
	}
	for _, s := range splitList(c.Query("status")) {
		opts.Status = append(opts.Status, domain.TaskStatus(s))
	}
	for _, p := range splitList(c.Query("priority")) {
		opts.Priority = append(opts.Priority, domain.Priority(p))
	}

	tasks, err := h.api.ListTasks(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var in domain.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	task, err := h.api.CreateTask(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusCreated, task)
}

func (h *Handler) GetTask(c *gin.Context) {
	task, err := h.api.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var patch domain.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, err)
		return
	}
	task, err := h.api.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.api.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteTask answers with null data when the task was already completed
func (h *Handler) CompleteTask(c *gin.Context) {
	result, err := h.api.CompleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, result)
}

func (h *Handler) UncompleteTask(c *gin.Context) {
	result, err := h.api.UncompleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, result)
}

func (h *Handler) ListHabits(c *gin.Context) {
	habits, err := h.api.ListHabits(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, habits)
}

func (h *Handler) CreateHabit(c *gin.Context) {
	var in domain.HabitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}
	habit, err := h.api.CreateHabit(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusCreated, habit)
}

func (h *Handler) ToggleHabit(c *gin.Context) {
	result, err := h.api.ToggleHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, result)
}

func (h *Handler) Profile(c *gin.Context) {
	dash, err := h.api.GetDashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, dash)
}

func (h *Handler) Achievements(c *gin.Context) {
	statuses, err := h.api.ListAchievements(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, statuses)
}

func (h *Handler) ListRewards(c *gin.Context) {
	rewards, err := h.api.ListRewards(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, rewards)
}

func (h *Handler) RedeemReward(c *gin.Context) {
	reward, err := h.api.RedeemReward(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, reward)
}

func (h *Handler) Rollover(c *gin.Context) {
	report, err := h.api.Rollover(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, report)
}

// Export streams the backup bundle as a download
func (h *Handler) Export(c *gin.Context) {
	data, err := h.api.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="zenflow-backup.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Import reads a backup bundle from the raw request body
func (h *Handler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.api.Import(c.Request.Context(), data); err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, gin.H{"imported": true})
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
