package httpapi

import (
	"net/http"

	"zenflow/internal/api"
	"zenflow/internal/logging"
	"zenflow/internal/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. The recorder may be nil, in which case /metrics is not served.
func NewRouter(businessAPI api.BusinessAPI, recorder *metrics.Recorder, log *logging.Logger) *gin.Engine {
	h := NewHandler(businessAPI, log)

	router := gin.New()
	router.Use(gin.Recovery())
	if recorder != nil {
		router.Use(recorder.Middleware())
		router.GET("/metrics", gin.WrapH(recorder.Handler()))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// applies to the routes registered below
	router.Use(h.exclusive())

	tasks := router.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.POST("/:id/complete", h.CompleteTask)
		tasks.POST("/:id/uncomplete", h.UncompleteTask)
	}

	habits := router.Group("/habits")
	{
		habits.GET("", h.ListHabits)
		habits.POST("", h.CreateHabit)
		habits.POST("/:id/toggle", h.ToggleHabit)
	}

	router.GET("/profile", h.Profile)
	router.GET("/achievements", h.Achievements)
	router.GET("/rewards", h.ListRewards)
	router.POST("/rewards/:id/redeem", h.RedeemReward)
	router.POST("/rollover", h.Rollover)
	router.GET("/export", h.Export)
	router.POST("/import", h.Import)

	return router
}
