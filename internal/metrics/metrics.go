package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zenflow"

// Recorder counts engine events. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	completions     *prometheus.CounterVec
	uncompletions   *prometheus.CounterVec
	levelUps        prometheus.Counter
	unlocks         *prometheus.CounterVec
	overduePenalty  prometheus.Counter
	goldEarned      prometheus.Counter
	focusSessions   prometheus.Counter
	recurrences     prometheus.Counter
	persistFailures *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_completions_total",
			Help:      "Tasks completed, by difficulty",
		}, []string{"difficulty"}),
		uncompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_uncompletions_total",
			Help:      "Tasks marked incomplete again, by difficulty",
		}, []string{"difficulty"}),
		levelUps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_ups_total",
			Help:      "Levels gained",
		}),
		unlocks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievement_unlocks_total",
			Help:      "Achievements unlocked, by id",
		}, []string{"achievement"}),
		overduePenalty: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overdue_penalty_hp_total",
			Help:      "Health points deducted for overdue tasks",
		}),
		goldEarned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gold_earned_total",
			Help:      "Gold added to the balance",
		}),
		focusSessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_sessions_total",
			Help:      "Completed focus work sessions",
		}),
		recurrences: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurrence_spawns_total",
			Help:      "Recurring task occurrences generated",
		}),
		persistFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Swallowed record store failures, by record key",
		}, []string{"key"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func (r *Recorder) TaskCompleted(difficulty string) {
	if r == nil {
		return
	}
	r.completions.WithLabelValues(difficulty).Inc()
}

func (r *Recorder) TaskUncompleted(difficulty string) {
	if r == nil {
		return
	}
	r.uncompletions.WithLabelValues(difficulty).Inc()
}

func (r *Recorder) LevelsGained(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.levelUps.Add(float64(n))
}

func (r *Recorder) AchievementUnlocked(id string) {
	if r == nil {
		return
	}
	r.unlocks.WithLabelValues(id).Inc()
}

func (r *Recorder) OverduePenalty(hp int) {
	if r == nil || hp <= 0 {
		return
	}
	r.overduePenalty.Add(float64(hp))
}

func (r *Recorder) GoldEarned(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.goldEarned.Add(float64(n))
}

func (r *Recorder) FocusSessionCompleted() {
	if r == nil {
		return
	}
	r.focusSessions.Inc()
}

func (r *Recorder) RecurrencesSpawned(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.recurrences.Add(float64(n))
}

func (r *Recorder) PersistFailed(key string) {
	if r == nil {
		return
	}
	r.persistFailures.WithLabelValues(key).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Middleware records duration and count of every request by route
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if r == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		r.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
