package services

import (
	"sync"

	"zenflow/internal/logging"

	"go.uber.org/zap"
)

// NotificationKind classifies a user-facing message
type NotificationKind string

const (
	NotifySuccess     NotificationKind = "success"
	NotifyInfo        NotificationKind = "info"
	NotifyWarning     NotificationKind = "warning"
	NotifyPenalty     NotificationKind = "penalty"
	NotifyAchievement NotificationKind = "achievement"
	NotifyLevelUp     NotificationKind = "levelup"
	NotifyReward      NotificationKind = "reward"
)

// Notification is a message for the user
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the structured log
type LogNotifier struct {
	log *logging.Logger
}

// NewLogNotifier creates a notifier logging at info level
func NewLogNotifier(log *logging.Logger) *LogNotifier {
	if log == nil {
		log = logging.Nop()
	}
	return &LogNotifier{log: log.Named("notify")}
}

func (n *LogNotifier) Notify(note Notification) {
	n.log.Info(note.Message, zap.String("kind", string(note.Kind)))
}

// Collector buffers notifications until drained
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
}

// Drain returns every buffered notification in order and empties the buffer
func (c *Collector) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.items
	c.items = nil
	return items
}

// Fanout delivers each notification to every notifier in turn
type Fanout []Notifier

func (f Fanout) Notify(n Notification) {
	for _, notifier := range f {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}
