// Package notify shows short user-facing notifications. Repeated messages are
// collapsed inside a time window and each category keeps at most one visible
// notification.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultWindow = 2 * time.Second

type Category string

const (
	CategoryCart    Category = "cart"
	CategoryError   Category = "error"
	CategoryGeneral Category = "general"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notification struct {
	ID       string
	Category Category
	Level    Level
	Message  string
	At       time.Time
}

// Sink renders notifications.
type Sink interface {
	Show(n Notification)
	Dismiss(id string)
}

type Center struct {
	mu        sync.Mutex
	sink      Sink
	window    time.Duration
	now       func() time.Time
	lastShown map[string]time.Time
	active    map[Category]string
}

type Option func(*Center)

func WithWindow(d time.Duration) Option {
	return func(c *Center) {
		c.window = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		c.now = now
	}
}

func NewCenter(sink Sink, opts ...Option) *Center {
	c := &Center{
		sink:      sink,
		window:    DefaultWindow,
		now:       time.Now,
		lastShown: make(map[string]time.Time),
		active:    make(map[Category]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify shows message unless the same text was shown less than the window
// ago. It reports whether the notification was shown.
func (c *Center) Notify(category Category, level Level, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for msg, at := range c.lastShown {
		if now.Sub(at) >= c.window {
			delete(c.lastShown, msg)
		}
	}

	if _, recent := c.lastShown[message]; recent {
		return false
	}

	if id, ok := c.active[category]; ok {
		c.sink.Dismiss(id)
		delete(c.active, category)
	}

	n := Notification{
		ID:       uuid.NewString(),
		Category: category,
		Level:    level,
		Message:  message,
		At:       now,
	}
	c.sink.Show(n)
	c.active[category] = n.ID
	c.lastShown[message] = now
	return true
}

func (c *Center) Success(category Category, message string) bool {
	return c.Notify(category, LevelSuccess, message)
}

func (c *Center) Error(message string) bool {
	return c.Notify(CategoryError, LevelError, message)
}

func (c *Center) Info(message string) bool {
	return c.Notify(CategoryGeneral, LevelInfo, message)
}

// DismissAll hides every active notification.
func (c *Center) DismissAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for category, id := range c.active {
		c.sink.Dismiss(id)
		delete(c.active, category)
	}
}
