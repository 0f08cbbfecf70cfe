package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/realtypilot/realtypilot/internal/config"
)

// ConversationLogEvent is one logged chat turn.
type ConversationLogEvent struct {
	Timestamp string         `json:"ts"`
	Slug      string         `json:"slug"`
	RequestID string         `json:"request_id,omitempty"`
	Direction string         `json:"direction"`  // "outbound" toward provider, "inbound" back to client
	EventType string         `json:"event_type"` // "chat_user_message" or "chat_assistant_message"
	Content   string         `json:"content"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// ConversationLogger records chat turns for diagnostics. Implementations must
// never block or fail the request path.
type ConversationLogger interface {
	Log(event ConversationLogEvent)
	Close() error
}

type noopConversationLogger struct{}

func (noopConversationLogger) Log(ConversationLogEvent) {}
func (noopConversationLogger) Close() error             { return nil }

// NewConversationLogger returns an async NDJSON logger writing one file per
// agent slug under cfg.Dir, or a no-op logger when disabled.
func NewConversationLogger(cfg config.ConversationLogConfig, logger *slog.Logger) (ConversationLogger, error) {
	if !cfg.Enabled {
		return noopConversationLogger{}, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create conversation log dir: %w", err)
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1000
	}

	l := &fileConversationLogger{
		dir:    cfg.Dir,
		queue:  make(chan ConversationLogEvent, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go l.run()
	return l, nil
}

// fileConversationLogger appends events through a bounded queue and a single
// writer goroutine. When the queue is full, events are dropped rather than
// blocking a request.
type fileConversationLogger struct {
	dir       string
	queue     chan ConversationLogEvent
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// Log enqueues an event, stamping the time if the caller did not.
func (l *fileConversationLogger) Log(event ConversationLogEvent) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	select {
	case l.queue <- event:
	default:
		l.logger.Warn("conversation log queue full, dropping event", "slug", event.Slug)
	}
}

// Close drains the queue and stops the writer goroutine.
func (l *fileConversationLogger) Close() error {
	l.closeOnce.Do(func() {
		close(l.queue)
	})
	<-l.done
	return nil
}

func (l *fileConversationLogger) run() {
	defer close(l.done)
	for event := range l.queue {
		l.write(event)
	}
}

func (l *fileConversationLogger) write(event ConversationLogEvent) {
	slug := event.Slug
	if slug == "" {
		slug = "unknown"
	}
	path := filepath.Join(l.dir, slug+".ndjson")

	line, err := json.Marshal(event)
	if err != nil {
		l.logger.Warn("failed to marshal conversation log event", "error", err, "slug", slug)
		return
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.logger.Warn("failed to open conversation log file", "error", err, "path", path)
		return
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		l.logger.Warn("failed to write conversation log event", "error", err, "path", path)
	}
	if err := f.Close(); err != nil {
		l.logger.Warn("failed to close conversation log file", "error", err, "path", path)
	}
}
