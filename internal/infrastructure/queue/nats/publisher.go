// Package nats publishes fire-and-forget corpus lifecycle events. Publishing
// is best-effort: ingestion never fails because the event bus is down.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

type Publisher struct {
	conn    *nats.Conn
	subject string
}

type Options struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
}

func New(url, subject string) (*Publisher, error) {
	return NewWithOptions(url, subject, Options{})
}

func NewWithOptions(url, subject string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}

	conn, err := nats.Connect(
		url,
		nats.Name("ai-rag-agent"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

type corpusReplacedEvent struct {
	SessionID  string    `json:"session_id"`
	ChunkCount int       `json:"chunk_count"`
	ReplacedAt time.Time `json:"replaced_at"`
}

// PublishCorpusReplaced announces that a session's corpus was atomically
// swapped by a new upload.
func (p *Publisher) PublishCorpusReplaced(ctx context.Context, sessionID string, chunkCount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(corpusReplacedEvent{
		SessionID:  sessionID,
		ChunkCount: chunkCount,
		ReplacedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal corpus event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish corpus event: %w", err)
	}
	return nil
}
