// Package redis implements the notification outbox. Stored notifications
// are announced on a pub/sub channel so dashboard connections can push them
// live, and mirrored into a short per-user backlog list for reconnecting
// clients. Everything here is best-effort: the database row is the source
// of truth and a Redis outage only degrades delivery latency.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bonny2long/syncup-backend/internal/domain/notification"
	"github.com/bonny2long/syncup-backend/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

var (
	// ErrConnection is returned when the Redis connection fails.
	ErrConnection = errors.New("redis: connection failed")
)

// Key layout.
const (
	// ChannelNotifications is the pub/sub channel notifications are
	// announced on.
	ChannelNotifications = "syncup:notifications"

	// backlogKeyFmt is the per-user backlog list key.
	backlogKeyFmt = "syncup:notifications:user:%d"

	// backlogLen caps the per-user backlog.
	backlogLen = 50

	// backlogTTL expires idle backlogs.
	backlogTTL = 72 * time.Hour
)

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client wraps the go-redis client with connection management.
type Client struct {
	rdb    *redis.Client
	config Config
}

// NewClient creates a connected Redis client.
func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return &Client{rdb: rdb, config: cfg}, nil
}

// Redis returns the underlying client for advanced operations.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Ping checks if Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ══════════════════════════════════════════════════════════════════════════════
// OUTBOX
// ══════════════════════════════════════════════════════════════════════════════

// Outbox publishes stored notifications to Redis. Calls go through a
// circuit breaker so a Redis outage fails fast instead of stalling the
// event handlers behind connection timeouts.
type Outbox struct {
	client  *Client
	breaker *circuitbreaker.Breaker
}

// NewOutbox creates the outbox publisher.
func NewOutbox(client *Client, breaker *circuitbreaker.Breaker) *Outbox {
	return &Outbox{client: client, breaker: breaker}
}

// outboxMessage is the wire form announced on the channel.
type outboxMessage struct {
	ID          string `json:"id"`
	RecipientID int64  `json:"recipient_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Link        string `json:"link,omitempty"`
	RelatedType string `json:"related_type,omitempty"`
	RelatedID   int64  `json:"related_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Publish announces a stored notification and appends it to the
// recipient's backlog.
func (o *Outbox) Publish(ctx context.Context, n *notification.Notification) error {
	msg := outboxMessage{
		ID:          n.ID,
		RecipientID: n.RecipientID.Int64(),
		Type:        string(n.Type),
		Title:       n.Title,
		Message:     n.Message,
		Link:        n.Link,
		RelatedType: string(n.RelatedType),
		RelatedID:   n.RelatedID,
		CreatedAt:   n.CreatedAt.UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("outbox: marshal: %w", err)
	}

	return o.breaker.Execute(ctx, func(ctx context.Context) error {
		if err := o.client.rdb.Publish(ctx, ChannelNotifications, data).Err(); err != nil {
			return fmt.Errorf("outbox: publish: %w", err)
		}

		key := fmt.Sprintf(backlogKeyFmt, n.RecipientID.Int64())
		pipe := o.client.rdb.Pipeline()
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, backlogLen-1)
		pipe.Expire(ctx, key, backlogTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("outbox: backlog: %w", err)
		}
		return nil
	})
}

// Backlog returns the recipient's recent notification payloads, newest
// first.
func (o *Outbox) Backlog(ctx context.Context, recipientID int64) ([]string, error) {
	key := fmt.Sprintf(backlogKeyFmt, recipientID)

	var out []string
	err := o.breaker.Execute(ctx, func(ctx context.Context) error {
		vals, err := o.client.rdb.LRange(ctx, key, 0, backlogLen-1).Result()
		if err != nil {
			return fmt.Errorf("outbox: backlog read: %w", err)
		}
		out = vals
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
