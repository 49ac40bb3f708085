// Package redis implements the key-value store backing the exam tool.
// It wraps a single go-redis client: one connection, opened at startup
// and released on exit. The store serializes its own operations; no
// locking or retry logic on this side.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
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
		Password:     "",
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrConnection is returned when the Redis connection fails.
	ErrConnection = errors.New("store: connection failed")

	// ErrSerialization is returned when a record cannot be (de)serialized.
	ErrSerialization = errors.New("store: serialization failed")
)

// ══════════════════════════════════════════════════════════════════════════════
// HASH NAMESPACES
// ══════════════════════════════════════════════════════════════════════════════

// Hash names for the three record namespaces the exam platform writes.
const (
	// HashStudentLogins maps login identifier -> student JSON.
	HashStudentLogins = "students:logins"

	// HashStudentExams maps student id -> exam list JSON.
	HashStudentExams = "students:exams"

	// HashAttempts maps "<studentId>-<examId>" -> attempt JSON.
	HashAttempts = "students:attempts"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store is the single store connection used for the whole session.
type Store struct {
	client *redis.Client
	config Config
}

// NewStore connects to Redis and verifies the connection with a ping.
// A failed connection surfaces once, here - there are no retries.
func NewStore(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return &Store{
		client: client,
		config: cfg,
	}, nil
}

// Client returns the underlying Redis client for advanced operations.
// Use with caution - prefer the repository methods.
func (s *Store) Client() *redis.Client {
	return s.client
}

// Close releases the store connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks if the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
