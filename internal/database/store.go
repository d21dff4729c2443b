package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrUnavailable is returned when the storage connection has not been
// established yet. Handlers translate it into an HTTP 503 response.
var ErrUnavailable = errors.New("storage unavailable")

// RetryInterval is how long the store waits between connection attempts.
const RetryInterval = 5 * time.Second

// Credentials holds the MySQL connection parameters.
type Credentials struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// Store owns the database handle. The HTTP server starts serving before
// the database is reachable; ConnectLoop keeps dialing in the background
// and the repositories ask the store for the live handle on every call.
type Store struct {
	creds Credentials

	mu sync.RWMutex
	db *sql.DB
}

// NewStore returns an unconnected store.
func NewStore(creds Credentials) *Store {
	return &Store{creds: creds}
}

// DB returns the live database handle, or ErrUnavailable while the
// connection has not been established.
func (s *Store) DB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrUnavailable
	}
	return s.db, nil
}

// Ready reports whether the store has a live connection.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db != nil
}

// Connect dials once and bootstraps the schema on success.
func (s *Store) Connect(ctx context.Context) error {
	db, err := Open(s.creds.User, s.creds.Pass, s.creds.Host, s.creds.Port, s.creds.Name)
	if err != nil {
		return err
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return err
	}
	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
	return nil
}

// ConnectLoop dials until it succeeds, waiting RetryInterval between
// attempts. Connection failure is recoverable and never terminates the
// process; the loop only stops when the context is cancelled or a
// connection is established.
func (s *Store) ConnectLoop(ctx context.Context) {
	for {
		err := s.Connect(ctx)
		if err == nil {
			log.Printf("storage: connected to %s:%s/%s", s.creds.Host, s.creds.Port, s.creds.Name)
			return
		}
		log.Printf("storage: connection failed: %v; retrying in %s", err, RetryInterval)
		select {
		case <-ctx.Done():
			return
		case <-time.After(RetryInterval):
		}
	}
}

// Close releases the underlying handle if one was established.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
