// Package unitofwork provides the request-scoped store session shared by every
// resolver of one request.
//
// A transactional Scope begins its transaction on first use, serializes all
// access to it, and rolls back whatever was not committed when it is closed.
package unitofwork

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned when a Scope is used after Close.
var ErrClosed = errors.New("unit of work is closed")

// DBTX is the query surface shared by *sql.DB, *sql.Tx and *sql.Conn.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor runs store work. fn must finish with the DBTX (including closing
// any rows) before it returns.
type Executor interface {
	Do(ctx context.Context, fn func(DBTX) error) error
}

// Direct returns an Executor that runs fn against db without a scope.
func Direct(db DBTX) Executor {
	return direct{db: db}
}

type direct struct {
	db DBTX
}

func (d direct) Do(_ context.Context, fn func(DBTX) error) error {
	return fn(d.db)
}

// Scope is the unit of work of one request.
type Scope struct {
	db         *sql.DB
	autocommit bool

	mu      sync.Mutex
	tx      *sql.Tx
	closed  bool
	commits int
}

// New returns a transactional Scope over db. No connection is taken until the first Do.
func New(db *sql.DB) *Scope {
	return &Scope{db: db}
}

// NewAutocommit returns a Scope that runs every statement on its own, still serialized.
// Commit and Rollback are no-ops.
func NewAutocommit(db *sql.DB) *Scope {
	return &Scope{db: db, autocommit: true}
}

// Do runs fn while holding the scope, beginning the transaction if needed.
func (s *Scope) Do(ctx context.Context, fn func(DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.autocommit {
		return fn(s.db)
	}
	if s.tx == nil {
		// The transaction outlives the caller that happened to open it; Close ends it.
		tx, err := s.db.BeginTx(context.WithoutCancel(ctx), nil)
		if err != nil {
			return fmt.Errorf("begin unit of work: %w", err)
		}
		s.tx = tx
	}
	return fn(s.tx)
}

// Commit commits the open transaction, if any. The next Do begins a new one.
func (s *Scope) Commit(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	s.commits++
	return nil
}

// Rollback discards the open transaction, if any. The next Do begins a new one.
func (s *Scope) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbackLocked()
}

// Close rolls back anything not committed and makes the scope unusable.
// Calling Close more than once is safe.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.rollbackLocked()
}

// Commits reports how many transactions this scope committed.
func (s *Scope) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Started reports whether a transaction is currently open.
func (s *Scope) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil
}

func (s *Scope) rollbackLocked() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback unit of work: %w", err)
	}
	return nil
}

type contextKey struct{}

// WithScope returns a context carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the Scope attached by WithScope, if present.
func FromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(contextKey{}).(*Scope)
	return s, ok
}
