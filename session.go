/*
 * Copyright 2026 reldata.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package relational

import (
	"context"
	"database/sql"
	"errors"
	"runtime"

	"github.com/google/uuid"
)

// Session mediates data access through a lazily opened, exclusively owned
// connection. The first data operation draws the connection from the driver;
// when the session was built with an isolation level the same step begins its
// transaction, and every later operation runs on those same handles. A
// session is a single-owner value: one logical caller drives it at a time,
// and there is no internal locking. Close releases the transaction first and
// the connection after; a finalizer covers callers that forgot to close.
type Session interface {
	// ID returns the identifier fixed at construction.
	ID() string
	// Connection returns the owned connection. It is nil until the first
	// data operation opens it.
	Connection() (Conn, error)
	// Transaction returns the implicit transaction. It is nil when the
	// session was built without an isolation level or nothing ran yet.
	Transaction() (Tx, error)
	// Query runs cmd and materializes every row into dest, a slice
	// pointer. *[]Row collects untyped rows.
	Query(ctx context.Context, cmd Command, dest any) error
	// Execute runs cmd and returns the affected row count.
	Execute(ctx context.Context, cmd Command) (int64, error)
	// ExecuteScalar runs cmd and scans the first column of the first row
	// into dest, returning sql.ErrNoRows when the result set is empty.
	ExecuteScalar(ctx context.Context, cmd Command, dest any) error
	// QueryMultiple runs cmd and returns a reader over its result sets.
	// Ownership passes to the caller; closing the reader closes only the
	// cursor, never the session.
	QueryMultiple(ctx context.Context, cmd Command) (*MultiReader, error)
	// QueryStream runs cmd and returns the live cursor. The cursor checks
	// ctx before each row and stops yielding once it is cancelled. The
	// caller owns the cursor and must close it.
	QueryStream(ctx context.Context, cmd Command) (Rows, error)
	// Close rolls back the implicit transaction if it is still active,
	// then releases the connection. Both releases are attempted even if
	// the first fails; failures are joined. Close is idempotent.
	Close() error
}

// CommittableSession is a session whose operations run inside an implicit
// transaction begun at the isolation level fixed at construction.
type CommittableSession interface {
	Session
	// Commit commits the implicit transaction. The session keeps the
	// finished handle afterwards; no new transaction is begun.
	Commit(ctx context.Context) error
	// Rollback rolls back the implicit transaction, with the same handle
	// retention as Commit.
	Rollback(ctx context.Context) error
}

type session struct {
	id       string
	driver   Driver
	txOpts   *sql.TxOptions
	conn     Conn
	tx       Tx
	accessor *Accessor
	closed   bool
}

var (
	_ Session            = (*session)(nil)
	_ CommittableSession = (*session)(nil)
)

// NewSession builds a session without an implicit transaction.
func NewSession(d Driver) Session {
	return newSession(d, nil)
}

// NewCommittableSession builds a session whose first data operation begins a
// transaction at the given isolation level.
func NewCommittableSession(d Driver, level sql.IsolationLevel) CommittableSession {
	return newSession(d, &sql.TxOptions{Isolation: level})
}

func newSession(d Driver, opts *sql.TxOptions) *session {
	s := &session{id: uuid.NewString(), driver: d, txOpts: opts}
	runtime.SetFinalizer(s, (*session).finalize)
	return s
}

func (s *session) ID() string { return s.id }

func (s *session) Connection() (Conn, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.conn, nil
}

func (s *session) Transaction() (Tx, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.tx, nil
}

// ensureOpen draws the connection from the driver on first use and, when an
// isolation level was configured, begins the implicit transaction. The open
// happens at most once per session: once conn is set the function
// short-circuits, so a begin failure (which leaves conn set) also means no
// second begin is ever attempted.
func (s *session) ensureOpen(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.conn != nil {
		return nil
	}
	conn, err := s.driver.Conn(ctx)
	if err != nil {
		return err
	}
	s.conn = conn
	if s.txOpts == nil {
		return nil
	}
	tx, err := conn.BeginTx(ctx, s.txOpts)
	if err != nil {
		return err
	}
	s.tx = tx
	return nil
}

// prepare runs the checks shared by every data operation: closed state,
// SQL text presence, then the lazy open.
func (s *session) prepare(ctx context.Context, cmd Command) error {
	if s.closed {
		return ErrSessionClosed
	}
	if cmd.empty() {
		return ErrEmptyQuery
	}
	return s.ensureOpen(ctx)
}

// executor is the handle data operations run on: the implicit transaction
// when one is active, the bare connection otherwise.
func (s *session) executor() Executor {
	if s.tx != nil {
		return s.tx
	}
	return s.conn
}

func (s *session) Query(ctx context.Context, cmd Command, dest any) error {
	if err := s.prepare(ctx, cmd); err != nil {
		return err
	}
	return s.executor().Query(ctx, cmd, dest)
}

func (s *session) Execute(ctx context.Context, cmd Command) (int64, error) {
	if err := s.prepare(ctx, cmd); err != nil {
		return 0, err
	}
	return s.executor().Exec(ctx, cmd)
}

func (s *session) ExecuteScalar(ctx context.Context, cmd Command, dest any) error {
	if err := s.prepare(ctx, cmd); err != nil {
		return err
	}
	return s.executor().Scalar(ctx, cmd, dest)
}

func (s *session) QueryMultiple(ctx context.Context, cmd Command) (*MultiReader, error) {
	if err := s.prepare(ctx, cmd); err != nil {
		return nil, err
	}
	rows, err := s.executor().Rows(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return &MultiReader{rows: rows}, nil
}

func (s *session) QueryStream(ctx context.Context, cmd Command) (Rows, error) {
	if err := s.prepare(ctx, cmd); err != nil {
		return nil, err
	}
	rows, err := s.executor().Rows(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return &streamRows{ctx: ctx, rows: rows}, nil
}

// Commit is a no-op until the first data operation has begun the implicit
// transaction.
func (s *session) Commit(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	return s.tx.Commit(ctx)
}

// Rollback is a no-op until the first data operation has begun the implicit
// transaction.
func (s *session) Rollback(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	return s.tx.Rollback(ctx)
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	runtime.SetFinalizer(s, nil)

	var errs []error
	if s.tx != nil {
		// The transaction may already be finished by Commit or Rollback.
		if err := s.tx.Rollback(context.Background()); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, err)
		}
		s.tx = nil
	}
	// The connection is released even when the rollback failed.
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			errs = append(errs, err)
		}
		s.conn = nil
	}
	if s.accessor != nil {
		s.accessor.clear(s)
		s.accessor = nil
	}
	return errors.Join(errs...)
}

// finalize is the last-resort release for sessions that were never closed.
// It runs the same synchronous teardown and discards the result.
func (s *session) finalize() {
	_ = s.Close()
}
