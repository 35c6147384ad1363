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
)

// Row is a loosely typed result row keyed by column name.
type Row = map[string]any

// Driver hands out database connections. It is everything a Session needs
// from the underlying database library; NewDriver adapts a *bun.DB.
// Each Conn call must return a dedicated connection, not one shared with
// another holder, because the session assumes exclusive ownership.
type Driver interface {
	Conn(ctx context.Context) (Conn, error)
}

// Executor runs commands against a connection or a transaction.
type Executor interface {
	// Query runs cmd and materializes every row of the result set into
	// dest, a slice pointer. *[]Row collects untyped rows.
	Query(ctx context.Context, cmd Command, dest any) error
	// Exec runs cmd and returns the affected row count.
	Exec(ctx context.Context, cmd Command) (int64, error)
	// Scalar runs cmd and scans the first column of the first row into
	// dest, returning sql.ErrNoRows when the result set is empty.
	Scalar(ctx context.Context, cmd Command, dest any) error
	// Rows runs cmd and returns the live cursor. The caller owns it and
	// must close it.
	Rows(ctx context.Context, cmd Command) (Rows, error)
}

// Conn is a dedicated database connection.
type Conn interface {
	Executor
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
	Close() error
}

// Tx is a transaction running on a Conn.
type Tx interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Rows is a forward-only cursor over one or more result sets.
type Rows interface {
	// Next advances to the next row of the current result set.
	Next() bool
	// Scan copies the current row. A single struct or Row pointer scans
	// by column name; plain pointers scan positionally.
	Scan(ctx context.Context, dest ...any) error
	// ScanSet drains the rest of the current result set into dest, a
	// slice pointer.
	ScanSet(ctx context.Context, dest any) error
	// NextResultSet advances to the next result set, if any.
	NextResultSet() bool
	Err() error
	Close() error
}
