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
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// NewDriver adapts a *bun.DB so sessions can draw dedicated connections from
// its pool. Statements issued through the returned driver run Bun's query
// hooks, so bundebug and the hooks installed by the database package observe
// session traffic.
func NewDriver(db *bun.DB) Driver {
	return &bunDriver{db: db}
}

type bunDriver struct {
	db *bun.DB
}

func (d *bunDriver) Conn(ctx context.Context) (Conn, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &bunConn{db: d.db, conn: conn}, nil
}

// bunQuerier is the execution surface shared by bun.Conn and bun.Tx.
type bunQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type bunConn struct {
	db   *bun.DB
	conn bun.Conn
}

var _ Conn = (*bunConn)(nil)

func (c *bunConn) Query(ctx context.Context, cmd Command, dest any) error {
	return bunQuery(ctx, c.db, c.conn, cmd, dest)
}

func (c *bunConn) Exec(ctx context.Context, cmd Command) (int64, error) {
	return bunExec(ctx, c.db, c.conn, cmd)
}

func (c *bunConn) Scalar(ctx context.Context, cmd Command, dest any) error {
	return bunScalar(ctx, c.db, c.conn, cmd, dest)
}

func (c *bunConn) Rows(ctx context.Context, cmd Command) (Rows, error) {
	return bunOpenRows(ctx, c.db, c.conn, cmd)
}

func (c *bunConn) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	tx, err := c.conn.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &bunTx{db: c.db, tx: tx}, nil
}

func (c *bunConn) Close() error {
	return c.conn.Close()
}

type bunTx struct {
	db *bun.DB
	tx bun.Tx
}

var _ Tx = (*bunTx)(nil)

func (t *bunTx) Query(ctx context.Context, cmd Command, dest any) error {
	return bunQuery(ctx, t.db, t.tx, cmd, dest)
}

func (t *bunTx) Exec(ctx context.Context, cmd Command) (int64, error) {
	return bunExec(ctx, t.db, t.tx, cmd)
}

func (t *bunTx) Scalar(ctx context.Context, cmd Command, dest any) error {
	return bunScalar(ctx, t.db, t.tx, cmd, dest)
}

func (t *bunTx) Rows(ctx context.Context, cmd Command) (Rows, error) {
	return bunOpenRows(ctx, t.db, t.tx, cmd)
}

func (t *bunTx) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.tx.Commit()
}

func (t *bunTx) Rollback(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.tx.Rollback()
}

func bunQuery(ctx context.Context, db *bun.DB, q bunQuerier, cmd Command, dest any) error {
	text, err := renderCommand(db, cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(ctx, cmd)
	defer cancel()
	rows, err := q.QueryContext(ctx, text, cmd.Args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if err := db.ScanRows(ctx, rows, dest); err != nil {
		return err
	}
	return rows.Err()
}

func bunExec(ctx context.Context, db *bun.DB, q bunQuerier, cmd Command) (int64, error) {
	text, err := renderCommand(db, cmd)
	if err != nil {
		return 0, err
	}
	ctx, cancel := commandContext(ctx, cmd)
	defer cancel()
	res, err := q.ExecContext(ctx, text, cmd.Args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func bunScalar(ctx context.Context, db *bun.DB, q bunQuerier, cmd Command, dest any) error {
	text, err := renderCommand(db, cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(ctx, cmd)
	defer cancel()
	rows, err := q.QueryContext(ctx, text, cmd.Args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return scanFirstColumn(rows, dest)
}

func bunOpenRows(ctx context.Context, db *bun.DB, q bunQuerier, cmd Command) (Rows, error) {
	text, err := renderCommand(db, cmd)
	if err != nil {
		return nil, err
	}
	ctx, cancel := commandContext(ctx, cmd)
	rows, err := q.QueryContext(ctx, text, cmd.Args...)
	if err != nil {
		cancel()
		return nil, err
	}
	return &bunRows{db: db, rows: rows, cancel: cancel}, nil
}

// commandContext applies the command's timeout when one is set. The returned
// cancel func must outlive row cursors, which is why bunOpenRows ties it to
// Rows.Close instead of deferring it.
func commandContext(ctx context.Context, cmd Command) (context.Context, context.CancelFunc) {
	if cmd.Timeout > 0 {
		return context.WithTimeout(ctx, cmd.Timeout)
	}
	return ctx, func() {}
}

// renderCommand turns a command into executable SQL text. Plain text passes
// through untouched; the other kinds are rendered for the dialects that
// support them, failing before any I/O otherwise.
func renderCommand(db *bun.DB, cmd Command) (string, error) {
	switch cmd.Kind {
	case CommandText:
		return cmd.SQL, nil
	case CommandStoredProcedure:
		return renderProcedureCall(db.Dialect().Name(), cmd)
	case CommandTableDirect:
		return db.Formatter().FormatQuery("SELECT * FROM ?", bun.Ident(strings.TrimSpace(cmd.SQL))), nil
	default:
		return "", fmt.Errorf("relational: unknown command kind %d", int(cmd.Kind))
	}
}

func renderProcedureCall(name dialect.Name, cmd Command) (string, error) {
	proc := strings.TrimSpace(cmd.SQL)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cmd.Args)), ", ")
	switch name {
	case dialect.MySQL:
		return fmt.Sprintf("CALL %s(%s)", proc, placeholders), nil
	case dialect.PG:
		return fmt.Sprintf("SELECT * FROM %s(%s)", proc, placeholders), nil
	default:
		return "", fmt.Errorf("relational: stored procedures are not supported on dialect %q", name)
	}
}

type bunRows struct {
	db     *bun.DB
	rows   *sql.Rows
	cancel context.CancelFunc
}

var _ Rows = (*bunRows)(nil)

func (r *bunRows) Next() bool {
	return r.rows.Next()
}

func (r *bunRows) Scan(ctx context.Context, dest ...any) error {
	if len(dest) == 1 {
		if m, ok := dest[0].(*Row); ok {
			return scanRowMap(r.rows, m)
		}
	}
	return r.db.ScanRow(ctx, r.rows, dest...)
}

func (r *bunRows) ScanSet(ctx context.Context, dest any) error {
	return r.db.ScanRows(ctx, r.rows, dest)
}

func (r *bunRows) NextResultSet() bool {
	return r.rows.NextResultSet()
}

func (r *bunRows) Err() error {
	return r.rows.Err()
}

func (r *bunRows) Close() error {
	err := r.rows.Close()
	r.cancel()
	return err
}

// scanFirstColumn copies the first column of the current row into dest and
// discards the rest, mirroring what scalar execution means to callers.
func scanFirstColumn(rows *sql.Rows, dest any) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	ptrs := make([]any, len(cols))
	ptrs[0] = dest
	for i := 1; i < len(ptrs); i++ {
		ptrs[i] = new(any)
	}
	return rows.Scan(ptrs...)
}

// scanRowMap scans the current row into an untyped Row keyed by column name.
func scanRowMap(rows *sql.Rows, dest *Row) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return err
	}
	row := make(Row, len(cols))
	for i, col := range cols {
		row[col] = vals[i]
	}
	*dest = row
	return nil
}
