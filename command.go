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
	"strings"
	"time"
)

// CommandKind tells the driver how to interpret a command's SQL text.
type CommandKind int

const (
	// CommandText treats the SQL text as a plain statement.
	CommandText CommandKind = iota
	// CommandStoredProcedure treats the SQL text as a stored procedure name.
	CommandStoredProcedure
	// CommandTableDirect treats the SQL text as a table name to read whole.
	CommandTableDirect
)

// String returns the human-readable name of the command kind.
func (k CommandKind) String() string {
	switch k {
	case CommandText:
		return "Text"
	case CommandStoredProcedure:
		return "StoredProcedure"
	case CommandTableDirect:
		return "TableDirect"
	default:
		return "Unknown"
	}
}

// IsValid reports whether k is one of the declared kinds.
func (k CommandKind) IsValid() bool {
	return k >= CommandText && k <= CommandTableDirect
}

// Command bundles SQL text with the optional knobs a driver call accepts.
// The zero value of every optional field means "driver default": no timeout,
// plain text kind, positional arguments as given. Named parameters ride
// along as sql.Named values inside Args when the driver supports them.
type Command struct {
	SQL     string
	Args    []any
	Timeout time.Duration
	Kind    CommandKind
}

// Cmd builds a plain text command.
func Cmd(sql string, args ...any) Command {
	return Command{SQL: sql, Args: args}
}

// WithTimeout returns a copy of the command carrying a per-call timeout.
func (c Command) WithTimeout(d time.Duration) Command {
	c.Timeout = d
	return c
}

// WithKind returns a copy of the command carrying the given kind.
func (c Command) WithKind(k CommandKind) Command {
	c.Kind = k
	return c
}

// empty reports whether the command carries no SQL text at all.
func (c Command) empty() bool {
	return strings.TrimSpace(c.SQL) == ""
}

// Sqlizer is the rendering surface of a SQL builder. Builders from
// github.com/Masterminds/squirrel satisfy it.
type Sqlizer interface {
	ToSql() (string, []any, error)
}

// CmdFrom renders a builder into a plain text command.
func CmdFrom(s Sqlizer) (Command, error) {
	sql, args, err := s.ToSql()
	if err != nil {
		return Command{}, err
	}
	return Command{SQL: sql, Args: args}, nil
}
