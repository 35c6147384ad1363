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

package relational_test

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reldata/relational"
)

func TestCmdBuildsTextCommand(t *testing.T) {
	cmd := relational.Cmd("SELECT id FROM users WHERE id = ?", 7)

	assert.Equal(t, "SELECT id FROM users WHERE id = ?", cmd.SQL)
	assert.Equal(t, []any{7}, cmd.Args)
	assert.Equal(t, relational.CommandText, cmd.Kind)
	assert.Zero(t, cmd.Timeout)
}

func TestCommandOptionsCopyNotMutate(t *testing.T) {
	base := relational.Cmd("SELECT 1")

	timed := base.WithTimeout(5 * time.Second)
	proc := base.WithKind(relational.CommandStoredProcedure)

	assert.Equal(t, 5*time.Second, timed.Timeout)
	assert.Equal(t, relational.CommandStoredProcedure, proc.Kind)

	assert.Zero(t, base.Timeout)
	assert.Equal(t, relational.CommandText, base.Kind)
}

func TestCommandKindNames(t *testing.T) {
	cases := []struct {
		kind  relational.CommandKind
		name  string
		valid bool
	}{
		{relational.CommandText, "Text", true},
		{relational.CommandStoredProcedure, "StoredProcedure", true},
		{relational.CommandTableDirect, "TableDirect", true},
		{relational.CommandKind(99), "Unknown", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.name, tc.kind.String())
		assert.Equal(t, tc.valid, tc.kind.IsValid())
	}
}

func TestCmdFromRendersBuilder(t *testing.T) {
	builder := sq.Select("id", "name").From("users").Where(sq.Eq{"id": 7})

	cmd, err := relational.CmdFrom(builder)
	require.NoError(t, err)
	require.Equal(t, "SELECT id, name FROM users WHERE id = ?", cmd.SQL)
	require.Equal(t, []any{7}, cmd.Args)
	require.Equal(t, relational.CommandText, cmd.Kind)
}

func TestCmdFromPropagatesBuilderError(t *testing.T) {
	_, err := relational.CmdFrom(sq.Select().From("users"))
	require.Error(t, err)
}
