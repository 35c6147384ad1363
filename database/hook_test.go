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

package database_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/reldata/relational/database"
)

// captureLogger records every call so tests can assert on hook output
// without a real console logger.
type captureLogger struct {
	warns  []string
	infos  []string
	errors []string
	debugs []string
}

func (c *captureLogger) SetLevel(database.LogLevel) {}

func (c *captureLogger) Debug(msg string, fields ...interface{}) { c.debugs = append(c.debugs, msg) }

func (c *captureLogger) Info(msg string, fields ...interface{}) { c.infos = append(c.infos, msg) }

func (c *captureLogger) Warn(msg string, fields ...interface{}) { c.warns = append(c.warns, msg) }

func (c *captureLogger) Error(msg string, fields ...interface{}) { c.errors = append(c.errors, msg) }

func queryEvent(query string, err error) *bun.QueryEvent {
	return &bun.QueryEvent{Query: query, StartTime: time.Now(), Err: err}
}

func TestQueryHookVerboseWritesStatement(t *testing.T) {
	var buf bytes.Buffer
	h := database.NewQueryHook(
		database.WithQueryLogVerbose(true),
		database.WithQueryLogWriter(&buf),
	)

	h.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))

	out := buf.String()
	assert.Contains(t, out, "SELECT 1")
	assert.Contains(t, out, "[SQL]")
}

func TestQueryHookQuietSkipsBenignOutcomes(t *testing.T) {
	var buf bytes.Buffer
	h := database.NewQueryHook(database.WithQueryLogWriter(&buf))

	h.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))
	h.AfterQuery(context.Background(), queryEvent("SELECT 1", sql.ErrNoRows))
	h.AfterQuery(context.Background(), queryEvent("COMMIT", sql.ErrTxDone))
	assert.Empty(t, buf.String())

	h.AfterQuery(context.Background(), queryEvent("SELECT broken", errors.New("boom")))
	assert.Contains(t, buf.String(), "SELECT broken")
	assert.Contains(t, buf.String(), "boom")
}

func TestQueryHookEnvOverride(t *testing.T) {
	var buf bytes.Buffer

	t.Setenv("TESTQUERYLOG", "0")
	h := database.NewQueryHook(
		database.WithQueryLogVerbose(true),
		database.WithQueryLogWriter(&buf),
		database.WithQueryLogEnv("TESTQUERYLOG"),
	)
	h.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))
	assert.Empty(t, buf.String())

	t.Setenv("TESTQUERYLOG", "2")
	quiet := database.NewQueryHook(
		database.WithQueryLogWriter(&buf),
		database.WithQueryLogEnv("TESTQUERYLOG"),
	)
	quiet.AfterQuery(context.Background(), queryEvent("SELECT 2", nil))
	assert.Contains(t, buf.String(), "SELECT 2")
}

func TestSilenceSQLLog(t *testing.T) {
	var buf bytes.Buffer
	h := database.NewQueryHook(
		database.WithQueryLogVerbose(true),
		database.WithQueryLogWriter(&buf),
	)

	database.SilenceSQLLog(true)
	defer database.SilenceSQLLog(false)

	h.AfterQuery(context.Background(), queryEvent("SELECT 1", nil))
	h.AfterQuery(context.Background(), queryEvent("SELECT 1", errors.New("boom")))
	assert.Empty(t, buf.String())
}

func TestSlowQueryHookWarnsPastThreshold(t *testing.T) {
	logger := &captureLogger{}
	h := database.NewSlowQueryHook(time.Millisecond, logger)

	slow := &bun.QueryEvent{Query: "SELECT pg_sleep(1)", StartTime: time.Now().Add(-50 * time.Millisecond)}
	h.AfterQuery(context.Background(), slow)
	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], "Slow query detected")

	fast := &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()}
	h.AfterQuery(context.Background(), fast)
	assert.Len(t, logger.warns, 1)

	failed := &bun.QueryEvent{
		Query:     "SELECT broken",
		StartTime: time.Now().Add(-50 * time.Millisecond),
		Err:       errors.New("boom"),
	}
	h.AfterQuery(context.Background(), failed)
	assert.Len(t, logger.warns, 1)
}

func TestSlowQueryHookEnvKillSwitch(t *testing.T) {
	t.Setenv("RELSLOWLOG", "0")

	logger := &captureLogger{}
	h := database.NewSlowQueryHook(time.Millisecond, logger)

	slow := &bun.QueryEvent{Query: "SELECT pg_sleep(1)", StartTime: time.Now().Add(-50 * time.Millisecond)}
	h.AfterQuery(context.Background(), slow)
	assert.Empty(t, logger.warns)
}
