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
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reldata/relational/database"
)

func TestDefaultConfig(t *testing.T) {
	cfg := database.DefaultConfig()

	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 100, cfg.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 2*time.Second, cfg.SlowQueryTime)
	assert.False(t, cfg.EnableQueryLog)
	assert.Empty(t, cfg.Isolation)
}

func TestLoadConfigMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.yaml")
	content := `type: postgres
host: db.internal
port: 5433
username: svc
password: secret
dbname: app
isolation: serializable
enable_query_log: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := database.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "svc", cfg.Username)
	assert.Equal(t, "app", cfg.DBName)
	assert.Equal(t, "serializable", cfg.Isolation)
	assert.True(t, cfg.EnableQueryLog)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 100, cfg.MaxOpenConns)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := database.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "failed to read config file")
}

func TestLoadConfigRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: oracle\n"), 0644))

	_, err := database.LoadConfig(path)
	require.ErrorContains(t, err, "unsupported database type")
}

func TestLoadConfigRejectsUnknownIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: sqlite\nisolation: chaotic\n"), 0644))

	_, err := database.LoadConfig(path)
	require.ErrorContains(t, err, "unknown isolation level")
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("DB_USERNAME", "env-user")
	t.Setenv("DB_PASSWORD", "env-pass")
	t.Setenv("DB_NAME", "env-db")
	t.Setenv("DB_DSN", "postgres://env")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_LIFETIME", "120")
	t.Setenv("DB_ISOLATION", "repeatable read")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg := database.DefaultConfig()
	cfg.OverrideFromEnv()

	assert.Equal(t, "env-host", cfg.Host)
	assert.Equal(t, 15432, cfg.Port)
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, "env-pass", cfg.Password)
	assert.Equal(t, "env-db", cfg.DBName)
	assert.Equal(t, "postgres://env", cfg.DSN)
	assert.Equal(t, "require", cfg.SSLMode)
	assert.Equal(t, 3, cfg.MaxIdleConns)
	assert.Equal(t, 7, cfg.MaxOpenConns)
	assert.Equal(t, 120*time.Second, cfg.ConnMaxLifetime)
	assert.Equal(t, "repeatable read", cfg.Isolation)
	assert.True(t, cfg.EnableQueryLog)
}

func TestValidateNormalizesTypeAliases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"postgresql", "postgres"},
		{"PG", "postgres"},
		{"MySQL", "mysql"},
		{"sqlite3", "sqlite"},
		{"SQLite", "sqlite"},
	}
	for _, tc := range cases {
		cfg := database.DefaultConfig()
		cfg.Type = tc.in
		require.NoError(t, cfg.Validate())
		assert.Equal(t, tc.want, cfg.Type)
	}
}

func TestValidateDefaultsConnectTimeout(t *testing.T) {
	cfg := database.DefaultConfig()
	cfg.ConnectTimeout = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
}

func TestParseIsolationLevel(t *testing.T) {
	cases := []struct {
		in   string
		want sql.IsolationLevel
	}{
		{"", sql.LevelDefault},
		{"default", sql.LevelDefault},
		{"serializable", sql.LevelSerializable},
		{"SERIALIZABLE", sql.LevelSerializable},
		{"read committed", sql.LevelReadCommitted},
		{"read-committed", sql.LevelReadCommitted},
		{"READ_UNCOMMITTED", sql.LevelReadUncommitted},
		{"repeatableread", sql.LevelRepeatableRead},
		{"snapshot", sql.LevelSnapshot},
		{"linearizable", sql.LevelLinearizable},
	}
	for _, tc := range cases {
		got, err := database.ParseIsolationLevel(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := database.ParseIsolationLevel("chaotic")
	require.ErrorContains(t, err, "unknown isolation level")
}
