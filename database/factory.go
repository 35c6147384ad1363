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

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/reldata/relational"
)

// DBStats mirrors database/sql pool statistics.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

// Factory hands out sessions backed by a shared connection pool. Sessions
// stay unconnected until their first operation, so creating them is cheap.
type Factory struct {
	db     *bun.DB
	driver relational.Driver
	cfg    *Config
	logger Logger
}

// NewFactory opens a database handle for the configuration, applying
// environment overrides first. A nil config selects the defaults.
func NewFactory(cfg *Config) (*Factory, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.OverrideFromEnv()

	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewFactoryWithDB(db, cfg), nil
}

// NewFactoryWithDB wraps an existing Bun handle. The caller keeps ownership
// of hooks and pool settings already applied to it.
func NewFactoryWithDB(db *bun.DB, cfg *Config) *Factory {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Factory{
		db:     db,
		driver: relational.NewDriver(db),
		cfg:    cfg,
		logger: GetLogger(),
	}
}

// Session returns an auto-commit session.
func (f *Factory) Session() relational.Session {
	s := relational.NewSession(f.driver)
	f.logger.Debug("Session created", "session_id", s.ID())
	return s
}

// CommittableSession returns a session that begins a transaction at the
// given isolation level on its first operation.
func (f *Factory) CommittableSession(level sql.IsolationLevel) relational.CommittableSession {
	s := relational.NewCommittableSession(f.driver, level)
	f.logger.Debug("Committable session created", "session_id", s.ID(), "isolation", level.String())
	return s
}

// SessionFromConfig returns a committable session at the isolation level
// named by the configuration.
func (f *Factory) SessionFromConfig() (relational.CommittableSession, error) {
	level, err := ParseIsolationLevel(f.cfg.Isolation)
	if err != nil {
		return nil, err
	}
	return f.CommittableSession(level), nil
}

// DB returns the underlying Bun handle.
func (f *Factory) DB() *bun.DB {
	return f.db
}

// Driver returns the session driver backed by this factory's pool.
func (f *Factory) Driver() relational.Driver {
	return f.driver
}

// Ping verifies database reachability within the configured connect timeout.
func (f *Factory) Ping(ctx context.Context) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, f.cfg.ConnectTimeout)
	defer cancel()

	if err := f.db.PingContext(ctxTimeout); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	return nil
}

// Stats returns connection pool statistics.
func (f *Factory) Stats() *DBStats {
	stats := f.db.DB.Stats()
	return &DBStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxIdleTimeClosed: stats.MaxIdleTimeClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}

// SetLogger replaces the factory logger.
func (f *Factory) SetLogger(logger Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// Close closes the underlying pool. Sessions already handed out fail their
// next operation.
func (f *Factory) Close() error {
	err := f.db.Close()
	if err != nil {
		f.logger.Error("Failed to close database connection", "error", err)
	} else {
		f.logger.Info("Database connection closed")
	}
	return err
}

var defaultFactory *Factory

// Init creates the global factory from the configuration and returns it.
func Init(cfg *Config) (*Factory, error) {
	factory, err := NewFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database factory: %w", err)
	}
	defaultFactory = factory
	return factory, nil
}

// Default returns the global factory, or nil before Init.
func Default() *Factory {
	return defaultFactory
}

// GetDB returns the global Bun database instance, or nil before Init.
func GetDB() *bun.DB {
	if defaultFactory != nil {
		return defaultFactory.DB()
	}
	return nil
}

// CloseDB closes the global factory.
func CloseDB() error {
	if defaultFactory != nil {
		return defaultFactory.Close()
	}
	return nil
}
