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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reldata/relational/database"
)

func TestGetLoggerDefaultsAndSetLoggerReplaces(t *testing.T) {
	prev := database.GetLogger()
	require.NotNil(t, prev)
	defer database.SetLogger(prev)

	replacement := &captureLogger{}
	database.SetLogger(replacement)
	require.Same(t, replacement, database.GetLogger().(*captureLogger))

	// A nil logger is ignored, the replacement stays in place.
	database.SetLogger(nil)
	require.Same(t, replacement, database.GetLogger().(*captureLogger))

	database.GetLogger().Warn("watch out")
	assert.Equal(t, []string{"watch out"}, replacement.warns)
}

func TestLogLevelString(t *testing.T) {
	cases := []struct {
		level database.LogLevel
		want  string
	}{
		{database.LogLevelDebug, "DEBUG"},
		{database.LogLevelInfo, "INFO"},
		{database.LogLevelWarn, "WARN"},
		{database.LogLevelError, "ERROR"},
		{database.LogLevel(42), "DEBUG"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.level.String())
	}
}
