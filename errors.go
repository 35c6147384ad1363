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

import "errors"

// Errors introduced by this package. Everything else (connectivity loss,
// constraint violations, statement timeouts, syntax errors) comes from the
// underlying driver and propagates unchanged, so callers can match it with
// errors.Is/errors.As against the driver's own types.
var (
	// ErrSessionClosed is returned by every operation invoked after Close.
	ErrSessionClosed = errors.New("relational: session is closed")

	// ErrEmptyQuery is returned when a command carries no SQL text.
	ErrEmptyQuery = errors.New("relational: empty query")
)
