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
	"errors"
	"io"
)

var errReaderClosed = errors.New("relational: multi reader is closed")

// MultiReader walks the result sets produced by a single command, in order.
// It is forward-only and single-use. The caller that obtained it owns it and
// must close it; closing the reader releases only the underlying cursor,
// never the session that produced it.
type MultiReader struct {
	rows   Rows
	done   bool
	closed bool
}

// Read drains the current result set into dest, a slice pointer, and
// advances the reader to the next set. It returns io.EOF once every result
// set has been consumed.
func (m *MultiReader) Read(ctx context.Context, dest any) error {
	if m.closed {
		return errReaderClosed
	}
	if m.done {
		return io.EOF
	}
	if err := m.rows.ScanSet(ctx, dest); err != nil {
		return err
	}
	if !m.rows.NextResultSet() {
		m.done = true
	}
	return nil
}

// Err returns the error, if any, encountered by the underlying cursor.
func (m *MultiReader) Err() error {
	return m.rows.Err()
}

// Close releases the underlying cursor. It is safe to call twice.
func (m *MultiReader) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.done = true
	return m.rows.Close()
}
