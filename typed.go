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
	"iter"
)

// Query runs cmd on s and materializes the result set as a slice of T.
func Query[T any](ctx context.Context, s Session, cmd Command) ([]T, error) {
	var out []T
	if err := s.Query(ctx, cmd, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Scalar runs cmd on s and returns the first column of the first row.
func Scalar[T any](ctx context.Context, s Session, cmd Command) (T, error) {
	var v T
	if err := s.ExecuteScalar(ctx, cmd, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Read drains the reader's current result set as a slice of T and advances
// the reader to the next set.
func Read[T any](ctx context.Context, m *MultiReader) ([]T, error) {
	var out []T
	if err := m.Read(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stream runs cmd on s and yields the resulting rows one T at a time. The
// query executes when Stream is called and the sequence drains the live
// cursor, so it is single-use: a second range finds it exhausted. Errors
// arrive in-band as the second value and end the sequence; cancelling ctx
// ends it before the next element.
func Stream[T any](ctx context.Context, s Session, cmd Command) iter.Seq2[T, error] {
	rows, err := s.QueryStream(ctx, cmd)
	return func(yield func(T, error) bool) {
		var zero T
		if err != nil {
			yield(zero, err)
			return
		}
		defer rows.Close()
		for rows.Next() {
			var v T
			if err := rows.Scan(ctx, &v); err != nil {
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, err)
		}
	}
}
