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

import "context"

// streamRows guards a cursor with the context it was created under. A
// cancelled context stops the stream before the next row regardless of
// whether the underlying driver noticed, so an already-cancelled caller
// sees zero rows and the context error.
type streamRows struct {
	ctx  context.Context
	rows Rows
	err  error
}

var _ Rows = (*streamRows)(nil)

func (r *streamRows) Next() bool {
	if r.err != nil {
		return false
	}
	if err := r.ctx.Err(); err != nil {
		r.err = err
		return false
	}
	return r.rows.Next()
}

func (r *streamRows) Scan(ctx context.Context, dest ...any) error {
	return r.rows.Scan(ctx, dest...)
}

func (r *streamRows) ScanSet(ctx context.Context, dest any) error {
	return r.rows.ScanSet(ctx, dest)
}

func (r *streamRows) NextResultSet() bool {
	if r.err != nil {
		return false
	}
	if err := r.ctx.Err(); err != nil {
		r.err = err
		return false
	}
	return r.rows.NextResultSet()
}

func (r *streamRows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

func (r *streamRows) Close() error {
	return r.rows.Close()
}
