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
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reldata/relational"
)

func TestMultiReaderWalksResultSetsInOrder(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	d.sets = [][]relational.Row{
		{{"v": 1}, {"v": 2}},
		{{"v": 3}},
	}

	s := relational.NewSession(d)
	m, err := s.QueryMultiple(ctx, relational.Cmd("SELECT v FROM a; SELECT v FROM b"))
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	var first []relational.Row
	require.NoError(t, m.Read(ctx, &first))
	require.Len(t, first, 2)

	var second []relational.Row
	require.NoError(t, m.Read(ctx, &second))
	require.Len(t, second, 1)
	require.Equal(t, 3, second[0]["v"])

	var third []relational.Row
	require.ErrorIs(t, m.Read(ctx, &third), io.EOF)
	require.NoError(t, m.Err())
}

func TestMultiReaderSingleResultSet(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	d.sets = [][]relational.Row{{{"v": 1}}}

	s := relational.NewSession(d)
	m, err := s.QueryMultiple(ctx, relational.Cmd("SELECT v FROM t"))
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	var rows []relational.Row
	require.NoError(t, m.Read(ctx, &rows))
	require.Len(t, rows, 1)

	require.ErrorIs(t, m.Read(ctx, &rows), io.EOF)
}

func TestMultiReaderCloseReleasesCursorOnce(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	d.sets = [][]relational.Row{{{"v": 1}}}

	s := relational.NewSession(d)
	m, err := s.QueryMultiple(ctx, relational.Cmd("SELECT v FROM t"))
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.Equal(t, 1, d.rec.count("rows.close"))
	require.NoError(t, m.Close())
	require.Equal(t, 1, d.rec.count("rows.close"))

	var rows []relational.Row
	err = m.Read(ctx, &rows)
	require.EqualError(t, err, "relational: multi reader is closed")
	require.NotErrorIs(t, err, io.EOF)
}

func TestMultiReaderCloseLeavesSessionUsable(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver()
	d.sets = [][]relational.Row{{{"v": 1}}}

	s := relational.NewSession(d)
	m, err := s.QueryMultiple(ctx, relational.Cmd("SELECT v FROM t"))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	// The reader owns only the cursor; the session stays open.
	_, err = s.Execute(ctx, relational.Cmd("UPDATE t SET v = 0"))
	require.NoError(t, err)
}
