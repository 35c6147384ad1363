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
	"sync/atomic"
)

// currentSession wraps the slot value so the atomic holder always stores one
// concrete type.
type currentSession struct {
	s Session
}

// Accessor is a shared slot for the session a call chain treats as current.
// External code sets and resets it; the session's only involvement is that
// Close drops the slot when it still holds the closing session, so the slot
// can never point at a released session. For request-scoped sharing prefer
// NewContext/FromContext; the accessor exists for code paths with no context
// to thread a session through.
type Accessor struct {
	current atomic.Value // currentSession
}

// Set makes s the current session. A nil s resets the slot.
func (a *Accessor) Set(s Session) {
	a.current.Store(currentSession{s: s})
	if impl, ok := s.(*session); ok {
		impl.accessor = a
	}
}

// Current returns the current session, or nil when the slot is empty.
func (a *Accessor) Current() Session {
	v, _ := a.current.Load().(currentSession)
	return v.s
}

// clear empties the slot if it still holds s.
func (a *Accessor) clear(s Session) {
	a.current.CompareAndSwap(currentSession{s: s}, currentSession{})
}

type sessionCtxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// FromContext returns the session carried by ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(Session)
	return s, ok
}
