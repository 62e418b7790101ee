// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"sync/atomic"
	"time"
)

// Clock is the source of monotonic `now` in unix seconds.
// Every component reads the same clock, so an operation observes a single
// consistent timestamp.
type Clock interface {
	Now() uint64
}

// System reads the wall clock.
type System struct{}

func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Manual is a hand-driven clock for tests.
type Manual struct {
	now atomic.Uint64
}

// NewManual creates a manual clock starting at the given unix second.
func NewManual(now uint64) *Manual {
	m := &Manual{}
	m.now.Store(now)
	return m
}

func (m *Manual) Now() uint64 {
	return m.now.Load()
}

// Set moves the clock to the given unix second.
func (m *Manual) Set(now uint64) {
	m.now.Store(now)
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d uint64) {
	m.now.Add(d)
}
