// Mgmt
// Copyright (C) 2013-2018+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package diag

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// StreamWriter is a streaming JSON diagnostic emitter suitable for driving
// an LSP-shaped consumer reading the compiler's stdout over a slow pipe
// (SPEC_FULL.md §C.2). Without a limiter, a pathological source file that
// produces thousands of diagnostics per second (e.g. a borrow checker
// running in "all findings" mode over a large generated file) could flood
// a consumer faster than it can parse; the limiter smooths that burst
// instead of dropping diagnostics.
type StreamWriter struct {
	w       io.Writer
	limiter *rate.Limiter
}

// NewStreamWriter returns a StreamWriter that emits up to ratePerSecond
// diagnostics per second, with a burst allowance of burst before limiting
// kicks in. A ratePerSecond of 0 disables limiting (every diagnostic flushes
// immediately), which is what a non-interactive `vexc check --json` run
// wants.
func NewStreamWriter(w io.Writer, ratePerSecond float64, burst int) *StreamWriter {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return &StreamWriter{w: w, limiter: limiter}
}

// Emit writes one diagnostic as a JSON object on its own line, blocking
// until the rate limiter admits it (if one is configured).
func (s *StreamWriter) Emit(ctx context.Context, d *Diagnostic) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return EmitJSON(s.w, d)
}

// EmitAll streams every diagnostic in ds in order, stopping early if ctx is
// canceled or a write fails.
func (s *StreamWriter) EmitAll(ctx context.Context, ds []*Diagnostic) error {
	for _, d := range ds {
		if err := s.Emit(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
