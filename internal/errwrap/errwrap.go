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

// Package errwrap contains small error helpers shared across the compiler
// pipeline. Adapted from the teacher's util/errwrap package: the stdlib
// error chain alone doesn't give us an easy way to accumulate *all* of the
// diagnostics from a recoverable phase (the borrow checker's
// ModeAllFindings) while still supporting single-error call sites.
package errwrap

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Wrapf adds context onto an existing error. If err is nil, it returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Append safely appends err onto reterr, treating either side being nil as a
// no-op instead of a crash. This is how the borrow checker combines the
// errors of its independent phases.
func Append(reterr, err error) error {
	if reterr == nil {
		return err
	}
	if err == nil {
		return reterr
	}
	return multierror.Append(reterr, err)
}

// String returns the empty string for a nil error instead of panicking, so
// callers can unconditionally embed it in log lines.
func String(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
