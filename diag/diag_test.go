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
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexlang/vexc/ast"
)

func TestExitCodeCleanWhenNoErrors(t *testing.T) {
	ds := []*Diagnostic{{Severity: SeverityWarning}, {Severity: SeverityNote}}
	assert.Equal(t, 0, ExitCode(ds))
}

func TestExitCodeNonzeroWithError(t *testing.T) {
	ds := []*Diagnostic{{Severity: SeverityWarning}, {Severity: SeverityError}}
	assert.Equal(t, 1, ExitCode(ds))
}

func TestEmitHumanFormat(t *testing.T) {
	d := NewBorrow(SubkindUseAfterMove, ast.Span{File: "a.vx", StartLine: 3, StartCol: 5}, "value %q used after move", "x")
	var buf bytes.Buffer
	require.NoError(t, EmitHuman(&buf, d))
	out := buf.String()
	assert.True(t, strings.Contains(out, "a.vx:3:5"))
	assert.True(t, strings.Contains(out, "use_after_move"))
	assert.True(t, strings.Contains(out, `value "x" used after move`))
}

func TestEmitJSONRoundTripsFields(t *testing.T) {
	d := New(KindTypeMismatch, ast.Span{File: "b.vx", StartLine: 1, StartCol: 1}, "expected i32, found bool")
	var buf bytes.Buffer
	require.NoError(t, EmitJSON(&buf, d))
	assert.True(t, strings.Contains(buf.String(), `"kind":"type_mismatch"`))
	assert.True(t, strings.Contains(buf.String(), `"file":"b.vx"`))
}

func TestWithRelatedAppends(t *testing.T) {
	base := New(KindUninferredType, ast.Span{File: "c.vx"}, "cannot infer type")
	withRel := base.WithRelated(ast.Span{File: "c.vx", StartLine: 2})
	assert.Len(t, withRel.Related, 1)
	assert.Len(t, base.Related, 0) // original untouched
}

func TestStreamWriterEmitsWithoutLimiter(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriter(&buf, 0, 0)
	d := New(KindSyntax, ast.Span{File: "d.vx"}, "unexpected token")
	require.NoError(t, sw.Emit(context.Background(), d))
	assert.True(t, strings.Contains(buf.String(), "unexpected_token") == false) // message isn't the kind
	assert.True(t, strings.Contains(buf.String(), `"kind":"syntax"`))
}

func TestStreamWriterRespectsContextCancellation(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriter(&buf, 1, 1) // 1/sec, burst 1: first is free, second blocks
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	d := New(KindSyntax, ast.Span{File: "d.vx"}, "x")
	require.NoError(t, sw.Emit(ctx, d))  // consumes the burst token
	err := sw.Emit(ctx, d)               // would need to wait past the deadline
	require.Error(t, err)
}
