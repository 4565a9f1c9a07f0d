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
	"encoding/json"
	"fmt"
	"io"

	"github.com/vexlang/vexc/ast"
)

// jsonDiagnostic is the wire shape for a single diagnostic in `--json`
// mode (spec.md §7: "JSON mode emits one JSON object per diagnostic on its
// own line"). encoding/json is the right tool here, not a third-party
// serializer: this is our own fixed output shape with no external schema
// to satisfy, unlike the package manifest (see driver/manifest.go, which
// does validate against an externally-owned JSON Schema).
type jsonDiagnostic struct {
	Kind     Kind              `json:"kind"`
	Subkind  BorrowSubkind     `json:"subkind,omitempty"`
	Severity string            `json:"severity"`
	Message  string            `json:"message"`
	Span     jsonSpan          `json:"span"`
	Related  []jsonSpan        `json:"related,omitempty"`
}

type jsonSpan struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

func toJSONSpan(s ast.Span) jsonSpan {
	return jsonSpan{File: s.File, StartLine: s.StartLine, StartCol: s.StartCol, EndLine: s.EndLine, EndCol: s.EndCol}
}

func toJSONDiagnostic(d *Diagnostic) jsonDiagnostic {
	related := make([]jsonSpan, len(d.Related))
	for i, r := range d.Related {
		related[i] = toJSONSpan(r)
	}
	return jsonDiagnostic{
		Kind:     d.Kind,
		Subkind:  d.Subkind,
		Severity: d.Severity.String(),
		Message:  d.Message,
		Span:     toJSONSpan(d.Span),
		Related:  related,
	}
}

// EmitHuman writes a diagnostic in the compact `file:line:col: severity:
// message` form a terminal user reads directly.
func EmitHuman(w io.Writer, d *Diagnostic) error {
	subkind := ""
	if d.Kind == KindBorrowCheck && d.Subkind != "" {
		subkind = fmt.Sprintf(" [%s]", d.Subkind)
	}
	_, err := fmt.Fprintf(w, "%s: %s%s: %s\n", d.Span, d.Severity, subkind, d.Message)
	if err != nil {
		return err
	}
	for _, r := range d.Related {
		if _, err := fmt.Fprintf(w, "  %s: note: related location\n", r); err != nil {
			return err
		}
	}
	return nil
}

// EmitJSON writes a single diagnostic as one JSON object followed by a
// newline, the unit of output the streaming emitter (diag/stream.go) and
// the end-of-run `--json` blob both build on.
func EmitJSON(w io.Writer, d *Diagnostic) error {
	enc := json.NewEncoder(w)
	return enc.Encode(toJSONDiagnostic(d))
}

// EmitJSONBatch writes every diagnostic in ds as one JSON array, the
// end-of-run `--json` mode shape for a non-streaming consumer.
func EmitJSONBatch(w io.Writer, ds []*Diagnostic) error {
	out := make([]jsonDiagnostic, len(ds))
	for i, d := range ds {
		out[i] = toJSONDiagnostic(d)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ExitCode returns the process exit code spec.md §6 specifies: 0 if no
// Error-severity diagnostic is present, 1 otherwise.
func ExitCode(ds []*Diagnostic) int {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return 1
		}
	}
	return 0
}
