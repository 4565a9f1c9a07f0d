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

// Package borrow implements Vex's four-phase borrow checker (spec.md
// §4.1): Immutability, Moves, Borrows, and Lifetimes, run in that order
// over a function body sharing one ast.ScopeTree. Each phase mutates the
// Symbol state the scope tree already carries (State, BorrowCount,
// MutBorrowed) rather than building a separate analysis-only data
// structure, matching the teacher's habit of mutating the AST/Scope in
// place as each pass completes (SetScope, SetType) rather than threading a
// side table through every function.
//
// The event/edge vocabulary (what counts as a read, a write, a move, a
// borrow) is grounded on vovakirdan-surge's hir.BorrowGraph: an edge-list
// of (borrower, owner, kind) triples plus a flat event log, adapted here
// into direct Symbol-state mutation since Vex's borrow checker works
// function-at-a-time against a concrete scope tree rather than building a
// separate graph structure to replay later.
package borrow

import (
	"github.com/vexlang/vexc/ast"
	"github.com/vexlang/vexc/diag"
	"github.com/vexlang/vexc/internal/errwrap"
)

// Mode selects whether the checker stops at the first diagnostic or
// collects every one it can find in a single pass (spec.md §4.1: both
// modes are required, the driver's `--all-findings` flag switches
// between them).
type Mode int

const (
	ModeFirstFail Mode = iota
	ModeAllFindings
)

// Checker runs the four borrow-check phases over one function body.
type Checker struct {
	Tree *ast.ScopeTree
	Mode Mode

	// IsCopy resolves a named struct/enum to whether it was declared
	// `with Copy` (spec.md's Open Question decision: never automatic).
	IsCopy func(name string) bool

	findings []*diag.Diagnostic

	// scopeBorrows and scopeMoveMarks record, per originating ScopeID,
	// the BorrowRecords (spec.md §3) and move-blocking borrows a phase
	// opened in that scope, so walkBlock can retire them the instant that
	// scope's block finishes (spec.md §3: "destroyed when its lexical
	// scope exits"; §4.1 phase 3: "on scope exit, all borrows originated
	// in that scope are removed"). Only checkBorrows and checkMoves
	// populate these; checkImmutability and checkLifetimes leave them nil,
	// which exitScope treats as "nothing to retire".
	scopeBorrows   map[ast.ScopeID][]borrowMark
	scopeMoveMarks map[ast.ScopeID][]*ast.Symbol

	// moveBorrowDepth counts, across all currently-open scopes, how many
	// live borrows of a symbol checkMoves has seen; a move is rejected
	// while this is > 0, and exitScope decrements it as each originating
	// scope closes.
	moveBorrowDepth map[*ast.Symbol]int
}

// borrowMark is one BorrowRecord checkBorrows opened in a given scope,
// remembered so exitScope can undo exactly the mutation that opened it.
type borrowMark struct {
	sym       *ast.Symbol
	exclusive bool
}

// NewChecker creates a Checker sharing the given scope tree.
func NewChecker(tree *ast.ScopeTree, mode Mode, isCopy func(name string) bool) *Checker {
	if isCopy == nil {
		isCopy = func(string) bool { return false }
	}
	return &Checker{Tree: tree, Mode: mode, IsCopy: isCopy}
}

// Check runs all four phases over fn's body in order, as spec.md §4.1
// requires (each phase assumes the previous one has already run and left
// the scope tree in a valid state for it). In ModeFirstFail, Check returns
// as soon as any phase reports a Diagnostic; in ModeAllFindings, it always
// runs every phase and records every Diagnostic in Findings instead of
// returning it (any error a phase does return is combined via
// errwrap.Append).
func (c *Checker) Check(fn *ast.Function) error {
	if fn.Body == nil {
		return nil // extern declaration: nothing to check
	}

	phases := []func(*ast.Function) error{
		c.checkImmutability,
		c.checkMoves,
		c.checkBorrows,
		c.checkLifetimes,
	}

	var reterr error
	for _, phase := range phases {
		if err := phase(fn); err != nil {
			if c.Mode == ModeFirstFail {
				return err
			}
			reterr = errwrap.Append(reterr, err)
		}
	}
	return reterr
}

// Findings returns every Diagnostic recorded by Check calls on this
// Checker; the list is not cleared between calls. In ModeFirstFail, each
// Check call records at most one entry.
func (c *Checker) Findings() []*diag.Diagnostic {
	return c.findings
}

func (c *Checker) record(d *diag.Diagnostic) error {
	c.findings = append(c.findings, d)
	return d
}
