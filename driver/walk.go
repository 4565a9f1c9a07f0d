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

package driver

import "github.com/vexlang/vexc/ast"

// walkBlock visits every expression reachable from b, in source order,
// descending into nested blocks (if/while/for bodies, match arms, closure
// bodies). It is the one place the driver needs to know the full shape of
// every Stmt/Expr node, so that resolveInstantiations (and any future
// pre-codegen AST pass) doesn't have to re-derive it.
func walkBlock(b *ast.Block, visit func(ast.Expr)) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		walkStmt(s, visit)
	}
	if b.Tail != nil {
		walkExpr(b.Tail, visit)
	}
}

func walkStmt(s ast.Stmt, visit func(ast.Expr)) {
	switch st := s.(type) {
	case *ast.StmtLet:
		if st.Value != nil {
			walkExpr(st.Value, visit)
		}
	case *ast.StmtAssign:
		walkExpr(st.Target, visit)
		walkExpr(st.Value, visit)
	case *ast.StmtExpr:
		walkExpr(st.Value, visit)
	case *ast.StmtReturn:
		if st.Value != nil {
			walkExpr(st.Value, visit)
		}
	case *ast.StmtIf:
		walkExpr(st.Cond, visit)
		walkBlock(st.Then, visit)
		for _, c := range st.ElifConds {
			walkExpr(c, visit)
		}
		for _, b := range st.ElifBlocks {
			walkBlock(b, visit)
		}
		walkBlock(st.Else, visit)
	case *ast.StmtWhile:
		walkExpr(st.Cond, visit)
		walkBlock(st.Body, visit)
	case *ast.StmtFor:
		walkExpr(st.Iter, visit)
		walkBlock(st.Body, visit)
	case *ast.StmtBreak, *ast.StmtContinue:
		// leaves
	}
}

func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch ex := e.(type) {
	case *ast.ExprLiteral, *ast.ExprVar:
		// leaves
	case *ast.ExprBinary:
		walkExpr(ex.Left, visit)
		walkExpr(ex.Right, visit)
	case *ast.ExprUnary:
		walkExpr(ex.Expr, visit)
	case *ast.ExprCall:
		if ex.Recv != nil {
			walkExpr(ex.Recv, visit)
		}
		for _, a := range ex.Args {
			walkExpr(a, visit)
		}
	case *ast.ExprField:
		walkExpr(ex.Recv, visit)
	case *ast.ExprIndex:
		walkExpr(ex.Recv, visit)
		walkExpr(ex.Index, visit)
	case *ast.ExprStructLit:
		for _, f := range ex.Fields {
			walkExpr(f.Value, visit)
		}
	case *ast.ExprEnumLit:
		for _, a := range ex.Args {
			walkExpr(a, visit)
		}
	case *ast.ExprArrayLit:
		for _, el := range ex.Elems {
			walkExpr(el, visit)
		}
	case *ast.ExprTupleLit:
		for _, el := range ex.Elems {
			walkExpr(el, visit)
		}
	case *ast.ExprClosure:
		walkBlock(ex.Body, visit)
	case *ast.ExprAwait:
		walkExpr(ex.Inner, visit)
	case *ast.ExprIf:
		walkExpr(ex.Cond, visit)
		walkBlock(ex.Then, visit)
		walkBlock(ex.Else, visit)
	case *ast.ExprMatch:
		walkExpr(ex.Subject, visit)
		for _, arm := range ex.Arms {
			if arm.Guard != nil {
				walkExpr(arm.Guard, visit)
			}
			walkExpr(arm.Body, visit)
		}
	}
}
