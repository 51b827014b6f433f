package unwrap

import (
	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
	"github.com/orizon-lang/unwrap/internal/errors"
)

// Lift splits an anchor whose top-level expression is a conditional into
// an if statement, so that each branch gets its own anchor. Exits are
// duplicated into both branches; other anchors assign a temporary (or the
// declared variable) in each branch and keep their own statement.
func (r *Rewriter) Lift(anchor ast.Statement, cond *ast.ConditionalExpression) ([]ast.Statement, error) {
	span := cond.Span
	branches := func(then, els ast.Statement) *ast.IfStatement {
		return &ast.IfStatement{Span: span, Cond: cond.Cond, Then: then, Else: els}
	}
	assign := func(target ast.Expression, op ast.Operator, value ast.Expression) ast.Statement {
		return &ast.ExpressionStatement{
			Span:       value.GetSpan(),
			Expression: &ast.Assignment{Span: value.GetSpan(), Target: target, Operator: op, Value: value},
		}
	}

	switch s := anchor.(type) {
	case *ast.ReturnStatement, *ast.ThrowStatement, *ast.YieldStatement:
		then, els := shallowStatement(s), shallowStatement(s)
		*anchorSlot(then) = cond.Then
		*anchorSlot(els) = cond.Else
		explicitYield(then)
		explicitYield(els)
		return []ast.Statement{branches(then, els)}, nil

	case *ast.VariableDeclaration:
		decl := *s
		decl.Value = nil
		if decl.Type == "" {
			decl.Type = liftType(cond)
		}
		if decl.Type == "" {
			return nil, errors.InconsistentTree(s.Span, "lifted declaration has no type")
		}
		target := func() ast.Expression {
			return &ast.Identifier{Span: s.Span, Name: s.Name, Type: decl.Type}
		}
		return []ast.Statement{
			&decl,
			branches(assign(target(), ast.OpAssign, cond.Then), assign(target(), ast.OpAssign, cond.Else)),
		}, nil

	case *ast.ExpressionStatement:
		if a, ok := s.Expression.(*ast.Assignment); ok {
			return []ast.Statement{branches(
				assign(a.Target, a.Operator, cond.Then),
				assign(ast.CloneExpr(a.Target), a.Operator, cond.Else),
			)}, nil
		}
		return []ast.Statement{branches(
			&ast.ExpressionStatement{Span: cond.Then.GetSpan(), Expression: cond.Then},
			&ast.ExpressionStatement{Span: cond.Else.GetSpan(), Expression: cond.Else},
		)}, nil

	case *ast.IfStatement, *ast.SwitchStatement, *ast.SynchronizedStatement, *ast.EnhancedForStatement:
		typ := liftType(cond)
		if typ == "" {
			return nil, errors.InconsistentTree(span, "lifted conditional has no type")
		}
		name := r.names.Next()
		temp := func() ast.Expression {
			return &ast.Identifier{Span: span, Name: name, Type: typ}
		}
		cont := shallowStatement(s)
		*anchorSlot(cont) = temp()
		return []ast.Statement{
			&ast.VariableDeclaration{Span: span, Name: name, Type: typ},
			branches(assign(temp(), ast.OpAssign, cond.Then), assign(temp(), ast.OpAssign, cond.Else)),
			cont,
		}, nil
	}
	return nil, errors.UnsupportedNode(anchor.GetSpan(), anchor)
}

// liftType returns the type a lifted conditional is declared with: its
// own, else the first branch with a known type.
func liftType(cond *ast.ConditionalExpression) string {
	if cond.Type != "" {
		return cond.Type
	}
	for _, b := range []ast.Expression{cond.Then, cond.Else} {
		if lit, ok := b.(*ast.Literal); ok {
			switch lit.Kind {
			case ast.LiteralInteger:
				return "int"
			case ast.LiteralFloat:
				return "double"
			case ast.LiteralString:
				return "String"
			case ast.LiteralBool:
				return "boolean"
			}
			continue
		}
		if t := capability.StaticType(b); t != "" {
			return t
		}
	}
	return ""
}

// declaresTemp reports whether lifting a conditional out of s declares a
// variable whose type must come from the conditional.
func declaresTemp(s ast.Statement) bool {
	switch s := s.(type) {
	case *ast.VariableDeclaration:
		return s.Type == ""
	case *ast.IfStatement, *ast.SwitchStatement, *ast.SynchronizedStatement, *ast.EnhancedForStatement:
		return true
	}
	return false
}

// LambdaBlock returns a copy of l whose expression body is wrapped in
// `{ return body; }`.
func (r *Rewriter) LambdaBlock(l *ast.LambdaExpression) (*ast.LambdaExpression, error) {
	body, ok := l.Body.(ast.Expression)
	if !ok {
		return nil, errors.InconsistentTree(l.Span, "lambda body is already a block")
	}
	cp := *l
	cp.Body = &ast.BlockStatement{
		Span: body.GetSpan(),
		Statements: []ast.Statement{
			&ast.ReturnStatement{Span: body.GetSpan(), Value: body},
		},
	}
	return &cp, nil
}

func explicitYield(s ast.Statement) {
	if y, ok := s.(*ast.YieldStatement); ok {
		y.Implicit = false
	}
}

// splice puts stmts where anchor was. List slots take the statements in
// place; single-statement slots and arrow-case bodies get a block.
func splice(idx *ast.ParentIndex, anchor ast.Statement, stmts []ast.Statement) error {
	parent := idx.Parent(anchor)
	if len(stmts) != 1 || isBlockSlot(parent) {
		for _, s := range stmts {
			explicitYield(s)
		}
	}

	switch p := parent.(type) {
	case *ast.BlockStatement:
		list, ok := insertAt(p.Statements, anchor, stmts)
		if !ok {
			return errors.InconsistentTree(anchor.GetSpan(), "anchor not found in block")
		}
		p.Statements = list
		return nil
	case *ast.Case:
		if p.Arrow {
			if len(p.Body) != 1 || p.Body[0] != anchor {
				return errors.InconsistentTree(anchor.GetSpan(), "anchor is not the body of its case rule")
			}
			p.Body = []ast.Statement{&ast.BlockStatement{Span: anchor.GetSpan(), Statements: stmts}}
			return nil
		}
		list, ok := insertAt(p.Body, anchor, stmts)
		if !ok {
			return errors.InconsistentTree(anchor.GetSpan(), "anchor not found in case")
		}
		p.Body = list
		return nil
	}

	var replacement ast.Statement
	if len(stmts) == 1 {
		replacement = stmts[0]
	} else {
		replacement = &ast.BlockStatement{Span: anchor.GetSpan(), Statements: stmts}
	}
	if err := ast.ReplaceChild(parent, anchor, replacement); err != nil {
		return errors.InconsistentTree(anchor.GetSpan(), err.Error())
	}
	return nil
}

// isBlockSlot reports whether statements spliced under parent end up
// inside a block.
func isBlockSlot(parent ast.Node) bool {
	switch p := parent.(type) {
	case *ast.BlockStatement:
		return true
	case *ast.Case:
		return p.Arrow
	}
	return false
}

func insertAt(list []ast.Statement, old ast.Statement, stmts []ast.Statement) ([]ast.Statement, bool) {
	for i, s := range list {
		if s != old {
			continue
		}
		out := make([]ast.Statement, 0, len(list)-1+len(stmts))
		out = append(out, list[:i]...)
		out = append(out, stmts...)
		out = append(out, list[i+1:]...)
		return out, true
	}
	return nil, false
}
