package treeio

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/position"
)

// Encode writes unit as a tree document.
func Encode(w io.Writer, unit *ast.CompilationUnit) error {
	doc, err := document(unit)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", unit.Filename, err)
	}
	return enc.Close()
}

// Marshal returns unit as a tree document.
func Marshal(unit *ast.CompilationUnit) ([]byte, error) {
	doc, err := document(unit)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

func document(unit *ast.CompilationUnit) (*Document, error) {
	e := &encoder{}
	doc := &Document{
		Format: FormatVersion,
		Unit:   rawUnit{File: unit.Filename, Package: unit.Package},
	}
	for _, m := range unit.Methods {
		line, col := pos(m.Span)
		rm := rawMethod{
			Name:    m.Name,
			Returns: m.ReturnType,
			Line:    line,
			Col:     col,
			Params:  params(m.Params),
		}
		if m.Body != nil {
			rm.Body = e.stmts(m.Body.Statements)
		}
		doc.Unit.Methods = append(doc.Unit.Methods, rm)
	}
	if e.err != nil {
		return nil, e.err
	}
	return doc, nil
}

type encoder struct {
	err error
}

func pos(sp position.Span) (int, int) {
	if !sp.IsValid() {
		return 0, 0
	}
	return sp.Start.Line, sp.Start.Column
}

func params(ps []*ast.Parameter) []rawParam {
	out := make([]rawParam, len(ps))
	for i, p := range ps {
		out[i] = rawParam{Name: p.Name, Type: p.Type}
	}
	return out
}

func node(kind string, n ast.Node) *rawNode {
	line, col := pos(n.GetSpan())
	return &rawNode{Kind: kind, Line: line, Col: col}
}

func (e *encoder) stmts(list []ast.Statement) []*rawNode {
	out := make([]*rawNode, 0, len(list))
	for _, s := range list {
		out = append(out, e.stmt(s))
	}
	return out
}

func (e *encoder) exprs(list []ast.Expression) []*rawNode {
	out := make([]*rawNode, 0, len(list))
	for _, x := range list {
		out = append(out, e.expr(x))
	}
	return out
}

func (e *encoder) optExpr(x ast.Expression) *rawNode {
	if x == nil {
		return nil
	}
	return e.expr(x)
}

func (e *encoder) optStmt(s ast.Statement) *rawNode {
	if s == nil {
		return nil
	}
	return e.stmt(s)
}

func (e *encoder) cases(list []*ast.Case) []rawCase {
	out := make([]rawCase, len(list))
	for i, c := range list {
		line, col := pos(c.Span)
		out[i] = rawCase{Line: line, Col: col, Labels: e.exprs(c.Labels), Arrow: c.Arrow, Body: e.stmts(c.Body)}
	}
	return out
}

func (e *encoder) stmt(s ast.Statement) *rawNode {
	switch s := s.(type) {
	case *ast.BlockStatement:
		n := node("block", s)
		n.Body = e.stmts(s.Statements)
		return n
	case *ast.ExpressionStatement:
		n := node("expr", s)
		n.Expr = e.expr(s.Expression)
		return n
	case *ast.VariableDeclaration:
		n := node("var", s)
		n.Name, n.Type, n.Expr = s.Name, s.Type, e.optExpr(s.Value)
		return n
	case *ast.ReturnStatement:
		n := node("return", s)
		n.Expr = e.optExpr(s.Value)
		return n
	case *ast.ThrowStatement:
		n := node("throw", s)
		n.Expr = e.expr(s.Value)
		return n
	case *ast.YieldStatement:
		n := node("yield", s)
		n.Expr, n.Implicit = e.expr(s.Value), s.Implicit
		return n
	case *ast.IfStatement:
		n := node("if", s)
		n.Cond, n.Then, n.Else = e.expr(s.Cond), e.stmt(s.Then), e.optStmt(s.Else)
		return n
	case *ast.ForStatement:
		n := node("for", s)
		n.Init, n.Cond, n.Update, n.Stmt = e.stmts(s.Init), e.optExpr(s.Cond), e.exprs(s.Update), e.stmt(s.Body)
		return n
	case *ast.EnhancedForStatement:
		n := node("foreach", s)
		n.Name, n.Type, n.Expr, n.Stmt = s.VarName, s.VarType, e.expr(s.Iterable), e.stmt(s.Body)
		return n
	case *ast.WhileStatement:
		n := node("while", s)
		n.Cond, n.Stmt = e.expr(s.Cond), e.stmt(s.Body)
		return n
	case *ast.DoWhileStatement:
		n := node("do", s)
		n.Cond, n.Stmt = e.expr(s.Cond), e.stmt(s.Body)
		return n
	case *ast.SwitchStatement:
		n := node("switch", s)
		n.Selector, n.Cases = e.expr(s.Selector), e.cases(s.Cases)
		return n
	case *ast.TryStatement:
		n := node("try", s)
		n.Resources = e.stmts(s.Resources)
		n.Body = e.stmts(s.Body.Statements)
		for _, c := range s.Catches {
			line, col := pos(c.Span)
			rc := rawCatch{Line: line, Col: col, Body: e.stmts(c.Body.Statements)}
			if c.Param != nil {
				rc.Param = &rawParam{Name: c.Param.Name, Type: c.Param.Type}
			}
			n.Catches = append(n.Catches, rc)
		}
		if s.Finally != nil {
			n.Finally = e.stmt(s.Finally)
		}
		return n
	case *ast.SynchronizedStatement:
		n := node("sync", s)
		n.Expr, n.Body = e.expr(s.Monitor), e.stmts(s.Body.Statements)
		return n
	case *ast.LabeledStatement:
		n := node("labeled", s)
		n.Label, n.Stmt = s.Label, e.stmt(s.Body)
		return n
	case *ast.BreakStatement:
		n := node("break", s)
		n.Label = s.Label
		return n
	case *ast.ContinueStatement:
		n := node("continue", s)
		n.Label = s.Label
		return n
	case *ast.AssertStatement:
		n := node("assert", s)
		n.Cond, n.Message = e.expr(s.Cond), e.optExpr(s.Message)
		return n
	}
	e.fail(s)
	return &rawNode{}
}

func (e *encoder) expr(x ast.Expression) *rawNode {
	switch x := x.(type) {
	case *ast.Identifier:
		n := node("ident", x)
		n.Name, n.Type = x.Name, x.Type
		return n
	case *ast.Literal:
		n := node("lit", x)
		n.Value, n.Raw = x.Value, x.Raw
		return n
	case *ast.MethodCall:
		n := node("call", x)
		n.Recv, n.Name, n.Args, n.Type = e.optExpr(x.Receiver), x.Name, e.exprs(x.Args), x.Type
		return n
	case *ast.FieldAccess:
		n := node("field", x)
		n.Target, n.Name, n.Type = e.expr(x.Target), x.Name, x.Type
		return n
	case *ast.Assignment:
		n := node("assign", x)
		n.Target, n.Op, n.Expr = e.expr(x.Target), string(x.Operator), e.expr(x.Value)
		return n
	case *ast.BinaryExpression:
		n := node("binary", x)
		n.Left, n.Op, n.Right = e.expr(x.Left), string(x.Operator), e.expr(x.Right)
		return n
	case *ast.UnaryExpression:
		n := node("unary", x)
		n.Op, n.Operand, n.Postfix = string(x.Operator), e.expr(x.Operand), x.Postfix
		return n
	case *ast.ConditionalExpression:
		n := node("cond", x)
		n.Cond, n.Then, n.Else, n.Type = e.expr(x.Cond), e.expr(x.Then), e.expr(x.Else), x.Type
		return n
	case *ast.ArrayAccess:
		n := node("index", x)
		n.Array, n.Index, n.Type = e.expr(x.Array), e.expr(x.Index), x.Type
		return n
	case *ast.NewArray:
		n := node("newarray", x)
		n.Type, n.Dims, n.Elements, n.HasInit = x.ElemType, e.exprs(x.Dims), e.exprs(x.Elements), x.HasInit
		return n
	case *ast.NewClass:
		n := node("new", x)
		n.Class, n.Args = x.Class, e.exprs(x.Args)
		return n
	case *ast.LambdaExpression:
		n := node("lambda", x)
		n.Params = params(x.Params)
		switch body := x.Body.(type) {
		case ast.Expression:
			n.Expr = e.expr(body)
		case *ast.BlockStatement:
			n.Body = e.stmts(body.Statements)
		}
		return n
	case *ast.SwitchExpression:
		n := node("switchexpr", x)
		n.Selector, n.Cases, n.Type = e.expr(x.Selector), e.cases(x.Cases), x.Type
		return n
	case *ast.StringTemplate:
		n := node("template", x)
		n.Processor, n.Fragments, n.Values = x.Processor, x.Fragments, e.exprs(x.Values)
		return n
	}
	e.fail(x)
	return &rawNode{}
}

func (e *encoder) fail(n ast.Node) {
	if e.err == nil {
		e.err = fmt.Errorf("cannot encode %T", n)
	}
}
