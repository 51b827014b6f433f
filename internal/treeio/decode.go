package treeio

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/position"
)

// Load reads a tree document from path.
func Load(path string) (*ast.CompilationUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", path, err)
	}
	return Parse(data, path)
}

// Decode reads a tree document from r. name is used in error messages.
func Decode(r io.Reader, name string) (*ast.CompilationUnit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a tree document. Every malformed node is reported, not
// only the first.
func Parse(data []byte, name string) (*ast.CompilationUnit, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if err := CheckFormat(doc.Format); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	file := doc.Unit.File
	if file == "" {
		file = name
	}
	d := &decoder{file: file}
	unit := &ast.CompilationUnit{
		Span:     position.At(file, 1, 1),
		Filename: file,
		Package:  doc.Unit.Package,
	}
	for i := range doc.Unit.Methods {
		unit.Methods = append(unit.Methods, d.method(&doc.Unit.Methods[i]))
	}
	if err := d.errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return unit, nil
}

type decoder struct {
	file string
	errs *multierror.Error
}

func (d *decoder) span(line, col int) position.Span {
	if line == 0 {
		return position.Span{}
	}
	if col == 0 {
		col = 1
	}
	return position.At(d.file, line, col)
}

func (d *decoder) fail(line, col int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if sp := d.span(line, col); sp.IsValid() {
		msg = sp.String() + ": " + msg
	}
	d.errs = multierror.Append(d.errs, fmt.Errorf("%s", msg))
}

func (d *decoder) method(m *rawMethod) *ast.MethodDeclaration {
	out := &ast.MethodDeclaration{
		Span:       d.span(m.Line, m.Col),
		Name:       m.Name,
		ReturnType: m.Returns,
		Params:     d.params(m.Params),
		Body:       &ast.BlockStatement{Span: d.span(m.Line, m.Col), Statements: d.stmts(m.Body)},
	}
	if m.Name == "" {
		d.fail(m.Line, m.Col, "method without name")
	}
	return out
}

func (d *decoder) params(ps []rawParam) []*ast.Parameter {
	out := make([]*ast.Parameter, len(ps))
	for i, p := range ps {
		out[i] = &ast.Parameter{Name: p.Name, Type: p.Type}
	}
	return out
}

func (d *decoder) stmts(list []*rawNode) []ast.Statement {
	out := make([]ast.Statement, 0, len(list))
	for _, n := range list {
		if s := d.stmt(n); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// exprs decodes an operand list of the node at line:col; null entries
// are reported and dropped.
func (d *decoder) exprs(line, col int, field string, list []*rawNode) []ast.Expression {
	out := make([]ast.Expression, 0, len(list))
	for i, n := range list {
		if n == nil {
			d.fail(line, col, "%s[%d]: null entry", field, i)
			continue
		}
		if e := d.expr(n); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (d *decoder) block(n *rawNode, list []*rawNode) *ast.BlockStatement {
	return &ast.BlockStatement{Span: d.span(n.Line, n.Col), Statements: d.stmts(list)}
}

// optExpr decodes an optional operand.
func (d *decoder) optExpr(n *rawNode) ast.Expression {
	if n == nil {
		return nil
	}
	return d.expr(n)
}

// need decodes a required operand.
func (d *decoder) need(parent *rawNode, field string, n *rawNode) ast.Expression {
	if n == nil {
		d.fail(parent.Line, parent.Col, "%s: missing %s", parent.Kind, field)
		return nil
	}
	return d.expr(n)
}

func (d *decoder) needStmt(parent *rawNode, field string, n *rawNode) ast.Statement {
	if n == nil {
		d.fail(parent.Line, parent.Col, "%s: missing %s", parent.Kind, field)
		return nil
	}
	return d.stmt(n)
}

func (d *decoder) stmt(n *rawNode) ast.Statement {
	if n == nil {
		return nil
	}
	sp := d.span(n.Line, n.Col)
	switch n.Kind {
	case "block":
		return d.block(n, n.Body)
	case "expr":
		return &ast.ExpressionStatement{Span: sp, Expression: d.need(n, "expr", n.Expr)}
	case "var":
		return &ast.VariableDeclaration{Span: sp, Name: n.Name, Type: n.Type, Value: d.optExpr(n.Expr)}
	case "return":
		return &ast.ReturnStatement{Span: sp, Value: d.optExpr(n.Expr)}
	case "throw":
		return &ast.ThrowStatement{Span: sp, Value: d.need(n, "expr", n.Expr)}
	case "yield":
		return &ast.YieldStatement{Span: sp, Value: d.need(n, "expr", n.Expr), Implicit: n.Implicit}
	case "if":
		s := &ast.IfStatement{Span: sp, Cond: d.need(n, "cond", n.Cond), Then: d.needStmt(n, "then", n.Then)}
		if n.Else != nil {
			s.Else = d.stmt(n.Else)
		}
		return s
	case "for":
		return &ast.ForStatement{
			Span:   sp,
			Init:   d.stmts(n.Init),
			Cond:   d.optExpr(n.Cond),
			Update: d.exprs(n.Line, n.Col, "update", n.Update),
			Body:   d.needStmt(n, "stmt", n.Stmt),
		}
	case "foreach":
		return &ast.EnhancedForStatement{
			Span:     sp,
			VarName:  n.Name,
			VarType:  n.Type,
			Iterable: d.need(n, "expr", n.Expr),
			Body:     d.needStmt(n, "stmt", n.Stmt),
		}
	case "while":
		return &ast.WhileStatement{Span: sp, Cond: d.need(n, "cond", n.Cond), Body: d.needStmt(n, "stmt", n.Stmt)}
	case "do":
		return &ast.DoWhileStatement{Span: sp, Body: d.needStmt(n, "stmt", n.Stmt), Cond: d.need(n, "cond", n.Cond)}
	case "switch":
		return &ast.SwitchStatement{Span: sp, Selector: d.need(n, "selector", n.Selector), Cases: d.cases(n.Cases)}
	case "try":
		s := &ast.TryStatement{
			Span:      sp,
			Resources: d.stmts(n.Resources),
			Body:      d.block(n, n.Body),
		}
		for i := range n.Catches {
			c := &n.Catches[i]
			cc := &ast.CatchClause{
				Span: d.span(c.Line, c.Col),
				Body: &ast.BlockStatement{Span: d.span(c.Line, c.Col), Statements: d.stmts(c.Body)},
			}
			if c.Param != nil {
				cc.Param = &ast.Parameter{Name: c.Param.Name, Type: c.Param.Type}
			}
			s.Catches = append(s.Catches, cc)
		}
		if n.Finally != nil {
			s.Finally = d.block(n.Finally, n.Finally.Body)
		}
		return s
	case "sync":
		return &ast.SynchronizedStatement{Span: sp, Monitor: d.need(n, "expr", n.Expr), Body: d.block(n, n.Body)}
	case "labeled":
		return &ast.LabeledStatement{Span: sp, Label: n.Label, Body: d.needStmt(n, "stmt", n.Stmt)}
	case "break":
		return &ast.BreakStatement{Span: sp, Label: n.Label}
	case "continue":
		return &ast.ContinueStatement{Span: sp, Label: n.Label}
	case "assert":
		return &ast.AssertStatement{Span: sp, Cond: d.need(n, "cond", n.Cond), Message: d.optExpr(n.Message)}
	}
	d.fail(n.Line, n.Col, "unknown statement kind %q", n.Kind)
	return nil
}

func (d *decoder) cases(list []rawCase) []*ast.Case {
	out := make([]*ast.Case, len(list))
	for i := range list {
		c := &list[i]
		out[i] = &ast.Case{
			Span:   d.span(c.Line, c.Col),
			Labels: d.exprs(c.Line, c.Col, "labels", c.Labels),
			Arrow:  c.Arrow,
			Body:   d.stmts(c.Body),
		}
	}
	return out
}

func (d *decoder) expr(n *rawNode) ast.Expression {
	if n == nil {
		d.fail(0, 0, "null expression")
		return nil
	}
	sp := d.span(n.Line, n.Col)
	switch n.Kind {
	case "ident":
		return &ast.Identifier{Span: sp, Name: n.Name, Type: n.Type}
	case "lit":
		return d.literal(n, sp)
	case "call":
		return &ast.MethodCall{Span: sp, Receiver: d.optExpr(n.Recv), Name: n.Name, Args: d.exprs(n.Line, n.Col, "args", n.Args), Type: n.Type}
	case "field":
		return &ast.FieldAccess{Span: sp, Target: d.need(n, "target", n.Target), Name: n.Name, Type: n.Type}
	case "assign":
		op := ast.Operator(n.Op)
		if op == "" {
			op = ast.OpAssign
		}
		return &ast.Assignment{Span: sp, Target: d.need(n, "target", n.Target), Operator: op, Value: d.need(n, "expr", n.Expr)}
	case "binary":
		return &ast.BinaryExpression{Span: sp, Left: d.need(n, "left", n.Left), Operator: ast.Operator(n.Op), Right: d.need(n, "right", n.Right)}
	case "unary":
		return &ast.UnaryExpression{Span: sp, Operator: ast.Operator(n.Op), Operand: d.need(n, "operand", n.Operand), Postfix: n.Postfix}
	case "cond":
		return &ast.ConditionalExpression{
			Span: sp,
			Cond: d.need(n, "cond", n.Cond),
			Then: d.need(n, "then", n.Then),
			Else: d.need(n, "else", n.Else),
			Type: n.Type,
		}
	case "index":
		return &ast.ArrayAccess{Span: sp, Array: d.need(n, "array", n.Array), Index: d.need(n, "index", n.Index), Type: n.Type}
	case "newarray":
		return &ast.NewArray{Span: sp, ElemType: n.Type, Dims: d.exprs(n.Line, n.Col, "dims", n.Dims), Elements: d.exprs(n.Line, n.Col, "elements", n.Elements), HasInit: n.HasInit}
	case "new":
		return &ast.NewClass{Span: sp, Class: n.Class, Args: d.exprs(n.Line, n.Col, "args", n.Args)}
	case "lambda":
		l := &ast.LambdaExpression{Span: sp, Params: d.params(n.Params)}
		if n.Expr != nil {
			l.Body = d.expr(n.Expr)
		} else {
			l.Body = d.block(n, n.Body)
		}
		return l
	case "switchexpr":
		return &ast.SwitchExpression{Span: sp, Selector: d.need(n, "selector", n.Selector), Cases: d.cases(n.Cases), Type: n.Type}
	case "template":
		if len(n.Fragments) != len(n.Values)+1 {
			d.fail(n.Line, n.Col, "template: %d fragments for %d values", len(n.Fragments), len(n.Values))
		}
		return &ast.StringTemplate{Span: sp, Processor: n.Processor, Fragments: n.Fragments, Values: d.exprs(n.Line, n.Col, "values", n.Values)}
	}
	d.fail(n.Line, n.Col, "unknown expression kind %q", n.Kind)
	return nil
}

func (d *decoder) literal(n *rawNode, sp position.Span) ast.Expression {
	l := &ast.Literal{Span: sp, Raw: n.Raw}
	switch v := n.Value.(type) {
	case nil:
		l.Kind = ast.LiteralNull
	case int:
		l.Kind, l.Value = ast.LiteralInteger, int64(v)
	case int64:
		l.Kind, l.Value = ast.LiteralInteger, v
	case uint64:
		l.Kind, l.Value = ast.LiteralInteger, int64(v)
	case float64:
		l.Kind, l.Value = ast.LiteralFloat, v
	case bool:
		l.Kind, l.Value = ast.LiteralBool, v
	case string:
		l.Kind, l.Value = ast.LiteralString, v
	default:
		d.fail(n.Line, n.Col, "literal of unsupported type %T", n.Value)
	}
	return l
}
