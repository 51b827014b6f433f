package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders node as Java-like source text with two-space indentation.
func Print(node Node) string {
	if node == nil || isNilNode(node) {
		return "<nil>"
	}
	p := &printer{}
	if e, ok := node.(Expression); ok {
		return p.expr(e)
	}
	node.Accept(p)
	return strings.TrimRight(p.buf.String(), "\n")
}

// printer renders trees. Expression visits return their text; statement
// and declaration visits write whole lines to buf.
type printer struct {
	BaseVisitor
	buf    strings.Builder
	indent int
}

func (p *printer) line(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) expr(e Expression) string {
	if e == nil {
		return ""
	}
	if s, ok := e.Accept(p).(string); ok {
		return s
	}
	return fmt.Sprintf("<%T>", e)
}

func (p *printer) exprs(list []Expression) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = p.expr(e)
	}
	return strings.Join(parts, ", ")
}

// nested renders a statement or block at the given extra indentation and
// returns the lines without the trailing newline.
func (p *printer) nested(node Node, extra int) string {
	sub := &printer{indent: p.indent + extra}
	node.Accept(sub)
	return strings.TrimRight(sub.buf.String(), "\n")
}

// block writes `header {`, the statements, and `}` + trailer.
func (p *printer) block(header string, stmts []Statement, trailer string) {
	p.line("%s{", header)
	p.indent++
	for _, s := range stmts {
		s.Accept(p)
	}
	p.indent--
	p.line("}%s", trailer)
}

// body writes a statement that follows a header such as `if (c) `.
func (p *printer) body(header string, s Statement, trailer string) {
	if b, ok := s.(*BlockStatement); ok && b != nil {
		p.block(header, b.Statements, trailer)
		return
	}
	p.line("%s", strings.TrimRight(header, " "))
	p.indent++
	if s != nil && !isNilNode(s) {
		s.Accept(p)
	}
	p.indent--
	if trailer != "" {
		p.line("%s", strings.TrimSpace(trailer))
	}
}

func (p *printer) VisitCompilationUnit(node *CompilationUnit) interface{} {
	if node.Package != "" {
		p.line("package %s;", node.Package)
		p.line("")
	}
	for i, m := range node.Methods {
		if i > 0 {
			p.line("")
		}
		m.Accept(p)
	}
	return nil
}

func (p *printer) VisitMethodDeclaration(node *MethodDeclaration) interface{} {
	params := make([]string, len(node.Params))
	for i, param := range node.Params {
		params[i] = param.String()
	}
	ret := node.ReturnType
	if ret == "" {
		ret = "void"
	}
	var stmts []Statement
	if node.Body != nil {
		stmts = node.Body.Statements
	}
	p.block(fmt.Sprintf("static %s %s(%s) ", ret, node.Name, strings.Join(params, ", ")), stmts, "")
	return nil
}

func (p *printer) VisitParameter(node *Parameter) interface{} {
	return node.String()
}

func (p *printer) VisitBlockStatement(node *BlockStatement) interface{} {
	p.block("", node.Statements, "")
	return nil
}

func (p *printer) VisitExpressionStatement(node *ExpressionStatement) interface{} {
	p.line("%s;", p.expr(node.Expression))
	return nil
}

func (p *printer) declaration(node *VariableDeclaration) string {
	typ := node.Type
	if typ == "" {
		typ = "var"
	}
	if node.Value == nil {
		return fmt.Sprintf("%s %s", typ, node.Name)
	}
	return fmt.Sprintf("%s %s = %s", typ, node.Name, p.expr(node.Value))
}

func (p *printer) VisitVariableDeclaration(node *VariableDeclaration) interface{} {
	p.line("%s;", p.declaration(node))
	return nil
}

func (p *printer) VisitReturnStatement(node *ReturnStatement) interface{} {
	if node.Value == nil {
		p.line("return;")
		return nil
	}
	p.line("return %s;", p.expr(node.Value))
	return nil
}

func (p *printer) VisitThrowStatement(node *ThrowStatement) interface{} {
	p.line("throw %s;", p.expr(node.Value))
	return nil
}

func (p *printer) VisitYieldStatement(node *YieldStatement) interface{} {
	p.line("yield %s;", p.expr(node.Value))
	return nil
}

func (p *printer) VisitIfStatement(node *IfStatement) interface{} {
	header := fmt.Sprintf("if (%s) ", p.expr(node.Cond))
	if node.Else == nil || isNilNode(node.Else) {
		p.body(header, node.Then, "")
		return nil
	}
	if b, ok := node.Then.(*BlockStatement); ok {
		p.line("%s{", header)
		p.indent++
		for _, s := range b.Statements {
			s.Accept(p)
		}
		p.indent--
		p.line("}")
	} else {
		p.body(header, node.Then, "")
	}
	switch e := node.Else.(type) {
	case *IfStatement:
		nested := strings.TrimLeft(p.nested(e, 0), " ")
		p.closeElse("else " + nested)
	case *BlockStatement:
		p.closeElse("else {")
		p.indent++
		for _, s := range e.Statements {
			s.Accept(p)
		}
		p.indent--
		p.line("}")
	default:
		p.closeElse("else")
		p.indent++
		e.Accept(p)
		p.indent--
	}
	return nil
}

// closeElse joins `else ...` to a preceding `}` line when there is one.
func (p *printer) closeElse(text string) {
	out := p.buf.String()
	trimmed := strings.TrimRight(out, "\n")
	if strings.HasSuffix(trimmed, "}") {
		p.buf.Reset()
		p.buf.WriteString(trimmed)
		p.buf.WriteString(" " + text + "\n")
		return
	}
	p.line("%s", text)
}

func (p *printer) forInit(stmts []Statement) string {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		switch st := s.(type) {
		case *VariableDeclaration:
			parts = append(parts, p.declaration(st))
		case *ExpressionStatement:
			parts = append(parts, p.expr(st.Expression))
		default:
			parts = append(parts, strings.TrimSuffix(strings.TrimSpace(p.nested(st, 0)), ";"))
		}
	}
	return strings.Join(parts, ", ")
}

func (p *printer) VisitForStatement(node *ForStatement) interface{} {
	header := fmt.Sprintf("for (%s; %s; %s) ", p.forInit(node.Init), p.expr(node.Cond), p.exprs(node.Update))
	p.body(header, node.Body, "")
	return nil
}

func (p *printer) VisitEnhancedForStatement(node *EnhancedForStatement) interface{} {
	typ := node.VarType
	if typ == "" {
		typ = "var"
	}
	p.body(fmt.Sprintf("for (%s %s : %s) ", typ, node.VarName, p.expr(node.Iterable)), node.Body, "")
	return nil
}

func (p *printer) VisitWhileStatement(node *WhileStatement) interface{} {
	p.body(fmt.Sprintf("while (%s) ", p.expr(node.Cond)), node.Body, "")
	return nil
}

func (p *printer) VisitDoWhileStatement(node *DoWhileStatement) interface{} {
	p.body("do ", node.Body, fmt.Sprintf(" while (%s);", p.expr(node.Cond)))
	return nil
}

func (p *printer) cases(cases []*Case) {
	p.indent++
	for _, c := range cases {
		c.Accept(p)
	}
	p.indent--
}

func (p *printer) VisitSwitchStatement(node *SwitchStatement) interface{} {
	p.line("switch (%s) {", p.expr(node.Selector))
	p.cases(node.Cases)
	p.line("}")
	return nil
}

func (p *printer) VisitCase(node *Case) interface{} {
	head := "default"
	if !node.IsDefault() {
		head = "case " + p.exprs(node.Labels)
	}
	if !node.Arrow {
		p.line("%s:", head)
		p.indent++
		for _, s := range node.Body {
			s.Accept(p)
		}
		p.indent--
		return nil
	}
	if len(node.Body) == 1 {
		switch s := node.Body[0].(type) {
		case *BlockStatement:
			p.block(head+" -> ", s.Statements, "")
			return nil
		case *YieldStatement:
			if s.Implicit {
				p.line("%s -> %s;", head, p.expr(s.Value))
				return nil
			}
		case *ExpressionStatement:
			p.line("%s -> %s;", head, p.expr(s.Expression))
			return nil
		case *ThrowStatement:
			p.line("%s -> throw %s;", head, p.expr(s.Value))
			return nil
		}
	}
	p.block(head+" -> ", node.Body, "")
	return nil
}

func (p *printer) VisitTryStatement(node *TryStatement) interface{} {
	header := "try "
	if len(node.Resources) > 0 {
		res := make([]string, len(node.Resources))
		for i, r := range node.Resources {
			switch st := r.(type) {
			case *VariableDeclaration:
				res[i] = p.declaration(st)
			case *ExpressionStatement:
				res[i] = p.expr(st.Expression)
			}
		}
		header = fmt.Sprintf("try (%s) ", strings.Join(res, "; "))
	}
	var body []Statement
	if node.Body != nil {
		body = node.Body.Statements
	}
	p.block(header, body, "")
	for _, c := range node.Catches {
		c.Accept(p)
	}
	if node.Finally != nil {
		p.closeElse("finally {")
		p.indent++
		for _, s := range node.Finally.Statements {
			s.Accept(p)
		}
		p.indent--
		p.line("}")
	}
	return nil
}

func (p *printer) VisitCatchClause(node *CatchClause) interface{} {
	param := ""
	if node.Param != nil {
		param = node.Param.String()
	}
	p.closeElse(fmt.Sprintf("catch (%s) {", param))
	p.indent++
	if node.Body != nil {
		for _, s := range node.Body.Statements {
			s.Accept(p)
		}
	}
	p.indent--
	p.line("}")
	return nil
}

func (p *printer) VisitSynchronizedStatement(node *SynchronizedStatement) interface{} {
	var body []Statement
	if node.Body != nil {
		body = node.Body.Statements
	}
	p.block(fmt.Sprintf("synchronized (%s) ", p.expr(node.Monitor)), body, "")
	return nil
}

func (p *printer) VisitLabeledStatement(node *LabeledStatement) interface{} {
	p.line("%s:", node.Label)
	node.Body.Accept(p)
	return nil
}

func (p *printer) VisitBreakStatement(node *BreakStatement) interface{} {
	if node.Label == "" {
		p.line("break;")
	} else {
		p.line("break %s;", node.Label)
	}
	return nil
}

func (p *printer) VisitContinueStatement(node *ContinueStatement) interface{} {
	if node.Label == "" {
		p.line("continue;")
	} else {
		p.line("continue %s;", node.Label)
	}
	return nil
}

func (p *printer) VisitAssertStatement(node *AssertStatement) interface{} {
	if node.Message == nil {
		p.line("assert %s;", p.expr(node.Cond))
	} else {
		p.line("assert %s : %s;", p.expr(node.Cond), p.expr(node.Message))
	}
	return nil
}

func (p *printer) VisitIdentifier(node *Identifier) interface{} { return node.Name }

func (p *printer) VisitLiteral(node *Literal) interface{} {
	if node.Raw != "" {
		return node.Raw
	}
	switch node.Kind {
	case LiteralString:
		s, _ := node.Value.(string)
		return strconv.Quote(s)
	case LiteralNull:
		return "null"
	default:
		return fmt.Sprint(node.Value)
	}
}

func (p *printer) VisitMethodCall(node *MethodCall) interface{} {
	call := fmt.Sprintf("%s(%s)", node.Name, p.exprs(node.Args))
	if node.Receiver == nil {
		return call
	}
	return p.operand(node.Receiver, true) + "." + call
}

func (p *printer) VisitFieldAccess(node *FieldAccess) interface{} {
	return p.operand(node.Target, true) + "." + node.Name
}

func (p *printer) VisitAssignment(node *Assignment) interface{} {
	return fmt.Sprintf("%s %s %s", p.expr(node.Target), node.Operator, p.expr(node.Value))
}

// precedence returns the binding strength of a binary operator.
func precedence(op Operator) int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpBitOr:
		return 3
	case OpBitXor:
		return 4
	case OpBitAnd:
		return 5
	case OpEq, OpNe:
		return 6
	case OpLt, OpLe, OpGt, OpGe:
		return 7
	case OpShl, OpShr:
		return 8
	case OpAdd, OpSub:
		return 9
	default:
		return 10
	}
}

func (p *printer) VisitBinaryExpression(node *BinaryExpression) interface{} {
	prec := precedence(node.Operator)
	side := func(e Expression, right bool) string {
		s := p.expr(e)
		switch c := e.(type) {
		case *BinaryExpression:
			cp := precedence(c.Operator)
			if cp < prec || (right && cp == prec) {
				return "(" + s + ")"
			}
		case *ConditionalExpression, *Assignment, *LambdaExpression:
			return "(" + s + ")"
		}
		return s
	}
	return fmt.Sprintf("%s %s %s", side(node.Left, false), node.Operator, side(node.Right, true))
}

// operand parenthesizes compound expressions used as a receiver, array
// or unary operand.
func (p *printer) operand(e Expression, postfix bool) string {
	s := p.expr(e)
	switch e.(type) {
	case *BinaryExpression, *ConditionalExpression, *Assignment, *LambdaExpression:
		return "(" + s + ")"
	case *UnaryExpression:
		if postfix {
			return "(" + s + ")"
		}
	}
	return s
}

func (p *printer) VisitUnaryExpression(node *UnaryExpression) interface{} {
	if node.Postfix {
		return p.operand(node.Operand, true) + node.Operator.String()
	}
	return node.Operator.String() + p.operand(node.Operand, false)
}

func (p *printer) VisitConditionalExpression(node *ConditionalExpression) interface{} {
	part := func(e Expression) string {
		if _, ok := e.(*ConditionalExpression); ok {
			return "(" + p.expr(e) + ")"
		}
		return p.operand(e, false)
	}
	return fmt.Sprintf("%s ? %s : %s", part(node.Cond), part(node.Then), part(node.Else))
}

func (p *printer) VisitArrayAccess(node *ArrayAccess) interface{} {
	return fmt.Sprintf("%s[%s]", p.operand(node.Array, true), p.expr(node.Index))
}

func (p *printer) VisitNewArray(node *NewArray) interface{} {
	if node.HasInit {
		return fmt.Sprintf("new %s[]{%s}", node.ElemType, p.exprs(node.Elements))
	}
	var dims strings.Builder
	for _, d := range node.Dims {
		fmt.Fprintf(&dims, "[%s]", p.expr(d))
	}
	return fmt.Sprintf("new %s%s", node.ElemType, dims.String())
}

func (p *printer) VisitNewClass(node *NewClass) interface{} {
	return fmt.Sprintf("new %s(%s)", node.Class, p.exprs(node.Args))
}

func (p *printer) VisitLambdaExpression(node *LambdaExpression) interface{} {
	params := make([]string, len(node.Params))
	for i, param := range node.Params {
		params[i] = param.String()
	}
	head := fmt.Sprintf("(%s) -> ", strings.Join(params, ", "))
	switch b := node.Body.(type) {
	case *BlockStatement:
		text := strings.TrimLeft(p.nested(b, 0), " ")
		return head + text
	case Expression:
		return head + p.expr(b)
	}
	return head + "{}"
}

func (p *printer) VisitSwitchExpression(node *SwitchExpression) interface{} {
	sub := &printer{indent: p.indent}
	sub.cases(node.Cases)
	cases := strings.TrimRight(sub.buf.String(), "\n")
	return fmt.Sprintf("switch (%s) {\n%s\n%s}", p.expr(node.Selector), cases, strings.Repeat("  ", p.indent))
}

func (p *printer) VisitStringTemplate(node *StringTemplate) interface{} {
	var sb strings.Builder
	proc := node.Processor
	if proc == "" {
		proc = "STR"
	}
	sb.WriteString(proc + ".\"")
	for i, frag := range node.Fragments {
		sb.WriteString(frag)
		if i < len(node.Values) {
			sb.WriteString(`\{` + p.expr(node.Values[i]) + "}")
		}
	}
	sb.WriteString("\"")
	return sb.String()
}
