package ast

import (
	"github.com/orizon-lang/unwrap/internal/position"
)

// BlockStatement represents `{ statements }`
type BlockStatement struct {
	Span       position.Span
	Statements []Statement
}

func (b *BlockStatement) GetSpan() position.Span { return b.Span }
func (b *BlockStatement) String() string         { return Print(b) }
func (b *BlockStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitBlockStatement(b)
}
func (b *BlockStatement) statementNode() {}

// ExpressionStatement represents an expression evaluated for its effect
type ExpressionStatement struct {
	Span       position.Span
	Expression Expression
}

func (e *ExpressionStatement) GetSpan() position.Span { return e.Span }
func (e *ExpressionStatement) String() string         { return Print(e) }
func (e *ExpressionStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitExpressionStatement(e)
}
func (e *ExpressionStatement) statementNode() {}

// VariableDeclaration represents `Type name = value;`. An empty Type is
// printed as `var`. Value is nil for a declaration without initializer.
type VariableDeclaration struct {
	Span  position.Span
	Name  string
	Type  string
	Value Expression
}

func (v *VariableDeclaration) GetSpan() position.Span { return v.Span }
func (v *VariableDeclaration) String() string         { return Print(v) }
func (v *VariableDeclaration) Accept(visitor Visitor) interface{} {
	return visitor.VisitVariableDeclaration(v)
}
func (v *VariableDeclaration) statementNode() {}

// ReturnStatement represents `return value;`
type ReturnStatement struct {
	Span  position.Span
	Value Expression
}

func (r *ReturnStatement) GetSpan() position.Span { return r.Span }
func (r *ReturnStatement) String() string         { return Print(r) }
func (r *ReturnStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitReturnStatement(r)
}
func (r *ReturnStatement) statementNode() {}

// ThrowStatement represents `throw value;`
type ThrowStatement struct {
	Span  position.Span
	Value Expression
}

func (t *ThrowStatement) GetSpan() position.Span { return t.Span }
func (t *ThrowStatement) String() string         { return Print(t) }
func (t *ThrowStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitThrowStatement(t)
}
func (t *ThrowStatement) statementNode() {}

// YieldStatement produces the value of a switch expression case. Implicit
// marks the expression body of an arrow case (`case X -> value;`).
type YieldStatement struct {
	Span     position.Span
	Value    Expression
	Implicit bool
}

func (y *YieldStatement) GetSpan() position.Span { return y.Span }
func (y *YieldStatement) String() string         { return Print(y) }
func (y *YieldStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitYieldStatement(y)
}
func (y *YieldStatement) statementNode() {}

// IfStatement represents `if (cond) then else otherwise`
type IfStatement struct {
	Span position.Span
	Cond Expression
	Then Statement
	Else Statement
}

func (i *IfStatement) GetSpan() position.Span             { return i.Span }
func (i *IfStatement) String() string                     { return Print(i) }
func (i *IfStatement) Accept(visitor Visitor) interface{} { return visitor.VisitIfStatement(i) }
func (i *IfStatement) statementNode()                     {}

// ForStatement represents `for (init; cond; update) body`
type ForStatement struct {
	Span   position.Span
	Init   []Statement
	Cond   Expression
	Update []Expression
	Body   Statement
}

func (f *ForStatement) GetSpan() position.Span             { return f.Span }
func (f *ForStatement) String() string                     { return Print(f) }
func (f *ForStatement) Accept(visitor Visitor) interface{} { return visitor.VisitForStatement(f) }
func (f *ForStatement) statementNode()                     {}

// EnhancedForStatement represents `for (Type name : iterable) body`
type EnhancedForStatement struct {
	Span     position.Span
	VarName  string
	VarType  string
	Iterable Expression
	Body     Statement
}

func (f *EnhancedForStatement) GetSpan() position.Span { return f.Span }
func (f *EnhancedForStatement) String() string         { return Print(f) }
func (f *EnhancedForStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitEnhancedForStatement(f)
}
func (f *EnhancedForStatement) statementNode() {}

// WhileStatement represents `while (cond) body`
type WhileStatement struct {
	Span position.Span
	Cond Expression
	Body Statement
}

func (w *WhileStatement) GetSpan() position.Span { return w.Span }
func (w *WhileStatement) String() string         { return Print(w) }
func (w *WhileStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitWhileStatement(w)
}
func (w *WhileStatement) statementNode() {}

// DoWhileStatement represents `do body while (cond);`
type DoWhileStatement struct {
	Span position.Span
	Body Statement
	Cond Expression
}

func (d *DoWhileStatement) GetSpan() position.Span { return d.Span }
func (d *DoWhileStatement) String() string         { return Print(d) }
func (d *DoWhileStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitDoWhileStatement(d)
}
func (d *DoWhileStatement) statementNode() {}

// SwitchStatement represents a switch used as a statement
type SwitchStatement struct {
	Span     position.Span
	Selector Expression
	Cases    []*Case
}

func (s *SwitchStatement) GetSpan() position.Span { return s.Span }
func (s *SwitchStatement) String() string         { return Print(s) }
func (s *SwitchStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitSwitchStatement(s)
}
func (s *SwitchStatement) statementNode() {}

// Case is one `case` group (Arrow false, falls through) or one rule
// (Arrow true) of a switch. Empty Labels marks the default case.
type Case struct {
	Span   position.Span
	Labels []Expression
	Arrow  bool
	Body   []Statement
}

func (c *Case) GetSpan() position.Span             { return c.Span }
func (c *Case) String() string                     { return Print(c) }
func (c *Case) Accept(visitor Visitor) interface{} { return visitor.VisitCase(c) }

// IsDefault reports whether the case has no labels.
func (c *Case) IsDefault() bool { return len(c.Labels) == 0 }

// TryStatement represents try, try-with-resources, catch and finally.
// Resources holds VariableDeclaration or ExpressionStatement nodes.
type TryStatement struct {
	Span      position.Span
	Resources []Statement
	Body      *BlockStatement
	Catches   []*CatchClause
	Finally   *BlockStatement
}

func (t *TryStatement) GetSpan() position.Span             { return t.Span }
func (t *TryStatement) String() string                     { return Print(t) }
func (t *TryStatement) Accept(visitor Visitor) interface{} { return visitor.VisitTryStatement(t) }
func (t *TryStatement) statementNode()                     {}

// CatchClause represents `catch (Type name) body`
type CatchClause struct {
	Span  position.Span
	Param *Parameter
	Body  *BlockStatement
}

func (c *CatchClause) GetSpan() position.Span             { return c.Span }
func (c *CatchClause) String() string                     { return Print(c) }
func (c *CatchClause) Accept(visitor Visitor) interface{} { return visitor.VisitCatchClause(c) }

// SynchronizedStatement represents `synchronized (monitor) body`
type SynchronizedStatement struct {
	Span    position.Span
	Monitor Expression
	Body    *BlockStatement
}

func (s *SynchronizedStatement) GetSpan() position.Span { return s.Span }
func (s *SynchronizedStatement) String() string         { return Print(s) }
func (s *SynchronizedStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitSynchronizedStatement(s)
}
func (s *SynchronizedStatement) statementNode() {}

// LabeledStatement represents `label: body`
type LabeledStatement struct {
	Span  position.Span
	Label string
	Body  Statement
}

func (l *LabeledStatement) GetSpan() position.Span { return l.Span }
func (l *LabeledStatement) String() string         { return Print(l) }
func (l *LabeledStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitLabeledStatement(l)
}
func (l *LabeledStatement) statementNode() {}

// BreakStatement represents `break label;`
type BreakStatement struct {
	Span  position.Span
	Label string
}

func (b *BreakStatement) GetSpan() position.Span { return b.Span }
func (b *BreakStatement) String() string         { return Print(b) }
func (b *BreakStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitBreakStatement(b)
}
func (b *BreakStatement) statementNode() {}

// ContinueStatement represents `continue label;`
type ContinueStatement struct {
	Span  position.Span
	Label string
}

func (c *ContinueStatement) GetSpan() position.Span { return c.Span }
func (c *ContinueStatement) String() string         { return Print(c) }
func (c *ContinueStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitContinueStatement(c)
}
func (c *ContinueStatement) statementNode() {}

// AssertStatement represents `assert cond : message;`
type AssertStatement struct {
	Span    position.Span
	Cond    Expression
	Message Expression
}

func (a *AssertStatement) GetSpan() position.Span { return a.Span }
func (a *AssertStatement) String() string         { return Print(a) }
func (a *AssertStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitAssertStatement(a)
}
func (a *AssertStatement) statementNode() {}
