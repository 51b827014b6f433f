package ast

import (
	"github.com/orizon-lang/unwrap/internal/position"
)

// Identifier represents a name reference: a local, a parameter or a
// class name used as the receiver of a static call.
type Identifier struct {
	Span position.Span
	Name string
	Type string
}

func (i *Identifier) GetSpan() position.Span             { return i.Span }
func (i *Identifier) String() string                     { return i.Name }
func (i *Identifier) Accept(visitor Visitor) interface{} { return visitor.VisitIdentifier(i) }
func (i *Identifier) StaticType() string                 { return i.Type }
func (i *Identifier) expressionNode()                    {}

// LiteralKind represents the kind of a literal value
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralFloat
	LiteralString
	LiteralBool
	LiteralNull
)

// Literal represents a constant. Value holds int64, float64, string, bool
// or nil according to Kind.
type Literal struct {
	Span  position.Span
	Kind  LiteralKind
	Value interface{}
	Raw   string
}

func (l *Literal) GetSpan() position.Span             { return l.Span }
func (l *Literal) String() string                     { return Print(l) }
func (l *Literal) Accept(visitor Visitor) interface{} { return visitor.VisitLiteral(l) }
func (l *Literal) expressionNode()                    {}

// MethodCall represents `receiver.name(args)`. Receiver is nil for an
// unqualified call.
type MethodCall struct {
	Span     position.Span
	Receiver Expression
	Name     string
	Args     []Expression
	Type     string
}

func (c *MethodCall) GetSpan() position.Span             { return c.Span }
func (c *MethodCall) String() string                     { return Print(c) }
func (c *MethodCall) Accept(visitor Visitor) interface{} { return visitor.VisitMethodCall(c) }
func (c *MethodCall) StaticType() string                 { return c.Type }
func (c *MethodCall) expressionNode()                    {}

// FieldAccess represents `target.name`
type FieldAccess struct {
	Span   position.Span
	Target Expression
	Name   string
	Type   string
}

func (f *FieldAccess) GetSpan() position.Span             { return f.Span }
func (f *FieldAccess) String() string                     { return Print(f) }
func (f *FieldAccess) Accept(visitor Visitor) interface{} { return visitor.VisitFieldAccess(f) }
func (f *FieldAccess) StaticType() string                 { return f.Type }
func (f *FieldAccess) expressionNode()                    {}

// Assignment represents simple and compound assignment. It is an
// expression; as a statement it is wrapped in an ExpressionStatement.
type Assignment struct {
	Span     position.Span
	Target   Expression
	Operator Operator
	Value    Expression
}

func (a *Assignment) GetSpan() position.Span             { return a.Span }
func (a *Assignment) String() string                     { return Print(a) }
func (a *Assignment) Accept(visitor Visitor) interface{} { return visitor.VisitAssignment(a) }
func (a *Assignment) expressionNode()                    {}

// BinaryExpression represents `left op right`
type BinaryExpression struct {
	Span     position.Span
	Left     Expression
	Operator Operator
	Right    Expression
}

func (b *BinaryExpression) GetSpan() position.Span { return b.Span }
func (b *BinaryExpression) String() string         { return Print(b) }
func (b *BinaryExpression) Accept(visitor Visitor) interface{} {
	return visitor.VisitBinaryExpression(b)
}
func (b *BinaryExpression) expressionNode() {}

// UnaryExpression represents prefix and postfix operators
type UnaryExpression struct {
	Span     position.Span
	Operator Operator
	Operand  Expression
	Postfix  bool
}

func (u *UnaryExpression) GetSpan() position.Span { return u.Span }
func (u *UnaryExpression) String() string         { return Print(u) }
func (u *UnaryExpression) Accept(visitor Visitor) interface{} {
	return visitor.VisitUnaryExpression(u)
}
func (u *UnaryExpression) expressionNode() {}

// ConditionalExpression represents `cond ? then : else`
type ConditionalExpression struct {
	Span position.Span
	Cond Expression
	Then Expression
	Else Expression
	Type string
}

func (c *ConditionalExpression) GetSpan() position.Span { return c.Span }
func (c *ConditionalExpression) String() string         { return Print(c) }
func (c *ConditionalExpression) Accept(visitor Visitor) interface{} {
	return visitor.VisitConditionalExpression(c)
}
func (c *ConditionalExpression) StaticType() string { return c.Type }
func (c *ConditionalExpression) expressionNode()    {}

// ArrayAccess represents `array[index]`
type ArrayAccess struct {
	Span  position.Span
	Array Expression
	Index Expression
	Type  string
}

func (a *ArrayAccess) GetSpan() position.Span             { return a.Span }
func (a *ArrayAccess) String() string                     { return Print(a) }
func (a *ArrayAccess) Accept(visitor Visitor) interface{} { return visitor.VisitArrayAccess(a) }
func (a *ArrayAccess) StaticType() string                 { return a.Type }
func (a *ArrayAccess) expressionNode()                    {}

// NewArray represents `new T[d0][d1]` or `new T[]{e0, e1}`
type NewArray struct {
	Span     position.Span
	ElemType string
	Dims     []Expression
	Elements []Expression
	HasInit  bool
}

func (n *NewArray) GetSpan() position.Span             { return n.Span }
func (n *NewArray) String() string                     { return Print(n) }
func (n *NewArray) Accept(visitor Visitor) interface{} { return visitor.VisitNewArray(n) }
func (n *NewArray) expressionNode()                    {}

// NewClass represents `new Class(args)`
type NewClass struct {
	Span  position.Span
	Class string
	Args  []Expression
}

func (n *NewClass) GetSpan() position.Span             { return n.Span }
func (n *NewClass) String() string                     { return Print(n) }
func (n *NewClass) Accept(visitor Visitor) interface{} { return visitor.VisitNewClass(n) }
func (n *NewClass) StaticType() string                 { return n.Class }
func (n *NewClass) expressionNode()                    {}

// LambdaExpression represents `(params) -> body`. Body is either an
// Expression or a *BlockStatement.
type LambdaExpression struct {
	Span   position.Span
	Params []*Parameter
	Body   Node
}

func (l *LambdaExpression) GetSpan() position.Span { return l.Span }
func (l *LambdaExpression) String() string         { return Print(l) }
func (l *LambdaExpression) Accept(visitor Visitor) interface{} {
	return visitor.VisitLambdaExpression(l)
}
func (l *LambdaExpression) expressionNode() {}

// SwitchExpression represents a switch used as a value; cases produce the
// value with yield.
type SwitchExpression struct {
	Span     position.Span
	Selector Expression
	Cases    []*Case
	Type     string
}

func (s *SwitchExpression) GetSpan() position.Span { return s.Span }
func (s *SwitchExpression) String() string         { return Print(s) }
func (s *SwitchExpression) Accept(visitor Visitor) interface{} {
	return visitor.VisitSwitchExpression(s)
}
func (s *SwitchExpression) StaticType() string { return s.Type }
func (s *SwitchExpression) expressionNode()    {}

// StringTemplate represents an interpolated string. Fragments has one more
// element than Values; Values[i] sits between Fragments[i] and
// Fragments[i+1].
type StringTemplate struct {
	Span      position.Span
	Processor string
	Fragments []string
	Values    []Expression
}

func (s *StringTemplate) GetSpan() position.Span { return s.Span }
func (s *StringTemplate) String() string         { return Print(s) }
func (s *StringTemplate) Accept(visitor Visitor) interface{} {
	return visitor.VisitStringTemplate(s)
}
func (s *StringTemplate) expressionNode() {}
