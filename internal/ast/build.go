package ast

import "strconv"

// Constructors for hand-built trees. They leave spans empty; callers that
// care about positions set Span on the returned nodes.

// Ident returns an identifier reference.
func Ident(name string) *Identifier { return &Identifier{Name: name} }

// TypedIdent returns an identifier with an attributed static type.
func TypedIdent(name, typ string) *Identifier { return &Identifier{Name: name, Type: typ} }

// Int returns an integer literal.
func Int(v int64) *Literal {
	return &Literal{Kind: LiteralInteger, Value: v, Raw: strconv.FormatInt(v, 10)}
}

// Str returns a string literal.
func Str(s string) *Literal { return &Literal{Kind: LiteralString, Value: s} }

// Bool returns a boolean literal.
func Bool(b bool) *Literal {
	return &Literal{Kind: LiteralBool, Value: b, Raw: strconv.FormatBool(b)}
}

// Null returns the null literal.
func Null() *Literal { return &Literal{Kind: LiteralNull} }

// Call returns `recv.name(args)`; recv may be nil.
func Call(recv Expression, name string, args ...Expression) *MethodCall {
	return &MethodCall{Receiver: recv, Name: name, Args: args}
}

// TypedCall returns an unqualified call with an attributed result type.
func TypedCall(typ, name string, args ...Expression) *MethodCall {
	return &MethodCall{Name: name, Args: args, Type: typ}
}

// Static returns `Class.name(args)`.
func Static(class, name string, args ...Expression) *MethodCall {
	return Call(Ident(class), name, args...)
}

// Bin returns `left op right`.
func Bin(left Expression, op Operator, right Expression) *BinaryExpression {
	return &BinaryExpression{Left: left, Operator: op, Right: right}
}

// Block returns `{ stmts }`.
func Block(stmts ...Statement) *BlockStatement {
	return &BlockStatement{Statements: stmts}
}

// Return returns `return value;`.
func Return(value Expression) *ReturnStatement { return &ReturnStatement{Value: value} }

// Throw returns `throw value;`.
func Throw(value Expression) *ThrowStatement { return &ThrowStatement{Value: value} }

// Yield returns `yield value;`.
func Yield(value Expression) *YieldStatement { return &YieldStatement{Value: value} }

// Expr returns `expr;`.
func Expr(e Expression) *ExpressionStatement { return &ExpressionStatement{Expression: e} }

// Var returns `typ name = value;`.
func Var(name, typ string, value Expression) *VariableDeclaration {
	return &VariableDeclaration{Name: name, Type: typ, Value: value}
}

// Assign returns `target = value;`.
func Assign(target, value Expression) *ExpressionStatement {
	return Expr(&Assignment{Target: target, Operator: OpAssign, Value: value})
}

// If returns `if (cond) then else otherwise`; otherwise may be nil.
func If(cond Expression, then, otherwise Statement) *IfStatement {
	return &IfStatement{Cond: cond, Then: then, Else: otherwise}
}

// Param returns a parameter.
func Param(name, typ string) *Parameter { return &Parameter{Name: name, Type: typ} }

// Method returns a method declaration with a block body.
func Method(name, ret string, params []*Parameter, stmts ...Statement) *MethodDeclaration {
	return &MethodDeclaration{Name: name, ReturnType: ret, Params: params, Body: Block(stmts...)}
}

// Unit returns a compilation unit holding methods.
func Unit(filename string, methods ...*MethodDeclaration) *CompilationUnit {
	return &CompilationUnit{Filename: filename, Methods: methods}
}

// Lambda returns `(params) -> body`.
func Lambda(body Node, params ...*Parameter) *LambdaExpression {
	return &LambdaExpression{Params: params, Body: body}
}
