package ast

import (
	"fmt"

	"github.com/orizon-lang/unwrap/internal/position"
)

// TransformationError represents a structural problem met while changing
// a tree: a replacement that does not fit the slot it targets, or a child
// that cannot be found under its supposed parent.
type TransformationError struct {
	Message string
	Span    position.Span
}

// NewTransformationError creates a new transformation error.
func NewTransformationError(message string, span position.Span) *TransformationError {
	return &TransformationError{
		Message: message,
		Span:    span,
	}
}

// Error implements the error interface.
func (te *TransformationError) Error() string {
	return fmt.Sprintf("transformation error at %s: %s", te.Span.String(), te.Message)
}

// ReplaceChild swaps old for replacement in the child slot of parent that
// holds old. Statement list slots accept a *BlockStatement replacement
// like any other statement.
func ReplaceChild(parent, old, replacement Node) error {
	fail := func() error {
		return NewTransformationError(
			fmt.Sprintf("%T is not a child of %T or cannot hold %T", old, parent, replacement),
			old.GetSpan())
	}

	// A lambda body slot holds either kind.
	if l, ok := parent.(*LambdaExpression); ok && l.Body == old {
		switch replacement.(type) {
		case Expression, *BlockStatement:
			l.Body = replacement
			return nil
		}
		return fail()
	}

	if oldStmt, ok := old.(Statement); ok {
		newStmt, ok := replacement.(Statement)
		if !ok {
			return fail()
		}
		if replaceStatement(parent, oldStmt, newStmt) {
			return nil
		}
		return fail()
	}
	if oldExpr, ok := old.(Expression); ok {
		newExpr, ok := replacement.(Expression)
		if !ok {
			return fail()
		}
		if replaceExpression(parent, oldExpr, newExpr) {
			return nil
		}
	}
	return fail()
}

func replaceInList(list []Statement, old, replacement Statement) bool {
	for i, s := range list {
		if s == old {
			list[i] = replacement
			return true
		}
	}
	return false
}

func replaceStatement(parent Node, old, replacement Statement) bool {
	switch p := parent.(type) {
	case *MethodDeclaration:
		if p.Body == old {
			b, ok := replacement.(*BlockStatement)
			if ok {
				p.Body = b
			}
			return ok
		}
	case *BlockStatement:
		return replaceInList(p.Statements, old, replacement)
	case *Case:
		return replaceInList(p.Body, old, replacement)
	case *IfStatement:
		switch old {
		case p.Then:
			p.Then = replacement
			return true
		case p.Else:
			p.Else = replacement
			return true
		}
	case *ForStatement:
		if p.Body == old {
			p.Body = replacement
			return true
		}
		return replaceInList(p.Init, old, replacement)
	case *EnhancedForStatement:
		if p.Body == old {
			p.Body = replacement
			return true
		}
	case *WhileStatement:
		if p.Body == old {
			p.Body = replacement
			return true
		}
	case *DoWhileStatement:
		if p.Body == old {
			p.Body = replacement
			return true
		}
	case *LabeledStatement:
		if p.Body == old {
			p.Body = replacement
			return true
		}
	case *TryStatement:
		if replaceInList(p.Resources, old, replacement) {
			return true
		}
		b, ok := replacement.(*BlockStatement)
		if !ok {
			return false
		}
		switch old {
		case p.Body:
			p.Body = b
			return true
		case p.Finally:
			p.Finally = b
			return true
		}
	case *CatchClause:
		if b, ok := replacement.(*BlockStatement); ok && p.Body == old {
			p.Body = b
			return true
		}
	case *SynchronizedStatement:
		if b, ok := replacement.(*BlockStatement); ok && p.Body == old {
			p.Body = b
			return true
		}
	}
	return false
}

func replaceInExprs(list []Expression, old, replacement Expression) bool {
	for i, e := range list {
		if e == old {
			list[i] = replacement
			return true
		}
	}
	return false
}

func replaceExpression(parent Node, old, replacement Expression) bool {
	set := func(slot *Expression) bool {
		if *slot == old {
			*slot = replacement
			return true
		}
		return false
	}

	switch p := parent.(type) {
	case *ExpressionStatement:
		return set(&p.Expression)
	case *VariableDeclaration:
		return set(&p.Value)
	case *ReturnStatement:
		return set(&p.Value)
	case *ThrowStatement:
		return set(&p.Value)
	case *YieldStatement:
		return set(&p.Value)
	case *IfStatement:
		return set(&p.Cond)
	case *ForStatement:
		return set(&p.Cond) || replaceInExprs(p.Update, old, replacement)
	case *EnhancedForStatement:
		return set(&p.Iterable)
	case *WhileStatement:
		return set(&p.Cond)
	case *DoWhileStatement:
		return set(&p.Cond)
	case *SwitchStatement:
		return set(&p.Selector)
	case *Case:
		return replaceInExprs(p.Labels, old, replacement)
	case *SynchronizedStatement:
		return set(&p.Monitor)
	case *AssertStatement:
		return set(&p.Cond) || set(&p.Message)
	case *MethodCall:
		return set(&p.Receiver) || replaceInExprs(p.Args, old, replacement)
	case *FieldAccess:
		return set(&p.Target)
	case *Assignment:
		return set(&p.Target) || set(&p.Value)
	case *BinaryExpression:
		return set(&p.Left) || set(&p.Right)
	case *UnaryExpression:
		return set(&p.Operand)
	case *ConditionalExpression:
		return set(&p.Cond) || set(&p.Then) || set(&p.Else)
	case *ArrayAccess:
		return set(&p.Array) || set(&p.Index)
	case *NewArray:
		return replaceInExprs(p.Dims, old, replacement) || replaceInExprs(p.Elements, old, replacement)
	case *NewClass:
		return replaceInExprs(p.Args, old, replacement)
	case *SwitchExpression:
		return set(&p.Selector)
	case *StringTemplate:
		return replaceInExprs(p.Values, old, replacement)
	}
	return false
}
