package unwrap

import (
	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/errors"
)

// Classifier decides for each site whether a guard can be placed in front
// of it and, when it can, which statement anchors the guard and which exit
// leaves the scope.
type Classifier struct {
	idx *ast.ParentIndex
}

// NewClassifier returns a classifier over an indexed tree.
func NewClassifier(idx *ast.ParentIndex) *Classifier {
	return &Classifier{idx: idx}
}

// Classify returns exactly one of a context or a rejection. The error is
// reserved for trees the pass cannot have produced, such as an anchor
// outside any method.
func (c *Classifier) Classify(site *Site) (*RewriteContext, *Rejection, error) {
	reject := func(reason Reason, node ast.Node) (*RewriteContext, *Rejection, error) {
		return nil, &Rejection{Site: site, Reason: reason, Node: node}, nil
	}

	site.Chain = site.Chain[:0]
	var lift *ast.ConditionalExpression
	var child ast.Node = site.Call

	for {
		parent := c.idx.Parent(child)
		switch p := parent.(type) {
		case nil:
			return nil, nil, errors.InconsistentTree(site.Span(), "site is not inside a statement")

		case *ast.BinaryExpression:
			if p.Right == child && p.Operator.IsShortCircuit() {
				return reject(ReasonShortCircuit, p)
			}

		case *ast.ConditionalExpression:
			top, ok := c.liftable(p)
			if !ok {
				return reject(ReasonConditional, p)
			}
			// Everything between the site and the outermost conditional
			// moves with the branches; classification resumes above it.
			for n := ast.Node(p); n != top; n = c.idx.Parent(n) {
				site.Chain = append(site.Chain, n.(ast.Expression))
			}
			site.Chain = append(site.Chain, top)
			lift = top
			child = top
			if l, ok := c.idx.Parent(top).(*ast.LambdaExpression); ok {
				return c.lambdaBody(site, l)
			}
			continue

		case *ast.StringTemplate:
			return reject(ReasonTemplate, p)

		case *ast.Assignment:
			if p.Target == child {
				return reject(ReasonAssignTarget, p)
			}

		case *ast.LambdaExpression:
			// child is the expression body.
			return c.lambdaBody(site, p)

		case *ast.Case:
			return reject(ReasonCaseLabel, p)

		case *ast.MethodCall, *ast.FieldAccess, *ast.ArrayAccess, *ast.NewArray,
			*ast.NewClass, *ast.UnaryExpression, *ast.SwitchExpression:

		case ast.Statement:
			return c.anchor(site, p, child, lift)

		default:
			return reject(ReasonOther, p)
		}

		site.Chain = append(site.Chain, parent.(ast.Expression))
		child = parent
	}
}

// liftable finds the outermost conditional of a nest of conditionals
// containing cond and reports whether it is the top-level expression of a
// statement that can be split into an if statement, or the expression
// body of a lambda.
func (c *Classifier) liftable(cond *ast.ConditionalExpression) (*ast.ConditionalExpression, bool) {
	top := cond
	for {
		outer, ok := c.idx.Parent(top).(*ast.ConditionalExpression)
		if !ok {
			break
		}
		top = outer
	}
	switch p := c.idx.Parent(top).(type) {
	case *ast.LambdaExpression:
		return top, p.Body == top
	case *ast.Assignment:
		if s, ok := c.idx.Parent(p).(*ast.ExpressionStatement); ok {
			return top, liftSlot(s) == ast.Expression(top)
		}
	case ast.Statement:
		if liftSlot(p) != ast.Expression(top) {
			return top, false
		}
		return top, !declaresTemp(p) || liftType(top) != ""
	}
	return top, false
}

// liftSlot returns the expression a conditional must fill for the
// statement to be liftable, or nil.
func liftSlot(s ast.Statement) ast.Expression {
	switch s := s.(type) {
	case *ast.ReturnStatement:
		return s.Value
	case *ast.ThrowStatement:
		return s.Value
	case *ast.YieldStatement:
		return s.Value
	case *ast.VariableDeclaration:
		return s.Value
	case *ast.ExpressionStatement:
		if a, ok := s.Expression.(*ast.Assignment); ok {
			if _, ok := a.Target.(*ast.Identifier); ok {
				return a.Value
			}
			return nil
		}
		return s.Expression
	case *ast.IfStatement:
		return s.Cond
	case *ast.SwitchStatement:
		return s.Selector
	case *ast.SynchronizedStatement:
		return s.Monitor
	case *ast.EnhancedForStatement:
		return s.Iterable
	}
	return nil
}

// anchorSlot returns a pointer to the expression slot of an anchor that
// holds its sites.
func anchorSlot(s ast.Statement) *ast.Expression {
	switch s := s.(type) {
	case *ast.ReturnStatement:
		return &s.Value
	case *ast.ThrowStatement:
		return &s.Value
	case *ast.YieldStatement:
		return &s.Value
	case *ast.VariableDeclaration:
		return &s.Value
	case *ast.ExpressionStatement:
		return &s.Expression
	case *ast.IfStatement:
		return &s.Cond
	case *ast.SwitchStatement:
		return &s.Selector
	case *ast.SynchronizedStatement:
		return &s.Monitor
	case *ast.EnhancedForStatement:
		return &s.Iterable
	}
	return nil
}

// anchor checks the statement reached from the site: its kind, the slot
// the site came through and the place the statement occupies.
func (c *Classifier) anchor(site *Site, stmt ast.Statement, child ast.Node, lift *ast.ConditionalExpression) (*RewriteContext, *Rejection, error) {
	reject := func(reason Reason, node ast.Node) (*RewriteContext, *Rejection, error) {
		return nil, &Rejection{Site: site, Reason: reason, Node: node}, nil
	}
	site.Statement = stmt

	switch s := stmt.(type) {
	case *ast.ForStatement, *ast.WhileStatement, *ast.DoWhileStatement:
		return reject(ReasonLoopClause, s)
	case *ast.AssertStatement:
		return reject(ReasonAssert, s)
	}
	slot := anchorSlot(stmt)
	if slot == nil || *slot != child {
		return reject(ReasonOther, stmt)
	}

	switch container := c.idx.Parent(stmt).(type) {
	case *ast.LabeledStatement:
		return reject(ReasonLabeled, container)
	case *ast.ForStatement:
		if container.Body != stmt {
			return reject(ReasonLoopClause, container)
		}
	case *ast.TryStatement:
		return reject(ReasonResource, container)
	case *ast.BlockStatement, *ast.Case, *ast.IfStatement, *ast.EnhancedForStatement,
		*ast.WhileStatement, *ast.DoWhileStatement:
	default:
		return reject(ReasonOther, stmt)
	}

	exit, scope, err := c.exit(stmt)
	if err != nil {
		return nil, nil, err
	}
	return &RewriteContext{
		Site:   site,
		Anchor: stmt,
		Exit:   exit,
		Scope:  scope,
		Lift:   lift,
		Depth:  scopeDepth(c.idx, site.Call),
	}, nil, nil
}

// lambdaBody classifies a site in an expression-bodied lambda; the body
// becomes `{ return body; }` before anything else happens.
func (c *Classifier) lambdaBody(site *Site, l *ast.LambdaExpression) (*RewriteContext, *Rejection, error) {
	return &RewriteContext{
		Site:       site,
		Exit:       ExitReturn,
		Scope:      l,
		LambdaBody: l,
		Depth:      scopeDepth(c.idx, site.Call),
	}, nil, nil
}

// exit picks the statement that leaves the innermost re-entrant scope of
// the anchor. A throw anchor rethrows; otherwise a switch-expression case
// yields and a method or lambda returns.
func (c *Classifier) exit(anchor ast.Statement) (ExitKind, ast.Node, error) {
	for _, anc := range c.idx.Ancestors(anchor) {
		switch a := anc.(type) {
		case *ast.MethodDeclaration, *ast.LambdaExpression:
			if _, ok := anchor.(*ast.ThrowStatement); ok {
				return ExitThrow, a, nil
			}
			return ExitReturn, a, nil
		case *ast.Case:
			if _, ok := c.idx.Parent(a).(*ast.SwitchExpression); ok {
				if _, ok := anchor.(*ast.ThrowStatement); ok {
					return ExitThrow, a, nil
				}
				return ExitYield, a, nil
			}
		}
	}
	return 0, nil, errors.MissingScope(anchor.GetSpan(), nodeName(anchor))
}

func nodeName(n ast.Node) string {
	switch n.(type) {
	case *ast.ReturnStatement:
		return "return statement"
	case *ast.ThrowStatement:
		return "throw statement"
	case *ast.YieldStatement:
		return "yield statement"
	case *ast.VariableDeclaration:
		return "variable declaration"
	case *ast.ExpressionStatement:
		return "expression statement"
	case *ast.IfStatement:
		return "if statement"
	case *ast.SwitchStatement:
		return "switch statement"
	case *ast.SynchronizedStatement:
		return "synchronized statement"
	case *ast.EnhancedForStatement:
		return "for statement"
	default:
		return "statement"
	}
}
