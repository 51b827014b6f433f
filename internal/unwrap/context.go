// Package unwrap implements the early-return rewrite pass. A pseudo-call
// `c.unwrap()` on a two-state container is replaced by a temporary bound
// to c, a guard that exits with the alternate state, and an extraction of
// the success value:
//
//	return Either.right(parse(s).unwrap() + 1);
//
// becomes
//
//	var $unwrap0 = parse(s);
//	if ($unwrap0.isLeft()) {
//	  return Either.left($unwrap0.getLeft());
//	}
//	return Either.right($unwrap0.get() + 1);
//
// Positions where a guard cannot be inserted without changing the
// program are rejected with a diagnostic.
package unwrap

import (
	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
	"github.com/orizon-lang/unwrap/internal/position"
)

// DefaultSentinel is the selector name of the pseudo-call.
const DefaultSentinel = "unwrap"

// ExitKind is the statement that leaves the scope on the alternate path.
type ExitKind int

const (
	ExitReturn ExitKind = iota
	ExitThrow
	ExitYield
)

func (k ExitKind) String() string {
	switch k {
	case ExitReturn:
		return "return"
	case ExitThrow:
		return "throw"
	case ExitYield:
		return "yield"
	default:
		return "unknown"
	}
}

// Site is one pseudo-call found in the tree.
type Site struct {
	Call *ast.MethodCall
	Kind *capability.Kind
	// Statement is the nearest enclosing statement, set by classification.
	Statement ast.Statement
	// Chain holds the expression ancestors between Call and Statement,
	// nearest first, set by classification.
	Chain []ast.Expression
}

// Span returns the position diagnostics are reported at.
func (s *Site) Span() position.Span { return s.Call.Span }

// RewriteContext is the outcome of classifying a legal site.
type RewriteContext struct {
	Site   *Site
	Anchor ast.Statement
	Exit   ExitKind
	// Scope is the re-entrant scope the exit leaves: a method declaration,
	// a lambda expression or a switch-expression case.
	Scope ast.Node
	// Lift is set when the site sits inside a top-level conditional of the
	// anchor; the conditional must become an if statement first.
	Lift *ast.ConditionalExpression
	// LambdaBody is set when the site sits in an expression-bodied lambda;
	// the body must become a block first.
	LambdaBody *ast.LambdaExpression
	// Depth counts the lambdas and switch-expression cases enclosing the
	// site. Deeper sites are rewritten first.
	Depth int
}

// Structural reports whether the context asks for a tree normalization
// before guards can be inserted.
func (c *RewriteContext) Structural() bool {
	return c.Lift != nil || c.LambdaBody != nil
}

// Reason says why a site was rejected. All reasons share one user-facing
// message.
type Reason int

const (
	ReasonOther Reason = iota
	ReasonLabeled
	ReasonShortCircuit
	ReasonConditional
	ReasonLoopClause
	ReasonResource
	ReasonAssert
	ReasonTemplate
	ReasonAssignTarget
	ReasonCaseLabel
)

func (r Reason) String() string {
	switch r {
	case ReasonLabeled:
		return "labeled statement"
	case ReasonShortCircuit:
		return "short-circuit operand"
	case ReasonConditional:
		return "conditional branch"
	case ReasonLoopClause:
		return "loop clause"
	case ReasonResource:
		return "resource specification"
	case ReasonAssert:
		return "assert statement"
	case ReasonTemplate:
		return "string template"
	case ReasonAssignTarget:
		return "assignment target"
	case ReasonCaseLabel:
		return "case label"
	default:
		return "unsupported construct"
	}
}

// Rejection is the outcome of classifying an illegal site.
type Rejection struct {
	Site   *Site
	Reason Reason
	// Node is the construct that disqualified the site.
	Node ast.Node
}

// RewriteUnit is the statement sequence that replaces one anchor: temps
// and guards in evaluation order, then the continuation.
type RewriteUnit struct {
	Prologue     []ast.Statement
	Continuation ast.Statement
}

// Statements returns the prologue followed by the continuation.
func (u *RewriteUnit) Statements() []ast.Statement {
	out := make([]ast.Statement, 0, len(u.Prologue)+1)
	out = append(out, u.Prologue...)
	if u.Continuation != nil {
		out = append(out, u.Continuation)
	}
	return out
}
