package unwrap

import (
	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
	"github.com/orizon-lang/unwrap/internal/errors"
)

// Rewriter turns one anchor and its sites into a RewriteUnit. Sites are
// hoisted in evaluation order: each one becomes a temporary and a guard,
// and any operand that must be evaluated before a hoisted site is spilled
// into its own temporary first, so the statements run in the order the
// original expression would have run them.
type Rewriter struct {
	names *NameGen
}

// NewRewriter returns a rewriter drawing temporaries from names.
func NewRewriter(names *NameGen) *Rewriter {
	return &Rewriter{names: names}
}

type hoister struct {
	names *NameGen
	exit  ExitKind
	sites map[*ast.MethodCall]*capability.Kind
	// hot holds every expression with a site somewhere below it.
	hot map[ast.Expression]bool
	// assigned holds the locals the anchor expression writes.
	assigned map[string]bool
	// pure holds synthesized expressions that read only temporaries.
	pure     map[ast.Expression]bool
	prologue []ast.Statement
}

// Rewrite hoists every site of ctx.Anchor listed in sites. The sites must
// have been classified against the current tree with the same anchor.
func (r *Rewriter) Rewrite(ctx *RewriteContext, sites []*Site) (*RewriteUnit, error) {
	slot := anchorSlot(ctx.Anchor)
	if slot == nil {
		return nil, errors.UnsupportedNode(ctx.Anchor.GetSpan(), ctx.Anchor)
	}

	h := &hoister{
		names:    r.names,
		exit:     ctx.Exit,
		sites:    make(map[*ast.MethodCall]*capability.Kind, len(sites)),
		hot:      make(map[ast.Expression]bool),
		assigned: assignedLocals(*slot),
		pure:     make(map[ast.Expression]bool),
	}
	for _, s := range sites {
		h.sites[s.Call] = s.Kind
		h.hot[s.Call] = true
		for _, e := range s.Chain {
			h.hot[e] = true
		}
	}

	value, err := h.hoist(*slot)
	if err != nil {
		return nil, err
	}
	cont := shallowStatement(ctx.Anchor)
	*anchorSlot(cont) = value
	return &RewriteUnit{Prologue: h.prologue, Continuation: cont}, nil
}

func (h *hoister) hoist(e ast.Expression) (ast.Expression, error) {
	if e == nil || !h.hot[e] {
		return e, nil
	}

	switch n := e.(type) {
	case *ast.MethodCall:
		if kind, ok := h.sites[n]; ok {
			return h.hoistSite(n, kind)
		}
		cp := *n
		cp.Args = append([]ast.Expression(nil), n.Args...)
		slots := []*ast.Expression{&cp.Receiver}
		for i := range cp.Args {
			slots = append(slots, &cp.Args[i])
		}
		return &cp, h.hoistSlots(slots)

	case *ast.FieldAccess:
		cp := *n
		return &cp, h.hoistSlots([]*ast.Expression{&cp.Target})

	case *ast.ArrayAccess:
		cp := *n
		return &cp, h.hoistSlots([]*ast.Expression{&cp.Array, &cp.Index})

	case *ast.NewArray:
		cp := *n
		cp.Dims = append([]ast.Expression(nil), n.Dims...)
		cp.Elements = append([]ast.Expression(nil), n.Elements...)
		var slots []*ast.Expression
		for i := range cp.Dims {
			slots = append(slots, &cp.Dims[i])
		}
		for i := range cp.Elements {
			slots = append(slots, &cp.Elements[i])
		}
		return &cp, h.hoistSlots(slots)

	case *ast.NewClass:
		cp := *n
		cp.Args = append([]ast.Expression(nil), n.Args...)
		slots := make([]*ast.Expression, len(cp.Args))
		for i := range cp.Args {
			slots[i] = &cp.Args[i]
		}
		return &cp, h.hoistSlots(slots)

	case *ast.UnaryExpression:
		cp := *n
		return &cp, h.hoistSlots([]*ast.Expression{&cp.Operand})

	case *ast.BinaryExpression:
		cp := *n
		if n.Operator.IsShortCircuit() {
			// The right operand runs conditionally and never holds a site.
			return &cp, h.hoistSlots([]*ast.Expression{&cp.Left})
		}
		return &cp, h.hoistSlots([]*ast.Expression{&cp.Left, &cp.Right})

	case *ast.Assignment:
		cp := *n
		// Target operands are evaluated before the value.
		switch t := n.Target.(type) {
		case *ast.ArrayAccess:
			tc := *t
			tc.Array = h.spillUnstable(tc.Array)
			tc.Index = h.spillUnstable(tc.Index)
			cp.Target = &tc
		case *ast.FieldAccess:
			tc := *t
			tc.Target = h.spillUnstable(tc.Target)
			cp.Target = &tc
		}
		if n.Operator.IsCompound() && h.hot[n.Value] && h.targetMoves(cp.Target, n.Value) {
			// A compound assignment reads its target before the value.
			old := h.spill(ast.CloneExpr(cp.Target))
			v, err := h.hoist(n.Value)
			cp.Operator = ast.OpAssign
			cp.Value = &ast.BinaryExpression{Span: n.Span, Left: old, Operator: n.Operator.Binary(), Right: v}
			return &cp, err
		}
		v, err := h.hoist(n.Value)
		cp.Value = v
		return &cp, err

	case *ast.SwitchExpression:
		cp := *n
		return &cp, h.hoistSlots([]*ast.Expression{&cp.Selector})
	}

	return nil, errors.UnsupportedNode(e.GetSpan(), e)
}

// hoistSlots rewrites operands left to right. Operands before the last one
// holding a site are spilled unless reading them later gives the same
// value; operands after it are left in place.
func (h *hoister) hoistSlots(slots []*ast.Expression) error {
	last := -1
	for i, s := range slots {
		if *s != nil && h.hot[*s] {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		v, err := h.hoist(*slots[i])
		if err != nil {
			return err
		}
		if i < last {
			v = h.spillUnstable(v)
		}
		*slots[i] = v
	}
	return nil
}

// hoistSite emits `var t = recv;` and the guard, and returns the success
// extraction that stands in for the call.
func (h *hoister) hoistSite(call *ast.MethodCall, kind *capability.Kind) (ast.Expression, error) {
	recv, err := h.hoist(call.Receiver)
	if err != nil {
		return nil, err
	}
	span := call.Span
	name := h.names.Next()
	typ := capability.StaticType(call.Receiver)

	temp := func() *ast.Identifier {
		id := &ast.Identifier{Span: span, Name: name, Type: typ}
		h.pure[id] = true
		return id
	}

	h.prologue = append(h.prologue,
		&ast.VariableDeclaration{Span: span, Name: name, Type: typ, Value: recv},
		&ast.IfStatement{
			Span: span,
			Cond: kind.Guard(temp(), span),
			Then: &ast.BlockStatement{
				Span:       span,
				Statements: []ast.Statement{exitStatement(h.exit, kind.Reconstruct(temp(), span))},
			},
		},
	)

	get := kind.Extract(temp(), span, call.Type)
	h.pure[get] = true
	return get, nil
}

// spillUnstable binds e to a temporary unless it is stable.
func (h *hoister) spillUnstable(e ast.Expression) ast.Expression {
	if e == nil || h.stable(e) {
		return e
	}
	return h.spill(e)
}

// spill binds e to a temporary declared in the prologue.
func (h *hoister) spill(e ast.Expression) ast.Expression {
	span := e.GetSpan()
	name := h.names.Next()
	typ := capability.StaticType(e)
	h.prologue = append(h.prologue, &ast.VariableDeclaration{Span: span, Name: name, Type: typ, Value: e})
	id := &ast.Identifier{Span: span, Name: name, Type: typ}
	h.pure[id] = true
	return id
}

// stable reports whether evaluating e later yields the same value and no
// effects: literals, lambdas, temporaries and locals the anchor never
// writes.
func (h *hoister) stable(e ast.Expression) bool {
	if h.pure[e] {
		return true
	}
	switch n := e.(type) {
	case *ast.Literal, *ast.LambdaExpression:
		return true
	case *ast.Identifier:
		return !h.assigned[n.Name]
	}
	return false
}

// targetMoves reports whether the value of a compound assignment target
// may change while value runs.
func (h *hoister) targetMoves(target, value ast.Expression) bool {
	if id, ok := target.(*ast.Identifier); ok {
		return assignedLocals(value)[id.Name]
	}
	return !h.stable(target)
}

// assignedLocals collects the names written by assignments and
// increments under e.
func assignedLocals(e ast.Expression) map[string]bool {
	out := make(map[string]bool)
	if e == nil {
		return out
	}
	ast.Inspect(e, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.Assignment:
			if id, ok := v.Target.(*ast.Identifier); ok {
				out[id.Name] = true
			}
		case *ast.UnaryExpression:
			if v.Operator == ast.OpInc || v.Operator == ast.OpDec {
				if id, ok := v.Operand.(*ast.Identifier); ok {
					out[id.Name] = true
				}
			}
		}
		return true
	})
	return out
}

func exitStatement(kind ExitKind, value ast.Expression) ast.Statement {
	span := value.GetSpan()
	switch kind {
	case ExitThrow:
		return &ast.ThrowStatement{Span: span, Value: value}
	case ExitYield:
		return &ast.YieldStatement{Span: span, Value: value}
	default:
		return &ast.ReturnStatement{Span: span, Value: value}
	}
}

// shallowStatement copies an anchor so its expression slot can be set
// without touching the original. Bodies are shared with the original,
// which is discarded.
func shallowStatement(s ast.Statement) ast.Statement {
	switch s := s.(type) {
	case *ast.ReturnStatement:
		cp := *s
		return &cp
	case *ast.ThrowStatement:
		cp := *s
		return &cp
	case *ast.YieldStatement:
		cp := *s
		return &cp
	case *ast.VariableDeclaration:
		cp := *s
		return &cp
	case *ast.ExpressionStatement:
		cp := *s
		return &cp
	case *ast.IfStatement:
		cp := *s
		return &cp
	case *ast.SwitchStatement:
		cp := *s
		return &cp
	case *ast.SynchronizedStatement:
		cp := *s
		return &cp
	case *ast.EnhancedForStatement:
		cp := *s
		return &cp
	}
	return s
}
