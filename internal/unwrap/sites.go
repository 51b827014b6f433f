package unwrap

import (
	"fmt"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
)

// finder locates pseudo-calls: a method call named after the sentinel,
// without arguments, on a receiver the resolver accepts. Calls named like
// the sentinel on anything else are ordinary calls.
type finder struct {
	sentinel string
	resolver capability.Resolver
}

// find returns the sites under root in pre-order.
func (f *finder) find(root ast.Node) []*Site {
	var sites []*Site
	ast.Inspect(root, func(n ast.Node) bool {
		call, ok := n.(*ast.MethodCall)
		if !ok || !f.isSite(call) {
			return true
		}
		kind, _ := f.resolver.Resolve(call.Receiver)
		sites = append(sites, &Site{Call: call, Kind: kind})
		return true
	})
	return sites
}

func (f *finder) isSite(call *ast.MethodCall) bool {
	if call.Name != f.sentinel || len(call.Args) != 0 || call.Receiver == nil {
		return false
	}
	_, ok := f.resolver.Resolve(call.Receiver)
	return ok
}

// scopeDepth counts the lambdas and switch-expression cases above node.
func scopeDepth(idx *ast.ParentIndex, node ast.Node) int {
	depth := 0
	for _, anc := range idx.Ancestors(node) {
		switch a := anc.(type) {
		case *ast.LambdaExpression:
			depth++
		case *ast.Case:
			if _, ok := idx.Parent(a).(*ast.SwitchExpression); ok {
				depth++
			}
		}
	}
	return depth
}

// NameGen hands out temporary names that collide with nothing declared or
// referenced in the unit.
type NameGen struct {
	prefix string
	next   int
	taken  map[string]bool
}

// NewNameGen reserves every name used under root.
func NewNameGen(prefix string, root ast.Node) *NameGen {
	g := &NameGen{prefix: prefix, taken: make(map[string]bool)}
	ast.Inspect(root, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.Identifier:
			g.taken[v.Name] = true
		case *ast.VariableDeclaration:
			g.taken[v.Name] = true
		case *ast.Parameter:
			g.taken[v.Name] = true
		case *ast.EnhancedForStatement:
			g.taken[v.VarName] = true
		case *ast.LabeledStatement:
			g.taken[v.Label] = true
		}
		return true
	})
	return g
}

// Next returns a fresh name and reserves it.
func (g *NameGen) Next() string {
	for {
		name := fmt.Sprintf("%s%d", g.prefix, g.next)
		g.next++
		if !g.taken[name] {
			g.taken[name] = true
			return name
		}
	}
}
