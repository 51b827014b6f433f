package capability

import (
	"fmt"

	"github.com/orizon-lang/unwrap/internal/ast"
)

// Registry holds the container kinds known to a pass run.
type Registry struct {
	kinds  []*Kind
	byType map[string]*Kind
}

// NewRegistry validates kinds and indexes them by type name. Two kinds
// claiming the same type name is an error.
func NewRegistry(kinds ...*Kind) (*Registry, error) {
	r := &Registry{byType: make(map[string]*Kind)}
	for _, k := range kinds {
		if err := k.Validate(); err != nil {
			return nil, err
		}
		for _, name := range append([]string{k.Name}, k.Types...) {
			if prev, ok := r.byType[name]; ok && prev != k {
				return nil, fmt.Errorf("type %s claimed by container kinds %s and %s", name, prev.Name, k.Name)
			}
			r.byType[name] = k
		}
		r.kinds = append(r.kinds, k)
	}
	return r, nil
}

// DefaultRegistry returns a registry of the built-in kinds.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Either, Option, Try, Result)
	if err != nil {
		panic(err)
	}
	return r
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []*Kind {
	return append([]*Kind(nil), r.kinds...)
}

// Lookup returns the kind a static type name resolves to.
func (r *Registry) Lookup(typeName string) (*Kind, bool) {
	k, ok := r.byType[BaseType(typeName)]
	return k, ok
}

// ByName returns the kind whose container class is name.
func (r *Registry) ByName(name string) (*Kind, bool) {
	for _, k := range r.kinds {
		if k.Name == name {
			return k, true
		}
	}
	return nil, false
}

// Resolver is the type-resolution capability the pass consumes: it
// decides whether a receiver expression is a two-state container and of
// which kind.
type Resolver interface {
	Resolve(receiver ast.Expression) (*Kind, bool)
}

// TypeResolver resolves receivers through the static types attributed on
// the tree by the upstream type checker.
type TypeResolver struct {
	Registry *Registry
	// TypeOf overrides how a static type is read from an expression.
	TypeOf func(ast.Expression) string
}

// NewTypeResolver returns a resolver reading ast.Typed annotations.
func NewTypeResolver(registry *Registry) *TypeResolver {
	return &TypeResolver{Registry: registry}
}

// Resolve implements Resolver.
func (tr *TypeResolver) Resolve(receiver ast.Expression) (*Kind, bool) {
	if receiver == nil {
		return nil, false
	}
	typeOf := tr.TypeOf
	if typeOf == nil {
		typeOf = StaticType
	}
	typ := typeOf(receiver)
	if typ == "" {
		return nil, false
	}
	return tr.Registry.Lookup(typ)
}

// StaticType reads the attributed type of e, or "" when none is known.
func StaticType(e ast.Expression) string {
	if t, ok := e.(ast.Typed); ok {
		return t.StaticType()
	}
	return ""
}
