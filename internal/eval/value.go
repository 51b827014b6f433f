// Package eval is a small reference interpreter for the unwrap tree model.
// It runs a method of a compilation unit and reports the value it returns
// or throws, together with the host calls it made, so that a unit can be
// compared with its rewritten form.
package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
)

// Value is a runtime value: int64, float64, bool, string, nil, *Array,
// *Object, *Closure or *capability.TwoState.
type Value = interface{}

// Array is a mutable array.
type Array struct {
	Elems []Value
}

// Object is an instance created with `new C(args)`. Exceptions are
// objects whose first argument is the message.
type Object struct {
	Class string
	Args  []Value
}

func (o *Object) String() string {
	parts := make([]string, len(o.Args))
	for i, a := range o.Args {
		parts[i] = Format(a)
	}
	return fmt.Sprintf("%s(%s)", o.Class, strings.Join(parts, ", "))
}

// Closure is a lambda value.
type Closure struct {
	Params []*ast.Parameter
	Body   ast.Node
	env    *Environment
}

// Thrown is a value in flight from a throw statement. It is returned as an
// error until a catch clause takes it.
type Thrown struct {
	Value Value
}

func (t *Thrown) Error() string {
	return "uncaught " + Format(t.Value)
}

// Throw returns a Thrown carrying a new exception object of class with
// message.
func Throw(class, message string) *Thrown {
	return &Thrown{Value: &Object{Class: class, Args: []Value{message}}}
}

// Format renders a value the way string concatenation does.
func Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case *Array:
		parts := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Closure:
		return "<lambda>"
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}

// Equal compares values with value semantics for containers, objects and
// primitives, and identity for arrays and closures.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case *capability.TwoState:
		y, ok := b.(*capability.TwoState)
		if !ok {
			return false
		}
		return x.Kind == y.Kind && x.Alternate == y.Alternate && Equal(x.Value, y.Value)
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Class != y.Class || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case int64:
		if f, ok := b.(float64); ok {
			return float64(x) == f
		}
	case float64:
		if i, ok := b.(int64); ok {
			return x == float64(i)
		}
	}
	return a == b
}

// truthy requires a boolean.
func truthy(v Value) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected boolean, got %s", Format(v))
	}
	return b, nil
}

func zeroValue(typ string) Value {
	switch capability.BaseType(typ) {
	case "int", "long", "short", "byte", "char":
		return int64(0)
	case "double", "float":
		return float64(0)
	case "boolean":
		return false
	}
	return nil
}
