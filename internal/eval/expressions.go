package eval

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
)

func (in *Interpreter) eval(expr ast.Expression, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		v, ok := env.Get(e.Name)
		if !ok {
			return nil, fmt.Errorf("%s: undefined: %s", e.Span, e.Name)
		}
		return v, nil

	case *ast.Literal:
		return literal(e), nil

	case *ast.MethodCall:
		return in.call(e, env)

	case *ast.FieldAccess:
		t, err := in.eval(e.Target, env)
		if err != nil {
			return nil, err
		}
		if arr, ok := t.(*Array); ok && e.Name == "length" {
			return int64(len(arr.Elems)), nil
		}
		if t == nil {
			return nil, Throw("NullPointerException", "field "+e.Name+" of null")
		}
		return nil, fmt.Errorf("%s: no field %s on %s", e.Span, e.Name, Format(t))

	case *ast.Assignment:
		return in.assign(e, env)

	case *ast.BinaryExpression:
		l, err := in.eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if e.Operator.IsShortCircuit() {
			b, err := truthy(l)
			if err != nil {
				return nil, err
			}
			if b == (e.Operator == ast.OpOr) {
				return b, nil
			}
			r, err := in.eval(e.Right, env)
			if err != nil {
				return nil, err
			}
			rb, err := truthy(r)
			return rb, err
		}
		r, err := in.eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		return binary(e.Operator, l, r)

	case *ast.UnaryExpression:
		return in.unary(e, env)

	case *ast.ConditionalExpression:
		ok, err := in.cond(e.Cond, env)
		if err != nil {
			return nil, err
		}
		if ok {
			return in.eval(e.Then, env)
		}
		return in.eval(e.Else, env)

	case *ast.ArrayAccess:
		a, err := in.eval(e.Array, env)
		if err != nil {
			return nil, err
		}
		i, err := in.eval(e.Index, env)
		if err != nil {
			return nil, err
		}
		arr, idx, err := element(a, i)
		if err != nil {
			return nil, err
		}
		return arr.Elems[idx], nil

	case *ast.NewArray:
		return in.newArray(e, env)

	case *ast.NewClass:
		args, err := in.evalList(e.Args, env)
		if err != nil {
			return nil, err
		}
		return &Object{Class: e.Class, Args: args}, nil

	case *ast.LambdaExpression:
		return &Closure{Params: e.Params, Body: e.Body, env: env}, nil

	case *ast.SwitchExpression:
		return in.switchExpression(e, env)

	case *ast.StringTemplate:
		var sb strings.Builder
		for i, frag := range e.Fragments {
			sb.WriteString(frag)
			if i < len(e.Values) {
				v, err := in.eval(e.Values[i], env)
				if err != nil {
					return nil, err
				}
				sb.WriteString(Format(v))
			}
		}
		return sb.String(), nil
	}
	return nil, fmt.Errorf("%s: cannot evaluate %T", expr.GetSpan(), expr)
}

func (in *Interpreter) evalList(list []ast.Expression, env *Environment) ([]Value, error) {
	out := make([]Value, len(list))
	for i, e := range list {
		v, err := in.eval(e, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func literal(l *ast.Literal) Value {
	switch v := l.Value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float32:
		return float64(v)
	}
	return l.Value
}

// call dispatches a method call: unit methods and host functions for
// unqualified calls, factories for static calls on a container kind, and
// instance methods by receiver value.
func (in *Interpreter) call(c *ast.MethodCall, env *Environment) (Value, error) {
	if c.Receiver == nil {
		args, err := in.evalList(c.Args, env)
		if err != nil {
			return nil, err
		}
		if m := in.unit.Method(c.Name); m != nil {
			return in.invoke(m, args)
		}
		if fn, ok := in.opts.Functions[c.Name]; ok {
			return in.hostCall(c.Name, fn, args)
		}
		return nil, fmt.Errorf("%s: undefined method %s", c.Span, c.Name)
	}

	if id, ok := c.Receiver.(*ast.Identifier); ok {
		if _, bound := env.Get(id.Name); !bound {
			return in.static(c, id.Name, env)
		}
	}

	recv, err := in.eval(c.Receiver, env)
	if err != nil {
		return nil, err
	}
	if ts, ok := recv.(*capability.TwoState); ok && c.Name == in.opts.Sentinel && len(c.Args) == 0 {
		if !in.opts.NativeUnwrap {
			return nil, fmt.Errorf("%s: %s() reached the interpreter", c.Span, c.Name)
		}
		if ts.Alternate {
			return nil, &earlyExit{container: capability.Alternate(ts.Kind, ts.Value)}
		}
		return ts.Value, nil
	}
	args, err := in.evalList(c.Args, env)
	if err != nil {
		return nil, err
	}

	switch r := recv.(type) {
	case nil:
		return nil, Throw("NullPointerException", c.Name+" on null")
	case *capability.TwoState:
		return containerMethod(r, c.Name, args)
	case *Closure:
		return in.apply(r, args)
	case string:
		return stringMethod(r, c.Name, args)
	case *Object:
		switch c.Name {
		case "getMessage":
			if len(r.Args) == 0 {
				return nil, nil
			}
			return r.Args[0], nil
		case "equals":
			if len(args) == 1 {
				return Equal(r, args[0]), nil
			}
		}
	}
	return nil, fmt.Errorf("%s: no method %s on %s", c.Span, c.Name, Format(recv))
}

// static handles `Class.name(args)` where Class is not a local.
func (in *Interpreter) static(c *ast.MethodCall, class string, env *Environment) (Value, error) {
	args, err := in.evalList(c.Args, env)
	if err != nil {
		return nil, err
	}
	if kind, ok := in.registry.ByName(class); ok {
		var v Value
		if len(args) > 0 {
			v = args[0]
		}
		switch c.Name {
		case kind.AlternateFactory:
			return capability.Alternate(kind, v), nil
		case kind.SuccessFactory:
			return capability.Success(kind, v), nil
		}
		return nil, fmt.Errorf("%s: no factory %s on %s", c.Span, c.Name, class)
	}
	name := class + "." + c.Name
	if fn, ok := in.opts.Functions[name]; ok {
		return in.hostCall(name, fn, args)
	}
	return nil, fmt.Errorf("%s: undefined: %s", c.Span, name)
}

func containerMethod(t *capability.TwoState, name string, args []Value) (Value, error) {
	k := t.Kind
	switch name {
	case k.AlternatePredicate:
		return t.Alternate, nil
	case k.SuccessAccessor:
		if t.Alternate {
			return nil, Throw("NoSuchElementException", name+" on "+t.String())
		}
		return t.Value, nil
	case "equals":
		if len(args) == 1 {
			return Equal(t, args[0]), nil
		}
	}
	if k.AlternateAccessor != "" && name == k.AlternateAccessor {
		if !t.Alternate {
			return nil, Throw("NoSuchElementException", name+" on "+t.String())
		}
		return t.Value, nil
	}
	return nil, fmt.Errorf("no method %s on %s", name, k.Name)
}

func stringMethod(s, name string, args []Value) (Value, error) {
	switch name {
	case "length":
		return int64(len(s)), nil
	case "isEmpty":
		return s == "", nil
	case "toUpperCase":
		return strings.ToUpper(s), nil
	case "toLowerCase":
		return strings.ToLower(s), nil
	case "trim":
		return strings.TrimSpace(s), nil
	case "equals":
		if len(args) == 1 {
			return Equal(s, args[0]), nil
		}
	case "concat":
		if len(args) == 1 {
			return s + Format(args[0]), nil
		}
	}
	return nil, fmt.Errorf("no method %s on String", name)
}

func (in *Interpreter) assign(a *ast.Assignment, env *Environment) (Value, error) {
	compound := a.Operator.IsCompound()
	switch t := a.Target.(type) {
	case *ast.Identifier:
		var old Value
		if compound {
			v, ok := env.Get(t.Name)
			if !ok {
				return nil, fmt.Errorf("%s: undefined: %s", t.Span, t.Name)
			}
			old = v
		}
		v, err := in.eval(a.Value, env)
		if err != nil {
			return nil, err
		}
		if compound {
			if v, err = binary(a.Operator.Binary(), old, v); err != nil {
				return nil, err
			}
		}
		if !env.Assign(t.Name, v) {
			return nil, fmt.Errorf("%s: undefined: %s", t.Span, t.Name)
		}
		return v, nil

	case *ast.ArrayAccess:
		av, err := in.eval(t.Array, env)
		if err != nil {
			return nil, err
		}
		iv, err := in.eval(t.Index, env)
		if err != nil {
			return nil, err
		}
		var old Value
		if compound {
			arr, idx, err := element(av, iv)
			if err != nil {
				return nil, err
			}
			old = arr.Elems[idx]
		}
		v, err := in.eval(a.Value, env)
		if err != nil {
			return nil, err
		}
		if compound {
			if v, err = binary(a.Operator.Binary(), old, v); err != nil {
				return nil, err
			}
		}
		arr, idx, err := element(av, iv)
		if err != nil {
			return nil, err
		}
		arr.Elems[idx] = v
		return v, nil
	}
	return nil, fmt.Errorf("%s: cannot assign to %T", a.Span, a.Target)
}

func element(a, i Value) (*Array, int, error) {
	arr, ok := a.(*Array)
	if !ok {
		if a == nil {
			return nil, 0, Throw("NullPointerException", "index into null")
		}
		return nil, 0, fmt.Errorf("cannot index %s", Format(a))
	}
	idx, ok := i.(int64)
	if !ok {
		return nil, 0, fmt.Errorf("array index %s is not an integer", Format(i))
	}
	if idx < 0 || idx >= int64(len(arr.Elems)) {
		return nil, 0, Throw("ArrayIndexOutOfBoundsException", fmt.Sprintf("Index %d out of bounds for length %d", idx, len(arr.Elems)))
	}
	return arr, int(idx), nil
}

func (in *Interpreter) unary(u *ast.UnaryExpression, env *Environment) (Value, error) {
	if u.Operator == ast.OpInc || u.Operator == ast.OpDec {
		delta := int64(1)
		if u.Operator == ast.OpDec {
			delta = -1
		}
		load := func() (Value, func(Value), error) {
			switch t := u.Operand.(type) {
			case *ast.Identifier:
				v, ok := env.Get(t.Name)
				if !ok {
					return nil, nil, fmt.Errorf("%s: undefined: %s", t.Span, t.Name)
				}
				return v, func(nv Value) { env.Assign(t.Name, nv) }, nil
			case *ast.ArrayAccess:
				av, err := in.eval(t.Array, env)
				if err != nil {
					return nil, nil, err
				}
				iv, err := in.eval(t.Index, env)
				if err != nil {
					return nil, nil, err
				}
				arr, idx, err := element(av, iv)
				if err != nil {
					return nil, nil, err
				}
				return arr.Elems[idx], func(nv Value) { arr.Elems[idx] = nv }, nil
			}
			return nil, nil, fmt.Errorf("%s: cannot increment %T", u.Span, u.Operand)
		}
		old, store, err := load()
		if err != nil {
			return nil, err
		}
		nv, err := binary(ast.OpAdd, old, delta)
		if err != nil {
			return nil, err
		}
		store(nv)
		if u.Postfix {
			return old, nil
		}
		return nv, nil
	}

	v, err := in.eval(u.Operand, env)
	if err != nil {
		return nil, err
	}
	switch u.Operator {
	case ast.OpNot:
		b, err := truthy(v)
		return !b, err
	case ast.OpBitNot:
		if i, ok := v.(int64); ok {
			return ^i, nil
		}
	case ast.OpSub:
		switch x := v.(type) {
		case int64:
			return -x, nil
		case float64:
			return -x, nil
		}
	case ast.OpAdd:
		switch v.(type) {
		case int64, float64:
			return v, nil
		}
	}
	return nil, fmt.Errorf("%s: bad operand %s for %s", u.Span, Format(v), u.Operator)
}

func (in *Interpreter) newArray(n *ast.NewArray, env *Environment) (Value, error) {
	if n.HasInit || len(n.Dims) == 0 {
		elems, err := in.evalList(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return &Array{Elems: elems}, nil
	}
	dims, err := in.evalList(n.Dims, env)
	if err != nil {
		return nil, err
	}
	return makeArray(n.ElemType, dims)
}

func makeArray(elemType string, dims []Value) (*Array, error) {
	size, ok := dims[0].(int64)
	if !ok {
		return nil, fmt.Errorf("array dimension %s is not an integer", Format(dims[0]))
	}
	if size < 0 {
		return nil, Throw("NegativeArraySizeException", Format(size))
	}
	arr := &Array{Elems: make([]Value, size)}
	for i := range arr.Elems {
		if len(dims) > 1 {
			sub, err := makeArray(elemType, dims[1:])
			if err != nil {
				return nil, err
			}
			arr.Elems[i] = sub
			continue
		}
		arr.Elems[i] = zeroValue(elemType)
	}
	return arr, nil
}

// binary applies a non-short-circuit operator.
func binary(op ast.Operator, l, r Value) (Value, error) {
	if op == ast.OpAdd {
		_, ls := l.(string)
		_, rs := r.(string)
		if ls || rs {
			return Format(l) + Format(r), nil
		}
	}
	switch op {
	case ast.OpEq:
		return Equal(l, r), nil
	case ast.OpNe:
		return !Equal(l, r), nil
	}

	if lb, ok := l.(bool); ok {
		if rb, ok := r.(bool); ok {
			switch op {
			case ast.OpBitAnd:
				return lb && rb, nil
			case ast.OpBitOr:
				return lb || rb, nil
			case ast.OpBitXor:
				return lb != rb, nil
			}
		}
	}

	li, lInt := l.(int64)
	ri, rInt := r.(int64)
	if lInt && rInt {
		switch op {
		case ast.OpAdd:
			return li + ri, nil
		case ast.OpSub:
			return li - ri, nil
		case ast.OpMul:
			return li * ri, nil
		case ast.OpDiv, ast.OpMod:
			if ri == 0 {
				return nil, Throw("ArithmeticException", "/ by zero")
			}
			if op == ast.OpDiv {
				return li / ri, nil
			}
			return li % ri, nil
		case ast.OpLt:
			return li < ri, nil
		case ast.OpLe:
			return li <= ri, nil
		case ast.OpGt:
			return li > ri, nil
		case ast.OpGe:
			return li >= ri, nil
		case ast.OpBitAnd:
			return li & ri, nil
		case ast.OpBitOr:
			return li | ri, nil
		case ast.OpBitXor:
			return li ^ ri, nil
		case ast.OpShl:
			return li << uint64(ri&63), nil
		case ast.OpShr:
			return li >> uint64(ri&63), nil
		}
	}

	lf, lNum := toFloat(l)
	rf, rNum := toFloat(r)
	if lNum && rNum {
		switch op {
		case ast.OpAdd:
			return lf + rf, nil
		case ast.OpSub:
			return lf - rf, nil
		case ast.OpMul:
			return lf * rf, nil
		case ast.OpDiv:
			return lf / rf, nil
		case ast.OpLt:
			return lf < rf, nil
		case ast.OpLe:
			return lf <= rf, nil
		case ast.OpGt:
			return lf > rf, nil
		case ast.OpGe:
			return lf >= rf, nil
		}
	}
	return nil, fmt.Errorf("bad operands %s %s %s", Format(l), op, Format(r))
}

func toFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
