package eval

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
)

func k() *ast.Identifier { return ast.TypedIdent("k", "int") }

func obj(class string, args ...Value) *Object { return &Object{Class: class, Args: args} }

func logCall(args ...ast.Expression) *ast.ExpressionStatement {
	return ast.Expr(ast.Call(nil, "log", args...))
}

func incr(name string) *ast.UnaryExpression {
	return &ast.UnaryExpression{Operator: ast.OpInc, Operand: ast.Ident(name), Postfix: true}
}

func compound(name string, op ast.Operator, v ast.Expression) *ast.ExpressionStatement {
	return ast.Expr(&ast.Assignment{Target: ast.Ident(name), Operator: op, Value: v})
}

// prog returns a unit whose method m takes k and runs stmts.
func prog(stmts ...ast.Statement) *ast.CompilationUnit {
	return ast.Unit("Test.java", ast.Method("m", "Object", []*ast.Parameter{ast.Param("k", "int")}, stmts...))
}

func hostFunctions() map[string]Function {
	return map[string]Function{
		"log": func(args []Value) (Value, error) { return nil, nil },
		"f": func(args []Value) (Value, error) {
			n := args[0].(int64)
			if n < 0 {
				return capability.Alternate(capability.Either, "neg"), nil
			}
			return capability.Success(capability.Either, n), nil
		},
		"Math.abs": func(args []Value) (Value, error) {
			n := args[0].(int64)
			if n < 0 {
				return -n, nil
			}
			return n, nil
		},
		"read": func(args []Value) (Value, error) { return nil, Throw("IOException", "disk") },
	}
}

func run(t *testing.T, unit *ast.CompilationUnit, opts Options, arg int64) *Outcome {
	t.Helper()
	if opts.Functions == nil {
		opts.Functions = hostFunctions()
	}
	out, err := Run(unit, opts, "m", arg)
	require.NoError(t, err)
	return out
}

func returns(t *testing.T, out *Outcome, want Value) {
	t.Helper()
	require.Nil(t, out.Thrown, "threw %s", Format(out.Thrown))
	assert.True(t, Equal(want, out.Value), "want %s, got %s", Format(want), Format(out.Value))
}

func throws(t *testing.T, out *Outcome, want Value) {
	t.Helper()
	require.NotNil(t, out.Thrown, "returned %s", Format(out.Value))
	assert.True(t, Equal(want, out.Thrown), "want %s, got %s", Format(want), Format(out.Thrown))
}

func TestExpressions(t *testing.T) {
	float := func(f float64) *ast.Literal { return &ast.Literal{Kind: ast.LiteralFloat, Value: f} }
	neg := func(e ast.Expression) ast.Expression { return &ast.UnaryExpression{Operator: ast.OpSub, Operand: e} }

	tests := []struct {
		name string
		expr ast.Expression
		want Value
	}{
		{"precedence", ast.Bin(ast.Int(1), ast.OpAdd, ast.Bin(ast.Int(2), ast.OpMul, ast.Int(3))), int64(7)},
		{"integer division", ast.Bin(ast.Int(7), ast.OpDiv, ast.Int(2)), int64(3)},
		{"remainder", ast.Bin(ast.Int(7), ast.OpMod, ast.Int(3)), int64(1)},
		{"mixed", ast.Bin(float(1.5), ast.OpAdd, ast.Int(1)), 2.5},
		{"concat", ast.Bin(ast.Str("a"), ast.OpAdd, ast.Int(1)), "a1"},
		{"shift", ast.Bin(ast.Int(1), ast.OpShl, ast.Int(3)), int64(8)},
		{"negate", neg(k()), int64(-4)},
		{"not", &ast.UnaryExpression{Operator: ast.OpNot, Operand: ast.Bool(true)}, false},
		{"complement", &ast.UnaryExpression{Operator: ast.OpBitNot, Operand: ast.Int(0)}, int64(-1)},
		{"equality", ast.Bin(ast.Int(1), ast.OpEq, float(1)), true},
		{"short circuit", ast.Bin(ast.Bool(false), ast.OpAnd, ast.Bin(ast.Int(1), ast.OpDiv, ast.Int(0))), false},
		{"conditional", &ast.ConditionalExpression{Cond: ast.Bin(k(), ast.OpGt, ast.Int(3)), Then: ast.Str("big"), Else: ast.Str("small")}, "big"},
		{"string method", ast.Call(ast.Str(" Ab "), "trim"), "Ab"},
		{"string length", ast.Call(ast.Str("abc"), "length"), int64(3)},
		{"template", &ast.StringTemplate{Processor: "STR", Fragments: []string{"k=", "!"}, Values: []ast.Expression{k()}}, "k=4!"},
		{"static host", ast.Static("Math", "abs", neg(ast.Int(3))), int64(3)},
		{"factory", ast.Static("Either", "left", ast.Str("e")), capability.Alternate(capability.Either, "e")},
		{"container predicate", ast.Call(ast.Static("Option", "none"), "isEmpty"), true},
		{"container accessor", ast.Call(ast.Static("Try", "success", k()), "get"), int64(4)},
		{"exception message", ast.Call(&ast.NewClass{Class: "E", Args: []ast.Expression{ast.Str("boom")}}, "getMessage"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			returns(t, run(t, prog(ast.Return(tt.expr)), Options{}, 4), tt.want)
		})
	}
}

func TestRuntimeExceptions(t *testing.T) {
	tests := []struct {
		name string
		body []ast.Statement
		want Value
	}{
		{"division by zero", []ast.Statement{ast.Return(ast.Bin(k(), ast.OpDiv, ast.Int(0)))}, obj("ArithmeticException", "/ by zero")},
		{"index out of bounds", []ast.Statement{
			ast.Var("a", "int[]", &ast.NewArray{ElemType: "int", HasInit: true, Elements: []ast.Expression{ast.Int(1), ast.Int(2)}}),
			ast.Return(&ast.ArrayAccess{Array: ast.Ident("a"), Index: ast.Int(5)}),
		}, obj("ArrayIndexOutOfBoundsException", "Index 5 out of bounds for length 2")},
		{"accessor on alternate", []ast.Statement{ast.Return(ast.Call(ast.Static("Either", "left", ast.Int(1)), "get"))},
			obj("NoSuchElementException", "get on Either.left(1)")},
		{"throw null", []ast.Statement{ast.Throw(ast.Null())}, obj("NullPointerException", "throw null")},
		{"synchronized on null", []ast.Statement{&ast.SynchronizedStatement{Monitor: ast.Null(), Body: ast.Block()}}, obj("NullPointerException", "synchronized on null")},
		{"no match", []ast.Statement{ast.Return(&ast.SwitchExpression{Selector: k(), Cases: []*ast.Case{
			{Labels: []ast.Expression{ast.Int(0)}, Arrow: true, Body: []ast.Statement{&ast.YieldStatement{Value: ast.Int(0), Implicit: true}}},
		}})}, obj("MatchException", "4")},
		{"host throws", []ast.Statement{ast.Return(ast.Call(nil, "read"))}, obj("IOException", "disk")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			throws(t, run(t, prog(tt.body...), Options{}, 4), tt.want)
		})
	}
}

func TestLoops(t *testing.T) {
	// for (int i = 0; i < k; i++) { if (i == 3) continue; s += i; }
	sum := prog(
		ast.Var("s", "int", ast.Int(0)),
		&ast.ForStatement{
			Init:   []ast.Statement{ast.Var("i", "int", ast.Int(0))},
			Cond:   ast.Bin(ast.Ident("i"), ast.OpLt, k()),
			Update: []ast.Expression{incr("i")},
			Body: ast.Block(
				ast.If(ast.Bin(ast.Ident("i"), ast.OpEq, ast.Int(3)), &ast.ContinueStatement{}, nil),
				compound("s", ast.OpAddAssign, ast.Ident("i")),
			),
		},
		ast.Return(ast.Ident("s")),
	)
	returns(t, run(t, sum, Options{}, 5), int64(7))
	returns(t, run(t, sum, Options{}, 0), int64(0))

	count := prog(
		ast.Var("n", "int", ast.Int(0)),
		&ast.WhileStatement{Cond: ast.Bin(ast.Ident("n"), ast.OpLt, k()), Body: ast.Expr(incr("n"))},
		&ast.DoWhileStatement{Body: compound("n", ast.OpAddAssign, ast.Int(10)), Cond: ast.Bin(ast.Ident("n"), ast.OpLt, ast.Int(0))},
		ast.Return(ast.Ident("n")),
	)
	returns(t, run(t, count, Options{}, 3), int64(13))

	each := prog(
		ast.Var("s", "int", ast.Int(0)),
		&ast.EnhancedForStatement{
			VarName:  "v",
			VarType:  "int",
			Iterable: &ast.NewArray{ElemType: "int", HasInit: true, Elements: []ast.Expression{ast.Int(1), k(), ast.Int(100)}},
			Body: ast.Block(
				ast.If(ast.Bin(ast.Ident("v"), ast.OpGt, ast.Int(50)), &ast.BreakStatement{}, nil),
				compound("s", ast.OpAddAssign, ast.Ident("v")),
			),
		},
		ast.Return(ast.Ident("s")),
	)
	returns(t, run(t, each, Options{}, 4), int64(5))
}

func TestLabeledLoops(t *testing.T) {
	inner := &ast.ForStatement{
		Init:   []ast.Statement{ast.Var("j", "int", ast.Int(0))},
		Cond:   ast.Bin(ast.Ident("j"), ast.OpLt, ast.Int(3)),
		Update: []ast.Expression{incr("j")},
		Body: ast.Block(
			ast.If(ast.Bin(ast.Ident("j"), ast.OpEq, ast.Int(1)), &ast.ContinueStatement{Label: "outer"}, nil),
			ast.If(ast.Bin(ast.Ident("i"), ast.OpEq, k()), &ast.BreakStatement{Label: "outer"}, nil),
			ast.Expr(incr("c")),
		),
	}
	outer := &ast.LabeledStatement{Label: "outer", Body: &ast.ForStatement{
		Init:   []ast.Statement{ast.Var("i", "int", ast.Int(0))},
		Cond:   ast.Bin(ast.Ident("i"), ast.OpLt, ast.Int(3)),
		Update: []ast.Expression{incr("i")},
		Body:   ast.Block(inner),
	}}
	unit := prog(ast.Var("c", "int", ast.Int(0)), outer, ast.Return(ast.Ident("c")))

	returns(t, run(t, unit, Options{}, 2), int64(2))
	returns(t, run(t, unit, Options{}, 0), int64(0))
	returns(t, run(t, unit, Options{}, 9), int64(3))

	// a labeled block is left by break
	block := prog(
		&ast.LabeledStatement{Label: "done", Body: ast.Block(
			ast.If(ast.Bin(k(), ast.OpGt, ast.Int(0)), &ast.BreakStatement{Label: "done"}, nil),
			ast.Return(ast.Str("inside")),
		)},
		ast.Return(ast.Str("after")),
	)
	returns(t, run(t, block, Options{}, 1), "after")
	returns(t, run(t, block, Options{}, 0), "inside")
}

func TestSwitchStatement(t *testing.T) {
	// case 1: r += 1; case 2: r += 10; break; default: r += 100;
	unit := prog(
		ast.Var("r", "int", ast.Int(0)),
		&ast.SwitchStatement{Selector: k(), Cases: []*ast.Case{
			{Labels: []ast.Expression{ast.Int(1)}, Body: []ast.Statement{compound("r", ast.OpAddAssign, ast.Int(1))}},
			{Labels: []ast.Expression{ast.Int(2)}, Body: []ast.Statement{compound("r", ast.OpAddAssign, ast.Int(10)), &ast.BreakStatement{}}},
			{Body: []ast.Statement{compound("r", ast.OpAddAssign, ast.Int(100))}},
		}},
		ast.Return(ast.Ident("r")),
	)
	returns(t, run(t, unit, Options{}, 1), int64(11))
	returns(t, run(t, unit, Options{}, 2), int64(10))
	returns(t, run(t, unit, Options{}, 7), int64(100))

	rules := prog(
		ast.Var("r", "String", ast.Str("")),
		&ast.SwitchStatement{Selector: k(), Cases: []*ast.Case{
			{Labels: []ast.Expression{ast.Int(1), ast.Int(2)}, Arrow: true, Body: []ast.Statement{ast.Assign(ast.Ident("r"), ast.Str("low"))}},
			{Arrow: true, Body: []ast.Statement{ast.Assign(ast.Ident("r"), ast.Str("high"))}},
		}},
		ast.Return(ast.Ident("r")),
	)
	returns(t, run(t, rules, Options{}, 2), "low")
	returns(t, run(t, rules, Options{}, 3), "high")
}

func TestSwitchExpression(t *testing.T) {
	sw := &ast.SwitchExpression{Selector: k(), Type: "int", Cases: []*ast.Case{
		{Labels: []ast.Expression{ast.Int(0)}, Arrow: true, Body: []ast.Statement{&ast.YieldStatement{Value: ast.Int(1), Implicit: true}}},
		{Labels: []ast.Expression{ast.Int(1)}, Arrow: true, Body: []ast.Statement{ast.Block(logCall(k()), ast.Yield(ast.Int(2)))}},
		{Arrow: true, Body: []ast.Statement{ast.Throw(&ast.NewClass{Class: "E", Args: []ast.Expression{k()}})}},
	}}
	unit := prog(ast.Return(sw))

	returns(t, run(t, unit, Options{}, 0), int64(1))
	out := run(t, unit, Options{}, 1)
	returns(t, out, int64(2))
	assert.Equal(t, []string{"log(1)"}, out.Calls)
	throws(t, run(t, unit, Options{}, 5), obj("E", int64(5)))
}

func TestTry(t *testing.T) {
	caught := prog(
		&ast.TryStatement{
			Body: ast.Block(
				logCall(ast.Str("body")),
				ast.If(ast.Bin(k(), ast.OpGt, ast.Int(0)), ast.Throw(&ast.NewClass{Class: "IllegalState", Args: []ast.Expression{ast.Str("x")}}), nil),
				ast.If(ast.Bin(k(), ast.OpLt, ast.Int(0)), ast.Throw(&ast.NewClass{Class: "Unknown"}), nil),
			),
			Catches: []*ast.CatchClause{
				{Param: ast.Param("o", "Other | Another"), Body: ast.Block(logCall(ast.Str("other")))},
				{Param: ast.Param("e", "Bad | IllegalState"), Body: ast.Block(logCall(ast.Call(ast.Ident("e"), "getMessage")))},
			},
			Finally: ast.Block(logCall(ast.Str("finally"))),
		},
		ast.Return(ast.Int(1)),
	)
	out := run(t, caught, Options{}, 1)
	returns(t, out, int64(1))
	assert.Equal(t, []string{"log(body)", "log(x)", "log(finally)"}, out.Calls)

	out = run(t, caught, Options{}, 0)
	returns(t, out, int64(1))
	assert.Equal(t, []string{"log(body)", "log(finally)"}, out.Calls)

	// nothing catches Unknown; finally still runs
	out = run(t, caught, Options{}, -1)
	throws(t, out, obj("Unknown"))
	assert.Equal(t, []string{"log(body)", "log(finally)"}, out.Calls)

	override := prog(&ast.TryStatement{
		Body:    ast.Block(ast.Return(ast.Int(1))),
		Finally: ast.Block(ast.Return(ast.Int(2))),
	})
	returns(t, run(t, override, Options{}, 0), int64(2))

	host := prog(&ast.TryStatement{
		Body:    ast.Block(ast.Return(ast.Call(nil, "read"))),
		Catches: []*ast.CatchClause{{Param: ast.Param("e", "IOException"), Body: ast.Block(ast.Return(ast.Call(ast.Ident("e"), "getMessage")))}},
	})
	returns(t, run(t, host, Options{}, 0), "disk")
}

func TestArrays(t *testing.T) {
	grid := &ast.NewArray{ElemType: "int", Dims: []ast.Expression{ast.Int(2), ast.Int(3)}}
	cell := func() *ast.ArrayAccess {
		return &ast.ArrayAccess{Array: &ast.ArrayAccess{Array: ast.Ident("g"), Index: ast.Int(1)}, Index: ast.Int(2)}
	}
	unit := prog(
		ast.Var("g", "int[][]", grid),
		ast.Expr(&ast.Assignment{Target: cell(), Operator: ast.OpAddAssign, Value: k()}),
		ast.Expr(&ast.UnaryExpression{Operator: ast.OpInc, Operand: cell()}),
		ast.Return(ast.Bin(cell(), ast.OpAdd, &ast.FieldAccess{Target: ast.Ident("g"), Name: "length"})),
	)
	returns(t, run(t, unit, Options{}, 4), int64(7))

	negative := prog(ast.Return(&ast.NewArray{ElemType: "int", Dims: []ast.Expression{ast.Int(-1)}}))
	throws(t, run(t, negative, Options{}, 0), obj("NegativeArraySizeException", "-1"))
}

func TestClosures(t *testing.T) {
	unit := prog(
		ast.Var("base", "int", ast.Int(10)),
		ast.Var("add", "", ast.Lambda(ast.Bin(ast.Ident("y"), ast.OpAdd, ast.Ident("base")), ast.Param("y", "int"))),
		ast.Var("twice", "", ast.Lambda(ast.Block(
			ast.Return(ast.Bin(ast.Call(ast.Ident("add"), "apply", ast.Ident("z")), ast.OpMul, ast.Int(2))),
		), ast.Param("z", "int"))),
		ast.Return(ast.Call(ast.Ident("twice"), "apply", k())),
	)
	returns(t, run(t, unit, Options{}, 5), int64(30))
}

func TestAssertions(t *testing.T) {
	unit := prog(
		&ast.AssertStatement{Cond: ast.Bin(k(), ast.OpGt, ast.Int(0)), Message: ast.Bin(ast.Str("k="), ast.OpAdd, k())},
		ast.Return(ast.Str("ok")),
	)
	returns(t, run(t, unit, Options{}, -1), "ok")
	returns(t, run(t, unit, Options{AssertionsEnabled: true}, 1), "ok")
	throws(t, run(t, unit, Options{AssertionsEnabled: true}, -1), obj("AssertionError", "k=-1"))
}

// site returns `f(arg).unwrap()`.
func site(arg ast.Expression) *ast.MethodCall {
	return ast.Call(ast.Call(nil, "f", arg), "unwrap")
}

func TestNativeUnwrap(t *testing.T) {
	native := Options{NativeUnwrap: true}
	right := func(v Value) Value { return capability.Success(capability.Either, v) }
	left := capability.Alternate(capability.Either, "neg")

	ret := prog(ast.Return(ast.Static("Either", "right", ast.Bin(site(k()), ast.OpAdd, ast.Int(1)))))
	returns(t, run(t, ret, native, 2), right(int64(3)))
	out := run(t, ret, native, -1)
	returns(t, out, left)
	assert.Equal(t, []string{"f(-1)"}, out.Calls)

	_, err := Run(ret, Options{Functions: hostFunctions()}, "m", int64(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unwrap() reached the interpreter")

	thrown := prog(ast.Throw(&ast.NewClass{Class: "E", Args: []ast.Expression{site(k())}}))
	throws(t, run(t, thrown, native, -1), left)
	throws(t, run(t, thrown, native, 1), obj("E", int64(1)))

	// the lambda is left, not the method
	lambda := prog(
		ast.Var("fn", "", ast.Lambda(site(ast.Ident("y")), ast.Param("y", "int"))),
		logCall(ast.Call(ast.Ident("fn"), "apply", k())),
		ast.Return(ast.Static("Either", "right", ast.Int(0))),
	)
	out = run(t, lambda, native, -1)
	returns(t, out, right(int64(0)))
	assert.Equal(t, []string{"f(-1)", "log(Either.left(neg))"}, out.Calls)

	// as is the switch expression case
	sw := prog(ast.Return(ast.Static("Either", "right", &ast.SwitchExpression{Selector: k(), Cases: []*ast.Case{
		{Arrow: true, Body: []ast.Statement{&ast.YieldStatement{Value: site(k()), Implicit: true}}},
	}})))
	returns(t, run(t, sw, native, -1), right(left))
	returns(t, run(t, sw, native, 4), right(int64(4)))

	custom := prog(ast.Return(ast.Call(ast.Call(nil, "f", k()), "orReturn")))
	returns(t, run(t, custom, Options{NativeUnwrap: true, Sentinel: "orReturn"}, -1), left)
}

func TestCallErrors(t *testing.T) {
	unit := prog(ast.Return(ast.Int(0)))

	_, err := Run(unit, Options{}, "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m takes 1 arguments, got 0")

	_, err = Run(unit, Options{}, "nope")
	assert.EqualError(t, err, "no method nope in Test.java")

	undefined := prog(ast.Return(ast.Ident("missing")))
	_, err = Run(undefined, Options{}, "m", int64(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined: missing")

	rec := prog(ast.Return(ast.Call(nil, "m", k())))
	out, err := Run(rec, Options{MaxDepth: 8}, "m", int64(0))
	require.NoError(t, err)
	throws(t, out, obj("StackOverflowError", "call depth exceeded"))
}

func TestCallsRecordedInOrder(t *testing.T) {
	unit := prog(
		logCall(ast.Str("a"), ast.Int(1)),
		ast.Return(ast.Static("Math", "abs", ast.Call(nil, "log", k()))),
	)
	in := New(unit, Options{Functions: map[string]Function{
		"log": func(args []Value) (Value, error) { return args[len(args)-1], nil },
		"Math.abs": func(args []Value) (Value, error) {
			return -args[0].(int64), nil
		},
	}})
	v, err := in.Call("m", int64(-2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
	assert.Equal(t, []string{"log(a, 1)", "log(-2)", "Math.abs(-2)"}, in.Calls())
}

func TestEqual(t *testing.T) {
	arr := &Array{Elems: []Value{int64(1)}}
	tests := []struct {
		a, b Value
		want bool
	}{
		{int64(1), 1.0, true},
		{2.0, int64(2), true},
		{"a", "a", true},
		{nil, nil, true},
		{int64(1), "1", false},
		{obj("E", "m"), obj("E", "m"), true},
		{obj("E", "m"), obj("E", "n"), false},
		{obj("E"), obj("F"), false},
		{capability.Success(capability.Either, int64(1)), capability.Success(capability.Either, 1.0), true},
		{capability.Success(capability.Either, int64(1)), capability.Alternate(capability.Either, int64(1)), false},
		{capability.Success(capability.Either, int64(1)), capability.Success(capability.Try, int64(1)), false},
		{arr, arr, true},
		{arr, &Array{Elems: []Value{int64(1)}}, false},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.want, Equal(tt.a, tt.b), "case %d: %s == %s", i, Format(tt.a), Format(tt.b))
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{nil, "null"},
		{int64(-3), "-3"},
		{1.5, "1.5"},
		{true, "true"},
		{"s", "s"},
		{&Array{Elems: []Value{int64(1), "a"}}, "[1, a]"},
		{&Closure{}, "<lambda>"},
		{obj("E", "boom", int64(2)), "E(boom, 2)"},
		{capability.Success(capability.Either, int64(1)), "Either.right(1)"},
		{capability.Alternate(capability.Option, nil), "Option.none()"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.v))
	}
	assert.Equal(t, "uncaught E(x)", Throw("E", "x").Error())
}

func TestOutcome(t *testing.T) {
	a := &Outcome{Value: int64(1), Calls: []string{"f(1)"}}
	b := &Outcome{Value: 1.0, Calls: []string{"f(1)"}}
	c := &Outcome{Value: int64(1), Calls: []string{"f(2)"}}
	d := &Outcome{Thrown: obj("E"), Calls: []string{"f(1)"}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.Equal(t, "returns 1 after [f(1)]", a.String())
	assert.Equal(t, "throws E() after [f(1)]", d.String())
	assert.Equal(t, fmt.Sprint(a), a.String())
}
