package unwrap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
	"github.com/orizon-lang/unwrap/internal/eval"
	"github.com/orizon-lang/unwrap/internal/position"
)

const (
	eitherType = "Either<String, Integer>"
	testFile   = "Test.java"
)

func at(line, col int) position.Span { return position.At(testFile, line, col) }

// uw returns `recv.unwrap()` with the given result type.
func uw(recv ast.Expression) *ast.MethodCall {
	c := ast.Call(recv, DefaultSentinel)
	c.Type = "Integer"
	return c
}

// uwAt is uw with a source position, for diagnostics.
func uwAt(recv ast.Expression, line, col int) *ast.MethodCall {
	c := uw(recv)
	c.Span = at(line, col)
	return c
}

// host returns the unqualified call `name(args)` typed as an Either.
func host(name string, args ...ast.Expression) *ast.MethodCall {
	return ast.TypedCall(eitherType, name, args...)
}

func right(v ast.Expression) *ast.MethodCall { return ast.Static("Either", "right", v) }

func left(v ast.Expression) *ast.MethodCall { return ast.Static("Either", "left", v) }

func x() *ast.Identifier { return ast.TypedIdent("x", "int") }

func cond(c, then, els ast.Expression, typ string) *ast.ConditionalExpression {
	return &ast.ConditionalExpression{Cond: c, Then: then, Else: els, Type: typ}
}

// method returns `static Either<String, Integer> name(int x) { stmts }`.
func method(name string, stmts ...ast.Statement) *ast.MethodDeclaration {
	return ast.Method(name, eitherType, []*ast.Parameter{ast.Param("x", "int")}, stmts...)
}

func unitOf(methods ...*ast.MethodDeclaration) *ast.CompilationUnit {
	return ast.Unit(testFile, methods...)
}

func failing(name string, bad func(int64) bool) eval.Function {
	return func(args []eval.Value) (eval.Value, error) {
		n := args[0].(int64)
		if bad(n) {
			return capability.Alternate(capability.Either, fmt.Sprintf("%s %d", name, n)), nil
		}
		return capability.Success(capability.Either, n), nil
	}
}

// hosts are the host functions of the tests. f fails on negative
// arguments, g on arguments above 100, dbl doubles and fails on negative
// arguments, a returns an array and fails on 1, b fails on 2, arr returns
// the array [1, 2, x] and fails on negative arguments, h and log return
// their argument.
func hosts() map[string]eval.Function {
	id := func(args []eval.Value) (eval.Value, error) {
		if len(args) == 0 {
			return nil, nil
		}
		return args[0], nil
	}
	return map[string]eval.Function{
		"f": failing("f", func(n int64) bool { return n < 0 }),
		"g": failing("g", func(n int64) bool { return n > 100 }),
		"b": failing("b", func(n int64) bool { return n == 2 }),
		"dbl": func(args []eval.Value) (eval.Value, error) {
			n := args[0].(int64)
			if n < 0 {
				return capability.Alternate(capability.Either, "dbl"), nil
			}
			return capability.Success(capability.Either, 2*n), nil
		},
		"a": func(args []eval.Value) (eval.Value, error) {
			if args[0].(int64) == 1 {
				return capability.Alternate(capability.Either, "a 1"), nil
			}
			return capability.Success(capability.Either, &eval.Array{Elems: []eval.Value{int64(10), int64(20), int64(30)}}), nil
		},
		"arr": func(args []eval.Value) (eval.Value, error) {
			n := args[0].(int64)
			if n < 0 {
				return capability.Alternate(capability.Either, "arr"), nil
			}
			return capability.Success(capability.Either, &eval.Array{Elems: []eval.Value{int64(1), int64(2), n}}), nil
		},
		"h":   id,
		"log": id,
	}
}

func rewrite(t *testing.T, unit *ast.CompilationUnit) *Result {
	t.Helper()
	res, err := New(Options{}).Run(unit)
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics, "unexpected diagnostics:\n%s", res.Diagnostics)
	require.NotNil(t, res.Unit)
	return res
}

// equivalent runs method on unit with unwrap evaluated natively and on the
// rewritten unit, requires both outcomes to match and returns the
// rewritten one.
func equivalent(t *testing.T, unit *ast.CompilationUnit, method string, args ...eval.Value) *eval.Outcome {
	t.Helper()
	opts := eval.Options{Functions: hosts()}
	native := opts
	native.NativeUnwrap = true

	want, err := eval.Run(unit, native, method, args...)
	require.NoError(t, err)

	res := rewrite(t, unit)
	got, err := eval.Run(res.Unit, opts, method, args...)
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "native %s\nrewritten %s\n%s", want, got, ast.Print(res.Unit))
	return got
}

func assertReturns(t *testing.T, out *eval.Outcome, want eval.Value) {
	t.Helper()
	require.Nil(t, out.Thrown, "threw %s", eval.Format(out.Thrown))
	assert.True(t, eval.Equal(want, out.Value), "want %s, got %s", eval.Format(want), eval.Format(out.Value))
}

func rightOf(v eval.Value) *capability.TwoState { return capability.Success(capability.Either, v) }

func leftOf(v eval.Value) *capability.TwoState { return capability.Alternate(capability.Either, v) }
