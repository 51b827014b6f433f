package unwrap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/diagnostic"
	"github.com/orizon-lang/unwrap/internal/errors"
	"github.com/orizon-lang/unwrap/internal/eval"
)

// nameUnit holds `name`, which fails for 0, and `wrap`, which returns
// `Either.right(name(x).unwrap())`.
func nameUnit() *ast.CompilationUnit {
	name := method("name",
		ast.If(ast.Bin(x(), ast.OpEq, ast.Int(0)), ast.Return(left(ast.Str("zero"))), nil),
		ast.Return(right(ast.Bin(x(), ast.OpMul, ast.Int(10)))),
	)
	wrap := method("wrap", ast.Return(right(uw(host("name", x())))))
	return unitOf(name, wrap)
}

func TestReturnAnchorRewrite(t *testing.T) {
	res := rewrite(t, nameUnit())

	want := strings.Join([]string{
		"static Either<String, Integer> wrap(int x) {",
		"  Either<String, Integer> $unwrap0 = name(x);",
		"  if ($unwrap0.isLeft()) {",
		"    return Either.left($unwrap0.getLeft());",
		"  }",
		"  return Either.right($unwrap0.get());",
		"}",
	}, "\n")
	assert.Equal(t, want, ast.Print(res.Unit.Method("wrap")))
	assert.Equal(t, 1, res.Sites)
	assert.Equal(t, 1, res.Steps)
}

func TestReturnAnchorBehaviour(t *testing.T) {
	unit := nameUnit()

	assertReturns(t, equivalent(t, unit, "wrap", int64(0)), leftOf("zero"))
	assertReturns(t, equivalent(t, unit, "wrap", int64(-1)), rightOf(int64(-10)))
	assertReturns(t, equivalent(t, unit, "wrap", int64(1)), rightOf(int64(10)))

	// the direct calls agree with what wrap passes through
	direct, err := eval.Run(unit, eval.Options{}, "name", int64(1))
	require.NoError(t, err)
	assertReturns(t, direct, rightOf(int64(10)))
}

func TestPassLeavesInputUntouched(t *testing.T) {
	unit := nameUnit()
	before := ast.Print(unit)
	rewrite(t, unit)
	assert.Equal(t, before, ast.Print(unit))
}

func TestShortCircuitRightOperandRejected(t *testing.T) {
	site := uwAt(host("f", x()), 3, 22)
	unit := unitOf(method("m",
		ast.If(ast.Bin(ast.Bin(x(), ast.OpGt, ast.Int(0)), ast.OpOr, ast.Bin(site, ast.OpGt, ast.Int(0))),
			ast.Return(right(ast.Int(1))), nil),
		ast.Return(right(ast.Int(0))),
	))

	collector := diagnostic.NewCollector()
	res, err := New(Options{Reporter: collector}).Run(unit)
	require.NoError(t, err)
	assert.Nil(t, res.Unit)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "Test.java:3:22: error: Unsupported position for unwrap method call", res.Diagnostics[0].String())
	assert.Equal(t, res.Diagnostics, collector.Diagnostics())
	assert.EqualError(t, res.Err(), "Test.java:3:22: error: Unsupported position for unwrap method call")
}

func TestForInitializerRejected(t *testing.T) {
	loop := &ast.ForStatement{
		Init:   []ast.Statement{ast.Var("i", "int", uwAt(host("f", x()), 2, 18))},
		Cond:   ast.Bin(ast.Ident("i"), ast.OpLt, ast.Int(3)),
		Update: []ast.Expression{&ast.UnaryExpression{Operator: ast.OpInc, Operand: ast.Ident("i"), Postfix: true}},
		Body:   ast.Block(),
	}
	res, err := New(Options{}).Run(unitOf(method("m", loop, ast.Return(right(ast.Int(0))))))
	require.NoError(t, err)
	assert.Nil(t, res.Unit)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, at(2, 18), res.Diagnostics[0].Span)
	assert.Equal(t, diagnostic.UnsupportedPosition, res.Diagnostics[0].Message)
}

// lambdaUnit applies a lambda with a block body holding a site and
// reports whether it got an alternate, so an early exit that left the
// method instead of the lambda would show.
func lambdaUnit() *ast.CompilationUnit {
	fn := ast.Lambda(ast.Block(
		ast.Var("v", "int", uw(host("f", ast.TypedIdent("y", "int")))),
		ast.Return(right(ast.Bin(ast.Ident("v"), ast.OpAdd, ast.Int(1)))),
	), ast.Param("y", "int"))
	return unitOf(method("m",
		ast.Var("fn", "", fn),
		ast.Var("r", eitherType, ast.Call(ast.Ident("fn"), "apply", x())),
		ast.Expr(ast.TypedCall("void", "log", ast.Ident("r"))),
		ast.Return(right(ast.Call(ast.Ident("r"), "isLeft"))),
	))
}

func TestLambdaBlockBodyExitsLambda(t *testing.T) {
	unit := lambdaUnit()

	out := equivalent(t, unit, "m", int64(-2))
	assertReturns(t, out, rightOf(true))
	assert.Equal(t, []string{"f(-2)", "log(Either.left(f -2))"}, out.Calls)

	out = equivalent(t, unit, "m", int64(4))
	assertReturns(t, out, rightOf(false))
	assert.Equal(t, []string{"f(4)", "log(Either.right(5))"}, out.Calls)
}

func TestLambdaExpressionBody(t *testing.T) {
	fn := ast.Lambda(right(ast.Bin(uw(host("f", ast.TypedIdent("y", "int"))), ast.OpMul, ast.Int(2))), ast.Param("y", "int"))
	unit := unitOf(method("m",
		ast.Var("fn", "", fn),
		ast.Return(ast.Call(ast.Ident("fn"), "apply", x())),
	))

	res := rewrite(t, unit)
	assert.Equal(t, 2, res.Steps)
	text := ast.Print(res.Unit)
	assert.Contains(t, text, "var fn = (int y) -> {")
	assert.Contains(t, text, "    return Either.left($unwrap0.getLeft());")
	assert.Contains(t, text, "    return Either.right($unwrap0.get() * 2);")

	assertReturns(t, equivalent(t, unit, "m", int64(3)), rightOf(int64(6)))
	assertReturns(t, equivalent(t, unit, "m", int64(-3)), leftOf("f -3"))
}

func indexUnit() *ast.CompilationUnit {
	arr := ast.Call(ast.TypedCall("Either<String, int[]>", "a", x()), DefaultSentinel)
	arr.Type = "int[]"
	idx := uw(host("b", x()))
	return unitOf(method("m", ast.Return(right(&ast.ArrayAccess{Array: arr, Index: idx, Type: "int"}))))
}

func TestArrayAndIndexSites(t *testing.T) {
	res := rewrite(t, indexUnit())
	want := strings.Join([]string{
		"static Either<String, Integer> m(int x) {",
		"  Either<String, int[]> $unwrap0 = a(x);",
		"  if ($unwrap0.isLeft()) {",
		"    return Either.left($unwrap0.getLeft());",
		"  }",
		"  Either<String, Integer> $unwrap1 = b(x);",
		"  if ($unwrap1.isLeft()) {",
		"    return Either.left($unwrap1.getLeft());",
		"  }",
		"  return Either.right($unwrap0.get()[$unwrap1.get()]);",
		"}",
	}, "\n")
	assert.Equal(t, want, ast.Print(res.Unit.Method("m")))
}

func TestArrayAndIndexOrder(t *testing.T) {
	unit := indexUnit()

	out := equivalent(t, unit, "m", int64(0))
	assertReturns(t, out, rightOf(int64(10)))
	assert.Equal(t, []string{"a(0)", "b(0)"}, out.Calls)

	// the array fails first: the index is never evaluated
	out = equivalent(t, unit, "m", int64(1))
	assertReturns(t, out, leftOf("a 1"))
	assert.Equal(t, []string{"a(1)"}, out.Calls)

	out = equivalent(t, unit, "m", int64(2))
	assertReturns(t, out, leftOf("b 2"))
	assert.Equal(t, []string{"a(2)", "b(2)"}, out.Calls)
}

func TestDiagnosticsBatchedInSourceOrder(t *testing.T) {
	first := uwAt(host("f", x()), 2, 30)
	second := uwAt(host("f", x()), 5, 11)
	third := uwAt(host("f", x()), 9, 7)
	unit := unitOf(
		method("a",
			ast.Return(right(ast.Bin(ast.Bool(true), ast.OpAnd, ast.Bin(first, ast.OpGt, ast.Int(1))))),
		),
		method("b",
			&ast.AssertStatement{Cond: ast.Bin(second, ast.OpGt, ast.Int(0))},
			ast.Return(right(uw(host("f", x())))),
		),
		method("c",
			&ast.LabeledStatement{Label: "out", Body: ast.Expr(ast.TypedCall("void", "log", third))},
			ast.Return(right(ast.Int(0))),
		),
	)
	// put c's method first so sorting is observable
	unit.Methods[0], unit.Methods[2] = unit.Methods[2], unit.Methods[0]

	res, err := New(Options{}).Run(unit)
	require.NoError(t, err)
	assert.Nil(t, res.Unit)
	assert.Equal(t, 4, res.Sites)
	require.Len(t, res.Diagnostics, 3)
	assert.Equal(t, at(2, 30), res.Diagnostics[0].Span)
	assert.Equal(t, at(5, 11), res.Diagnostics[1].Span)
	assert.Equal(t, at(9, 7), res.Diagnostics[2].Span)
	for _, d := range res.Diagnostics {
		assert.Equal(t, diagnostic.UnsupportedPosition, d.Message)
		assert.Equal(t, diagnostic.DiagnosticError, d.Level)
	}
}

func TestUnitWithoutSites(t *testing.T) {
	unit := unitOf(method("m",
		// unwrap on a non-container and unwrap with arguments are ordinary calls
		ast.Expr(ast.Call(ast.TypedIdent("s", "String"), DefaultSentinel)),
		ast.Expr(ast.Call(ast.TypedIdent("p", eitherType), DefaultSentinel, ast.Int(1))),
		ast.Return(right(ast.Int(0))),
	))
	res := rewrite(t, unit)
	assert.Equal(t, 0, res.Sites)
	assert.Equal(t, 0, res.Steps)
	assert.Equal(t, ast.Print(unit), ast.Print(res.Unit))
}

func TestCustomSentinelAndPrefix(t *testing.T) {
	call := ast.Call(host("f", x()), "orReturn")
	call.Type = "Integer"
	unit := unitOf(method("m", ast.Return(right(call))))

	res, err := New(Options{Sentinel: "orReturn", TempPrefix: "tmp"}).Run(unit)
	require.NoError(t, err)
	require.NotNil(t, res.Unit)
	text := ast.Print(res.Unit)
	assert.Contains(t, text, "Either<String, Integer> tmp0 = f(x);")
	assert.Contains(t, text, "return Either.right(tmp0.get());")
}

func TestNilUnitIsInternalError(t *testing.T) {
	_, err := New(Options{}).Run(nil)
	require.Error(t, err)
	assert.True(t, errors.IsInternal(err))
}
