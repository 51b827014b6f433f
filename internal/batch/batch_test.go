package batch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/unwrap"
)

const eitherType = "Either<String, Integer>"

func site() *ast.MethodCall {
	c := ast.Call(ast.TypedCall(eitherType, "f", ast.TypedIdent("x", "int")), unwrap.DefaultSentinel)
	c.Type = "Integer"
	return c
}

func right(v ast.Expression) *ast.MethodCall { return ast.Static("Either", "right", v) }

func unitWith(file string, stmts ...ast.Statement) *ast.CompilationUnit {
	return ast.Unit(file, ast.Method("m", eitherType, []*ast.Parameter{ast.Param("x", "int")}, stmts...))
}

// good has one site in a return.
func good(file string) *ast.CompilationUnit {
	return unitWith(file, ast.Return(right(site())))
}

// rejected has a site on the right of ||.
func rejected(file string) *ast.CompilationUnit {
	c := ast.Bin(ast.Bool(true), ast.OpOr, ast.Bin(site(), ast.OpGt, ast.Int(0)))
	return unitWith(file, ast.If(c, ast.Return(right(ast.Int(1))), nil), ast.Return(right(ast.Int(0))))
}

const tree = `format: 1.0.0
unit:
  file: Tree.java
  methods:
    - name: m
      returns: Either<String, Integer>
      params: [{name: x, type: int}]
      body:
        - kind: return
          expr:
            kind: call
            recv: {kind: ident, name: Either}
            name: right
            args:
              - {kind: call, name: unwrap, type: Integer, recv: {kind: call, name: f, type: "Either<String, Integer>", args: [{kind: ident, name: x, type: int}]}}
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tree), 0o644))
	missing := filepath.Join(dir, "missing.yaml")

	jobs := []Job{
		{Unit: good("A.java")},
		{Unit: rejected("B.java")},
		{Path: path},
		{Path: missing},
		{Unit: good("C.java")},
	}
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	r := &Runner{Pass: unwrap.New(unwrap.Options{}), Workers: 2, Logger: &logger}

	report, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, len(jobs))
	assert.NotEmpty(t, report.RunID)

	names := make([]string, len(report.Outcomes))
	failed := make([]bool, len(report.Outcomes))
	for i := range report.Outcomes {
		names[i] = report.Outcomes[i].Name
		failed[i] = report.Outcomes[i].Failed()
	}
	assert.Equal(t, []string{"A.java", "B.java", path, missing, "C.java"}, names)
	assert.Equal(t, []bool{false, true, false, true, false}, failed)
	assert.Equal(t, 2, report.Failed())

	loaded := report.Outcomes[2].Result
	require.NotNil(t, loaded)
	require.NotNil(t, loaded.Unit)
	assert.Equal(t, "Tree.java", loaded.Unit.Filename)
	assert.Equal(t, 1, loaded.Sites)

	assert.Nil(t, report.Outcomes[1].Err)
	assert.Len(t, report.Outcomes[1].Result.Diagnostics, 1)
	assert.Error(t, report.Outcomes[3].Err)

	err = report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "B.java: ")
	assert.Contains(t, err.Error(), missing+": ")
	assert.NotContains(t, err.Error(), "A.java")

	assert.Contains(t, logs.String(), `"message":"batch finished"`)
	assert.Contains(t, logs.String(), `"run":"`+report.RunID+`"`)
	assert.Contains(t, logs.String(), `"failed":2`)
}

func TestRunAllGood(t *testing.T) {
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = Job{Unit: good("U.java")}
	}
	// zero workers still runs one at a time, and no logger is fine
	r := &Runner{Pass: unwrap.New(unwrap.Options{})}
	report, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Failed())
	assert.NoError(t, report.Err())
	for i := range report.Outcomes {
		assert.Equal(t, 1, report.Outcomes[i].Result.Steps)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make([]Job, 64)
	for i := range jobs {
		jobs[i] = Job{Unit: good("U.java")}
	}
	r := &Runner{Pass: unwrap.New(unwrap.Options{}), Workers: 1}
	report, err := r.Run(ctx, jobs)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Len(t, report.Outcomes, len(jobs))
	assert.Greater(t, report.Failed(), 0)
}

func TestOutcomeFailed(t *testing.T) {
	assert.True(t, (&Outcome{}).Failed())
	assert.False(t, (&Outcome{Result: &unwrap.Result{}}).Failed())
	assert.Equal(t, "<unit>", Job{}.name())
	assert.Equal(t, "p.yaml", Job{Path: "p.yaml", Unit: good("A.java")}.name())
}
