package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
)

// Function is a host function callable without a receiver. Returning a
// *Thrown throws into the interpreted program.
type Function func(args []Value) (Value, error)

// Options configures an Interpreter.
type Options struct {
	// Registry lists the container kinds; static calls on a kind name
	// build containers. Defaults to the built-in kinds.
	Registry *capability.Registry
	// Functions are host functions, called by unqualified name or by
	// "Class.name" for static calls.
	Functions map[string]Function
	// NativeUnwrap evaluates pseudo-calls directly: an alternate container
	// leaves the innermost method, lambda or switch-expression case, or is
	// thrown when the pseudo-call sits in a throw statement.
	NativeUnwrap bool
	// Sentinel is the pseudo-call name, "unwrap" by default.
	Sentinel string
	// AssertionsEnabled runs assert statements.
	AssertionsEnabled bool
	// MaxDepth bounds the call depth. Defaults to 256.
	MaxDepth int
}

// Interpreter runs methods of one compilation unit.
type Interpreter struct {
	unit     *ast.CompilationUnit
	opts     Options
	registry *capability.Registry
	calls    []string
	depth    int
}

// New returns an interpreter for unit.
func New(unit *ast.CompilationUnit, opts Options) *Interpreter {
	in := &Interpreter{unit: unit, opts: opts, registry: opts.Registry}
	if in.registry == nil {
		in.registry = capability.DefaultRegistry()
	}
	if in.opts.Sentinel == "" {
		in.opts.Sentinel = "unwrap"
	}
	if in.opts.MaxDepth <= 0 {
		in.opts.MaxDepth = 256
	}
	return in
}

// Calls returns the host calls made so far, formatted as `name(args)`.
func (in *Interpreter) Calls() []string {
	return append([]string(nil), in.calls...)
}

// Call invokes the named method of the unit. A value thrown out of the
// method is returned as a *Thrown error.
func (in *Interpreter) Call(name string, args ...Value) (Value, error) {
	m := in.unit.Method(name)
	if m == nil {
		return nil, fmt.Errorf("no method %s in %s", name, in.unit.Filename)
	}
	return in.invoke(m, args)
}

// Outcome is everything observable about one call.
type Outcome struct {
	Value  Value
	Thrown Value
	Calls  []string
}

// Equal reports whether two outcomes return or throw equal values after
// the same host calls.
func (o *Outcome) Equal(other *Outcome) bool {
	if !Equal(o.Value, other.Value) || !Equal(o.Thrown, other.Thrown) {
		return false
	}
	if len(o.Calls) != len(other.Calls) {
		return false
	}
	for i := range o.Calls {
		if o.Calls[i] != other.Calls[i] {
			return false
		}
	}
	return true
}

func (o *Outcome) String() string {
	if o.Thrown != nil {
		return fmt.Sprintf("throws %s after [%s]", Format(o.Thrown), strings.Join(o.Calls, " "))
	}
	return fmt.Sprintf("returns %s after [%s]", Format(o.Value), strings.Join(o.Calls, " "))
}

// Run calls method on a fresh interpreter and captures the outcome. Only
// interpreter failures are returned as errors.
func Run(unit *ast.CompilationUnit, opts Options, method string, args ...Value) (*Outcome, error) {
	in := New(unit, opts)
	v, err := in.Call(method, args...)
	out := &Outcome{Calls: in.Calls()}
	var thrown *Thrown
	switch {
	case err == nil:
		out.Value = v
	case errors.As(err, &thrown):
		out.Thrown = thrown.Value
	default:
		return nil, err
	}
	return out, nil
}

type flow int

const (
	flowNormal flow = iota
	flowReturn
	flowYield
	flowBreak
	flowContinue
)

// completion is how a statement finished.
type completion struct {
	flow  flow
	value Value
	label string
}

// earlyExit carries an alternate container out of a pseudo-call to the
// scope it leaves.
type earlyExit struct {
	container *capability.TwoState
}

func (e *earlyExit) Error() string {
	return "unwrap exit with " + e.container.String()
}

func (in *Interpreter) enter() error {
	in.depth++
	if in.depth > in.opts.MaxDepth {
		return Throw("StackOverflowError", "call depth exceeded")
	}
	return nil
}

func (in *Interpreter) invoke(m *ast.MethodDeclaration, args []Value) (Value, error) {
	if len(args) != len(m.Params) {
		return nil, fmt.Errorf("%s: %s takes %d arguments, got %d", m.Span, m.Name, len(m.Params), len(args))
	}
	defer func() { in.depth-- }()
	if err := in.enter(); err != nil {
		return nil, err
	}
	env := NewEnvironment()
	for i, p := range m.Params {
		env.Define(p.Name, args[i])
	}
	c, err := in.execBlock(m.Body, env)
	return in.leave(c, err, m.Name)
}

func (in *Interpreter) apply(cl *Closure, args []Value) (Value, error) {
	if len(args) != len(cl.Params) {
		return nil, fmt.Errorf("lambda takes %d arguments, got %d", len(cl.Params), len(args))
	}
	defer func() { in.depth-- }()
	if err := in.enter(); err != nil {
		return nil, err
	}
	env := NewEnclosedEnvironment(cl.env)
	for i, p := range cl.Params {
		env.Define(p.Name, args[i])
	}
	switch body := cl.Body.(type) {
	case ast.Expression:
		v, err := in.eval(body, env)
		var exit *earlyExit
		if errors.As(err, &exit) {
			return exit.container, nil
		}
		return v, err
	case *ast.BlockStatement:
		c, err := in.execBlock(body, env)
		return in.leave(c, err, "lambda")
	}
	return nil, fmt.Errorf("lambda body %T", cl.Body)
}

// leave turns the completion of a method or lambda body into its result.
func (in *Interpreter) leave(c completion, err error, name string) (Value, error) {
	var exit *earlyExit
	if errors.As(err, &exit) {
		return exit.container, nil
	}
	if err != nil {
		return nil, err
	}
	switch c.flow {
	case flowNormal, flowReturn:
		return c.value, nil
	}
	return nil, fmt.Errorf("%s: control flow escapes the body", name)
}

// hostCall runs a host function and records it.
func (in *Interpreter) hostCall(name string, fn Function, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Format(a)
	}
	in.calls = append(in.calls, fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", ")))
	return fn(args)
}
