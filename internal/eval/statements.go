package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/capability"
)

var normal = completion{}

func (in *Interpreter) execBlock(b *ast.BlockStatement, env *Environment) (completion, error) {
	scope := NewEnclosedEnvironment(env)
	return in.execList(b.Statements, scope)
}

func (in *Interpreter) execList(stmts []ast.Statement, env *Environment) (completion, error) {
	for _, s := range stmts {
		c, err := in.exec(s, env)
		if err != nil || c.flow != flowNormal {
			return c, err
		}
	}
	return normal, nil
}

func (in *Interpreter) exec(stmt ast.Statement, env *Environment) (completion, error) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return in.execBlock(s, env)

	case *ast.ExpressionStatement:
		_, err := in.eval(s.Expression, env)
		return normal, err

	case *ast.VariableDeclaration:
		var v Value
		if s.Value != nil {
			var err error
			if v, err = in.eval(s.Value, env); err != nil {
				return normal, err
			}
		}
		env.Define(s.Name, v)
		return normal, nil

	case *ast.ReturnStatement:
		if s.Value == nil {
			return completion{flow: flowReturn}, nil
		}
		v, err := in.eval(s.Value, env)
		return completion{flow: flowReturn, value: v}, err

	case *ast.YieldStatement:
		v, err := in.eval(s.Value, env)
		return completion{flow: flowYield, value: v}, err

	case *ast.ThrowStatement:
		v, err := in.eval(s.Value, env)
		var exit *earlyExit
		if errors.As(err, &exit) {
			return normal, &Thrown{Value: exit.container}
		}
		if err != nil {
			return normal, err
		}
		if v == nil {
			return normal, Throw("NullPointerException", "throw null")
		}
		return normal, &Thrown{Value: v}

	case *ast.IfStatement:
		ok, err := in.cond(s.Cond, env)
		if err != nil {
			return normal, err
		}
		if ok {
			return in.exec(s.Then, env)
		}
		if s.Else != nil {
			return in.exec(s.Else, env)
		}
		return normal, nil

	case *ast.ForStatement, *ast.EnhancedForStatement, *ast.WhileStatement, *ast.DoWhileStatement:
		return in.loop(s, env, "")

	case *ast.LabeledStatement:
		switch s.Body.(type) {
		case *ast.ForStatement, *ast.EnhancedForStatement, *ast.WhileStatement, *ast.DoWhileStatement:
			return in.loop(s.Body, env, s.Label)
		}
		c, err := in.exec(s.Body, env)
		if err == nil && c.flow == flowBreak && c.label == s.Label {
			return normal, nil
		}
		return c, err

	case *ast.BreakStatement:
		return completion{flow: flowBreak, label: s.Label}, nil

	case *ast.ContinueStatement:
		return completion{flow: flowContinue, label: s.Label}, nil

	case *ast.SwitchStatement:
		return in.switchStatement(s, env)

	case *ast.TryStatement:
		return in.try(s, env)

	case *ast.SynchronizedStatement:
		m, err := in.eval(s.Monitor, env)
		if err != nil {
			return normal, err
		}
		if m == nil {
			return normal, Throw("NullPointerException", "synchronized on null")
		}
		return in.execBlock(s.Body, env)

	case *ast.AssertStatement:
		if !in.opts.AssertionsEnabled {
			return normal, nil
		}
		ok, err := in.cond(s.Cond, env)
		if err != nil || ok {
			return normal, err
		}
		msg := ""
		if s.Message != nil {
			v, err := in.eval(s.Message, env)
			if err != nil {
				return normal, err
			}
			msg = Format(v)
		}
		return normal, Throw("AssertionError", msg)
	}
	return normal, fmt.Errorf("%s: cannot execute %T", stmt.GetSpan(), stmt)
}

func (in *Interpreter) cond(e ast.Expression, env *Environment) (bool, error) {
	v, err := in.eval(e, env)
	if err != nil {
		return false, err
	}
	return truthy(v)
}

// loopStep decides what a loop does after its body completed with c:
// whether to stop and with which completion.
func loopStep(c completion, label string) (bool, completion) {
	switch c.flow {
	case flowBreak:
		if c.label == "" || c.label == label {
			return true, normal
		}
		return true, c
	case flowContinue:
		if c.label == "" || c.label == label {
			return false, normal
		}
		return true, c
	case flowNormal:
		return false, normal
	}
	return true, c
}

func (in *Interpreter) loop(stmt ast.Statement, env *Environment, label string) (completion, error) {
	switch s := stmt.(type) {
	case *ast.ForStatement:
		scope := NewEnclosedEnvironment(env)
		if c, err := in.execList(s.Init, scope); err != nil || c.flow != flowNormal {
			return c, err
		}
		for {
			if s.Cond != nil {
				ok, err := in.cond(s.Cond, scope)
				if err != nil || !ok {
					return normal, err
				}
			}
			c, err := in.exec(s.Body, scope)
			if err != nil {
				return c, err
			}
			if stop, out := loopStep(c, label); stop {
				return out, nil
			}
			for _, u := range s.Update {
				if _, err := in.eval(u, scope); err != nil {
					return normal, err
				}
			}
		}

	case *ast.EnhancedForStatement:
		it, err := in.eval(s.Iterable, env)
		if err != nil {
			return normal, err
		}
		var elems []Value
		switch x := it.(type) {
		case *Array:
			elems = x.Elems
		case nil:
			return normal, Throw("NullPointerException", "iterate over null")
		default:
			return normal, fmt.Errorf("%s: cannot iterate over %s", s.Span, Format(it))
		}
		for _, e := range elems {
			scope := NewEnclosedEnvironment(env)
			scope.Define(s.VarName, e)
			c, err := in.exec(s.Body, scope)
			if err != nil {
				return c, err
			}
			if stop, out := loopStep(c, label); stop {
				return out, nil
			}
		}
		return normal, nil

	case *ast.WhileStatement:
		for {
			ok, err := in.cond(s.Cond, env)
			if err != nil || !ok {
				return normal, err
			}
			c, err := in.exec(s.Body, env)
			if err != nil {
				return c, err
			}
			if stop, out := loopStep(c, label); stop {
				return out, nil
			}
		}

	case *ast.DoWhileStatement:
		for {
			c, err := in.exec(s.Body, env)
			if err != nil {
				return c, err
			}
			if stop, out := loopStep(c, label); stop {
				return out, nil
			}
			ok, err := in.cond(s.Cond, env)
			if err != nil || !ok {
				return normal, err
			}
		}
	}
	return normal, fmt.Errorf("%s: not a loop: %T", stmt.GetSpan(), stmt)
}

// matchCase returns the index of the case selected by sel, the default
// case when nothing matches, or -1.
func (in *Interpreter) matchCase(cases []*ast.Case, sel Value, env *Environment) (int, error) {
	def := -1
	for i, c := range cases {
		if c.IsDefault() {
			def = i
			continue
		}
		for _, l := range c.Labels {
			v, err := in.eval(l, env)
			if err != nil {
				return -1, err
			}
			if Equal(sel, v) {
				return i, nil
			}
		}
	}
	return def, nil
}

func (in *Interpreter) switchStatement(s *ast.SwitchStatement, env *Environment) (completion, error) {
	sel, err := in.eval(s.Selector, env)
	if err != nil {
		return normal, err
	}
	start, err := in.matchCase(s.Cases, sel, env)
	if err != nil || start < 0 {
		return normal, err
	}
	scope := NewEnclosedEnvironment(env)
	for _, c := range s.Cases[start:] {
		done, err := in.execList(c.Body, scope)
		if err != nil {
			return done, err
		}
		if done.flow == flowBreak && done.label == "" {
			return normal, nil
		}
		if done.flow != flowNormal {
			return done, nil
		}
		if c.Arrow {
			break
		}
	}
	return normal, nil
}

func (in *Interpreter) switchExpression(s *ast.SwitchExpression, env *Environment) (Value, error) {
	sel, err := in.eval(s.Selector, env)
	if err != nil {
		return nil, err
	}
	start, err := in.matchCase(s.Cases, sel, env)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		return nil, Throw("MatchException", Format(sel))
	}
	scope := NewEnclosedEnvironment(env)
	for _, c := range s.Cases[start:] {
		done, err := in.execList(c.Body, scope)
		var exit *earlyExit
		if errors.As(err, &exit) {
			return exit.container, nil
		}
		if err != nil {
			return nil, err
		}
		switch done.flow {
		case flowYield:
			return done.value, nil
		case flowNormal:
			if c.Arrow {
				return nil, fmt.Errorf("%s: case rule completes without a value", c.Span)
			}
		default:
			return nil, fmt.Errorf("%s: control flow escapes a switch expression", c.Span)
		}
	}
	return nil, fmt.Errorf("%s: switch expression completes without a value", s.Span)
}

func (in *Interpreter) try(s *ast.TryStatement, env *Environment) (completion, error) {
	scope := NewEnclosedEnvironment(env)
	c, err := in.execList(s.Resources, scope)
	if err == nil && c.flow == flowNormal {
		c, err = in.execBlock(s.Body, scope)
	}

	var thrown *Thrown
	if errors.As(err, &thrown) {
		for _, cc := range s.Catches {
			if !catches(cc.Param, thrown.Value) {
				continue
			}
			catchEnv := NewEnclosedEnvironment(env)
			if cc.Param != nil {
				catchEnv.Define(cc.Param.Name, thrown.Value)
			}
			c, err = in.execBlock(cc.Body, catchEnv)
			break
		}
	}

	if s.Finally != nil {
		fc, ferr := in.execBlock(s.Finally, env)
		if ferr != nil || fc.flow != flowNormal {
			return fc, ferr
		}
	}
	return c, err
}

// catches reports whether a catch parameter declared with a class name,
// or several joined with "|", takes v.
func catches(param *ast.Parameter, v Value) bool {
	if param == nil || param.Type == "" {
		return true
	}
	class := className(v)
	for _, t := range strings.Split(param.Type, "|") {
		switch t = strings.TrimSpace(t); t {
		case "Throwable", "Exception", "RuntimeException", class:
			return true
		}
	}
	return false
}

func className(v Value) string {
	switch x := v.(type) {
	case *Object:
		return x.Class
	case *capability.TwoState:
		return x.Kind.Name
	case string:
		return "String"
	}
	return ""
}
