// Package capability describes the two-state container contract the unwrap
// pass targets. Every container kind (Either, Option, Try, Result, or a
// user-registered one) is described by one Kind value; the pass builds
// guards, extractions and reconstructions through it and never branches on
// concrete container identity.
package capability

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/unwrap/internal/ast"
	"github.com/orizon-lang/unwrap/internal/position"
)

// Kind describes one two-state container type by the names of its
// members.
type Kind struct {
	// Name is the container class; static factories are called on it.
	Name string
	// Types lists the static type names that resolve to this kind, in
	// addition to Name. Generic arguments and package qualifiers are
	// ignored when matching.
	Types []string
	// AlternatePredicate is true on the alternate state (isLeft, isEmpty).
	AlternatePredicate string
	// SuccessAccessor extracts the success value (get).
	SuccessAccessor string
	// AlternateAccessor extracts the alternate value (getLeft). Empty when
	// the alternate state carries no value.
	AlternateAccessor string
	// AlternateFactory builds an alternate container (left, none).
	AlternateFactory string
	// SuccessFactory builds a success container (right, some).
	SuccessFactory string
}

// Validate reports a missing member name.
func (k *Kind) Validate() error {
	switch {
	case k.Name == "":
		return fmt.Errorf("container kind without name")
	case k.AlternatePredicate == "":
		return fmt.Errorf("container kind %s: missing alternate predicate", k.Name)
	case k.SuccessAccessor == "":
		return fmt.Errorf("container kind %s: missing success accessor", k.Name)
	case k.AlternateFactory == "":
		return fmt.Errorf("container kind %s: missing alternate factory", k.Name)
	case k.SuccessFactory == "":
		return fmt.Errorf("container kind %s: missing success factory", k.Name)
	}
	return nil
}

// Guard returns the discriminant test `tmp.isLeft()`.
func (k *Kind) Guard(tmp ast.Expression, span position.Span) ast.Expression {
	return &ast.MethodCall{Span: span, Receiver: tmp, Name: k.AlternatePredicate, Type: "boolean"}
}

// Extract returns the success extraction `tmp.get()`.
func (k *Kind) Extract(tmp ast.Expression, span position.Span, typ string) ast.Expression {
	return &ast.MethodCall{Span: span, Receiver: tmp, Name: k.SuccessAccessor, Type: typ}
}

// Reconstruct returns a container of the same kind holding the alternate
// value of tmp, such as `Either.left(tmp.getLeft())` or `Option.none()`.
func (k *Kind) Reconstruct(tmp ast.Expression, span position.Span) ast.Expression {
	call := &ast.MethodCall{
		Span:     span,
		Receiver: &ast.Identifier{Span: span, Name: k.Name},
		Name:     k.AlternateFactory,
		Type:     k.Name,
	}
	if k.AlternateAccessor != "" {
		call.Args = []ast.Expression{
			&ast.MethodCall{Span: span, Receiver: tmp, Name: k.AlternateAccessor},
		}
	}
	return call
}

// Matches reports whether the static type name denotes this kind.
func (k *Kind) Matches(typeName string) bool {
	base := BaseType(typeName)
	if base == "" {
		return false
	}
	if base == k.Name {
		return true
	}
	for _, t := range k.Types {
		if t == base {
			return true
		}
	}
	return false
}

// BaseType strips generic arguments, array suffixes and package qualifiers:
// "io.vavr.control.Either<String, Integer>" becomes "Either".
func BaseType(typeName string) string {
	t := strings.TrimSpace(typeName)
	if i := strings.IndexByte(t, '<'); i >= 0 {
		t = t[:i]
	}
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		t = t[i+1:]
	}
	return strings.TrimSpace(t)
}

// Built-in container kinds.
var (
	Either = &Kind{
		Name:               "Either",
		Types:              []string{"Left", "Right"},
		AlternatePredicate: "isLeft",
		SuccessAccessor:    "get",
		AlternateAccessor:  "getLeft",
		AlternateFactory:   "left",
		SuccessFactory:     "right",
	}
	Option = &Kind{
		Name:               "Option",
		Types:              []string{"Some", "None"},
		AlternatePredicate: "isEmpty",
		SuccessAccessor:    "get",
		AlternateFactory:   "none",
		SuccessFactory:     "some",
	}
	Try = &Kind{
		Name:               "Try",
		Types:              []string{"Success", "Failure"},
		AlternatePredicate: "isFailure",
		SuccessAccessor:    "get",
		AlternateAccessor:  "getCause",
		AlternateFactory:   "failure",
		SuccessFactory:     "success",
	}
	Result = &Kind{
		Name:               "Result",
		Types:              []string{"Ok", "Err"},
		AlternatePredicate: "isError",
		SuccessAccessor:    "get",
		AlternateAccessor:  "getError",
		AlternateFactory:   "error",
		SuccessFactory:     "ok",
	}
)
