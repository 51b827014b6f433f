// Package errors provides the internal-defect errors of the unwrap pass.
// They signal a malformed tree or a broken pass invariant, never a user
// mistake; user mistakes are diagnostics.
package errors

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/orizon-lang/unwrap/internal/position"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryTree   ErrorCategory = "TREE"
	CategoryPass   ErrorCategory = "PASS"
	CategoryConfig ErrorCategory = "CONFIG"
)

// InternalError provides a consistent error format for defects
type InternalError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Span     position.Span
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface
func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error [%s:%s] at %s: %s (caller: %s)", e.Category, e.Code, e.Span, e.Message, e.Caller)
}

// NewInternalError creates a new internal error recording its caller.
func NewInternalError(category ErrorCategory, code, message string, span position.Span, context map[string]interface{}) *InternalError {
	pc, _, _, ok := runtime.Caller(2)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &InternalError{
		Category: category,
		Code:     code,
		Message:  message,
		Span:     span,
		Context:  context,
		Caller:   caller,
	}
}

// IsInternal reports whether err wraps an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

// Common error constructors

// MissingScope reports an anchor with no enclosing method, lambda or
// switch-expression case.
func MissingScope(span position.Span, anchor string) *InternalError {
	return NewInternalError(CategoryTree, "MISSING_SCOPE",
		fmt.Sprintf("%s has no enclosing method, lambda or switch expression", anchor),
		span, map[string]interface{}{"anchor": anchor})
}

// InconsistentTree reports a node that is not where its index says it is.
func InconsistentTree(span position.Span, details string) *InternalError {
	return NewInternalError(CategoryTree, "INCONSISTENT_TREE", details, span,
		map[string]interface{}{"details": details})
}

// UnsupportedNode reports a node kind the pass cannot handle at a
// position it already accepted.
func UnsupportedNode(span position.Span, node interface{}) *InternalError {
	return NewInternalError(CategoryTree, "UNSUPPORTED_NODE",
		fmt.Sprintf("unexpected %T", node), span,
		map[string]interface{}{"node": fmt.Sprintf("%T", node)})
}

// RewriteDiverged reports a rewrite loop that stopped making progress.
func RewriteDiverged(span position.Span, iterations int) *InternalError {
	return NewInternalError(CategoryPass, "REWRITE_DIVERGED",
		fmt.Sprintf("rewrite did not converge after %d steps", iterations), span,
		map[string]interface{}{"iterations": iterations})
}

// Rejected reports a site that passed classification once and was
// rejected after its tree changed.
func Rejected(span position.Span) *InternalError {
	return NewInternalError(CategoryPass, "LATE_REJECTION",
		"site became unsupported during rewrite", span, nil)
}

// InvalidConfig reports a configuration the pass cannot run with.
func InvalidConfig(details string) *InternalError {
	return NewInternalError(CategoryConfig, "INVALID_CONFIG", details, position.Span{},
		map[string]interface{}{"details": details})
}
