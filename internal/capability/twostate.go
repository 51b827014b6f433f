package capability

import "fmt"

// TwoState is the runtime value of a container: either the alternate
// state or the success state of some Kind.
type TwoState struct {
	Kind      *Kind
	Alternate bool
	Value     interface{}
}

// Success returns a success container of kind holding v.
func Success(kind *Kind, v interface{}) *TwoState {
	return &TwoState{Kind: kind, Value: v}
}

// Alternate returns an alternate container of kind holding v. Kinds whose
// alternate carries no value ignore v.
func Alternate(kind *Kind, v interface{}) *TwoState {
	if kind.AlternateAccessor == "" {
		v = nil
	}
	return &TwoState{Kind: kind, Alternate: true, Value: v}
}

// Equal reports whether both containers have the same kind, state and
// value.
func (t *TwoState) Equal(other *TwoState) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Kind == other.Kind && t.Alternate == other.Alternate && t.Value == other.Value
}

func (t *TwoState) String() string {
	if t.Alternate {
		if t.Kind.AlternateAccessor == "" {
			return fmt.Sprintf("%s.%s()", t.Kind.Name, t.Kind.AlternateFactory)
		}
		return fmt.Sprintf("%s.%s(%v)", t.Kind.Name, t.Kind.AlternateFactory, t.Value)
	}
	return fmt.Sprintf("%s.%s(%v)", t.Kind.Name, t.Kind.SuccessFactory, t.Value)
}
