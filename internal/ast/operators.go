package ast

// Operator is a binary, unary or assignment operator token.
type Operator string

// Binary operators
const (
	OpAdd    Operator = "+"
	OpSub    Operator = "-"
	OpMul    Operator = "*"
	OpDiv    Operator = "/"
	OpMod    Operator = "%"
	OpEq     Operator = "=="
	OpNe     Operator = "!="
	OpLt     Operator = "<"
	OpLe     Operator = "<="
	OpGt     Operator = ">"
	OpGe     Operator = ">="
	OpAnd    Operator = "&&"
	OpOr     Operator = "||"
	OpBitAnd Operator = "&"
	OpBitOr  Operator = "|"
	OpBitXor Operator = "^"
	OpShl    Operator = "<<"
	OpShr    Operator = ">>"
)

// Unary operators. Negation reuses OpSub.
const (
	OpNot    Operator = "!"
	OpBitNot Operator = "~"
	OpInc    Operator = "++"
	OpDec    Operator = "--"
)

// Assignment operators
const (
	OpAssign    Operator = "="
	OpAddAssign Operator = "+="
	OpSubAssign Operator = "-="
	OpMulAssign Operator = "*="
	OpDivAssign Operator = "/="
	OpModAssign Operator = "%="
)

func (o Operator) String() string { return string(o) }

// IsShortCircuit reports whether the right operand is evaluated conditionally.
func (o Operator) IsShortCircuit() bool {
	return o == OpAnd || o == OpOr
}

// IsCompound reports whether an assignment operator reads its target first.
func (o Operator) IsCompound() bool {
	switch o {
	case OpAddAssign, OpSubAssign, OpMulAssign, OpDivAssign, OpModAssign:
		return true
	}
	return false
}

// Binary returns the binary operator a compound assignment applies.
func (o Operator) Binary() Operator {
	if !o.IsCompound() {
		return ""
	}
	return o[:1]
}
