// Package ast defines the syntax tree consumed and produced by the unwrap
// pass. The tree models a statement-oriented, Java-like language: methods
// with block bodies, expressions with Java evaluation order, lambdas,
// switch statements and expressions, try/catch/finally and labels.
//
// Nodes own their children. Parent lookup goes through a ParentIndex built
// from the tree, so rewrites replace nodes without leaving stale
// back-references behind.
package ast

import (
	"github.com/orizon-lang/unwrap/internal/position"
)

// Node is the base interface for all syntax tree nodes
type Node interface {
	// GetSpan returns the source span covered by this node
	GetSpan() position.Span
	// String returns the node rendered as source text
	String() string
	// Accept implements the visitor pattern for tree traversal
	Accept(visitor Visitor) interface{}
}

// Statement represents all statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents all expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Typed is implemented by expressions that carry a static type attributed
// by the upstream type checker. An empty string means the type is unknown.
type Typed interface {
	StaticType() string
}

// CompilationUnit is the root of a tree: one source file.
type CompilationUnit struct {
	Span     position.Span
	Filename string
	Package  string
	Methods  []*MethodDeclaration
}

func (u *CompilationUnit) GetSpan() position.Span             { return u.Span }
func (u *CompilationUnit) String() string                     { return Print(u) }
func (u *CompilationUnit) Accept(visitor Visitor) interface{} { return visitor.VisitCompilationUnit(u) }

// Method returns the method declared with name, or nil.
func (u *CompilationUnit) Method(name string) *MethodDeclaration {
	for _, m := range u.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MethodDeclaration represents a method with a block body
type MethodDeclaration struct {
	Span       position.Span
	Name       string
	Params     []*Parameter
	ReturnType string
	Body       *BlockStatement
}

func (m *MethodDeclaration) GetSpan() position.Span { return m.Span }
func (m *MethodDeclaration) String() string         { return Print(m) }
func (m *MethodDeclaration) Accept(visitor Visitor) interface{} {
	return visitor.VisitMethodDeclaration(m)
}

// Parameter represents a method, lambda or catch parameter
type Parameter struct {
	Span position.Span
	Name string
	Type string // empty for inferred lambda parameters
}

func (p *Parameter) GetSpan() position.Span { return p.Span }
func (p *Parameter) String() string {
	if p.Type == "" {
		return p.Name
	}
	return p.Type + " " + p.Name
}
func (p *Parameter) Accept(visitor Visitor) interface{} { return visitor.VisitParameter(p) }
