// Package treeio reads and writes compilation units as YAML tree
// documents, the input format of the unwrapc command.
//
// A document names its format version and holds one unit:
//
//	format: 1.0.0
//	unit:
//	  file: Parse.java
//	  methods:
//	    - name: parse
//	      returns: Either<String, Integer>
//	      params: [{name: s, type: String}]
//	      body:
//	        - kind: return
//	          expr: {kind: call, recv: {kind: ident, name: p, type: "Either<String, Integer>"}, name: unwrap}
//
// Every node is a mapping with a kind and the fields of that kind; line
// and col give its source position. Statement values and operands that
// are not named otherwise go in expr, nested single statements in stmt,
// and statement lists in body.
package treeio

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// FormatVersion is the version written by Encode.
const FormatVersion = "1.0.0"

// SupportedFormats is the constraint a document's format must satisfy.
const SupportedFormats = "^1.0.0"

// Document is the top level of a tree file.
type Document struct {
	Format string  `yaml:"format"`
	Unit   rawUnit `yaml:"unit"`
}

type rawUnit struct {
	File    string      `yaml:"file"`
	Package string      `yaml:"package,omitempty"`
	Methods []rawMethod `yaml:"methods"`
}

type rawMethod struct {
	Name    string     `yaml:"name"`
	Returns string     `yaml:"returns,omitempty"`
	Line    int        `yaml:"line,omitempty"`
	Col     int        `yaml:"col,omitempty"`
	Params  []rawParam `yaml:"params,omitempty"`
	Body    []*rawNode `yaml:"body"`
}

type rawParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"`
}

type rawCase struct {
	Line   int        `yaml:"line,omitempty"`
	Col    int        `yaml:"col,omitempty"`
	Labels []*rawNode `yaml:"labels,omitempty"`
	Arrow  bool       `yaml:"arrow,omitempty"`
	Body   []*rawNode `yaml:"body,omitempty"`
}

type rawCatch struct {
	Line  int        `yaml:"line,omitempty"`
	Col   int        `yaml:"col,omitempty"`
	Param *rawParam  `yaml:"param,omitempty"`
	Body  []*rawNode `yaml:"body"`
}

// rawNode is the union of all node kinds. Which fields are meaningful
// depends on Kind.
type rawNode struct {
	Kind string `yaml:"kind"`
	Line int    `yaml:"line,omitempty"`
	Col  int    `yaml:"col,omitempty"`

	Name      string      `yaml:"name,omitempty"`
	Type      string      `yaml:"type,omitempty"`
	Op        string      `yaml:"op,omitempty"`
	Label     string      `yaml:"label,omitempty"`
	Class     string      `yaml:"class,omitempty"`
	Processor string      `yaml:"processor,omitempty"`
	Value     interface{} `yaml:"value,omitempty"`
	Raw       string      `yaml:"raw,omitempty"`
	Postfix   bool        `yaml:"postfix,omitempty"`
	Implicit  bool        `yaml:"implicit,omitempty"`
	HasInit   bool        `yaml:"init_list,omitempty"`

	Recv     *rawNode `yaml:"recv,omitempty"`
	Target   *rawNode `yaml:"target,omitempty"`
	Left     *rawNode `yaml:"left,omitempty"`
	Right    *rawNode `yaml:"right,omitempty"`
	Operand  *rawNode `yaml:"operand,omitempty"`
	Cond     *rawNode `yaml:"cond,omitempty"`
	Then     *rawNode `yaml:"then,omitempty"`
	Else     *rawNode `yaml:"else,omitempty"`
	Array    *rawNode `yaml:"array,omitempty"`
	Index    *rawNode `yaml:"index,omitempty"`
	Selector *rawNode `yaml:"selector,omitempty"`
	Message  *rawNode `yaml:"message,omitempty"`
	Expr     *rawNode `yaml:"expr,omitempty"`
	Stmt     *rawNode `yaml:"stmt,omitempty"`

	Args      []*rawNode `yaml:"args,omitempty"`
	Dims      []*rawNode `yaml:"dims,omitempty"`
	Elements  []*rawNode `yaml:"elements,omitempty"`
	Values    []*rawNode `yaml:"values,omitempty"`
	Fragments []string   `yaml:"fragments,omitempty"`
	Update    []*rawNode `yaml:"update,omitempty"`
	Init      []*rawNode `yaml:"init,omitempty"`
	Resources []*rawNode `yaml:"resources,omitempty"`
	Body      []*rawNode `yaml:"body,omitempty"`
	Params    []rawParam `yaml:"params,omitempty"`
	Cases     []rawCase  `yaml:"cases,omitempty"`
	Catches   []rawCatch `yaml:"catches,omitempty"`
	Finally   *rawNode   `yaml:"finally,omitempty"`
}

// CheckFormat reports whether a document format version can be read.
func CheckFormat(format string) error {
	if format == "" {
		return fmt.Errorf("missing format version")
	}
	v, err := semver.NewVersion(format)
	if err != nil {
		return fmt.Errorf("invalid format version %q: %w", format, err)
	}
	c, err := semver.NewConstraint(SupportedFormats)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("unsupported format version %s (want %s)", v, SupportedFormats)
	}
	return nil
}
