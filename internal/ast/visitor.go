package ast

// Visitor dispatches on the concrete node type. Each Visit method returns
// an arbitrary result chosen by the implementation.
type Visitor interface {
	// Declaration visitors.
	VisitCompilationUnit(node *CompilationUnit) interface{}
	VisitMethodDeclaration(node *MethodDeclaration) interface{}
	VisitParameter(node *Parameter) interface{}

	// Statement visitors.
	VisitBlockStatement(node *BlockStatement) interface{}
	VisitExpressionStatement(node *ExpressionStatement) interface{}
	VisitVariableDeclaration(node *VariableDeclaration) interface{}
	VisitReturnStatement(node *ReturnStatement) interface{}
	VisitThrowStatement(node *ThrowStatement) interface{}
	VisitYieldStatement(node *YieldStatement) interface{}
	VisitIfStatement(node *IfStatement) interface{}
	VisitForStatement(node *ForStatement) interface{}
	VisitEnhancedForStatement(node *EnhancedForStatement) interface{}
	VisitWhileStatement(node *WhileStatement) interface{}
	VisitDoWhileStatement(node *DoWhileStatement) interface{}
	VisitSwitchStatement(node *SwitchStatement) interface{}
	VisitCase(node *Case) interface{}
	VisitTryStatement(node *TryStatement) interface{}
	VisitCatchClause(node *CatchClause) interface{}
	VisitSynchronizedStatement(node *SynchronizedStatement) interface{}
	VisitLabeledStatement(node *LabeledStatement) interface{}
	VisitBreakStatement(node *BreakStatement) interface{}
	VisitContinueStatement(node *ContinueStatement) interface{}
	VisitAssertStatement(node *AssertStatement) interface{}

	// Expression visitors.
	VisitIdentifier(node *Identifier) interface{}
	VisitLiteral(node *Literal) interface{}
	VisitMethodCall(node *MethodCall) interface{}
	VisitFieldAccess(node *FieldAccess) interface{}
	VisitAssignment(node *Assignment) interface{}
	VisitBinaryExpression(node *BinaryExpression) interface{}
	VisitUnaryExpression(node *UnaryExpression) interface{}
	VisitConditionalExpression(node *ConditionalExpression) interface{}
	VisitArrayAccess(node *ArrayAccess) interface{}
	VisitNewArray(node *NewArray) interface{}
	VisitNewClass(node *NewClass) interface{}
	VisitLambdaExpression(node *LambdaExpression) interface{}
	VisitSwitchExpression(node *SwitchExpression) interface{}
	VisitStringTemplate(node *StringTemplate) interface{}
}

// BaseVisitor provides a default implementation of the Visitor interface
// that returns nil for all visits. Concrete visitors embed it and override
// the methods they need.
type BaseVisitor struct{}

func (v *BaseVisitor) VisitCompilationUnit(node *CompilationUnit) interface{}     { return nil }
func (v *BaseVisitor) VisitMethodDeclaration(node *MethodDeclaration) interface{} { return nil }
func (v *BaseVisitor) VisitParameter(node *Parameter) interface{}                 { return nil }
func (v *BaseVisitor) VisitBlockStatement(node *BlockStatement) interface{}       { return nil }
func (v *BaseVisitor) VisitExpressionStatement(node *ExpressionStatement) interface{} {
	return nil
}
func (v *BaseVisitor) VisitVariableDeclaration(node *VariableDeclaration) interface{} {
	return nil
}
func (v *BaseVisitor) VisitReturnStatement(node *ReturnStatement) interface{} { return nil }
func (v *BaseVisitor) VisitThrowStatement(node *ThrowStatement) interface{}   { return nil }
func (v *BaseVisitor) VisitYieldStatement(node *YieldStatement) interface{}   { return nil }
func (v *BaseVisitor) VisitIfStatement(node *IfStatement) interface{}         { return nil }
func (v *BaseVisitor) VisitForStatement(node *ForStatement) interface{}       { return nil }
func (v *BaseVisitor) VisitEnhancedForStatement(node *EnhancedForStatement) interface{} {
	return nil
}
func (v *BaseVisitor) VisitWhileStatement(node *WhileStatement) interface{}     { return nil }
func (v *BaseVisitor) VisitDoWhileStatement(node *DoWhileStatement) interface{} { return nil }
func (v *BaseVisitor) VisitSwitchStatement(node *SwitchStatement) interface{}   { return nil }
func (v *BaseVisitor) VisitCase(node *Case) interface{}                         { return nil }
func (v *BaseVisitor) VisitTryStatement(node *TryStatement) interface{}         { return nil }
func (v *BaseVisitor) VisitCatchClause(node *CatchClause) interface{}           { return nil }
func (v *BaseVisitor) VisitSynchronizedStatement(node *SynchronizedStatement) interface{} {
	return nil
}
func (v *BaseVisitor) VisitLabeledStatement(node *LabeledStatement) interface{}   { return nil }
func (v *BaseVisitor) VisitBreakStatement(node *BreakStatement) interface{}       { return nil }
func (v *BaseVisitor) VisitContinueStatement(node *ContinueStatement) interface{} { return nil }
func (v *BaseVisitor) VisitAssertStatement(node *AssertStatement) interface{}     { return nil }
func (v *BaseVisitor) VisitIdentifier(node *Identifier) interface{}               { return nil }
func (v *BaseVisitor) VisitLiteral(node *Literal) interface{}                     { return nil }
func (v *BaseVisitor) VisitMethodCall(node *MethodCall) interface{}               { return nil }
func (v *BaseVisitor) VisitFieldAccess(node *FieldAccess) interface{}             { return nil }
func (v *BaseVisitor) VisitAssignment(node *Assignment) interface{}               { return nil }
func (v *BaseVisitor) VisitBinaryExpression(node *BinaryExpression) interface{}   { return nil }
func (v *BaseVisitor) VisitUnaryExpression(node *UnaryExpression) interface{}     { return nil }
func (v *BaseVisitor) VisitConditionalExpression(node *ConditionalExpression) interface{} {
	return nil
}
func (v *BaseVisitor) VisitArrayAccess(node *ArrayAccess) interface{}           { return nil }
func (v *BaseVisitor) VisitNewArray(node *NewArray) interface{}                 { return nil }
func (v *BaseVisitor) VisitNewClass(node *NewClass) interface{}                 { return nil }
func (v *BaseVisitor) VisitLambdaExpression(node *LambdaExpression) interface{} { return nil }
func (v *BaseVisitor) VisitSwitchExpression(node *SwitchExpression) interface{} { return nil }
func (v *BaseVisitor) VisitStringTemplate(node *StringTemplate) interface{}     { return nil }

// Children returns the direct children of node in evaluation order.
// Nil children are omitted.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil && !isNilNode(n) {
			out = append(out, n)
		}
	}
	addExprs := func(list []Expression) {
		for _, e := range list {
			add(e)
		}
	}
	addStmts := func(list []Statement) {
		for _, s := range list {
			add(s)
		}
	}

	switch n := node.(type) {
	case *CompilationUnit:
		for _, m := range n.Methods {
			add(m)
		}
	case *MethodDeclaration:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *BlockStatement:
		addStmts(n.Statements)
	case *ExpressionStatement:
		add(n.Expression)
	case *VariableDeclaration:
		add(n.Value)
	case *ReturnStatement:
		add(n.Value)
	case *ThrowStatement:
		add(n.Value)
	case *YieldStatement:
		add(n.Value)
	case *IfStatement:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *ForStatement:
		addStmts(n.Init)
		add(n.Cond)
		add(n.Body)
		addExprs(n.Update)
	case *EnhancedForStatement:
		add(n.Iterable)
		add(n.Body)
	case *WhileStatement:
		add(n.Cond)
		add(n.Body)
	case *DoWhileStatement:
		add(n.Body)
		add(n.Cond)
	case *SwitchStatement:
		add(n.Selector)
		for _, c := range n.Cases {
			add(c)
		}
	case *Case:
		addExprs(n.Labels)
		addStmts(n.Body)
	case *TryStatement:
		addStmts(n.Resources)
		add(n.Body)
		for _, c := range n.Catches {
			add(c)
		}
		add(n.Finally)
	case *CatchClause:
		add(n.Param)
		add(n.Body)
	case *SynchronizedStatement:
		add(n.Monitor)
		add(n.Body)
	case *LabeledStatement:
		add(n.Body)
	case *AssertStatement:
		add(n.Cond)
		add(n.Message)
	case *MethodCall:
		add(n.Receiver)
		addExprs(n.Args)
	case *FieldAccess:
		add(n.Target)
	case *Assignment:
		add(n.Target)
		add(n.Value)
	case *BinaryExpression:
		add(n.Left)
		add(n.Right)
	case *UnaryExpression:
		add(n.Operand)
	case *ConditionalExpression:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *ArrayAccess:
		add(n.Array)
		add(n.Index)
	case *NewArray:
		addExprs(n.Dims)
		addExprs(n.Elements)
	case *NewClass:
		addExprs(n.Args)
	case *LambdaExpression:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *SwitchExpression:
		add(n.Selector)
		for _, c := range n.Cases {
			add(c)
		}
	case *StringTemplate:
		addExprs(n.Values)
	}
	return out
}

// Inspect traverses the tree rooted at node in depth-first order, calling
// f for each node before its children. Children are skipped when f
// returns false.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || isNilNode(node) {
		return
	}
	if !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// Walk visits every node of the tree rooted at node with visitor, parents
// before children.
func Walk(visitor Visitor, node Node) {
	Inspect(node, func(n Node) bool {
		n.Accept(visitor)
		return true
	})
}

// isNilNode catches typed nil pointers stored in interface fields, such as
// a nil *BlockStatement assigned to a Statement.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *BlockStatement:
		return v == nil
	case *Parameter:
		return v == nil
	case *MethodDeclaration:
		return v == nil
	case *CatchClause:
		return v == nil
	case *Case:
		return v == nil
	}
	return false
}
