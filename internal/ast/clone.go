package ast

// Clone returns a deep copy of the tree rooted at node.
func Clone(node Node) Node {
	if node == nil || isNilNode(node) {
		return nil
	}

	switch n := node.(type) {
	case *CompilationUnit:
		cp := *n
		cp.Methods = make([]*MethodDeclaration, len(n.Methods))
		for i, m := range n.Methods {
			cp.Methods[i] = Clone(m).(*MethodDeclaration)
		}
		return &cp
	case *MethodDeclaration:
		cp := *n
		cp.Params = cloneParams(n.Params)
		cp.Body = cloneBlock(n.Body)
		return &cp
	case *Parameter:
		cp := *n
		return &cp
	case *BlockStatement:
		cp := *n
		cp.Statements = cloneStmts(n.Statements)
		return &cp
	case *ExpressionStatement:
		cp := *n
		cp.Expression = CloneExpr(n.Expression)
		return &cp
	case *VariableDeclaration:
		cp := *n
		cp.Value = CloneExpr(n.Value)
		return &cp
	case *ReturnStatement:
		cp := *n
		cp.Value = CloneExpr(n.Value)
		return &cp
	case *ThrowStatement:
		cp := *n
		cp.Value = CloneExpr(n.Value)
		return &cp
	case *YieldStatement:
		cp := *n
		cp.Value = CloneExpr(n.Value)
		return &cp
	case *IfStatement:
		cp := *n
		cp.Cond = CloneExpr(n.Cond)
		cp.Then = cloneStmt(n.Then)
		cp.Else = cloneStmt(n.Else)
		return &cp
	case *ForStatement:
		cp := *n
		cp.Init = cloneStmts(n.Init)
		cp.Cond = CloneExpr(n.Cond)
		cp.Update = cloneExprs(n.Update)
		cp.Body = cloneStmt(n.Body)
		return &cp
	case *EnhancedForStatement:
		cp := *n
		cp.Iterable = CloneExpr(n.Iterable)
		cp.Body = cloneStmt(n.Body)
		return &cp
	case *WhileStatement:
		cp := *n
		cp.Cond = CloneExpr(n.Cond)
		cp.Body = cloneStmt(n.Body)
		return &cp
	case *DoWhileStatement:
		cp := *n
		cp.Body = cloneStmt(n.Body)
		cp.Cond = CloneExpr(n.Cond)
		return &cp
	case *SwitchStatement:
		cp := *n
		cp.Selector = CloneExpr(n.Selector)
		cp.Cases = cloneCases(n.Cases)
		return &cp
	case *Case:
		cp := *n
		cp.Labels = cloneExprs(n.Labels)
		cp.Body = cloneStmts(n.Body)
		return &cp
	case *TryStatement:
		cp := *n
		cp.Resources = cloneStmts(n.Resources)
		cp.Body = cloneBlock(n.Body)
		cp.Catches = make([]*CatchClause, len(n.Catches))
		for i, c := range n.Catches {
			cp.Catches[i] = Clone(c).(*CatchClause)
		}
		cp.Finally = cloneBlock(n.Finally)
		return &cp
	case *CatchClause:
		cp := *n
		if n.Param != nil {
			cp.Param = Clone(n.Param).(*Parameter)
		}
		cp.Body = cloneBlock(n.Body)
		return &cp
	case *SynchronizedStatement:
		cp := *n
		cp.Monitor = CloneExpr(n.Monitor)
		cp.Body = cloneBlock(n.Body)
		return &cp
	case *LabeledStatement:
		cp := *n
		cp.Body = cloneStmt(n.Body)
		return &cp
	case *BreakStatement:
		cp := *n
		return &cp
	case *ContinueStatement:
		cp := *n
		return &cp
	case *AssertStatement:
		cp := *n
		cp.Cond = CloneExpr(n.Cond)
		cp.Message = CloneExpr(n.Message)
		return &cp
	case *Identifier:
		cp := *n
		return &cp
	case *Literal:
		cp := *n
		return &cp
	case *MethodCall:
		cp := *n
		cp.Receiver = CloneExpr(n.Receiver)
		cp.Args = cloneExprs(n.Args)
		return &cp
	case *FieldAccess:
		cp := *n
		cp.Target = CloneExpr(n.Target)
		return &cp
	case *Assignment:
		cp := *n
		cp.Target = CloneExpr(n.Target)
		cp.Value = CloneExpr(n.Value)
		return &cp
	case *BinaryExpression:
		cp := *n
		cp.Left = CloneExpr(n.Left)
		cp.Right = CloneExpr(n.Right)
		return &cp
	case *UnaryExpression:
		cp := *n
		cp.Operand = CloneExpr(n.Operand)
		return &cp
	case *ConditionalExpression:
		cp := *n
		cp.Cond = CloneExpr(n.Cond)
		cp.Then = CloneExpr(n.Then)
		cp.Else = CloneExpr(n.Else)
		return &cp
	case *ArrayAccess:
		cp := *n
		cp.Array = CloneExpr(n.Array)
		cp.Index = CloneExpr(n.Index)
		return &cp
	case *NewArray:
		cp := *n
		cp.Dims = cloneExprs(n.Dims)
		cp.Elements = cloneExprs(n.Elements)
		return &cp
	case *NewClass:
		cp := *n
		cp.Args = cloneExprs(n.Args)
		return &cp
	case *LambdaExpression:
		cp := *n
		cp.Params = cloneParams(n.Params)
		cp.Body = Clone(n.Body)
		return &cp
	case *SwitchExpression:
		cp := *n
		cp.Selector = CloneExpr(n.Selector)
		cp.Cases = cloneCases(n.Cases)
		return &cp
	case *StringTemplate:
		cp := *n
		cp.Fragments = append([]string(nil), n.Fragments...)
		cp.Values = cloneExprs(n.Values)
		return &cp
	}
	return node
}

// CloneExpr is Clone for expressions; it keeps nil as nil.
func CloneExpr(e Expression) Expression {
	if e == nil {
		return nil
	}
	return Clone(e).(Expression)
}

func cloneStmt(s Statement) Statement {
	if s == nil || isNilNode(s) {
		return nil
	}
	return Clone(s).(Statement)
}

func cloneBlock(b *BlockStatement) *BlockStatement {
	if b == nil {
		return nil
	}
	return Clone(b).(*BlockStatement)
}

func cloneStmts(list []Statement) []Statement {
	if list == nil {
		return nil
	}
	out := make([]Statement, len(list))
	for i, s := range list {
		out[i] = cloneStmt(s)
	}
	return out
}

func cloneExprs(list []Expression) []Expression {
	if list == nil {
		return nil
	}
	out := make([]Expression, len(list))
	for i, e := range list {
		out[i] = CloneExpr(e)
	}
	return out
}

func cloneParams(list []*Parameter) []*Parameter {
	if list == nil {
		return nil
	}
	out := make([]*Parameter, len(list))
	for i, p := range list {
		cp := *p
		out[i] = &cp
	}
	return out
}

func cloneCases(list []*Case) []*Case {
	if list == nil {
		return nil
	}
	out := make([]*Case, len(list))
	for i, c := range list {
		out[i] = Clone(c).(*Case)
	}
	return out
}
