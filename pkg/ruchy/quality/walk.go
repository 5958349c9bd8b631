package quality

import "github.com/ruchy-lang/ruchy/pkg/ruchy/ast"

// Walk visits node and every child in source order. The callback
// receives the current nesting depth.
func Walk(node ast.Node, visit func(ast.Node, int)) {
	walk(node, 0, visit)
}

// walk visits node and every child in source order. The callback
// receives the current nesting depth, which increases inside block
// bodies of control-flow constructs.
func walk(node ast.Node, depth int, visit func(ast.Node, int)) {
	if node == nil {
		return
	}
	visit(node, depth)
	for _, child := range children(node) {
		walk(child, childDepth(node, depth), visit)
	}
}

func childDepth(node ast.Node, depth int) int {
	switch node.(type) {
	case *ast.IfExpression, *ast.MatchExpression, *ast.ForExpression,
		*ast.WhileExpression, *ast.LoopExpression, *ast.TryCatchExpression:
		return depth + 1
	}
	return depth
}

func children(node ast.Node) []ast.Node {
	switch node := node.(type) {
	case *ast.Program:
		return statementNodes(node.Statements)
	case *ast.LetStatement:
		return exprNodes(node.Value, node.Body)
	case *ast.ReturnStatement:
		return exprNodes(node.ReturnValue)
	case *ast.BreakStatement:
		return exprNodes(node.Value)
	case *ast.ExpressionStatement:
		return exprNodes(node.Expression)
	case *ast.BlockStatement:
		return statementNodes(node.Statements)
	case *ast.PrefixExpression:
		return exprNodes(node.Right)
	case *ast.InfixExpression:
		return exprNodes(node.Left, node.Right)
	case *ast.AssignExpression:
		return exprNodes(node.Target, node.Value)
	case *ast.CompoundAssignExpression:
		return exprNodes(node.Target, node.Value)
	case *ast.IncDecExpression:
		return exprNodes(node.Target)
	case *ast.FunctionLiteral:
		nodes := paramDefaults(node.Params)
		return append(nodes, node.Body)
	case *ast.LambdaLiteral:
		nodes := paramDefaults(node.Params)
		return append(nodes, node.Body)
	case *ast.CallExpression:
		return exprNodes(append([]ast.Expression{node.Function}, node.Arguments...)...)
	case *ast.MethodCallExpression:
		return exprNodes(append([]ast.Expression{node.Receiver}, node.Arguments...)...)
	case *ast.FieldAccessExpression:
		return exprNodes(node.Object)
	case *ast.IndexExpression:
		return exprNodes(node.Left, node.Index)
	case *ast.IfExpression:
		return []ast.Node{node.Condition, node.Consequence, node.Alternative}
	case *ast.TernaryExpression:
		return exprNodes(node.Condition, node.Then, node.Else)
	case *ast.MatchExpression:
		nodes := exprNodes(node.Expr)
		for _, arm := range node.Arms {
			nodes = append(nodes, exprNodes(arm.Guard, arm.Body)...)
		}
		return nodes
	case *ast.ForExpression:
		return []ast.Node{node.Iter, node.Body}
	case *ast.WhileExpression:
		return []ast.Node{node.Condition, node.Body}
	case *ast.LoopExpression:
		return []ast.Node{node.Body}
	case *ast.ThrowExpression:
		return exprNodes(node.Value)
	case *ast.TryCatchExpression:
		nodes := []ast.Node{node.Try}
		for _, clause := range node.Catches {
			nodes = append(nodes, clause.Body)
		}
		if node.Finally != nil {
			nodes = append(nodes, node.Finally)
		}
		return nodes
	case *ast.ArrayLiteral:
		return exprNodes(node.Elements...)
	case *ast.ArrayInitExpression:
		return exprNodes(node.Value, node.Size)
	case *ast.TupleLiteral:
		return exprNodes(node.Elements...)
	case *ast.RangeExpression:
		return exprNodes(node.Start, node.End)
	case *ast.StructLiteral:
		var nodes []ast.Node
		for _, field := range node.Fields {
			nodes = append(nodes, field.Value)
		}
		return append(nodes, exprNodes(node.Base)...)
	case *ast.ObjectLiteral:
		var nodes []ast.Node
		for _, pair := range node.Pairs {
			nodes = append(nodes, pair.Value)
		}
		return nodes
	case *ast.DataFrameLiteral:
		var nodes []ast.Node
		for _, col := range node.Columns {
			nodes = append(nodes, exprNodes(col.Values...)...)
		}
		return nodes
	case *ast.FStringLiteral:
		var nodes []ast.Node
		for _, part := range node.Parts {
			if part.IsExpr {
				nodes = append(nodes, part.Expr)
			}
		}
		return nodes
	case *ast.PipelineExpression:
		return exprNodes(node.Left, node.Right)
	case *ast.AsyncBlockExpression:
		return []ast.Node{node.Body}
	case *ast.AwaitExpression:
		return exprNodes(node.Value)
	case *ast.SpawnExpression:
		return exprNodes(node.Value)
	case *ast.SendExpression:
		return exprNodes(node.Actor, node.Message)
	case *ast.AskExpression:
		return exprNodes(node.Actor, node.Message)
	case *ast.PostfixExpression:
		return exprNodes(node.Left)
	case *ast.GroupedExpression:
		return exprNodes(node.Inner)
	case *ast.ImplBlock:
		var nodes []ast.Node
		for _, method := range node.Methods {
			nodes = append(nodes, method)
		}
		return nodes
	case *ast.TraitDeclaration:
		var nodes []ast.Node
		for _, method := range node.Methods {
			if method.Body != nil {
				nodes = append(nodes, method.Body)
			}
		}
		return nodes
	case *ast.ActorDeclaration:
		var nodes []ast.Node
		for _, handler := range node.Handlers {
			nodes = append(nodes, handler.Body)
		}
		return nodes
	case *ast.ExportStatement:
		if node.Decl != nil {
			return []ast.Node{node.Decl}
		}
	}
	return nil
}

func statementNodes(stmts []ast.Statement) []ast.Node {
	nodes := make([]ast.Node, 0, len(stmts))
	for _, stmt := range stmts {
		nodes = append(nodes, stmt)
	}
	return nodes
}

func exprNodes(exprs ...ast.Expression) []ast.Node {
	var nodes []ast.Node
	for _, expr := range exprs {
		if expr != nil {
			nodes = append(nodes, expr)
		}
	}
	return nodes
}

func paramDefaults(params []*ast.Param) []ast.Node {
	var nodes []ast.Node
	for _, param := range params {
		if param.Default != nil {
			nodes = append(nodes, param.Default)
		}
	}
	return nodes
}
