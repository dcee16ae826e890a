package expression_parser

// Walk traverses the AST in pre-order, calling fn for each node. If fn
// returns false the node's children are skipped.
func Walk(node AST, fn func(AST) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *AccessMember:
		Walk(n.Object, fn)
	case *AccessKeyed:
		Walk(n.Object, fn)
		Walk(n.Key, fn)
	case *CallScope:
		walkAll(n.Args, fn)
	case *CallMember:
		Walk(n.Object, fn)
		walkAll(n.Args, fn)
	case *CallFunction:
		Walk(n.Func, fn)
		walkAll(n.Args, fn)
	case *Unary:
		Walk(n.Expr, fn)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Conditional:
		Walk(n.Condition, fn)
		Walk(n.Yes, fn)
		Walk(n.No, fn)
	case *Assign:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *ArrayLiteral:
		walkAll(n.Elements, fn)
	case *ObjectLiteral:
		walkAll(n.Values, fn)
	case *TemplateExpression:
		walkAll(n.Expressions, fn)
	case *ValueConverter:
		Walk(n.Expr, fn)
		walkAll(n.Args, fn)
	case *BindingBehavior:
		Walk(n.Expr, fn)
		walkAll(n.Args, fn)
	case *Interpolation:
		walkAll(n.Expressions, fn)
	case *ForOfStatement:
		Walk(n.Iterable, fn)
	}
}

func walkAll(nodes []AST, fn func(AST) bool) {
	for _, node := range nodes {
		Walk(node, fn)
	}
}
