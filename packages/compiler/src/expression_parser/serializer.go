package expression_parser

import (
	"fmt"
	"strings"
)

// Serialize serializes the given AST into a normalized string format
func Serialize(expression AST) string {
	visitor := NewSerializeVisitor()
	return expression.Visit(visitor, nil).(string)
}

// SerializeVisitor is a visitor that serializes AST to string
type SerializeVisitor struct{}

// NewSerializeVisitor creates a new SerializeVisitor
func NewSerializeVisitor() *SerializeVisitor {
	return &SerializeVisitor{}
}

func (s *SerializeVisitor) str(ast AST) string {
	return ast.Visit(s, nil).(string)
}

func (s *SerializeVisitor) args(args []AST) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = s.str(arg)
	}
	return strings.Join(parts, ", ")
}

// VisitAccessThis visits an AccessThis node
func (s *SerializeVisitor) VisitAccessThis(ast *AccessThis, context interface{}) interface{} {
	if ast.Ancestor == 0 {
		return "$this"
	}
	return strings.TrimSuffix(strings.Repeat("$parent.", ast.Ancestor), ".")
}

// VisitAccessScope visits an AccessScope node
func (s *SerializeVisitor) VisitAccessScope(ast *AccessScope, context interface{}) interface{} {
	return strings.Repeat("$parent.", ast.Ancestor) + ast.Name
}

// VisitAccessMember visits an AccessMember node
func (s *SerializeVisitor) VisitAccessMember(ast *AccessMember, context interface{}) interface{} {
	dot := "."
	if ast.Optional {
		dot = "?."
	}
	return s.str(ast.Object) + dot + ast.Name
}

// VisitAccessKeyed visits an AccessKeyed node
func (s *SerializeVisitor) VisitAccessKeyed(ast *AccessKeyed, context interface{}) interface{} {
	return fmt.Sprintf("%s[%s]", s.str(ast.Object), s.str(ast.Key))
}

// VisitCallScope visits a CallScope node
func (s *SerializeVisitor) VisitCallScope(ast *CallScope, context interface{}) interface{} {
	return fmt.Sprintf("%s%s(%s)", strings.Repeat("$parent.", ast.Ancestor), ast.Name, s.args(ast.Args))
}

// VisitCallMember visits a CallMember node
func (s *SerializeVisitor) VisitCallMember(ast *CallMember, context interface{}) interface{} {
	return fmt.Sprintf("%s.%s(%s)", s.str(ast.Object), ast.Name, s.args(ast.Args))
}

// VisitCallFunction visits a CallFunction node
func (s *SerializeVisitor) VisitCallFunction(ast *CallFunction, context interface{}) interface{} {
	return fmt.Sprintf("%s(%s)", s.str(ast.Func), s.args(ast.Args))
}

// VisitUnary visits a Unary node
func (s *SerializeVisitor) VisitUnary(ast *Unary, context interface{}) interface{} {
	if ast.Op == "typeof" || ast.Op == "void" {
		return fmt.Sprintf("%s %s", ast.Op, s.str(ast.Expr))
	}
	return ast.Op + s.str(ast.Expr)
}

// VisitBinary visits a Binary node
func (s *SerializeVisitor) VisitBinary(ast *Binary, context interface{}) interface{} {
	return fmt.Sprintf("%s %s %s", s.str(ast.Left), ast.Op, s.str(ast.Right))
}

// VisitConditional visits a Conditional node
func (s *SerializeVisitor) VisitConditional(ast *Conditional, context interface{}) interface{} {
	return fmt.Sprintf("%s ? %s : %s", s.str(ast.Condition), s.str(ast.Yes), s.str(ast.No))
}

// VisitAssign visits an Assign node
func (s *SerializeVisitor) VisitAssign(ast *Assign, context interface{}) interface{} {
	return fmt.Sprintf("%s = %s", s.str(ast.Target), s.str(ast.Value))
}

// VisitPrimitiveLiteral visits a PrimitiveLiteral node
func (s *SerializeVisitor) VisitPrimitiveLiteral(ast *PrimitiveLiteral, context interface{}) interface{} {
	return ast.Raw
}

// VisitArrayLiteral visits an ArrayLiteral node
func (s *SerializeVisitor) VisitArrayLiteral(ast *ArrayLiteral, context interface{}) interface{} {
	return fmt.Sprintf("[%s]", s.args(ast.Elements))
}

// VisitObjectLiteral visits an ObjectLiteral node
func (s *SerializeVisitor) VisitObjectLiteral(ast *ObjectLiteral, context interface{}) interface{} {
	parts := make([]string, len(ast.Keys))
	for i, key := range ast.Keys {
		parts[i] = fmt.Sprintf("%s: %s", key, s.str(ast.Values[i]))
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// VisitTemplateExpression visits a TemplateExpression node
func (s *SerializeVisitor) VisitTemplateExpression(ast *TemplateExpression, context interface{}) interface{} {
	var sb strings.Builder
	sb.WriteByte('`')
	for i, cooked := range ast.Cooked {
		sb.WriteString(cooked)
		if i < len(ast.Expressions) {
			sb.WriteString("${")
			sb.WriteString(s.str(ast.Expressions[i]))
			sb.WriteString("}")
		}
	}
	sb.WriteByte('`')
	return sb.String()
}

// VisitValueConverter visits a ValueConverter node
func (s *SerializeVisitor) VisitValueConverter(ast *ValueConverter, context interface{}) interface{} {
	result := fmt.Sprintf("%s | %s", s.str(ast.Expr), ast.Name)
	for _, arg := range ast.Args {
		result += ":" + s.str(arg)
	}
	return result
}

// VisitBindingBehavior visits a BindingBehavior node
func (s *SerializeVisitor) VisitBindingBehavior(ast *BindingBehavior, context interface{}) interface{} {
	result := fmt.Sprintf("%s & %s", s.str(ast.Expr), ast.Name)
	for _, arg := range ast.Args {
		result += ":" + s.str(arg)
	}
	return result
}

// VisitInterpolation visits an Interpolation node
func (s *SerializeVisitor) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	var sb strings.Builder
	for i, part := range ast.Parts {
		sb.WriteString(part)
		if i < len(ast.Expressions) {
			sb.WriteString("${")
			sb.WriteString(s.str(ast.Expressions[i]))
			sb.WriteString("}")
		}
	}
	return sb.String()
}

// VisitForOfStatement visits a ForOfStatement node
func (s *SerializeVisitor) VisitForOfStatement(ast *ForOfStatement, context interface{}) interface{} {
	decl := strings.Join(ast.Declaration.Names, ", ")
	if ast.Declaration.Destructured {
		decl = "[" + decl + "]"
	}
	return fmt.Sprintf("%s of %s", decl, s.str(ast.Iterable))
}
