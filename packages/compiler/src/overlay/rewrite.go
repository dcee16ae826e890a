package overlay

import (
	"fmt"
	"strconv"

	"auc-go/packages/compiler/src/expression_parser"
	"auc-go/packages/compiler/src/util"
)

// Representable reports whether an expression can be rewritten into host
// syntax. Value converters, binding behaviors and ancestor hops have no host
// equivalent; expressions using them are skipped rather than mis-typed.
func Representable(node expression_parser.AST) bool {
	ok := true
	expression_parser.Walk(node, func(n expression_parser.AST) bool {
		switch v := n.(type) {
		case *expression_parser.ValueConverter, *expression_parser.BindingBehavior:
			ok = false
		case *expression_parser.AccessThis:
			if v.Ancestor > 0 {
				ok = false
			}
		case *expression_parser.AccessScope:
			if v.Ancestor > 0 {
				ok = false
			}
		case *expression_parser.CallScope:
			if v.Ancestor > 0 {
				ok = false
			}
		}
		return ok
	})
	return ok
}

// rewriter renders an expression AST as host syntax, replacing scope-root
// accesses with member access off the scope parameter. It records the
// overlay-side span of every member-access name so a diagnostic anchored at
// one name inside a chain maps to exactly that sub-range.
type rewriter struct {
	out      *builder
	param    string
	segments []Segment
}

func (r *rewriter) segment(name string, start int, original util.Span) {
	r.segments = append(r.segments, Segment{
		Name:         name,
		OverlaySpan:  util.NewSpan(start, start+len(name)),
		OriginalSpan: original,
	})
}

func (r *rewriter) expr(node expression_parser.AST) {
	switch n := node.(type) {
	case *expression_parser.AccessThis:
		r.out.write(r.param)
	case *expression_parser.AccessScope:
		r.out.write(r.param)
		r.out.write(".")
		start := r.out.offset()
		r.out.write(n.Name)
		r.segment(n.Name, start, n.NameSpan)
	case *expression_parser.AccessMember:
		r.expr(n.Object)
		if n.Optional {
			r.out.write("?.")
		} else {
			r.out.write(".")
		}
		start := r.out.offset()
		r.out.write(n.Name)
		r.segment(n.Name, start, n.NameSpan)
	case *expression_parser.AccessKeyed:
		r.expr(n.Object)
		if n.Optional {
			r.out.write("?.")
		}
		r.out.write("[")
		r.expr(n.Key)
		r.out.write("]")
	case *expression_parser.CallScope:
		r.out.write(r.param)
		r.out.write(".")
		start := r.out.offset()
		r.out.write(n.Name)
		r.segment(n.Name, start, n.NameSpan)
		r.args(n.Args)
	case *expression_parser.CallMember:
		r.expr(n.Object)
		if n.Optional {
			r.out.write("?.")
		} else {
			r.out.write(".")
		}
		start := r.out.offset()
		r.out.write(n.Name)
		r.segment(n.Name, start, n.NameSpan)
		r.args(n.Args)
	case *expression_parser.CallFunction:
		r.expr(n.Func)
		r.args(n.Args)
	case *expression_parser.Unary:
		if isWordOperator(n.Op) {
			r.out.write(n.Op)
			r.out.write(" (")
		} else {
			r.out.write(n.Op)
			r.out.write("(")
		}
		r.expr(n.Expr)
		r.out.write(")")
	case *expression_parser.Binary:
		r.out.write("(")
		r.expr(n.Left)
		r.out.write(" ")
		r.out.write(n.Op)
		r.out.write(" ")
		r.expr(n.Right)
		r.out.write(")")
	case *expression_parser.Conditional:
		r.out.write("(")
		r.expr(n.Condition)
		r.out.write(" ? ")
		r.expr(n.Yes)
		r.out.write(" : ")
		r.expr(n.No)
		r.out.write(")")
	case *expression_parser.Assign:
		r.out.write("(")
		r.expr(n.Target)
		r.out.write(" = ")
		r.expr(n.Value)
		r.out.write(")")
	case *expression_parser.PrimitiveLiteral:
		r.out.write(literalText(n))
	case *expression_parser.ArrayLiteral:
		r.out.write("[")
		for i, el := range n.Elements {
			if i > 0 {
				r.out.write(", ")
			}
			r.expr(el)
		}
		r.out.write("]")
	case *expression_parser.ObjectLiteral:
		r.out.write("{ ")
		for i, key := range n.Keys {
			if i > 0 {
				r.out.write(", ")
			}
			r.out.write(objectKey(key))
			r.out.write(": ")
			r.expr(n.Values[i])
		}
		r.out.write(" }")
	case *expression_parser.TemplateExpression:
		r.template(n.Cooked, n.Expressions)
	case *expression_parser.ValueConverter:
		// Unreachable behind Representable; render the inner expression so a
		// stray call still produces valid text.
		r.expr(n.Expr)
	case *expression_parser.BindingBehavior:
		r.expr(n.Expr)
	case *expression_parser.Interpolation:
		if len(n.Expressions) == 1 {
			r.expr(n.Expressions[0])
			return
		}
		r.out.write("[")
		for i, expr := range n.Expressions {
			if i > 0 {
				r.out.write(", ")
			}
			r.expr(expr)
		}
		r.out.write("]")
	case *expression_parser.ForOfStatement:
		r.expr(n.Iterable)
	}
}

func (r *rewriter) args(args []expression_parser.AST) {
	r.out.write("(")
	for i, arg := range args {
		if i > 0 {
			r.out.write(", ")
		}
		r.expr(arg)
	}
	r.out.write(")")
}

// template renders a template literal as string concatenation, which checks
// the embedded expressions without needing backtick escaping rules.
func (r *rewriter) template(cooked []string, exprs []expression_parser.AST) {
	r.out.write("(")
	for i, part := range cooked {
		if i > 0 {
			r.out.write(" + ")
		}
		r.out.write(strconv.Quote(part))
		if i < len(exprs) {
			r.out.write(" + (")
			r.expr(exprs[i])
			r.out.write(")")
		}
	}
	r.out.write(")")
}

func isWordOperator(op string) bool {
	return op == "typeof" || op == "void"
}

func literalText(n *expression_parser.PrimitiveLiteral) string {
	if n.Raw != "" {
		return n.Raw
	}
	switch v := n.Value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func objectKey(key string) string {
	if isIdentifier(key) {
		return key
	}
	return strconv.Quote(key)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
