package expression_parser

import "auc-go/packages/compiler/src/util"

// ExpressionKind selects the grammar used to parse a piece of expression text.
type ExpressionKind int

const (
	// KindGeneralBinding is a plain binding expression.
	KindGeneralBinding ExpressionKind = iota
	// KindInterpolation is text with embedded ${...} segments.
	KindInterpolation
	// KindIteratorHeader is a `local of collection` iteration header.
	KindIteratorHeader
	// KindCustom is caller-defined expression text, parsed with the
	// general-binding grammar.
	KindCustom
)

// String returns a string representation of the kind
func (k ExpressionKind) String() string {
	switch k {
	case KindGeneralBinding:
		return "general-binding"
	case KindInterpolation:
		return "interpolation"
	case KindIteratorHeader:
		return "iterator-header"
	default:
		return "custom"
	}
}

// AST is a parsed expression node. All spans are absolute document offsets,
// rebased through the parse context when the expression text was extracted
// from an attribute value or an interpolation segment.
type AST interface {
	Span() util.Span
	Visit(visitor Visitor, context interface{}) interface{}
}

// baseNode carries the span shared by every AST node.
type baseNode struct {
	span util.Span
}

// Span returns the node's absolute source span.
func (n *baseNode) Span() util.Span {
	return n.span
}

// AccessThis represents `$this` or an `$parent` chain; Ancestor is the number
// of scope hops upward (0 for `$this`).
type AccessThis struct {
	baseNode
	Ancestor int
}

// NewAccessThis creates a new AccessThis node
func NewAccessThis(span util.Span, ancestor int) *AccessThis {
	return &AccessThis{baseNode: baseNode{span: span}, Ancestor: ancestor}
}

// Visit implements the AST interface
func (a *AccessThis) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAccessThis(a, context)
}

// AccessScope represents a bare identifier resolved against the scope chain.
type AccessScope struct {
	baseNode
	Name     string
	Ancestor int
	NameSpan util.Span
}

// NewAccessScope creates a new AccessScope node
func NewAccessScope(span util.Span, name string, ancestor int, nameSpan util.Span) *AccessScope {
	return &AccessScope{baseNode: baseNode{span: span}, Name: name, Ancestor: ancestor, NameSpan: nameSpan}
}

// Visit implements the AST interface
func (a *AccessScope) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAccessScope(a, context)
}

// AccessMember represents `object.name` (or `object?.name` when Optional).
type AccessMember struct {
	baseNode
	Object   AST
	Name     string
	NameSpan util.Span
	Optional bool
}

// NewAccessMember creates a new AccessMember node
func NewAccessMember(span util.Span, object AST, name string, nameSpan util.Span, optional bool) *AccessMember {
	return &AccessMember{baseNode: baseNode{span: span}, Object: object, Name: name, NameSpan: nameSpan, Optional: optional}
}

// Visit implements the AST interface
func (a *AccessMember) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAccessMember(a, context)
}

// AccessKeyed represents `object[key]`.
type AccessKeyed struct {
	baseNode
	Object   AST
	Key      AST
	Optional bool
}

// NewAccessKeyed creates a new AccessKeyed node
func NewAccessKeyed(span util.Span, object, key AST, optional bool) *AccessKeyed {
	return &AccessKeyed{baseNode: baseNode{span: span}, Object: object, Key: key, Optional: optional}
}

// Visit implements the AST interface
func (a *AccessKeyed) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAccessKeyed(a, context)
}

// CallScope represents a call of a scope function, `fn(args)`.
type CallScope struct {
	baseNode
	Name     string
	Args     []AST
	Ancestor int
	NameSpan util.Span
}

// NewCallScope creates a new CallScope node
func NewCallScope(span util.Span, name string, args []AST, ancestor int, nameSpan util.Span) *CallScope {
	return &CallScope{baseNode: baseNode{span: span}, Name: name, Args: args, Ancestor: ancestor, NameSpan: nameSpan}
}

// Visit implements the AST interface
func (c *CallScope) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitCallScope(c, context)
}

// CallMember represents `object.name(args)`.
type CallMember struct {
	baseNode
	Object   AST
	Name     string
	Args     []AST
	NameSpan util.Span
	Optional bool
}

// NewCallMember creates a new CallMember node
func NewCallMember(span util.Span, object AST, name string, args []AST, nameSpan util.Span, optional bool) *CallMember {
	return &CallMember{baseNode: baseNode{span: span}, Object: object, Name: name, Args: args, NameSpan: nameSpan, Optional: optional}
}

// Visit implements the AST interface
func (c *CallMember) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitCallMember(c, context)
}

// CallFunction represents calling the result of an arbitrary expression.
type CallFunction struct {
	baseNode
	Func AST
	Args []AST
}

// NewCallFunction creates a new CallFunction node
func NewCallFunction(span util.Span, fn AST, args []AST) *CallFunction {
	return &CallFunction{baseNode: baseNode{span: span}, Func: fn, Args: args}
}

// Visit implements the AST interface
func (c *CallFunction) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitCallFunction(c, context)
}

// Unary represents a prefix operator expression.
type Unary struct {
	baseNode
	Op   string
	Expr AST
}

// NewUnary creates a new Unary node
func NewUnary(span util.Span, op string, expr AST) *Unary {
	return &Unary{baseNode: baseNode{span: span}, Op: op, Expr: expr}
}

// Visit implements the AST interface
func (u *Unary) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitUnary(u, context)
}

// Binary represents an infix operator expression.
type Binary struct {
	baseNode
	Op    string
	Left  AST
	Right AST
}

// NewBinary creates a new Binary node
func NewBinary(span util.Span, op string, left, right AST) *Binary {
	return &Binary{baseNode: baseNode{span: span}, Op: op, Left: left, Right: right}
}

// Visit implements the AST interface
func (b *Binary) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitBinary(b, context)
}

// Conditional represents `cond ? yes : no`.
type Conditional struct {
	baseNode
	Condition AST
	Yes       AST
	No        AST
}

// NewConditional creates a new Conditional node
func NewConditional(span util.Span, condition, yes, no AST) *Conditional {
	return &Conditional{baseNode: baseNode{span: span}, Condition: condition, Yes: yes, No: no}
}

// Visit implements the AST interface
func (c *Conditional) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitConditional(c, context)
}

// Assign represents `target = value`.
type Assign struct {
	baseNode
	Target AST
	Value  AST
}

// NewAssign creates a new Assign node
func NewAssign(span util.Span, target, value AST) *Assign {
	return &Assign{baseNode: baseNode{span: span}, Target: target, Value: value}
}

// Visit implements the AST interface
func (a *Assign) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAssign(a, context)
}

// PrimitiveLiteral represents a string, number, boolean, null or undefined
// literal. Raw preserves the authored text.
type PrimitiveLiteral struct {
	baseNode
	Value interface{}
	Raw   string
}

// NewPrimitiveLiteral creates a new PrimitiveLiteral node
func NewPrimitiveLiteral(span util.Span, value interface{}, raw string) *PrimitiveLiteral {
	return &PrimitiveLiteral{baseNode: baseNode{span: span}, Value: value, Raw: raw}
}

// Visit implements the AST interface
func (p *PrimitiveLiteral) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitPrimitiveLiteral(p, context)
}

// ArrayLiteral represents `[a, b, c]`.
type ArrayLiteral struct {
	baseNode
	Elements []AST
}

// NewArrayLiteral creates a new ArrayLiteral node
func NewArrayLiteral(span util.Span, elements []AST) *ArrayLiteral {
	return &ArrayLiteral{baseNode: baseNode{span: span}, Elements: elements}
}

// Visit implements the AST interface
func (a *ArrayLiteral) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitArrayLiteral(a, context)
}

// ObjectLiteral represents `{key: value, ...}`. Keys and Values are parallel.
type ObjectLiteral struct {
	baseNode
	Keys   []string
	Values []AST
}

// NewObjectLiteral creates a new ObjectLiteral node
func NewObjectLiteral(span util.Span, keys []string, values []AST) *ObjectLiteral {
	return &ObjectLiteral{baseNode: baseNode{span: span}, Keys: keys, Values: values}
}

// Visit implements the AST interface
func (o *ObjectLiteral) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitObjectLiteral(o, context)
}

// TemplateExpression represents a backtick template literal. Cooked has one
// more element than Expressions.
type TemplateExpression struct {
	baseNode
	Cooked      []string
	Expressions []AST
}

// NewTemplateExpression creates a new TemplateExpression node
func NewTemplateExpression(span util.Span, cooked []string, expressions []AST) *TemplateExpression {
	return &TemplateExpression{baseNode: baseNode{span: span}, Cooked: cooked, Expressions: expressions}
}

// Visit implements the AST interface
func (t *TemplateExpression) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitTemplateExpression(t, context)
}

// ValueConverter represents `expr | name:arg1:arg2`.
type ValueConverter struct {
	baseNode
	Expr     AST
	Name     string
	Args     []AST
	NameSpan util.Span
}

// NewValueConverter creates a new ValueConverter node
func NewValueConverter(span util.Span, expr AST, name string, args []AST, nameSpan util.Span) *ValueConverter {
	return &ValueConverter{baseNode: baseNode{span: span}, Expr: expr, Name: name, Args: args, NameSpan: nameSpan}
}

// Visit implements the AST interface
func (v *ValueConverter) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitValueConverter(v, context)
}

// BindingBehavior represents `expr & name:arg1:arg2`.
type BindingBehavior struct {
	baseNode
	Expr     AST
	Name     string
	Args     []AST
	NameSpan util.Span
}

// NewBindingBehavior creates a new BindingBehavior node
func NewBindingBehavior(span util.Span, expr AST, name string, args []AST, nameSpan util.Span) *BindingBehavior {
	return &BindingBehavior{baseNode: baseNode{span: span}, Expr: expr, Name: name, Args: args, NameSpan: nameSpan}
}

// Visit implements the AST interface
func (b *BindingBehavior) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitBindingBehavior(b, context)
}

// Interpolation represents text with embedded expressions. Parts has one more
// element than Expressions; part i precedes expression i.
type Interpolation struct {
	baseNode
	Parts       []string
	Expressions []AST
}

// NewInterpolation creates a new Interpolation node
func NewInterpolation(span util.Span, parts []string, expressions []AST) *Interpolation {
	return &Interpolation{baseNode: baseNode{span: span}, Parts: parts, Expressions: expressions}
}

// Visit implements the AST interface
func (i *Interpolation) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitInterpolation(i, context)
}

// ForDeclaration is the declaration part of an iteration header: either a
// single identifier or an array destructuring pattern.
type ForDeclaration struct {
	// Names holds the declared local names in declaration order.
	Names []string
	// NameSpans holds the span of each declared name.
	NameSpans []util.Span
	// Destructured is true for `[key, value] of pairs` style headers.
	Destructured bool
	Span         util.Span
}

// ForOfStatement represents an iteration header, `declaration of iterable`.
type ForOfStatement struct {
	baseNode
	Declaration ForDeclaration
	Iterable    AST
}

// NewForOfStatement creates a new ForOfStatement node
func NewForOfStatement(span util.Span, declaration ForDeclaration, iterable AST) *ForOfStatement {
	return &ForOfStatement{baseNode: baseNode{span: span}, Declaration: declaration, Iterable: iterable}
}

// Visit implements the AST interface
func (f *ForOfStatement) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitForOfStatement(f, context)
}

// Visitor visits expression AST nodes.
type Visitor interface {
	VisitAccessThis(ast *AccessThis, context interface{}) interface{}
	VisitAccessScope(ast *AccessScope, context interface{}) interface{}
	VisitAccessMember(ast *AccessMember, context interface{}) interface{}
	VisitAccessKeyed(ast *AccessKeyed, context interface{}) interface{}
	VisitCallScope(ast *CallScope, context interface{}) interface{}
	VisitCallMember(ast *CallMember, context interface{}) interface{}
	VisitCallFunction(ast *CallFunction, context interface{}) interface{}
	VisitUnary(ast *Unary, context interface{}) interface{}
	VisitBinary(ast *Binary, context interface{}) interface{}
	VisitConditional(ast *Conditional, context interface{}) interface{}
	VisitAssign(ast *Assign, context interface{}) interface{}
	VisitPrimitiveLiteral(ast *PrimitiveLiteral, context interface{}) interface{}
	VisitArrayLiteral(ast *ArrayLiteral, context interface{}) interface{}
	VisitObjectLiteral(ast *ObjectLiteral, context interface{}) interface{}
	VisitTemplateExpression(ast *TemplateExpression, context interface{}) interface{}
	VisitValueConverter(ast *ValueConverter, context interface{}) interface{}
	VisitBindingBehavior(ast *BindingBehavior, context interface{}) interface{}
	VisitInterpolation(ast *Interpolation, context interface{}) interface{}
	VisitForOfStatement(ast *ForOfStatement, context interface{}) interface{}
}
