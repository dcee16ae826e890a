package ml_parser

import "auc-go/packages/compiler/src/util"

// Node represents a node in the markup AST
type Node interface {
	SourceSpan() util.Span
	Visit(visitor Visitor, context interface{}) interface{}
}

// Text represents a text node. Value is the parser's materialized text;
// consumers that need character-exact content must re-slice the original
// source through SourceSpan instead.
type Text struct {
	Value      string
	sourceSpan util.Span
}

// NewText creates a new Text node
func NewText(value string, sourceSpan util.Span) *Text {
	return &Text{Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (t *Text) SourceSpan() util.Span {
	return t.sourceSpan
}

// Visit implements the Node interface
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Attribute represents an attribute on an element
type Attribute struct {
	Name       string
	Value      string
	sourceSpan util.Span
	KeySpan    util.Span
	ValueSpan  util.Span
	// HasValue distinguishes `<div foo>` from `<div foo="">`.
	HasValue bool
}

// NewAttribute creates a new Attribute node
func NewAttribute(name, value string, sourceSpan, keySpan, valueSpan util.Span, hasValue bool) *Attribute {
	return &Attribute{
		Name:       name,
		Value:      value,
		sourceSpan: sourceSpan,
		KeySpan:    keySpan,
		ValueSpan:  valueSpan,
		HasValue:   hasValue,
	}
}

// SourceSpan returns the source span
func (a *Attribute) SourceSpan() util.Span {
	return a.sourceSpan
}

// Visit implements the Node interface
func (a *Attribute) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAttribute(a, context)
}

// Element represents an element node. The open and close tag names carry
// separate sub-spans so tooling can resolve "node at offset" requests landing
// on either tag.
type Element struct {
	Name          string
	Attrs         []*Attribute
	Children      []Node
	IsSelfClosing bool
	sourceSpan    util.Span
	// StartSourceSpan covers the whole open tag, `<div a="b">`.
	StartSourceSpan util.Span
	// EndSourceSpan covers the whole close tag; zero when there is none.
	EndSourceSpan util.Span
	// NameSpan covers the tag name inside the open tag.
	NameSpan util.Span
	// CloseNameSpan covers the tag name inside the close tag; zero when
	// the element is void or self-closing.
	CloseNameSpan util.Span
}

// NewElement creates a new Element node
func NewElement(name string, attrs []*Attribute, children []Node, sourceSpan, startSourceSpan, nameSpan util.Span) *Element {
	return &Element{
		Name:            name,
		Attrs:           attrs,
		Children:        children,
		sourceSpan:      sourceSpan,
		StartSourceSpan: startSourceSpan,
		NameSpan:        nameSpan,
	}
}

// SourceSpan returns the source span
func (e *Element) SourceSpan() util.Span {
	return e.sourceSpan
}

// SetSourceSpan updates the element's full span once the close tag is known.
func (e *Element) SetSourceSpan(span util.Span) {
	e.sourceSpan = span
}

// Attr returns the attribute with the given name, or nil.
func (e *Element) Attr(name string) *Attribute {
	for _, attr := range e.Attrs {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

// Visit implements the Node interface
func (e *Element) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElement(e, context)
}

// Comment represents a comment node
type Comment struct {
	Value      string
	sourceSpan util.Span
}

// NewComment creates a new Comment node
func NewComment(value string, sourceSpan util.Span) *Comment {
	return &Comment{Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (c *Comment) SourceSpan() util.Span {
	return c.sourceSpan
}

// Visit implements the Node interface
func (c *Comment) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitComment(c, context)
}

// Visitor interface for visiting AST nodes
type Visitor interface {
	VisitElement(element *Element, context interface{}) interface{}
	VisitAttribute(attribute *Attribute, context interface{}) interface{}
	VisitText(text *Text, context interface{}) interface{}
	VisitComment(comment *Comment, context interface{}) interface{}
}

// VisitAll visits all nodes with a visitor
func VisitAll(visitor Visitor, nodes []Node, context interface{}) []interface{} {
	var result []interface{}
	for _, node := range nodes {
		if r := node.Visit(visitor, context); r != nil {
			result = append(result, r)
		}
	}
	return result
}
