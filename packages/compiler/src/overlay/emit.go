package overlay

import (
	"fmt"
	"strings"

	"auc-go/packages/compiler/src/expression_parser"
	"auc-go/packages/compiler/src/lowering"
	"auc-go/packages/compiler/src/scope"
	"auc-go/packages/compiler/src/util"
)

// Segment maps one member-access name inside a rewritten chain to its
// occurrence in the overlay text and in the authored markup.
type Segment struct {
	Name         string
	OverlaySpan  util.Span
	OriginalSpan util.Span
}

// MappingEntry links one expression to its synthesized accessor call.
type MappingEntry struct {
	ExprID lowering.ExprID
	// FrameID identifies the frame the expression evaluates in; the frame
	// chain from it reconstructs the controller nesting around the
	// expression in the source.
	FrameID      int
	OverlaySpan  util.Span
	OriginalSpan util.Span
	Segments     []Segment
}

// Overlay is the synthesized checkable text plus its mapping table. It is
// never executed; it exists so a host checker can verify the bindings and so
// positions round-trip between overlay and markup.
type Overlay struct {
	Text    string
	Mapping []*MappingEntry
}

// EntryFor returns the mapping entry for an expression, or nil when the
// expression was skipped.
func (o *Overlay) EntryFor(id lowering.ExprID) *MappingEntry {
	for _, entry := range o.Mapping {
		if entry.ExprID == id {
			return entry
		}
	}
	return nil
}

const preamble = `type __Item<T> = T extends readonly (infer U)[] ? U : T extends Iterable<infer U> ? U : unknown;
declare function __access<T, R>(scope: T, body: (o: T) => R): R;
declare function __nest<T, U>(base: T, names: U): T & U;
interface __Root { [name: string]: any; }
`

// Emitter renders a plan into overlay text. Emission is a pure function of
// the plan: identical plans yield byte-identical text and identical mapping
// tables.
type Emitter struct{}

// NewEmitter creates a new Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit renders the plan.
func (e *Emitter) Emit(plan *Plan) *Overlay {
	st := &emitState{plan: plan, out: &builder{}}
	st.out.write(preamble)
	for _, directive := range plan.Directives {
		switch directive.Kind {
		case DirectiveOpenFrame:
			st.openFrame(directive.Frame)
		case DirectiveExpression:
			st.expression(directive.Frame, directive.Expr)
		case DirectiveCloseFrame:
			st.closeFrame()
		}
	}
	return &Overlay{Text: st.out.String(), Mapping: st.mapping}
}

type emitState struct {
	plan    *Plan
	out     *builder
	depth   int
	mapping []*MappingEntry
}

func (st *emitState) indent() {
	st.out.write(strings.Repeat("  ", st.depth))
}

func (st *emitState) line(s string) {
	st.indent()
	st.out.write(s)
	st.out.write("\n")
}

// scopeVar names the frame's scope parameter; frame ids are allocated in
// traversal order so names are stable.
func scopeVar(f *scope.Frame) string {
	return fmt.Sprintf("o%d", f.ID)
}

func (st *emitState) openFrame(f *scope.Frame) {
	if f.Parent == nil {
		st.line(fmt.Sprintf("export function __overlay(%s: __Root) {", scopeVar(f)))
		st.depth++
		return
	}
	st.line("{")
	st.depth++
	st.indent()
	st.out.write(fmt.Sprintf("const %s = ", scopeVar(f)))
	st.frameInit(f)
	st.out.write(";\n")
}

func (st *emitState) closeFrame() {
	st.depth--
	st.line("}")
}

// frameInit writes the scope value for a frame: narrowed for iterator, with
// and promise-state frames, extended for let frames, aliased otherwise.
func (st *emitState) frameInit(f *scope.Frame) {
	parent := scopeVar(f.Parent)
	switch f.Kind {
	case scope.FrameIterator:
		st.iteratorInit(f, parent)
	case scope.FrameWith:
		if ctx := st.ast(f.ContextExpr); ctx != nil && Representable(ctx) {
			st.out.write(fmt.Sprintf("__access(%s, (o) => ", parent))
			st.rewrite(ctx)
			st.out.write(")")
			return
		}
		st.out.write(parent)
	case scope.FramePromise:
		st.promiseInit(f, parent)
	case scope.FrameLet:
		st.letInit(f, parent)
	default:
		st.out.write(parent)
	}
}

// iteratorInit narrows each declared name to the collection's element type
// and declares the implicit iteration contextuals.
func (st *emitState) iteratorInit(f *scope.Frame, parent string) {
	iterable := st.iterableAST(f.IterationExpr)

	st.out.write(fmt.Sprintf("__nest(%s, { ", parent))
	first := true
	for _, local := range f.Locals {
		if !first {
			st.out.write(", ")
		}
		first = false
		st.out.write(objectKey(local.Name))
		st.out.write(": ")
		switch {
		case contextualDefaults[local.Name] != "":
			st.out.write(contextualDefaults[local.Name])
		case iterable != nil:
			// Type positions reuse the parent scope value directly; no
			// accessor indirection is needed where nothing is evaluated.
			st.out.write("null! as __Item<typeof ")
			st.typeRef(iterable, parent)
		default:
			st.out.write("null! as any")
		}
	}
	st.out.write(" })")
}

// typeRef writes an iterator local's element-type reference: the iterable
// chain rooted at the parent scope value, closing the __Item bracket.
func (st *emitState) typeRef(iterable expression_parser.AST, parent string) {
	r := &rewriter{out: st.out, param: parent}
	r.expr(iterable)
	st.out.write(">")
}

// contextualDefaults types the implicit iteration locals.
var contextualDefaults = map[string]string{
	"$index":  "0",
	"$first":  "false",
	"$last":   "false",
	"$even":   "false",
	"$odd":    "false",
	"$length": "0",
}

// iterableAST returns a representable chain for the iteration header's
// iterable, or nil.
func (st *emitState) iterableAST(id lowering.ExprID) expression_parser.AST {
	ast := st.ast(id)
	header, ok := ast.(*expression_parser.ForOfStatement)
	if !ok {
		return nil
	}
	if !Representable(header.Iterable) {
		return nil
	}
	switch header.Iterable.(type) {
	case *expression_parser.AccessScope, *expression_parser.AccessMember, *expression_parser.AccessKeyed:
		return header.Iterable
	}
	return nil
}

// promiseInit narrows a then/catch local to the settled value of the
// enclosing promise controller's expression.
func (st *emitState) promiseInit(f *scope.Frame, parent string) {
	if len(f.Locals) == 0 {
		st.out.write(parent)
		return
	}
	st.out.write(fmt.Sprintf("__nest(%s, { ", parent))
	for i, local := range f.Locals {
		if i > 0 {
			st.out.write(", ")
		}
		st.out.write(objectKey(local.Name))
		if f.ControllerName == "then" {
			if promise := st.promiseExpr(f); promise != nil {
				st.out.write(": null! as Awaited<typeof ")
				r := &rewriter{out: st.out, param: parent}
				r.expr(promise)
				st.out.write(">")
				continue
			}
		}
		st.out.write(": null! as any")
	}
	st.out.write(" })")
}

// promiseExpr finds the nearest enclosing promise controller's bound
// expression, when it is a representable chain.
func (st *emitState) promiseExpr(f *scope.Frame) expression_parser.AST {
	for frame := f.Parent; frame != nil; frame = frame.Parent {
		if frame.Kind == scope.FramePromise && frame.ControllerName == "promise" {
			ast := st.ast(frame.ContextExpr)
			if ast != nil && Representable(ast) {
				return ast
			}
			return nil
		}
	}
	return nil
}

// letInit extends the parent scope with the let declarations so their types
// infer from the initializers.
func (st *emitState) letInit(f *scope.Frame, parent string) {
	st.out.write(fmt.Sprintf("__nest(%s, { ", parent))
	for i, local := range f.Locals {
		if i > 0 {
			st.out.write(", ")
		}
		st.out.write(objectKey(local.Name))
		st.out.write(": ")
		init := st.ast(local.Expr)
		if init != nil && Representable(init) {
			st.out.write(fmt.Sprintf("__access(%s, (o) => ", parent))
			st.rewrite(init)
			st.out.write(")")
		} else {
			st.out.write("null! as any")
		}
	}
	st.out.write(" })")
}

// expression synthesizes one accessor call and records its mapping entry.
// An unrepresentable expression is skipped; the rest of the plan still
// emits.
func (st *emitState) expression(f *scope.Frame, id lowering.ExprID) {
	entry := st.plan.Module.Expressions().Entry(id)
	if entry == nil || entry.AST == nil {
		return
	}
	body := entry.AST
	if header, ok := body.(*expression_parser.ForOfStatement); ok {
		body = header.Iterable
	}
	if !Representable(body) {
		return
	}

	st.indent()
	start := st.out.offset()
	st.out.write(fmt.Sprintf("__access(%s, (o) => ", scopeVar(f)))
	segments := st.rewriteCollect(body)
	st.out.write(")")
	end := st.out.offset()
	st.out.write(";\n")

	st.mapping = append(st.mapping, &MappingEntry{
		ExprID:       id,
		FrameID:      f.ID,
		OverlaySpan:  util.NewSpan(start, end),
		OriginalSpan: entry.Span,
		Segments:     segments,
	})
}

func (st *emitState) rewrite(node expression_parser.AST) {
	r := &rewriter{out: st.out, param: "o"}
	r.expr(node)
}

func (st *emitState) rewriteCollect(node expression_parser.AST) []Segment {
	r := &rewriter{out: st.out, param: "o"}
	r.expr(node)
	return r.segments
}

func (st *emitState) ast(id lowering.ExprID) expression_parser.AST {
	if id == 0 {
		return nil
	}
	entry := st.plan.Module.Expressions().Entry(id)
	if entry == nil {
		return nil
	}
	return entry.AST
}

// builder accumulates overlay text while exposing the current byte offset,
// which is what lets spans be recorded during writing instead of recomputed
// afterwards.
type builder struct {
	sb strings.Builder
}

func (b *builder) write(s string) {
	b.sb.WriteString(s)
}

func (b *builder) offset() int {
	return b.sb.Len()
}

func (b *builder) String() string {
	return b.sb.String()
}
