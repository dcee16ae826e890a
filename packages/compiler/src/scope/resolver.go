package scope

import (
	"auc-go/packages/compiler/src/expression_parser"
	"auc-go/packages/compiler/src/linking"
	"auc-go/packages/compiler/src/lowering"
	"auc-go/packages/compiler/src/resources"
	"auc-go/packages/compiler/src/util"
)

// iteratorContextuals are the implicit locals every iteration frame declares
// alongside the header's own names.
var iteratorContextuals = []string{"$index", "$first", "$last", "$even", "$odd", "$length"}

// Resolver builds the scope graph for a linked module.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve walks the linked rows depth first, pushing a frame for every
// controller instance and extending the current frame at every `<let>`, and
// records the innermost frame enclosing each expression.
func (r *Resolver) Resolve(module *linking.LinkedModule) *Graph {
	g := &Graph{expr: make(map[lowering.ExprID]*Frame)}
	st := &resolveState{module: module, graph: g}

	root := st.newFrame(FrameRoot, nil, "", util.NewSpan(0, len(module.File.Content)))
	g.Root = root
	if len(module.Templates) > 0 {
		st.walkTemplate(0, root)
	}
	return g
}

type resolveState struct {
	module *linking.LinkedModule
	graph  *Graph
}

func (st *resolveState) newFrame(kind FrameKind, parent *Frame, controller string, span util.Span) *Frame {
	f := &Frame{
		ID:             len(st.graph.frames),
		Parent:         parent,
		Kind:           kind,
		ControllerName: controller,
		Span:           span,
	}
	st.graph.frames = append(st.graph.frames, f)
	if parent != nil {
		parent.Children = append(parent.Children, f)
	}
	return f
}

func (st *resolveState) place(id lowering.ExprID, frame *Frame) {
	if id != 0 {
		st.graph.expr[id] = frame
	}
}

// walkTemplate resolves one template's rows under the given frame. The
// current frame advances past each `<let>` row for the remainder of the
// template.
func (st *resolveState) walkTemplate(index int, frame *Frame) {
	current := frame
	tpl := st.module.Template(index)
	for _, row := range tpl.Rows {
		for _, inst := range row.Instructions {
			current = st.instruction(inst, current)
		}
		// Projected content evaluates in the scope of the projecting side,
		// not the slot's host.
		for _, slot := range row.ProjectionOrder {
			st.walkTemplate(row.Projections[slot], current)
		}
	}
}

// instruction places an instruction's expressions into the current frame and
// returns the frame for subsequent rows, which advances only at `<let>`.
func (st *resolveState) instruction(inst *linking.LinkedInstruction, current *Frame) *Frame {
	switch v := inst.Source.(type) {
	case *lowering.PropertyBinding:
		st.place(v.From, current)
	case *lowering.AttributeBinding:
		st.place(v.From, current)
	case *lowering.TextBinding:
		st.place(v.From, current)
	case *lowering.Listener:
		st.place(v.From, current)
	case *lowering.RefBinding:
		st.place(v.From, current)
	case *lowering.IteratorBinding:
		st.place(v.ForOf, current)
	case *lowering.HydrateLetElement:
		return st.letFrame(v, current)
	case *lowering.HydrateTemplateController:
		st.controllerFrame(inst, v, current)
	}
	return current
}

// letFrame extends the current frame with the element's declarations. The
// initializers themselves still evaluate in the pre-let frame.
func (st *resolveState) letFrame(v *lowering.HydrateLetElement, current *Frame) *Frame {
	f := st.newFrame(FrameLet, current, "", v.SourceSpan())
	for _, binding := range v.Instructions {
		st.place(binding.From, current)
		f.Locals = append(f.Locals, &Local{Name: binding.To, Span: binding.ToSpan, Expr: binding.From})
	}
	return f
}

// controllerFrame pushes a frame for a controller instance and resolves its
// nested template body under it. The controller's own bindings evaluate in
// the enclosing frame.
func (st *resolveState) controllerFrame(inst *linking.LinkedInstruction, v *lowering.HydrateTemplateController, current *Frame) {
	f := st.newFrame(frameKind(inst.AttributeDef), current, v.Res, v.SourceSpan())

	for _, prop := range inst.Props {
		switch src := prop.Source.(type) {
		case *lowering.IteratorBinding:
			st.place(src.ForOf, current)
			f.IterationExpr = src.ForOf
			st.iteratorLocals(f, src)
		case *lowering.PropertyBinding:
			st.place(src.From, current)
			if f.Kind == FramePromise && f.ControllerName == "promise" && prop.Property == "value" {
				f.ContextExpr = src.From
			}
			st.contextLocal(f, inst.AttributeDef, prop, src)
		}
	}

	st.walkTemplate(v.TemplateIndex, f)
}

// iteratorLocals declares the header's names plus the implicit iteration
// contextuals.
func (st *resolveState) iteratorLocals(f *Frame, src *lowering.IteratorBinding) {
	entry := st.module.Expressions().Entry(src.ForOf)
	if entry == nil {
		return
	}
	header, ok := entry.AST.(*expression_parser.ForOfStatement)
	if !ok {
		return
	}
	for i, name := range header.Declaration.Names {
		span := header.Declaration.Span
		if i < len(header.Declaration.NameSpans) {
			span = header.Declaration.NameSpans[i]
		}
		f.Locals = append(f.Locals, &Local{Name: name, Span: span})
	}
	for _, name := range iteratorContextuals {
		f.Locals = append(f.Locals, &Local{Name: name, Span: src.ToSpan})
	}
}

// contextLocal applies a controller's context property to its frame: a
// substituted context for with-style controllers, or a named local for
// promise-state controllers whose bound expression names the receiver.
func (st *resolveState) contextLocal(f *Frame, def *resources.AttributeDef, prop *linking.LinkedInstruction, src *lowering.PropertyBinding) {
	if def == nil || def.ContextProperty == "" || prop.Property != def.ContextProperty {
		return
	}
	switch f.Kind {
	case FrameWith:
		f.ContextExpr = src.From
	case FramePromise:
		entry := st.module.Expressions().Entry(src.From)
		if entry == nil {
			return
		}
		if access, ok := entry.AST.(*expression_parser.AccessScope); ok {
			f.Locals = append(f.Locals, &Local{Name: access.Name, Span: access.NameSpan, Expr: src.From})
		}
	}
}

func frameKind(def *resources.AttributeDef) FrameKind {
	if def == nil {
		return FrameCondition
	}
	switch def.ControllerKind {
	case resources.ControllerIterator:
		return FrameIterator
	case resources.ControllerWith:
		return FrameWith
	case resources.ControllerPromise:
		return FramePromise
	case resources.ControllerSwitchCase:
		return FrameSwitchCase
	default:
		return FrameCondition
	}
}
