package scope

import (
	"auc-go/packages/compiler/src/lowering"
	"auc-go/packages/compiler/src/util"
)

// FrameKind classifies what kind of construct introduced a frame.
type FrameKind int

const (
	// FrameRoot is the template's outermost scope.
	FrameRoot FrameKind = iota
	// FrameIterator is introduced by an iteration controller.
	FrameIterator
	// FrameCondition is introduced by a conditional controller.
	FrameCondition
	// FrameWith is introduced by a context-substitution controller.
	FrameWith
	// FramePromise is introduced by a promise-state controller.
	FramePromise
	// FrameSwitchCase is introduced by a switch or case controller.
	FrameSwitchCase
	// FrameLet extends the enclosing frame with `<let>` declarations for the
	// remainder of its template.
	FrameLet
)

// String returns a string representation of the kind
func (k FrameKind) String() string {
	switch k {
	case FrameIterator:
		return "iterator"
	case FrameCondition:
		return "condition"
	case FrameWith:
		return "with"
	case FramePromise:
		return "promise"
	case FrameSwitchCase:
		return "switchCase"
	case FrameLet:
		return "let"
	default:
		return "root"
	}
}

// Local is one name a frame declares.
type Local struct {
	Name string
	// Span covers the declaring name in the authored markup.
	Span util.Span
	// Expr is the initializing expression for `<let>` declarations and
	// promise-state locals; zero when the value has no expression.
	Expr lowering.ExprID
}

// Frame is one node of the scope graph. The path from any frame to the root
// retraces the controller nesting that encloses it in the source.
type Frame struct {
	ID     int
	Parent *Frame
	Kind   FrameKind
	// ControllerName is the resource that introduced the frame; empty for
	// the root and for let extensions.
	ControllerName string
	// Span covers the introducing construct in the authored markup.
	Span   util.Span
	Locals []*Local
	// ContextExpr substitutes the binding context for with-style frames and
	// records the bound promise expression on promise controller frames.
	ContextExpr lowering.ExprID
	// IterationExpr is the iteration header expression for iterator frames.
	IterationExpr lowering.ExprID
	Children      []*Frame
}

// Local returns the frame's own declaration of a name, or nil.
func (f *Frame) Local(name string) *Local {
	for _, l := range f.Locals {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Resolve walks outward from the frame looking for a declaration of the
// name, honoring ancestor hops. It returns the declaring frame, or nil when
// the name falls through to the root binding context.
func (f *Frame) Resolve(name string, ancestor int) *Frame {
	frame := f
	for hops := ancestor; hops > 0 && frame != nil; {
		// A parent hop skips to the next context-bearing frame.
		frame = frame.Parent
		if frame != nil && frame.Kind != FrameLet {
			hops--
		}
	}
	for ; frame != nil; frame = frame.Parent {
		if frame.Local(name) != nil {
			return frame
		}
	}
	return nil
}

// ControllerPath returns the controller names enclosing the frame, outermost
// first. Root and let extensions contribute nothing.
func (f *Frame) ControllerPath() []string {
	var path []string
	for frame := f; frame != nil; frame = frame.Parent {
		if frame.ControllerName != "" {
			path = append(path, frame.ControllerName)
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Graph is the scope graph of one module: the frame tree plus the map from
// every expression to the innermost frame enclosing it.
type Graph struct {
	Root   *Frame
	frames []*Frame
	expr   map[lowering.ExprID]*Frame
}

// Frames returns every frame in allocation order. Allocation order is the
// depth-first traversal order of the linked rows, so it is deterministic.
func (g *Graph) Frames() []*Frame {
	return g.frames
}

// Frame returns the frame with the given id, or nil.
func (g *Graph) Frame(id int) *Frame {
	if id < 0 || id >= len(g.frames) {
		return nil
	}
	return g.frames[id]
}

// FrameFor returns the frame enclosing an expression, falling back to the
// root for expressions the traversal never placed.
func (g *Graph) FrameFor(id lowering.ExprID) *Frame {
	if f, ok := g.expr[id]; ok {
		return f
	}
	return g.Root
}
