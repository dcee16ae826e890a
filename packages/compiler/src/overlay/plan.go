package overlay

import (
	"auc-go/packages/compiler/src/linking"
	"auc-go/packages/compiler/src/lowering"
	"auc-go/packages/compiler/src/scope"
)

// DirectiveKind identifies one planning step.
type DirectiveKind int

const (
	// DirectiveOpenFrame opens a frame's nested scope in the output.
	DirectiveOpenFrame DirectiveKind = iota
	// DirectiveExpression synthesizes one accessor call.
	DirectiveExpression
	// DirectiveCloseFrame closes the innermost open scope.
	DirectiveCloseFrame
)

// Directive is one step of an overlay plan.
type Directive struct {
	Kind  DirectiveKind
	Frame *scope.Frame
	// Expr is the expression to synthesize; set for expression directives.
	Expr lowering.ExprID
}

// Plan is the frame-aware directive sequence the emitter renders. A plan is
// a pure function of its module and graph, so re-planning identical inputs
// yields an identical directive sequence.
type Plan struct {
	Module     *linking.LinkedModule
	Graph      *scope.Graph
	Directives []Directive
}

// Planner builds overlay plans.
type Planner struct{}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// BuildPlan walks the frame tree depth first, scheduling each frame's
// expressions in table order inside its open/close pair.
func (p *Planner) BuildPlan(module *linking.LinkedModule, graph *scope.Graph) *Plan {
	plan := &Plan{Module: module, Graph: graph}

	// Group expressions by frame up front; table order keeps the grouping
	// deterministic.
	byFrame := make(map[int][]lowering.ExprID)
	for _, entry := range module.Expressions().Entries() {
		frame := graph.FrameFor(entry.ID)
		byFrame[frame.ID] = append(byFrame[frame.ID], entry.ID)
	}

	var walk func(frame *scope.Frame)
	walk = func(frame *scope.Frame) {
		plan.Directives = append(plan.Directives, Directive{Kind: DirectiveOpenFrame, Frame: frame})
		for _, id := range byFrame[frame.ID] {
			plan.Directives = append(plan.Directives, Directive{Kind: DirectiveExpression, Frame: frame, Expr: id})
		}
		for _, child := range frame.Children {
			walk(child)
		}
		plan.Directives = append(plan.Directives, Directive{Kind: DirectiveCloseFrame, Frame: frame})
	}
	if graph.Root != nil {
		walk(graph.Root)
	}
	return plan
}
