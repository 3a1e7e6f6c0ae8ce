package tempo

// EventKind distinguishes events delivered to their source node only from
// events that continue up the parent chain.
type EventKind uint8

const (
	EventPlain    EventKind = iota // delivered to the source node
	EventBubbling                  // delivered to the source, then each ancestor
)

// EventEnterFrame is dispatched for nodes with EnterFrame set, once per
// scene step.
const EventEnterFrame = "enterFrame"

// AdvanceHandler receives the lifecycle and event callbacks produced while
// the scene graph advances.
type AdvanceHandler interface {
	// OnAddToParent reports that child was added under parent.
	OnAddToParent(parent, child *Node, className string)
	// DispatchEvent delivers a named event raised by source.
	DispatchEvent(name string, kind EventKind, source *Node)
}

// Localizer resolves localization tokens referenced by dispatched events.
// Handlers may implement it; DeferredDispatch passes lookups through.
type Localizer interface {
	Localize(token string) (string, bool)
}

// AdvanceFuncs adapts plain functions to AdvanceHandler. Nil fields are
// skipped.
type AdvanceFuncs struct {
	AddToParent func(parent, child *Node, className string)
	Dispatch    func(name string, kind EventKind, source *Node)
}

// OnAddToParent implements AdvanceHandler.
func (f AdvanceFuncs) OnAddToParent(parent, child *Node, className string) {
	if f.AddToParent != nil {
		f.AddToParent(parent, child, className)
	}
}

// DispatchEvent implements AdvanceHandler.
func (f AdvanceFuncs) DispatchEvent(name string, kind EventKind, source *Node) {
	if f.Dispatch != nil {
		f.Dispatch(name, kind, source)
	}
}
