package tempo

// DeferredKind tags a DeferredEvent.
type DeferredKind uint8

const (
	DeferredAddToParent DeferredKind = iota // OnAddToParent(Parent, Node, ClassName)
	DeferredNamedEvent                      // DispatchEvent(Name, EventKind, Node)
)

// DeferredEvent is one recorded AdvanceHandler call. The node pointers keep
// the nodes reachable until the event is delivered.
type DeferredEvent struct {
	Kind      DeferredKind
	Parent    *Node
	Node      *Node
	ClassName string
	Name      string
	EventKind EventKind

	watches int // watches this event holds on each node it mentions
}

func (ev *DeferredEvent) watch(count int) {
	if ev.Parent != nil {
		ev.Parent.watch(count)
	}
	if ev.Node != nil {
		ev.Node.watch(count)
	}
	ev.watches += count
}

func (ev *DeferredEvent) unwatch(count int) {
	if count > ev.watches {
		count = ev.watches
	}
	if count == 0 {
		return
	}
	if ev.Parent != nil {
		ev.Parent.unwatch(count)
	}
	if ev.Node != nil {
		ev.Node.unwatch(count)
	}
	ev.watches -= count
}

// DeferredDispatch is an AdvanceHandler that records every call in order
// instead of forwarding it, so handlers that mutate the scene graph never run
// while the graph is being traversed. DispatchEvents replays the recording
// against the bound handler at a safe point.
type DeferredDispatch struct {
	handler  AdvanceHandler
	queue    []DeferredEvent
	draining []DeferredEvent
	inDrain  bool

	// watched is the MarkWatched depth. Events queued while it is positive
	// take that many watches on each node they mention.
	watched int
}

// NewDeferredDispatch creates an empty queue with no handler bound.
func NewDeferredDispatch() *DeferredDispatch {
	return &DeferredDispatch{}
}

// SetHandler binds the handler that DispatchEvents delivers to. nil unbinds.
// Binding a handler from inside a drain replaces the draining one afterwards.
func (d *DeferredDispatch) SetHandler(h AdvanceHandler) {
	d.handler = h
}

// Handler returns the bound handler.
func (d *DeferredDispatch) Handler() AdvanceHandler {
	return d.handler
}

// OnAddToParent records an add for later delivery.
func (d *DeferredDispatch) OnAddToParent(parent, child *Node, className string) {
	d.push(DeferredEvent{
		Kind:      DeferredAddToParent,
		Parent:    parent,
		Node:      child,
		ClassName: className,
	})
}

// DispatchEvent records an event for later delivery.
func (d *DeferredDispatch) DispatchEvent(name string, kind EventKind, source *Node) {
	d.push(DeferredEvent{
		Kind:      DeferredNamedEvent,
		Node:      source,
		Name:      name,
		EventKind: kind,
	})
}

// DispatchEnterFrame records EventEnterFrame for n.
func (d *DeferredDispatch) DispatchEnterFrame(n *Node) {
	d.DispatchEvent(EventEnterFrame, EventPlain, n)
}

// Localize passes the lookup straight through to the bound handler when it
// implements Localizer. Lookups are not deferred.
func (d *DeferredDispatch) Localize(token string) (string, bool) {
	if l, ok := d.handler.(Localizer); ok {
		return l.Localize(token)
	}
	return "", false
}

func (d *DeferredDispatch) push(ev DeferredEvent) {
	if d.watched > 0 {
		ev.watch(d.watched)
	}
	d.queue = append(d.queue, ev)
}

// DispatchEvents replays every queued event, in the order recorded, against
// the bound handler and empties the queue. Events recorded while replaying
// are kept for the next call. Returns whether the queue held any events.
//
// With no handler bound the queued events are dropped, releasing their
// watches, and a warning is logged. A nested call from inside a handler is
// ignored and returns false.
func (d *DeferredDispatch) DispatchEvents() bool {
	if len(d.queue) == 0 || d.inDrain {
		return false
	}
	h := d.handler
	if h == nil {
		warn().Int("dropped", len(d.queue)).Msg("DispatchEvents with no handler bound")
		d.drop()
		return true
	}

	// The handler is unbound while draining so anything it triggers through
	// this queue is recorded for the next drain.
	d.inDrain = true
	d.handler = nil
	defer func() {
		d.inDrain = false
		if d.handler == nil {
			d.handler = h
		}
	}()

	d.queue, d.draining = d.draining[:0], d.queue
	for i := range d.draining {
		ev := d.draining[i]
		switch ev.Kind {
		case DeferredAddToParent:
			h.OnAddToParent(ev.Parent, ev.Node, ev.ClassName)
		case DeferredNamedEvent:
			h.DispatchEvent(ev.Name, ev.EventKind, ev.Node)
		}
		// Re-read: the handler may have changed the watch depth.
		ev = d.draining[i]
		d.draining[i] = DeferredEvent{}
		ev.unwatch(ev.watches)
	}
	d.draining = d.draining[:0]
	return true
}

// drop empties the queue without delivering it.
func (d *DeferredDispatch) drop() {
	for i := range d.queue {
		ev := d.queue[i]
		d.queue[i] = DeferredEvent{}
		ev.unwatch(ev.watches)
	}
	d.queue = d.queue[:0]
}

// HasEventsToDispatch reports whether any events are queued.
func (d *DeferredDispatch) HasEventsToDispatch() bool {
	return len(d.queue) > 0
}

// Len returns the number of queued events.
func (d *DeferredDispatch) Len() int {
	return len(d.queue)
}

// Events returns the queued events in delivery order. The returned slice
// MUST NOT be mutated by the caller.
func (d *DeferredDispatch) Events() []DeferredEvent {
	return d.queue
}

// MarkWatched adds a watch to every node mentioned by a queued event, and to
// nodes in events queued later, until the matching MarkNotWatched. A watched
// node that is disposed stays alive (detached) until its last watch is
// released. Calls nest.
func (d *DeferredDispatch) MarkWatched() {
	d.watched++
	for i := range d.queue {
		d.queue[i].watch(1)
	}
	if d.inDrain {
		for i := range d.draining {
			d.draining[i].watch(1)
		}
	}
}

// MarkNotWatched releases one level of MarkWatched.
// Panics without a matching MarkWatched.
func (d *DeferredDispatch) MarkNotWatched() {
	if d.watched == 0 {
		panic("tempo: MarkNotWatched without matching MarkWatched")
	}
	d.watched--
	for i := range d.queue {
		d.queue[i].unwatch(1)
	}
	if d.inDrain {
		for i := range d.draining {
			d.draining[i].unwatch(1)
		}
	}
}

// Clone returns an independent, empty queue for a duplicated scene. Neither
// queued events nor the bound handler are copied.
func (d *DeferredDispatch) Clone() *DeferredDispatch {
	return &DeferredDispatch{
		queue: make([]DeferredEvent, 0, cap(d.queue)),
	}
}
