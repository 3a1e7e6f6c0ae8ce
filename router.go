package tempo

// Event is delivered to listeners registered with EventRouter.Listen.
type Event struct {
	Name   string
	Kind   EventKind
	Source *Node // node that raised the event
	Target *Node // node whose listener is running

	stopped bool
}

// StopPropagation prevents delivery to ancestors of Target and to
// router-wide listeners.
func (e *Event) StopPropagation() {
	e.stopped = true
}

type eventListener struct {
	id   uint32
	node *Node
	fn   func(*Event)
}

type addedListener struct {
	id uint32
	fn func(parent, child *Node, className string)
}

// EventRouter is an AdvanceHandler that delivers events to listeners
// registered per node and event name. Bubbling events are delivered to the
// source node and then to each ancestor in turn. Bind it with
// Scene.SetHandler; the scene's DeferredDispatch calls it after traversal.
type EventRouter struct {
	listeners map[string][]eventListener
	added     []addedListener
	nextID    uint32

	// Translations backs Localize. nil resolves nothing.
	Translations map[string]string
}

// NewEventRouter creates a router with no listeners.
func NewEventRouter() *EventRouter {
	return &EventRouter{listeners: make(map[string][]eventListener)}
}

// ListenerHandle removes a listener registered with an EventRouter.
type ListenerHandle struct {
	id     uint32
	name   string
	router *EventRouter
}

// Remove unregisters the listener. Safe to call more than once, and from
// inside the listener itself.
func (h ListenerHandle) Remove() {
	if h.router == nil {
		return
	}
	if h.name == "" && h.id != 0 {
		h.router.added = removeAddedListener(h.router.added, h.id)
		return
	}
	ls := h.router.listeners[h.name]
	for i := range ls {
		if ls[i].id == h.id {
			copy(ls[i:], ls[i+1:])
			ls[len(ls)-1] = eventListener{}
			h.router.listeners[h.name] = ls[:len(ls)-1]
			return
		}
	}
}

func removeAddedListener(s []addedListener, id uint32) []addedListener {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = addedListener{}
			return s[:len(s)-1]
		}
	}
	return s
}

// Listen registers fn for events called name arriving at node. A nil node
// listens router-wide and runs after node listeners unless propagation was
// stopped. Panics if name is empty or fn is nil.
func (r *EventRouter) Listen(node *Node, name string, fn func(*Event)) ListenerHandle {
	if name == "" || fn == nil {
		panic("tempo: Listen needs an event name and a callback")
	}
	r.nextID++
	id := r.nextID
	r.listeners[name] = append(r.listeners[name], eventListener{id: id, node: node, fn: fn})
	return ListenerHandle{id: id, name: name, router: r}
}

// OnAdded registers fn for every add-to-parent notification.
func (r *EventRouter) OnAdded(fn func(parent, child *Node, className string)) ListenerHandle {
	if fn == nil {
		panic("tempo: OnAdded needs a callback")
	}
	r.nextID++
	id := r.nextID
	r.added = append(r.added, addedListener{id: id, fn: fn})
	return ListenerHandle{id: id, router: r}
}

// OnAddToParent implements AdvanceHandler.
func (r *EventRouter) OnAddToParent(parent, child *Node, className string) {
	if len(r.added) == 0 {
		return
	}
	// Snapshot: listeners may remove themselves.
	fns := make([]func(parent, child *Node, className string), len(r.added))
	for i := range r.added {
		fns[i] = r.added[i].fn
	}
	for _, fn := range fns {
		fn(parent, child, className)
	}
}

// DispatchEvent implements AdvanceHandler.
func (r *EventRouter) DispatchEvent(name string, kind EventKind, source *Node) {
	if len(r.listeners[name]) == 0 {
		return
	}
	ev := &Event{Name: name, Kind: kind, Source: source}
	for n := source; n != nil; n = n.Parent {
		ev.Target = n
		r.deliver(ev, n)
		if ev.stopped || kind != EventBubbling {
			break
		}
	}
	if !ev.stopped {
		ev.Target = nil
		r.deliver(ev, nil)
	}
}

// deliver runs the listeners for ev.Name bound to node, in registration
// order, over a snapshot of the listener list.
func (r *EventRouter) deliver(ev *Event, node *Node) {
	ls := r.listeners[ev.Name]
	var fns []func(*Event)
	for i := range ls {
		if ls[i].node == node {
			fns = append(fns, ls[i].fn)
		}
	}
	for _, fn := range fns {
		fn(ev)
	}
}

// Localize implements Localizer from Translations.
func (r *EventRouter) Localize(token string) (string, bool) {
	s, ok := r.Translations[token]
	return s, ok
}
