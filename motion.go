package tempo

// Motion is custom per-frame logic bound to a node. Advance is called once
// per MotionEngine.Advance with the frame delta and reports true when the
// motion has finished.
type Motion interface {
	Advance(dt float64) bool
}

// MotionFunc adapts a plain function to Motion.
type MotionFunc func(dt float64) bool

// Advance calls f(dt).
func (f MotionFunc) Advance(dt float64) bool {
	return f(dt)
}

type motionEntry struct {
	id         int
	node       *Node
	motion     Motion
	onComplete func()
	done       bool
	cancelled  bool
}

// MotionEngine runs an ordered list of motions with the same deferred-cancel
// and reentrancy rules as TweenEngine.
type MotionEngine struct {
	active  []motionEntry
	retired []motionEntry

	nextID  int
	pending map[int]struct{}
	current map[int]struct{}

	guard guard
}

// NewMotionEngine creates an empty engine.
func NewMotionEngine() *MotionEngine {
	return &MotionEngine{
		pending: make(map[int]struct{}),
		current: make(map[int]struct{}),
	}
}

// Add appends m to the active list and returns its id. node is the motion's
// target for CancelAllForNode and may be nil. onComplete fires once when m
// reports completion; it does not fire for cancelled motions.
func (e *MotionEngine) Add(node *Node, m Motion, onComplete func()) int {
	if m == nil {
		panic("tempo: cannot add nil motion")
	}
	id := e.nextID
	e.nextID++
	e.active = append(e.active, motionEntry{
		id:         id,
		node:       node,
		motion:     m,
		onComplete: onComplete,
	})
	return id
}

// Cancel removes the motion with the given id at the start of the next
// Advance. Unknown or already retired ids are ignored.
func (e *MotionEngine) Cancel(id int) {
	if id < 0 || id >= e.nextID {
		return
	}
	e.pending[id] = struct{}{}
}

// CancelAllForNode cancels every active motion bound to node.
func (e *MotionEngine) CancelAllForNode(node *Node) {
	for i := range e.active {
		if e.active[i].node == node {
			e.Cancel(e.active[i].id)
		}
	}
}

// Advance runs every active motion once, in insertion order, then retires
// finished and cancelled motions in that order, firing OnComplete for the
// finished ones. A nested call from inside a motion or callback is ignored.
func (e *MotionEngine) Advance(dt float64) {
	if !e.guard.enter("MotionEngine") {
		return
	}
	defer e.guard.exit()

	e.current, e.pending = e.pending, e.current

	// Motions added during this call are appended past n and first run next
	// call. Index every access: Add may grow the backing array.
	n := len(e.active)
	for i := 0; i < n; i++ {
		if _, ok := e.current[e.active[i].id]; ok {
			e.active[i].cancelled = true
			continue
		}
		if e.active[i].motion.Advance(dt) {
			e.active[i].done = true
		}
	}

	// Compact survivors in place, keeping order, and collect the rest.
	kept := 0
	for i := 0; i < len(e.active); i++ {
		en := e.active[i]
		if i < n && (en.done || en.cancelled) {
			e.retired = append(e.retired, en)
			continue
		}
		e.active[kept] = en
		kept++
	}
	for i := kept; i < len(e.active); i++ {
		e.active[i] = motionEntry{}
	}
	e.active = e.active[:kept]

	for i := range e.retired {
		en := e.retired[i]
		e.retired[i] = motionEntry{}
		if en.cancelled {
			delete(e.pending, en.id)
			continue
		}
		if _, ok := e.pending[en.id]; ok {
			// Cancelled by an earlier callback in this call.
			delete(e.pending, en.id)
			continue
		}
		if en.onComplete != nil {
			en.onComplete()
		}
	}
	e.retired = e.retired[:0]

	clear(e.current)
}

// Len returns the number of active motions.
func (e *MotionEngine) Len() int {
	return len(e.active)
}

// Get returns the active motion with the given id, or nil.
func (e *MotionEngine) Get(id int) Motion {
	for i := range e.active {
		if e.active[i].id == id {
			return e.active[i].motion
		}
	}
	return nil
}

// Clear drops every active motion without firing callbacks.
// Panics if called from inside Advance.
func (e *MotionEngine) Clear() {
	if e.guard.active() {
		panic("tempo: MotionEngine.Clear called during Advance")
	}
	clear(e.active)
	e.active = e.active[:0]
	clear(e.pending)
	clear(e.current)
}
