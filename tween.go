package tempo

import "github.com/tanema/gween/ease"

// Property selects which node value a Tween writes.
type Property uint8

const (
	PropTimer    Property = iota // touches nothing; fires OnComplete after Duration
	PropAlpha                    // multiply alpha
	PropDepth3D                  // depth bias
	PropX                        // local position X
	PropY                        // local position Y
	PropRotation                 // local rotation in radians
	PropScaleX                   // local scale X
	PropScaleY                   // local scale Y
)

// nilSlot terminates the index-linked active list.
const nilSlot int32 = -1

type tweenState uint8

const (
	tweenFree tweenState = iota
	tweenActive
	tweenComplete
	tweenCancelled
)

// Tween interpolates one Property of Target from From to To over Duration
// seconds. Tweens live in a TweenEngine's pool: a *Tween returned by Acquire
// is valid until it retires, after which the engine reuses it.
type Tween struct {
	Target   *Node
	Property Property
	Curve    Curve
	// Ease, when set, replaces Curve with any gween easing function.
	Ease     ease.TweenFunc
	From     float64
	To       float64
	Duration float64

	// OnComplete fires once when the tween reaches Duration. It does not fire
	// for cancelled tweens.
	OnComplete func()

	id      int
	elapsed float64
	slot    int32
	prev    int32
	next    int32
	state   tweenState
}

// ID returns the identifier assigned at Acquire.
func (t *Tween) ID() int {
	return t.id
}

// Elapsed returns the seconds advanced so far.
func (t *Tween) Elapsed() float64 {
	return t.elapsed
}

// Progress returns elapsed/Duration clamped to [0, 1]. A non-positive
// Duration is complete immediately.
func (t *Tween) Progress() float64 {
	if t.Duration <= 0 {
		return 1
	}
	p := t.elapsed / t.Duration
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Value returns the interpolated value at the current progress.
func (t *Tween) Value() float64 {
	var w float64
	if t.Ease != nil {
		w = applyEase(t.Ease, t.Progress())
	} else {
		w = t.Curve.Apply(t.Progress())
	}
	return t.From + (t.To-t.From)*w
}

// advance moves the tween forward by dt and writes the new value to the
// target. An invalid target skips the write but keeps the clock running so
// OnComplete still fires on schedule. Returns true once complete.
func (t *Tween) advance(dt float64) bool {
	if dt > 0 {
		t.elapsed += dt
	}
	if t.Property != PropTimer && t.Target.valid() {
		t.Target.SetProperty(t.Property, t.Value())
	}
	return t.Progress() >= 1
}

// TweenEngine advances a pool of tweens. Slots are allocated once and
// recycled through a free-index stack; active tweens are chained by slot
// index in insertion order.
//
// Cancel and CancelAllForNode never mutate the active list directly: they
// are applied at the start of the next Advance, because they are usually
// called from completion callbacks running inside Advance.
type TweenEngine struct {
	slots []*Tween
	free  []int32
	head  int32
	tail  int32
	count int

	nextID  int
	pending map[int]struct{}
	current map[int]struct{}

	guard guard
}

// NewTweenEngine creates an engine with prealloc pooled slots ready for use.
func NewTweenEngine(prealloc int) *TweenEngine {
	e := &TweenEngine{
		head:    nilSlot,
		tail:    nilSlot,
		pending: make(map[int]struct{}),
		current: make(map[int]struct{}),
	}
	if prealloc > 0 {
		e.slots = make([]*Tween, prealloc)
		e.free = make([]int32, prealloc)
		for i := range e.slots {
			e.slots[i] = &Tween{slot: int32(i), prev: nilSlot, next: nilSlot}
			// Reverse order so slot 0 is handed out first.
			e.free[prealloc-1-i] = int32(i)
		}
	}
	return e
}

// Acquire returns a reset tween linked at the tail of the active list. It
// starts as a zero-duration timer; configure it before the next Advance.
func (e *TweenEngine) Acquire() *Tween {
	var t *Tween
	if n := len(e.free); n > 0 {
		t = e.slots[e.free[n-1]]
		e.free = e.free[:n-1]
	} else {
		t = &Tween{slot: int32(len(e.slots))}
		e.slots = append(e.slots, t)
	}

	*t = Tween{slot: t.slot, prev: nilSlot, next: nilSlot}
	t.id = e.nextID
	e.nextID++
	t.state = tweenActive
	e.linkBack(t)
	e.count++
	return t
}

// Start acquires and configures a tween in one call and returns its id.
func (e *TweenEngine) Start(target *Node, prop Property, curve Curve, from, to, duration float64, onComplete func()) int {
	t := e.Acquire()
	t.Target = target
	t.Property = prop
	t.Curve = curve
	t.From = from
	t.To = to
	t.Duration = duration
	t.OnComplete = onComplete
	return t.id
}

// StartTo is Start with From read from the target's current value.
func (e *TweenEngine) StartTo(target *Node, prop Property, curve Curve, to, duration float64, onComplete func()) int {
	from := 0.0
	if target.valid() {
		from = target.Property(prop)
	}
	return e.Start(target, prop, curve, from, to, duration, onComplete)
}

// Cancel retires the tween with the given id at the start of the next
// Advance without firing its OnComplete. Unknown or already retired ids are
// ignored.
func (e *TweenEngine) Cancel(id int) {
	if id < 0 || id >= e.nextID {
		return
	}
	e.pending[id] = struct{}{}
}

// CancelAllForNode cancels every active tween targeting node.
func (e *TweenEngine) CancelAllForNode(node *Node) {
	for i := e.head; i != nilSlot; i = e.slots[i].next {
		t := e.slots[i]
		if t.Target == node {
			e.Cancel(t.id)
		}
	}
}

// Advance moves every active tween forward by dt seconds. All numeric
// updates happen first, in insertion order; finished and cancelled tweens are
// then retired in the same order, firing OnComplete for those that finished.
// A nested call from inside a callback is ignored.
func (e *TweenEngine) Advance(dt float64) {
	if !e.guard.enter("TweenEngine") {
		return
	}
	defer e.guard.exit()

	// Cancels requested before this call apply now. Cancels requested by
	// callbacks during this call land in pending and apply next time.
	e.current, e.pending = e.pending, e.current

	// Tweens acquired by callbacks below are linked after tail and wait for
	// the next call.
	last := e.tail
	for i := e.head; i != nilSlot; {
		t := e.slots[i]
		if _, ok := e.current[t.id]; ok {
			t.state = tweenCancelled
		} else if t.advance(dt) {
			t.state = tweenComplete
		}
		if i == last {
			break
		}
		i = t.next
	}

	for i := e.head; i != nilSlot; {
		t := e.slots[i]
		next := t.next
		stop := i == last
		switch t.state {
		case tweenCancelled:
			delete(e.pending, t.id)
			e.release(t)
		case tweenComplete:
			if _, ok := e.pending[t.id]; ok {
				// Cancelled by an earlier callback in this call.
				delete(e.pending, t.id)
				e.release(t)
				break
			}
			onComplete := t.OnComplete
			// Release before the callback so it may acquire the slot again.
			e.release(t)
			if onComplete != nil {
				onComplete()
			}
		}
		if stop {
			break
		}
		i = next
	}

	clear(e.current)
}

// Len returns the number of active tweens.
func (e *TweenEngine) Len() int {
	return e.count
}

// Cap returns the number of pooled slots, active or free.
func (e *TweenEngine) Cap() int {
	return len(e.slots)
}

// Get returns the active tween with the given id, or nil.
func (e *TweenEngine) Get(id int) *Tween {
	for i := e.head; i != nilSlot; i = e.slots[i].next {
		if t := e.slots[i]; t.id == id {
			return t
		}
	}
	return nil
}

// Clear retires every active tween without firing callbacks and drops any
// pending cancels. Panics if called from inside Advance.
func (e *TweenEngine) Clear() {
	if e.guard.active() {
		panic("tempo: TweenEngine.Clear called during Advance")
	}
	for e.head != nilSlot {
		e.release(e.slots[e.head])
	}
	clear(e.pending)
	clear(e.current)
}

// linkBack appends t to the active list.
func (e *TweenEngine) linkBack(t *Tween) {
	t.prev = e.tail
	t.next = nilSlot
	if e.tail != nilSlot {
		e.slots[e.tail].next = t.slot
	} else {
		e.head = t.slot
	}
	e.tail = t.slot
}

// unlink removes t from the active list.
func (e *TweenEngine) unlink(t *Tween) {
	if t.prev != nilSlot {
		e.slots[t.prev].next = t.next
	} else {
		e.head = t.next
	}
	if t.next != nilSlot {
		e.slots[t.next].prev = t.prev
	} else {
		e.tail = t.prev
	}
	t.prev = nilSlot
	t.next = nilSlot
}

// release unlinks t and returns its slot to the free stack, dropping its
// node and callback references.
func (e *TweenEngine) release(t *Tween) {
	e.unlink(t)
	t.Target = nil
	t.OnComplete = nil
	t.Ease = nil
	t.state = tweenFree
	e.free = append(e.free, t.slot)
	e.count--
}
