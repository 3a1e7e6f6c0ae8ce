package tempo

import "fmt"

// nodeIDCounter is a plain counter (no atomic; tempo is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element animated by tweens, motions and bone
// attachments. A single flat struct is used for every node so property writes
// on the hot path avoid interface dispatch.
type Node struct {
	// Identity
	ID        uint32
	Name      string
	ClassName string // reported to OnAddToParent when the node is first advanced

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Rotation is in radians.
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64

	// Depth3D biases the node toward or away from the camera.
	Depth3D float64

	// Computed by updateWorldTransform.
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Visibility
	Alpha   float64
	Visible bool

	// EnterFrame dispatches EventEnterFrame for this node every scene step.
	EnterFrame bool

	// OnAdvance runs once per scene step. Events it raises through h are
	// deferred until the step's traversal has finished.
	OnAdvance func(n *Node, h AdvanceHandler)

	// Metadata
	UserData any

	// Internal
	addPending     bool
	watchCount     int
	disposePending bool
	disposed       bool
}

// NewNode creates a node with identity transform, full alpha, and visible.
func NewNode(name string) *Node {
	return &Node{
		ID:             nextNodeID(),
		Name:           name,
		ScaleX:         1,
		ScaleY:         1,
		Alpha:          1,
		Visible:        true,
		worldTransform: identityTransform,
		worldAlpha:     1,
		transformDirty: true,
	}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children. If child already has a
// parent, it is removed from that parent first. The add is reported through
// OnAddToParent on the next scene step.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("tempo: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("tempo: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	child.addPending = true
	n.children = append(n.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("tempo: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	child.addPending = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for i, child := range n.children {
		child.Parent = nil
		child.addPending = false
		markSubtreeDirty(child)
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed, and
// recursively disposes all descendants. While a deferred event still refers
// to the node (see DeferredDispatch.MarkWatched), the node is only detached;
// disposal completes once the last watch is released.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	if n.watchCount > 0 {
		n.disposePending = true
		return
	}
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.disposePending = false
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		if child.watchCount > 0 {
			child.disposePending = true
			continue
		}
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.OnAdvance = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// Watched reports whether a pending deferred event still refers to this node.
func (n *Node) Watched() bool {
	return n.watchCount > 0
}

// watch and unwatch adjust the count of deferred events keeping n alive.
func (n *Node) watch(count int) {
	n.watchCount += count
}

func (n *Node) unwatch(count int) {
	n.watchCount -= count
	if n.watchCount < 0 {
		panic(fmt.Sprintf("tempo: watch count underflow on node %q", n.Name))
	}
	if n.watchCount == 0 && n.disposePending {
		n.dispose()
	}
}

// valid reports whether property writes to n are still meaningful.
func (n *Node) valid() bool {
	return n != nil && !n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
