package tempo

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("test")
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != "test" {
		t.Errorf("Name = %q, want %q", n.Name, "test")
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 || !n.Visible {
		t.Errorf("Alpha = %v, Visible = %v, want 1, true", n.Alpha, n.Visible)
	}
	assertMatrix(t, "world", n.WorldTransform(), identityTransform)
}

func TestNodeIDsUnique(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	if a.ID == b.ID {
		t.Errorf("IDs collide: %d", a.ID)
	}
}

// --- Tree manipulation ---

func TestAddChild(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent not set")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Error("child not in parent's list")
	}
	if !child.addPending {
		t.Error("AddChild should queue an add notification")
	}
}

func TestAddChildReparents(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	child := NewNode("child")
	a.AddChild(child)
	b.AddChild(child)

	if a.NumChildren() != 0 {
		t.Errorf("old parent still has %d children", a.NumChildren())
	}
	if child.Parent != b {
		t.Error("child.Parent should be the new parent")
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	a.AddChild(b)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on cycle")
		}
	}()
	b.AddChild(a)
}

func TestAddNilChildPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on nil child")
		}
	}()
	NewNode("a").AddChild(nil)
}

func TestRemoveChild(t *testing.T) {
	parent := NewNode("parent")
	c1, c2, c3 := NewNode("c1"), NewNode("c2"), NewNode("c3")
	parent.AddChild(c1)
	parent.AddChild(c2)
	parent.AddChild(c3)

	parent.RemoveChild(c2)

	if c2.Parent != nil {
		t.Error("removed child still has a parent")
	}
	got := parent.Children()
	if len(got) != 2 || got[0] != c1 || got[1] != c3 {
		t.Errorf("children = %v, want [c1 c3]", names(got))
	}
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic")
		}
	}()
	a.RemoveChild(b)
}

func TestRemoveChildren(t *testing.T) {
	parent := NewNode("parent")
	kids := []*Node{NewNode("a"), NewNode("b")}
	for _, k := range kids {
		parent.AddChild(k)
	}
	parent.RemoveChildren()
	if parent.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", parent.NumChildren())
	}
	for _, k := range kids {
		if k.Parent != nil {
			t.Errorf("%s still has a parent", k.Name)
		}
	}
}

// --- Disposal ---

func TestDisposeRecursive(t *testing.T) {
	root := NewNode("root")
	parent := NewNode("parent")
	child := NewNode("child")
	root.AddChild(parent)
	parent.AddChild(child)

	parent.Dispose()

	if !parent.IsDisposed() || !child.IsDisposed() {
		t.Error("parent and child should be disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed node still attached to root")
	}
	if parent.valid() {
		t.Error("disposed node reported valid")
	}
}

func TestDisposeWatchedNodeIsPostponed(t *testing.T) {
	root := NewNode("root")
	n := NewNode("n")
	root.AddChild(n)
	n.watch(1)

	n.Dispose()

	if n.IsDisposed() {
		t.Fatal("watched node disposed early")
	}
	if n.Parent != nil || root.NumChildren() != 0 {
		t.Error("watched node should still be detached")
	}

	n.unwatch(1)
	if !n.IsDisposed() {
		t.Error("node not disposed when its last watch was released")
	}
}

func TestDisposeSkipsWatchedDescendant(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)
	child.watch(2)

	parent.Dispose()

	if !parent.IsDisposed() {
		t.Error("parent should be disposed")
	}
	if child.IsDisposed() {
		t.Fatal("watched child disposed early")
	}
	child.unwatch(1)
	if child.IsDisposed() {
		t.Fatal("child disposed with one watch left")
	}
	child.unwatch(1)
	if !child.IsDisposed() {
		t.Error("child not disposed after last unwatch")
	}
}

func TestUnwatchUnderflowPanics(t *testing.T) {
	n := NewNode("n")
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if !strings.Contains(fmt.Sprint(r), "underflow") {
			t.Errorf("panic = %v", r)
		}
	}()
	n.unwatch(1)
}

func TestDebugModeDisposedNodePanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	child := NewNode("child")
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		if !strings.Contains(fmt.Sprint(r), "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %v", r)
		}
	}()
	s.Root().AddChild(child)
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
