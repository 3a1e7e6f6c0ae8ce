package tempo

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

const step30 = 1.0 / 30

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene()
	if s.Root() == nil || s.Root().Name != "root" {
		t.Fatal("root missing")
	}
	if s.Tweens == nil || s.Motions == nil || s.MotionTypes == nil {
		t.Fatal("engines missing")
	}
	assertNear(t, "step", s.Driver().StepDuration(), step30)
	if s.Tweens.Cap() != DefaultConfig().TweenPool {
		t.Errorf("tween pool = %d, want %d", s.Tweens.Cap(), DefaultConfig().TweenPool)
	}
}

func TestSceneAddReportedOnceOnFirstStep(t *testing.T) {
	s := NewScene()
	rec := &recorder{}
	s.SetHandler(rec)

	n := NewNode("n")
	n.ClassName = "Sprite"
	s.Root().AddChild(n)
	if len(rec.log) != 0 {
		t.Fatal("add reported before any step")
	}

	s.Update(step30)
	s.Update(step30)

	assertLog(t, rec.log, "add root>n:Sprite")
}

func TestSceneNoStepNoTraversal(t *testing.T) {
	s := NewScene()
	rec := &recorder{}
	s.SetHandler(rec)
	n := NewNode("n")
	n.EnterFrame = true
	s.Root().AddChild(n)

	x := NewNode("x")
	s.Root().AddChild(x)
	s.Tweens.Start(x, PropX, CurveLinear, 0, 100, 1, nil)

	// Less than one step: tweens still run on the real delta.
	s.Update(0.01)

	if len(rec.log) != 0 {
		t.Errorf("events without a step: %q", rec.log)
	}
	assertApprox(t, "tween X", x.X, 1)
}

func TestSceneEnterFramePerStep(t *testing.T) {
	s := NewScene()
	rec := &recorder{}
	s.SetHandler(rec)
	n := NewNode("n")
	n.EnterFrame = true
	s.Root().AddChild(n)

	// 0.1s is three steps, each drained on its own.
	drains := 0
	n.OnAdvance = func(*Node, AdvanceHandler) {
		if s.Dispatch().Len() == 0 {
			t.Error("hook ran after the step's drain")
		}
		drains++
	}
	s.Update(0.1)

	if drains != 3 {
		t.Fatalf("steps = %d, want 3", drains)
	}
	assertLog(t, rec.log,
		"add root>n:", "enterFrame@n/0",
		"enterFrame@n/0",
		"enterFrame@n/0",
	)
}

func TestSceneHandlerRunsAfterTraversal(t *testing.T) {
	s := NewScene()
	a := NewNode("a")
	b := NewNode("b")
	s.Root().AddChild(a)
	s.Root().AddChild(b)

	a.OnAdvance = func(n *Node, h AdvanceHandler) {
		h.DispatchEvent("boom", EventPlain, n)
	}
	bVisits := 0
	b.OnAdvance = func(*Node, AdvanceHandler) { bVisits++ }

	var sawB int
	s.SetHandler(AdvanceFuncs{
		Dispatch: func(name string, _ EventKind, _ *Node) {
			if name == "boom" {
				sawB = bVisits
				s.Dispose(b)
			}
		},
	})

	s.Update(step30)
	if sawB != 1 {
		t.Errorf("handler ran before b was visited (visits = %d)", sawB)
	}
	s.Update(step30)
	if bVisits != 1 {
		t.Errorf("disposed node visited again: %d", bVisits)
	}
}

func TestSceneSiblingRemovedDuringWalkIsSkipped(t *testing.T) {
	s := NewScene()
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	for _, n := range []*Node{a, b, c} {
		s.Root().AddChild(n)
	}
	var visited []string
	visit := func(n *Node, _ AdvanceHandler) { visited = append(visited, n.Name) }
	b.OnAdvance = visit
	c.OnAdvance = visit
	late := NewNode("late")
	late.OnAdvance = visit
	a.OnAdvance = func(n *Node, _ AdvanceHandler) {
		visited = append(visited, n.Name)
		if len(visited) == 1 {
			b.RemoveFromParent()
			s.Root().AddChild(late)
		}
	}

	s.Update(step30)

	want := []string{"a", "c"}
	if len(visited) != len(want) || visited[0] != "a" || visited[1] != "c" {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	s.Update(step30)
	if visited[len(visited)-1] != "late" {
		t.Errorf("node added during the walk not visited next step: %v", visited)
	}
}

func TestSceneInvisibleSubtreeNotAdvanced(t *testing.T) {
	s := NewScene()
	hidden := NewNode("hidden")
	hidden.Visible = false
	child := NewNode("child")
	hidden.AddChild(child)
	s.Root().AddChild(hidden)

	visits := 0
	child.OnAdvance = func(*Node, AdvanceHandler) { visits++ }
	s.Update(step30)
	if visits != 0 {
		t.Errorf("child of invisible node advanced %d times", visits)
	}

	hidden.Visible = true
	s.Update(step30)
	if visits != 1 {
		t.Errorf("visits = %d, want 1", visits)
	}
}

func TestSceneEventsOrderedWithinStep(t *testing.T) {
	s := NewScene()
	rec := &recorder{}
	s.SetHandler(rec)
	n := NewNode("n")
	s.Root().AddChild(n)
	s.Update(step30) // flush the add
	rec.log = nil

	n.OnAdvance = func(n *Node, h AdvanceHandler) {
		h.DispatchEvent("E1", EventPlain, n)
		h.DispatchEvent("E2", EventPlain, n)
		h.DispatchEvent("E3", EventPlain, n)
	}
	s.Update(step30)

	assertLog(t, rec.log, "E1@n/0", "E2@n/0", "E3@n/0")
	if s.Dispatch().HasEventsToDispatch() {
		t.Error("queue not empty after the step")
	}
}

func TestSceneDisposeCancelsAnimations(t *testing.T) {
	s := NewScene()
	n := NewNode("n")
	s.Root().AddChild(n)
	fired := false
	s.Tweens.Start(n, PropX, CurveLinear, 0, 10, 0.1, func() { fired = true })
	s.Motions.Add(n, &countdown{n: 1}, func() { fired = true })

	s.Dispose(n)
	s.Update(1)

	if fired {
		t.Error("callbacks fired for a disposed node's animations")
	}
	if s.Tweens.Len() != 0 || s.Motions.Len() != 0 {
		t.Errorf("tweens = %d, motions = %d", s.Tweens.Len(), s.Motions.Len())
	}
}

func TestSceneTweensBeforeMotions(t *testing.T) {
	s := NewScene()
	n := NewNode("n")
	s.Root().AddChild(n)
	s.Tweens.Start(n, PropX, CurveLinear, 0, 100, 1, nil)
	var seen float64
	s.Motions.Add(n, MotionFunc(func(float64) bool {
		seen = n.X
		return true
	}), nil)

	s.Update(0.5)
	assertApprox(t, "X seen by motion", seen, 50)
}

func TestSceneAddMotionByName(t *testing.T) {
	s := NewScene()
	n := NewNode("n")
	s.Root().AddChild(n)

	done := false
	if _, err := s.AddMotionByName("wait", n, func() { done = true }, 0.2); err != nil {
		t.Fatal(err)
	}
	s.Update(0.1)
	s.Update(0.1)
	if !done {
		t.Error("wait motion did not complete")
	}

	if _, err := s.AddMotionByName("nope", n, nil); !errors.Is(err, ErrUnknownMotion) {
		t.Errorf("err = %v, want ErrUnknownMotion", err)
	}
}

func TestSceneDropsSkeletonOfDisposedOwner(t *testing.T) {
	s := NewScene()
	owner := NewNode("owner")
	s.Root().AddChild(owner)
	a := NewSkeleton(owner, []Bone{{Parent: -1}})
	b := NewSkeleton(NewNode("other"), []Bone{{Parent: -1}})
	s.AddSkeleton(a)
	s.AddSkeleton(b)

	owner.Dispose()
	s.Update(0)

	if len(s.skeletons) != 1 || s.skeletons[0] != b {
		t.Errorf("skeletons = %d, want only b", len(s.skeletons))
	}
	s.RemoveSkeleton(b)
	if len(s.skeletons) != 0 {
		t.Error("RemoveSkeleton left the skeleton registered")
	}
}

func TestSceneSetContentChangesStep(t *testing.T) {
	s := NewScene()
	s.SetContent(StaticContent(60))
	steps := 0
	s.Root().OnAdvance = func(*Node, AdvanceHandler) { steps++ }
	s.Update(step30)
	if steps != 2 {
		t.Errorf("steps = %d, want 2", steps)
	}
	if s.Content().FrameRate() != 60 {
		t.Errorf("FrameRate = %v", s.Content().FrameRate())
	}
}

func TestSceneFrameCounter(t *testing.T) {
	s := NewScene()
	for i := 0; i < 3; i++ {
		s.Update(0)
	}
	if s.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", s.Frame())
	}
}

func TestSceneDebugModeUpdate(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	s.Root().AddChild(NewNode("n"))
	s.Update(0.1)
	if !globalDebug {
		t.Error("SetDebugMode did not set the package flag")
	}
}

func TestNewSceneWithConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameRate = 24
	cfg.TimeScale = 0.5
	cfg.MaxSteps = 4
	cfg.TweenPool = 8
	s := NewSceneWithConfig(cfg)

	assertNear(t, "step", s.Driver().StepDuration(), 1.0/24)
	if s.Driver().TimeScale != 0.5 || s.Driver().MaxSteps != 4 {
		t.Errorf("driver = %+v", s.Driver())
	}
	if s.Tweens.Cap() != 8 {
		t.Errorf("tween pool = %d, want 8", s.Tweens.Cap())
	}
}

func TestSceneWithoutHandlerQueueStaysBounded(t *testing.T) {
	s := NewScene()
	for i := 0; i < 10; i++ {
		n := NewNode("n")
		n.EnterFrame = true
		s.Root().AddChild(n)
	}
	for i := 0; i < 600; i++ {
		s.Update(step30)
	}
	if got := s.Dispatch().Len(); got != 0 {
		t.Errorf("queued after 600 frames with no handler = %d, want 0", got)
	}
}

func TestNewSceneWithZeroConfig(t *testing.T) {
	s := NewSceneWithConfig(Config{})
	def := DefaultConfig()

	assertNear(t, "step", s.Driver().StepDuration(), 1/def.FrameRate)
	if s.Driver().TimeScale != def.TimeScale || s.Driver().Epsilon != def.Epsilon {
		t.Errorf("driver = %+v", s.Driver())
	}
	if got := s.Driver().Advance(1, nil); got != 30 {
		t.Errorf("steps for 1s = %d, want 30", got)
	}
}

func TestNewSceneWithInvalidConfigPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic")
		}
	}()
	NewSceneWithConfig(Config{TimeScale: -1})
}

func TestNewSceneWithConfigAppliesLogLevel(t *testing.T) {
	captureLog(t, zerolog.DebugLevel)

	NewScene()
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("level = %v after NewScene, want debug kept", logger.GetLevel())
	}

	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	NewSceneWithConfig(cfg)
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}
}

func TestSceneWatchedNodeDisposedInHookStopsWalk(t *testing.T) {
	s := NewScene()
	rec := &recorder{}
	s.SetHandler(rec)
	n := NewNode("n")
	child := NewNode("child")
	n.AddChild(child)
	s.Root().AddChild(n)
	s.Update(step30) // flush the adds

	var childRan bool
	child.OnAdvance = func(*Node, AdvanceHandler) { childRan = true }
	n.EnterFrame = true
	n.OnAdvance = func(n *Node, _ AdvanceHandler) { n.Dispose() }

	s.Dispatch().MarkWatched()
	defer s.Dispatch().MarkNotWatched()
	s.Update(step30)

	if childRan {
		t.Error("child of a node disposed in its hook was still advanced")
	}
	if !n.IsDisposed() {
		t.Error("dispose did not complete after the drain")
	}
}
