package tempo

import "testing"

// setupBenchScene creates a Scene with n nodes under the root, one in ten
// dispatching EventEnterFrame, and a handler that discards events.
func setupBenchScene(n int) *Scene {
	s := NewScene()
	s.SetHandler(AdvanceFuncs{})
	for i := 0; i < n; i++ {
		nd := NewNode("n")
		nd.X = float64(i%100) * 40
		nd.Y = float64(i/100) * 40
		nd.EnterFrame = i%10 == 0
		s.Root().AddChild(nd)
	}
	// Flush the add notifications.
	s.Update(1.0 / 30)
	return s
}

// --- Tween Benchmarks ---

func BenchmarkTweenEngineAdvance_1000(b *testing.B) {
	e := NewTweenEngine(1000)
	nodes := make([]*Node, 1000)
	for i := range nodes {
		nodes[i] = NewNode("n")
	}
	var restart func(n *Node) func()
	restart = func(n *Node) func() {
		return func() { e.Start(n, PropX, CurveInOutCubic, 0, 100, 1, restart(n)) }
	}
	for _, n := range nodes {
		e.Start(n, PropX, CurveInOutCubic, 0, 100, 1, restart(n))
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.Advance(1.0 / 60)
	}
}

func BenchmarkTweenEngineAcquireRelease(b *testing.B) {
	e := NewTweenEngine(64)
	n := NewNode("n")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.Start(n, PropAlpha, CurveLinear, 1, 0, 0, nil)
		e.Advance(0)
	}
}

// --- Motion Benchmarks ---

func BenchmarkMotionEngineAdvance_1000(b *testing.B) {
	e := NewMotionEngine()
	for i := 0; i < 1000; i++ {
		e.Add(nil, &Orbit{Node: NewNode("n"), Radius: 10, Speed: 1}, nil)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e.Advance(1.0 / 60)
	}
}

// --- Scene Benchmarks ---

func BenchmarkSceneUpdate_1000Nodes(b *testing.B) {
	s := setupBenchScene(1000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Update(1.0 / 30)
	}
}

func BenchmarkSceneUpdate_1000Nodes_Rotating(b *testing.B) {
	s := setupBenchScene(1000)
	nodes := s.Root().Children()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, n := range nodes {
			n.SetRotation(float64(i) * 0.01)
		}
		s.Update(1.0 / 30)
	}
}
