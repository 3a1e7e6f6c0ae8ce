package tempo

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// ErrUnknownMotion is returned by MotionRegistry.New for unregistered names.
var ErrUnknownMotion = errors.New("unknown motion")

// MotionFactory builds a motion for node from numeric arguments.
type MotionFactory func(node *Node, args []float64) (Motion, error)

// MotionRegistry creates motions by name, so content and scripts can request
// custom motion logic without linking against its type.
type MotionRegistry struct {
	factories map[string]MotionFactory
}

// NewMotionRegistry creates a registry holding the built-in motions
// "wait", "shake", "orbit" and "follow".
func NewMotionRegistry() *MotionRegistry {
	r := &MotionRegistry{factories: make(map[string]MotionFactory)}
	r.Register("wait", newWaitMotion)
	r.Register("shake", newShakeMotion)
	r.Register("orbit", newOrbitMotion)
	r.Register("follow", newFollowMotion)
	return r
}

// Register adds or replaces the factory for name.
// Panics if name is empty or factory is nil.
func (r *MotionRegistry) Register(name string, factory MotionFactory) {
	if name == "" || factory == nil {
		panic("tempo: motion registration needs a name and a factory")
	}
	r.factories[name] = factory
}

// New builds the motion registered as name.
func (r *MotionRegistry) New(name string, node *Node, args ...float64) (Motion, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("new motion %q: %w", name, ErrUnknownMotion)
	}
	m, err := f(node, args)
	if err != nil {
		return nil, fmt.Errorf("new motion %q: %w", name, err)
	}
	return m, nil
}

// Names returns the registered names in sorted order.
func (r *MotionRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// arg returns args[i] or def when absent.
func arg(args []float64, i int, def float64) float64 {
	if i < len(args) {
		return args[i]
	}
	return def
}

// --- Built-in motions ---

// Wait finishes after Duration seconds without touching any node.
type Wait struct {
	Duration float64
	elapsed  float64
}

// Advance implements Motion.
func (w *Wait) Advance(dt float64) bool {
	w.elapsed += dt
	return w.elapsed >= w.Duration
}

func newWaitMotion(_ *Node, args []float64) (Motion, error) {
	if len(args) < 1 {
		return nil, errors.New("wait needs a duration")
	}
	return &Wait{Duration: args[0]}, nil
}

// Shake jitters Node around its position at the time of the first Advance,
// decaying to nothing over Duration, then restores the position.
type Shake struct {
	Node      *Node
	Amplitude float64
	Duration  float64

	elapsed    float64
	started    bool
	baseX      float64
	baseY      float64
	offX, offY float64
}

// Advance implements Motion.
func (s *Shake) Advance(dt float64) bool {
	if !s.Node.valid() {
		return true
	}
	if !s.started {
		s.started = true
		s.baseX, s.baseY = s.Node.X, s.Node.Y
	}
	s.elapsed += dt
	if s.elapsed >= s.Duration {
		s.Node.SetPosition(s.baseX, s.baseY)
		return true
	}
	// Keep any movement made by others since the last frame.
	s.baseX = s.Node.X - s.offX
	s.baseY = s.Node.Y - s.offY

	a := s.Amplitude * (1 - s.elapsed/s.Duration)
	s.offX = (rand.Float64()*2 - 1) * a
	s.offY = (rand.Float64()*2 - 1) * a
	s.Node.SetPosition(s.baseX+s.offX, s.baseY+s.offY)
	return false
}

func newShakeMotion(node *Node, args []float64) (Motion, error) {
	if node == nil {
		return nil, errors.New("shake needs a node")
	}
	return &Shake{Node: node, Amplitude: arg(args, 0, 4), Duration: arg(args, 1, 0.25)}, nil
}

// Orbit moves Node around (CenterX, CenterY) at Radius, turning Speed radians
// per second, for Duration seconds. A non-positive Duration orbits until
// cancelled.
type Orbit struct {
	Node     *Node
	CenterX  float64
	CenterY  float64
	Radius   float64
	Speed    float64
	Angle    float64
	Duration float64

	elapsed float64
}

// Advance implements Motion.
func (o *Orbit) Advance(dt float64) bool {
	if !o.Node.valid() {
		return true
	}
	o.elapsed += dt
	o.Angle += o.Speed * dt
	sin, cos := math.Sincos(o.Angle)
	o.Node.SetPosition(o.CenterX+cos*o.Radius, o.CenterY+sin*o.Radius)
	return o.Duration > 0 && o.elapsed >= o.Duration
}

func newOrbitMotion(node *Node, args []float64) (Motion, error) {
	if node == nil {
		return nil, errors.New("orbit needs a node")
	}
	return &Orbit{
		Node:     node,
		CenterX:  node.X,
		CenterY:  node.Y,
		Radius:   arg(args, 0, 16),
		Speed:    arg(args, 1, math.Pi),
		Duration: arg(args, 2, 0),
	}, nil
}

// Follow eases Node toward Target's position each frame. Stiffness is the
// fraction of the remaining distance closed per second, in (0, 1]. It
// finishes when either node is disposed.
type Follow struct {
	Node      *Node
	Target    *Node
	Stiffness float64
	OffsetX   float64
	OffsetY   float64
}

// Advance implements Motion.
func (f *Follow) Advance(dt float64) bool {
	if !f.Node.valid() || !f.Target.valid() {
		return true
	}
	k := 1 - math.Pow(1-f.Stiffness, dt)
	tx, ty := f.Target.X+f.OffsetX, f.Target.Y+f.OffsetY
	f.Node.SetPosition(f.Node.X+(tx-f.Node.X)*k, f.Node.Y+(ty-f.Node.Y)*k)
	return false
}

// newFollowMotion makes node trail the sibling added just before it, so a
// row of siblings forms a chain. Args: stiffness, offset x, offset y.
func newFollowMotion(node *Node, args []float64) (Motion, error) {
	if node == nil || node.Parent == nil {
		return nil, errors.New("follow needs a node with a parent")
	}
	var target *Node
	for _, c := range node.Parent.children {
		if c == node {
			break
		}
		target = c
	}
	if target == nil {
		return nil, errors.New("follow needs an earlier sibling to follow")
	}
	stiffness := arg(args, 0, 0.9)
	if stiffness <= 0 || stiffness > 1 {
		return nil, fmt.Errorf("follow stiffness %v outside (0, 1]", stiffness)
	}
	return &Follow{
		Node:      node,
		Target:    target,
		Stiffness: stiffness,
		OffsetX:   arg(args, 1, 0),
		OffsetY:   arg(args, 2, 0),
	}, nil
}
