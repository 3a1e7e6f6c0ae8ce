package tempo

import (
	"time"

	"github.com/rs/zerolog"
)

// Scene owns a node tree and the engines that animate it.
type Scene struct {
	root *Node

	// Tweens and Motions are advanced once per Update with the frame delta.
	Tweens  *TweenEngine
	Motions *MotionEngine
	// MotionTypes builds motions by name for AddMotionByName.
	MotionTypes *MotionRegistry

	dispatch  *DeferredDispatch
	content   ContentHandle
	driver    *Driver
	skeletons []*Skeleton

	// walk holds child snapshots for the traversal in advanceNode.
	walk []*Node

	frame      uint64
	debug      bool
	dispatched int
}

// NewScene creates a scene with DefaultConfig.
func NewScene() *Scene {
	return NewSceneWithConfig(DefaultConfig())
}

// NewSceneWithConfig creates a scene from cfg. Zero FrameRate, Epsilon and
// TimeScale take their DefaultConfig values. A non-empty LogLevel is applied
// to the package logger. Panics if the result fails Config.Validate.
func NewSceneWithConfig(cfg Config) *Scene {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		panic("tempo: " + err.Error())
	}
	if cfg.LogLevel != "" && logger.GetLevel() != zerolog.Disabled {
		lvl, _ := cfg.Level()
		SetLogger(logger.Level(lvl))
	}

	s := &Scene{
		root:        NewNode("root"),
		Tweens:      NewTweenEngine(cfg.TweenPool),
		Motions:     NewMotionEngine(),
		MotionTypes: NewMotionRegistry(),
		dispatch:    NewDeferredDispatch(),
	}
	s.content.Store(StaticContent(cfg.FrameRate))
	s.driver = NewDriver(&s.content)
	s.driver.Epsilon = cfg.Epsilon
	s.driver.TimeScale = cfg.TimeScale
	s.driver.MaxSteps = cfg.MaxSteps
	if cfg.Debug {
		s.SetDebugMode(true)
	}
	return s
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Driver returns the scene's fixed-step driver.
func (s *Scene) Driver() *Driver {
	return s.driver
}

// Dispatch returns the queue that defers events raised during traversal.
func (s *Scene) Dispatch() *DeferredDispatch {
	return s.dispatch
}

// Content returns the handle the driver reads the frame rate from. Loaders
// may Store into it from any goroutine.
func (s *Scene) Content() *ContentHandle {
	return &s.content
}

// SetContent publishes c as the scene's content.
func (s *Scene) SetContent(c Content) {
	s.content.Store(c)
}

// SetHandler binds the consumer of deferred events.
func (s *Scene) SetHandler(h AdvanceHandler) {
	s.dispatch.SetHandler(h)
}

// Frame returns the number of completed Update calls.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// AddSkeleton registers sk to be posed every Update, after world transforms
// are refreshed. Skeletons whose owner is disposed are dropped.
func (s *Scene) AddSkeleton(sk *Skeleton) {
	s.skeletons = append(s.skeletons, sk)
}

// RemoveSkeleton unregisters sk.
func (s *Scene) RemoveSkeleton(sk *Skeleton) {
	for i, v := range s.skeletons {
		if v == sk {
			copy(s.skeletons[i:], s.skeletons[i+1:])
			s.skeletons[len(s.skeletons)-1] = nil
			s.skeletons = s.skeletons[:len(s.skeletons)-1]
			return
		}
	}
}

// AddMotionByName builds the motion registered as name for node and adds
// it to Motions.
func (s *Scene) AddMotionByName(name string, node *Node, onComplete func(), args ...float64) (int, error) {
	m, err := s.MotionTypes.New(name, node, args...)
	if err != nil {
		return 0, err
	}
	return s.Motions.Add(node, m, onComplete), nil
}

// Dispose cancels everything animating node, then disposes it.
func (s *Scene) Dispose(node *Node) {
	s.Tweens.CancelAllForNode(node)
	s.Motions.CancelAllForNode(node)
	node.Dispose()
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access and reentrant or cross-goroutine Advance calls panic, and per-frame
// timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// Update advances the scene by dt seconds of wall-clock time:
//
//  1. the fixed-step driver runs zero or more scene-graph steps, each
//     followed by exactly one drain of the deferred event queue;
//  2. tweens, then motions, advance by the unscaled dt;
//  3. world transforms are refreshed;
//  4. skeletons are posed and their attachments updated.
func (s *Scene) Update(dt float64) {
	var stats debugStats
	var t0 time.Time

	if s.debug {
		t0 = time.Now()
	}

	stats.steps = s.driver.Advance(dt, s.step)

	if s.debug {
		stats.stepTime = time.Since(t0)
		stats.dispatched = s.dispatched
		stats.tweens = s.Tweens.Len()
		t0 = time.Now()
	}
	s.dispatched = 0

	s.Tweens.Advance(dt)

	if s.debug {
		stats.tweenTime = time.Since(t0)
		stats.motions = s.Motions.Len()
		t0 = time.Now()
	}

	s.Motions.Advance(dt)

	if s.debug {
		stats.motionTime = time.Since(t0)
		t0 = time.Now()
	}

	updateWorldTransform(s.root, identityTransform, 1.0, false)
	s.tickSkeletons()

	if s.debug {
		stats.boneTime = time.Since(t0)
		s.debugLog(stats)
	}
	s.frame++
}

// step runs one fixed step of the scene graph.
func (s *Scene) step() {
	s.advanceNode(s.root)
	s.dispatched += s.dispatch.Len()
	s.dispatch.DispatchEvents()
}

// advanceNode visits n and then its visible children, depth first. Events
// go to the deferred queue, so handlers never see a half-walked tree.
// Children removed by an earlier sibling's hook are skipped; children added
// during the walk are first visited next step.
func (s *Scene) advanceNode(n *Node) {
	if n.addPending {
		n.addPending = false
		if n.Parent != nil {
			s.dispatch.OnAddToParent(n.Parent, n, n.ClassName)
		}
	}
	if n.EnterFrame {
		s.dispatch.DispatchEnterFrame(n)
	}
	if n.OnAdvance != nil {
		n.OnAdvance(n, s.dispatch)
	}
	if n.disposed || n.disposePending || len(n.children) == 0 {
		return
	}

	base := len(s.walk)
	s.walk = append(s.walk, n.children...)
	end := len(s.walk)
	for i := base; i < end; i++ {
		c := s.walk[i]
		if c.Parent != n || !c.Visible {
			continue
		}
		s.advanceNode(c)
	}
	clear(s.walk[base:])
	s.walk = s.walk[:base]
}

func (s *Scene) tickSkeletons() {
	kept := s.skeletons[:0]
	for _, sk := range s.skeletons {
		if sk.Owner.IsDisposed() {
			continue
		}
		sk.Tick()
		kept = append(kept, sk)
	}
	clear(s.skeletons[len(kept):])
	s.skeletons = kept
}
