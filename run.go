package tempo

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// defaultMaxDelta clamps the wall-clock delta after a stall (window drag,
// breakpoint) so the driver does not try to catch up on seconds of steps.
const defaultMaxDelta = 0.25

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Overlay draws node markers, bone attachments and engine stats.
	Overlay bool
	// MaxDelta clamps each frame's delta in seconds. Zero means 0.25.
	MaxDelta float64
	// Draw, when set, renders the frame before the overlay.
	Draw func(screen *ebiten.Image)
	// OnUpdate, when set, runs after each Scene.Update.
	OnUpdate func(dt float64) error
}

// Run opens a window and drives scene.Update from the ebitengine game loop
// with measured wall-clock deltas. It blocks until the window closes or
// OnUpdate returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	return ebiten.RunGame(newGame(scene, cfg))
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
	last  time.Time
	now   func() time.Time
}

func newGame(scene *Scene, cfg RunConfig) *game {
	if cfg.MaxDelta <= 0 {
		cfg.MaxDelta = defaultMaxDelta
	}
	return &game{scene: scene, cfg: cfg, now: time.Now}
}

func (g *game) Update() error {
	now := g.now()
	dt := frameDelta(g.last, now, g.cfg.MaxDelta)
	g.last = now
	g.scene.Update(dt)
	if g.cfg.OnUpdate != nil {
		return g.cfg.OnUpdate(dt)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.Draw != nil {
		g.cfg.Draw(screen)
	}
	if g.cfg.Overlay {
		DrawOverlay(screen, g.scene)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.cfg.Width > 0 && g.cfg.Height > 0 {
		return g.cfg.Width, g.cfg.Height
	}
	return outsideWidth, outsideHeight
}

// frameDelta returns the seconds between last and now, clamped to
// [0, maxDelta]. The first frame (zero last) has a zero delta.
func frameDelta(last, now time.Time, maxDelta float64) float64 {
	if last.IsZero() {
		return 0
	}
	dt := now.Sub(last).Seconds()
	switch {
	case dt < 0:
		return 0
	case dt > maxDelta:
		return maxDelta
	}
	return dt
}
