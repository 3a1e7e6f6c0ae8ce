package tempo

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// globalDebug mirrors the most recently set Scene debug flag so that engine
// and node operations (which lack a Scene pointer) can check it cheaply. Only
// valid with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// logger is the package logger. Silent until SetLogger is called.
var logger = zerolog.Nop()

// warnLimiter caps warnings raised from per-frame paths so a fault that
// repeats every frame does not flood the log.
var warnLimiter = rate.NewLimiter(rate.Every(time.Second), 5)

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// NewConsoleLogger returns a human-readable stderr logger at the given level.
func NewConsoleLogger(level zerolog.Level) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	return zerolog.New(w).Level(level).With().Timestamp().Str("lib", "tempo").Logger()
}

// warn returns a rate-limited warning event, or nil when the budget for this
// second is spent. zerolog treats a nil event as disabled.
func warn() *zerolog.Event {
	if !warnLimiter.Allow() {
		return nil
	}
	return logger.Warn()
}

// debugStats holds per-update timing and queue metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	stepTime   time.Duration
	tweenTime  time.Duration
	motionTime time.Duration
	boneTime   time.Duration
	steps      int
	tweens     int
	motions    int
	dispatched int
}

// debugLog writes timing and queue stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.stepTime + stats.tweenTime + stats.motionTime + stats.boneTime
	logger.Debug().
		Uint64("frame", s.frame).
		Int("steps", stats.steps).
		Int("tweens", stats.tweens).
		Int("motions", stats.motions).
		Int("dispatched", stats.dispatched).
		Dur("step", stats.stepTime).
		Dur("tween", stats.tweenTime).
		Dur("motion", stats.motionTime).
		Dur("bones", stats.boneTime).
		Dur("total", total).
		Msg("update")
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("tempo debug: %s on disposed node %q", op, n.Name))
	}
}
