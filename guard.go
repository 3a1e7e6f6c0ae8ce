package tempo

import (
	"fmt"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// guard rejects nested entry into an Advance call from a callback that the
// same Advance invoked. It is a check, never a wait: collections are owned by
// a single update goroutine and take no locks.
type guard struct {
	depth atomic.Int32
	owner int64 // goroutine that first advanced the collection (debug only)
}

// enter reports whether the caller may proceed. A false return means the
// collection is already advancing; the caller must return without touching
// its lists.
func (g *guard) enter(what string) bool {
	if globalDebug {
		g.checkOwner(what)
	}
	if g.depth.Add(1) != 1 {
		g.depth.Add(-1)
		if globalDebug {
			panic(fmt.Sprintf("tempo debug: reentrant %s.Advance", what))
		}
		warn().Str("collection", what).Msg("reentrant Advance ignored")
		return false
	}
	return true
}

func (g *guard) exit() {
	g.depth.Add(-1)
}

// active reports whether an Advance is in progress.
func (g *guard) active() bool {
	return g.depth.Load() > 0
}

func (g *guard) checkOwner(what string) {
	id := goid.Get()
	if g.owner == 0 {
		g.owner = id
		return
	}
	if g.owner != id {
		panic(fmt.Sprintf("tempo debug: %s advanced from goroutine %d, owned by goroutine %d", what, id, g.owner))
	}
}
