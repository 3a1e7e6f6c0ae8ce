package tempo

import "sync/atomic"

// DefaultFrameRate is the authored frame rate used when no content is bound
// or the content does not specify one.
const DefaultFrameRate = 30.0

// Content is loaded scene content as seen by the fixed-step driver.
type Content interface {
	// FrameRate returns the authored frames per second. Non-positive means
	// unspecified.
	FrameRate() float64
}

// StaticContent is Content with a fixed frame rate.
type StaticContent float64

// FrameRate implements Content.
func (c StaticContent) FrameRate() float64 {
	return float64(c)
}

// contentBox lets an interface value sit behind an atomic.Pointer.
type contentBox struct {
	c Content
}

// ContentHandle hands loaded content from a loader goroutine to the update
// goroutine. Store and Load may be called concurrently; everything else in
// this package belongs to the update goroutine.
type ContentHandle struct {
	p atomic.Pointer[contentBox]
}

// Store publishes c. nil clears the handle.
func (h *ContentHandle) Store(c Content) {
	if c == nil {
		h.p.Store(nil)
		return
	}
	h.p.Store(&contentBox{c: c})
}

// Load returns the most recently stored content, or nil.
func (h *ContentHandle) Load() Content {
	if b := h.p.Load(); b != nil {
		return b.c
	}
	return nil
}

// FrameRate returns the bound content's frame rate, or DefaultFrameRate.
func (h *ContentHandle) FrameRate() float64 {
	if c := h.Load(); c != nil {
		if r := c.FrameRate(); r > 0 {
			return r
		}
	}
	return DefaultFrameRate
}
