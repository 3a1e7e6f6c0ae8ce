package tempo

// DefaultEpsilon is the tolerance, in seconds, the driver applies when
// comparing banked time against the step duration.
const DefaultEpsilon = 0.001

// Driver turns variable frame deltas into whole fixed steps at the bound
// content's frame rate.
//
//	acc += dt * TimeScale
//	for acc+Epsilon >= step { stepFn(); acc -= step }
//	if acc <= Epsilon { acc = 0 }
//
// The tolerance absorbs floating-point drift: a frame that lands a hair short
// of a step boundary still steps, and the small overshoot left behind is
// discarded rather than banked.
type Driver struct {
	Epsilon   float64
	TimeScale float64
	Paused    bool

	// MaxSteps caps the steps taken by one Advance. Banked time beyond the
	// cap is dropped. Zero means no cap.
	MaxSteps int

	content *ContentHandle
	acc     float64
}

// NewDriver creates a driver reading its frame rate from content, which may
// be nil.
func NewDriver(content *ContentHandle) *Driver {
	return &Driver{
		Epsilon:   DefaultEpsilon,
		TimeScale: 1,
		content:   content,
	}
}

// StepDuration returns the seconds covered by one step.
func (d *Driver) StepDuration() float64 {
	if d.content == nil {
		return 1 / DefaultFrameRate
	}
	return 1 / d.content.FrameRate()
}

// Accumulated returns the banked time not yet consumed by a step.
func (d *Driver) Accumulated() float64 {
	return d.acc
}

// Reset discards banked time.
func (d *Driver) Reset() {
	d.acc = 0
}

// Advance banks dt and calls step once per whole step now available,
// returning the number of steps taken. Negative deltas are ignored. While
// Paused nothing is banked.
func (d *Driver) Advance(dt float64, step func()) int {
	if d.Paused || dt <= 0 {
		return 0
	}
	d.acc += dt * d.TimeScale

	stepDur := d.StepDuration()
	steps := 0
	for d.acc+d.Epsilon >= stepDur {
		if d.MaxSteps > 0 && steps >= d.MaxSteps {
			warn().Int("steps", steps).Float64("dropped", d.acc).Msg("fixed-step cap reached")
			d.acc = 0
			break
		}
		if step != nil {
			step()
		}
		d.acc -= stepDur
		steps++
	}
	if d.acc <= d.Epsilon {
		d.acc = 0
	}
	return steps
}
