package tempo

import (
	"encoding/json"
	"fmt"
)

// scriptStep is one action in a frame script.
type scriptStep struct {
	Action string    `json:"action"`
	DT     float64   `json:"dt,omitempty"`
	Frames int       `json:"frames,omitempty"`
	Deltas []float64 `json:"deltas,omitempty"`
	Value  float64   `json:"value,omitempty"`
}

// frameCount returns how many Update calls an "advance" step makes.
func (st *scriptStep) frameCount() int {
	if len(st.Deltas) > 0 {
		return len(st.Deltas)
	}
	if st.Frames > 0 {
		return st.Frames
	}
	return 1
}

func (st *scriptStep) delta(i int) float64 {
	if len(st.Deltas) > 0 {
		return st.Deltas[i]
	}
	return st.DT
}

// frameScript is the top-level JSON structure for a frame script.
type frameScript struct {
	Steps []scriptStep `json:"steps"`
}

// FrameScript replays a recorded sequence of frame deltas and driver
// controls against a Scene, one Update per Step. Scripts are JSON:
//
//	{"steps": [
//	  {"action": "advance", "dt": 0.0166, "frames": 3},
//	  {"action": "advance", "deltas": [0.016, 0.020, 0.013]},
//	  {"action": "timescale", "value": 0.5},
//	  {"action": "pause"},
//	  {"action": "resume"}
//	]}
type FrameScript struct {
	steps  []scriptStep
	cursor int
	sub    int
}

// LoadFrameScript parses and validates a JSON frame script.
func LoadFrameScript(jsonData []byte) (*FrameScript, error) {
	var script frameScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse frame script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse frame script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "advance":
			if st.DT < 0 || st.Frames < 0 {
				return nil, fmt.Errorf("parse frame script: step %d: negative dt or frames", i)
			}
			for _, d := range st.Deltas {
				if d < 0 {
					return nil, fmt.Errorf("parse frame script: step %d: negative delta %v", i, d)
				}
			}
		case "timescale":
			if st.Value < 0 {
				return nil, fmt.Errorf("parse frame script: step %d: negative timescale %v", i, st.Value)
			}
		case "pause", "resume":
		default:
			return nil, fmt.Errorf("parse frame script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &FrameScript{steps: script.Steps}, nil
}

// Done reports whether every step has been executed.
func (r *FrameScript) Done() bool {
	return r.cursor >= len(r.steps)
}

// Step applies control actions up to the next frame and runs that frame
// through s.Update. Returns false once the script is exhausted.
func (r *FrameScript) Step(s *Scene) bool {
	for r.cursor < len(r.steps) {
		st := &r.steps[r.cursor]
		switch st.Action {
		case "advance":
			dt := st.delta(r.sub)
			r.sub++
			if r.sub >= st.frameCount() {
				r.sub = 0
				r.cursor++
			}
			s.Update(dt)
			return true
		case "pause":
			s.driver.Paused = true
		case "resume":
			s.driver.Paused = false
		case "timescale":
			s.driver.TimeScale = st.Value
		}
		r.cursor++
	}
	return false
}

// Run steps s until the script is exhausted and returns the number of
// frames run.
func (r *FrameScript) Run(s *Scene) int {
	frames := 0
	for r.Step(s) {
		frames++
	}
	return frames
}
