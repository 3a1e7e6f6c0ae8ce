package tempo

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// Curve selects the timing curve a Tween eases along. Every curve maps
// progress 0 to 0 and 1 to 1.
type Curve uint8

const (
	CurveLinear         Curve = iota // constant rate
	CurveInOutQuadratic              // slow start and end, quadratic
	CurveInOutCubic                  // slow start and end, cubic
	CurveInOutQuartic                // slow start and end, quartic
	CurveSinStartFast                // quarter sine, decelerating
	CurveSinStartSlow                // quarter sine, accelerating
	curveCount
)

var curveFuncs = [curveCount]ease.TweenFunc{
	CurveLinear:         ease.Linear,
	CurveInOutQuadratic: ease.InOutQuad,
	CurveInOutCubic:     ease.InOutCubic,
	CurveInOutQuartic:   ease.InOutQuart,
	CurveSinStartFast:   ease.OutSine,
	CurveSinStartSlow:   ease.InSine,
}

var curveNames = [curveCount]string{
	CurveLinear:         "linear",
	CurveInOutQuadratic: "inOutQuadratic",
	CurveInOutCubic:     "inOutCubic",
	CurveInOutQuartic:   "inOutQuartic",
	CurveSinStartFast:   "sinStartFast",
	CurveSinStartSlow:   "sinStartSlow",
}

// Apply maps normalized progress p to an eased weight. p is clamped to [0, 1].
// Unknown curves fall back to linear.
func (c Curve) Apply(p float64) float64 {
	var fn ease.TweenFunc = ease.Linear
	if c < curveCount {
		fn = curveFuncs[c]
	}
	return applyEase(fn, p)
}

// applyEase evaluates fn over a unit range. The endpoints are pinned so that
// float32 rounding inside the ease never leaves a property short of its
// target.
func applyEase(fn ease.TweenFunc, p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return float64(fn(float32(p), 0, 1, 1))
}

// String returns the curve's config name.
func (c Curve) String() string {
	if c < curveCount {
		return curveNames[c]
	}
	return fmt.Sprintf("Curve(%d)", uint8(c))
}

// ParseCurve resolves a config name (case-insensitive) to a Curve.
func ParseCurve(name string) (Curve, error) {
	for i, n := range curveNames {
		if strings.EqualFold(n, name) {
			return Curve(i), nil
		}
	}
	return CurveLinear, fmt.Errorf("parse curve %q: unknown curve", name)
}

// UnmarshalText implements encoding.TextUnmarshaler so curves can be named in
// JSON and YAML.
func (c *Curve) UnmarshalText(text []byte) error {
	parsed, err := ParseCurve(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Curve) MarshalText() ([]byte, error) {
	if c >= curveCount {
		return nil, fmt.Errorf("marshal curve: unknown curve %d", uint8(c))
	}
	return []byte(curveNames[c]), nil
}
