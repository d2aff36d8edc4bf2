package pinewood

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanema/gween/ease"
)

// CurveKind selects how a Curve maps progress to an eased value.
type CurveKind uint8

const (
	CurveLinear CurveKind = iota
	CurveCubicBezier
	CurveBounceIn
	CurveBounceOut
	CurveBounceInOut
	CurveElasticIn
	CurveElasticOut
	CurveElasticInOut
	CurveFlipped
	CurveEase   // a gween easing function
	CurveCustom // a user function
)

// DefaultElasticPeriod is the period used by elastic curves built with a
// zero period.
const DefaultElasticPeriod = 0.4

// cubicErrorBound is the precision of the cubic bezier bisection.
const cubicErrorBound = 0.001

// Curve is an easing curve mapping progress t in [0, 1] to an eased value.
// Every kind is evaluated by Evaluate; build curves with the constructors or
// use a preset such as EaseInOut.
type Curve struct {
	Kind CurveKind

	// X1, Y1, X2, Y2 are the cubic bezier control points.
	X1, Y1, X2, Y2 float64
	// Period is the elastic period. Zero means DefaultElasticPeriod.
	Period float64

	inner *Curve
	ease  ease.TweenFunc
	fn    func(float64) float64
}

// Cubic returns a cubic bezier curve through (0,0), (x1,y1), (x2,y2), (1,1),
// the same form as CSS cubic-bezier().
func Cubic(x1, y1, x2, y2 float64) Curve {
	return Curve{Kind: CurveCubicBezier, X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Elastic returns an elastic curve of the given kind and period.
func Elastic(kind CurveKind, period float64) Curve {
	return Curve{Kind: kind, Period: period}
}

// EaseCurve wraps a gween easing function.
func EaseCurve(fn ease.TweenFunc) Curve {
	return Curve{Kind: CurveEase, ease: fn}
}

// CustomCurve wraps an arbitrary function of t.
func CustomCurve(fn func(t float64) float64) Curve {
	return Curve{Kind: CurveCustom, fn: fn}
}

// Flipped returns the curve mirrored on both axes: 1 - c(1 - t).
func (c Curve) Flipped() Curve {
	inner := c
	return Curve{Kind: CurveFlipped, inner: &inner}
}

// Evaluate returns the eased value at t. t of exactly 0 or 1 is returned
// unchanged for every kind.
func (c Curve) Evaluate(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	switch c.Kind {
	case CurveCubicBezier:
		return evaluateCubic(c.X1, c.Y1, c.X2, c.Y2, t)
	case CurveBounceIn:
		return 1 - bounce(1-t)
	case CurveBounceOut:
		return bounce(t)
	case CurveBounceInOut:
		if t < 0.5 {
			return (1 - bounce(1-t*2)) * 0.5
		}
		return bounce(t*2-1)*0.5 + 0.5
	case CurveElasticIn:
		p := c.period()
		s := p / 4
		t--
		return -math.Pow(2, 10*t) * math.Sin((t-s)*(math.Pi*2)/p)
	case CurveElasticOut:
		p := c.period()
		s := p / 4
		return math.Pow(2, -10*t)*math.Sin((t-s)*(math.Pi*2)/p) + 1
	case CurveElasticInOut:
		p := c.period()
		s := p / 4
		t = 2*t - 1
		if t < 0 {
			return -0.5 * math.Pow(2, 10*t) * math.Sin((t-s)*(math.Pi*2)/p)
		}
		return math.Pow(2, -10*t)*math.Sin((t-s)*(math.Pi*2)/p)*0.5 + 1
	case CurveFlipped:
		if c.inner == nil {
			return t
		}
		return 1 - c.inner.Evaluate(1-t)
	case CurveEase:
		if c.ease == nil {
			return t
		}
		return float64(c.ease(float32(t), 0, 1, 1))
	case CurveCustom:
		if c.fn == nil {
			return t
		}
		return c.fn(t)
	}
	return t
}

// TweenFunc adapts the curve to gween so it can drive a gween.Tween.
func (c Curve) TweenFunc() ease.TweenFunc {
	return func(t, b, change, d float32) float32 {
		if d <= 0 {
			return b + change
		}
		return b + change*float32(c.Evaluate(float64(t/d)))
	}
}

func (c Curve) period() float64 {
	if c.Period == 0 {
		return DefaultElasticPeriod
	}
	return c.Period
}

// evaluateCubic solves x(m) = t by bisection and returns y(m).
func evaluateCubic(x1, y1, x2, y2, t float64) float64 {
	t = clamp01(t)
	start, end := 0.0, 1.0
	middle := 0.5
	for i := 0; i < 64; i++ {
		middle = (start + end) / 2
		estimate := cubicComponent(x1, x2, middle)
		if math.Abs(t-estimate) < cubicErrorBound {
			break
		}
		if estimate < t {
			start = middle
		} else {
			end = middle
		}
	}
	return cubicComponent(y1, y2, middle)
}

// cubicComponent evaluates one axis of a bezier with endpoints 0 and 1.
func cubicComponent(a, b, m float64) float64 {
	return 3*a*(1-m)*(1-m)*m + 3*b*(1-m)*m*m + m*m*m
}

func bounce(t float64) float64 {
	switch {
	case t < 1/2.75:
		return 7.5625 * t * t
	case t < 2/2.75:
		t -= 1.5 / 2.75
		return 7.5625*t*t + 0.75
	case t < 2.5/2.75:
		t -= 2.25 / 2.75
		return 7.5625*t*t + 0.9375
	}
	t -= 2.625 / 2.75
	return 7.5625*t*t + 0.984375
}

// --- Presets ---

var (
	Linear = Curve{Kind: CurveLinear}
	Ease   = Cubic(0.25, 0.1, 0.25, 1.0)

	EaseIn         = Cubic(0.42, 0.0, 1.0, 1.0)
	EaseInToLinear = Cubic(0.67, 0.03, 0.65, 0.09)
	EaseInSine     = Cubic(0.47, 0.0, 0.745, 0.715)
	EaseInQuad     = Cubic(0.55, 0.085, 0.68, 0.53)
	EaseInCubic    = Cubic(0.55, 0.055, 0.675, 0.19)
	EaseInQuart    = Cubic(0.895, 0.03, 0.685, 0.22)
	EaseInQuint    = Cubic(0.755, 0.05, 0.855, 0.06)
	EaseInExpo     = Cubic(0.95, 0.05, 0.795, 0.035)
	EaseInCirc     = Cubic(0.6, 0.04, 0.98, 0.335)
	EaseInBack     = Cubic(0.6, -0.28, 0.735, 0.045)

	EaseOut         = Cubic(0.0, 0.0, 0.58, 1.0)
	LinearToEaseOut = Cubic(0.35, 0.91, 0.33, 0.97)
	EaseOutSine     = Cubic(0.39, 0.575, 0.565, 1.0)
	EaseOutQuad     = Cubic(0.25, 0.46, 0.45, 0.94)
	EaseOutCubic    = Cubic(0.215, 0.61, 0.355, 1.0)
	EaseOutQuart    = Cubic(0.165, 0.84, 0.44, 1.0)
	EaseOutQuint    = Cubic(0.23, 1.0, 0.32, 1.0)
	EaseOutExpo     = Cubic(0.19, 1.0, 0.22, 1.0)
	EaseOutCirc     = Cubic(0.075, 0.82, 0.165, 1.0)
	EaseOutBack     = Cubic(0.175, 0.885, 0.32, 1.275)

	EaseInOut      = Cubic(0.42, 0.0, 0.58, 1.0)
	EaseInOutSine  = Cubic(0.445, 0.05, 0.55, 0.95)
	EaseInOutQuad  = Cubic(0.455, 0.03, 0.515, 0.955)
	EaseInOutCubic = Cubic(0.645, 0.045, 0.355, 1.0)
	EaseInOutQuart = Cubic(0.77, 0.0, 0.175, 1.0)
	EaseInOutQuint = Cubic(0.86, 0.0, 0.07, 1.0)
	EaseInOutExpo  = Cubic(1.0, 0.0, 0.0, 1.0)
	EaseInOutCirc  = Cubic(0.785, 0.135, 0.15, 0.86)
	EaseInOutBack  = Cubic(0.68, -0.55, 0.265, 1.55)

	FastOutSlowIn = Cubic(0.4, 0.0, 0.2, 1.0)
	SlowMiddle    = Cubic(0.15, 0.85, 0.85, 0.15)

	BounceIn    = Curve{Kind: CurveBounceIn}
	BounceOut   = Curve{Kind: CurveBounceOut}
	BounceInOut = Curve{Kind: CurveBounceInOut}

	ElasticIn    = Curve{Kind: CurveElasticIn}
	ElasticOut   = Curve{Kind: CurveElasticOut}
	ElasticInOut = Curve{Kind: CurveElasticInOut}
)

var curvesByName = map[string]Curve{
	"Linear": Linear, "Ease": Ease,
	"EaseIn": EaseIn, "EaseInToLinear": EaseInToLinear, "EaseInSine": EaseInSine,
	"EaseInQuad": EaseInQuad, "EaseInCubic": EaseInCubic, "EaseInQuart": EaseInQuart,
	"EaseInQuint": EaseInQuint, "EaseInExpo": EaseInExpo, "EaseInCirc": EaseInCirc,
	"EaseInBack": EaseInBack,
	"EaseOut": EaseOut, "LinearToEaseOut": LinearToEaseOut, "EaseOutSine": EaseOutSine,
	"EaseOutQuad": EaseOutQuad, "EaseOutCubic": EaseOutCubic, "EaseOutQuart": EaseOutQuart,
	"EaseOutQuint": EaseOutQuint, "EaseOutExpo": EaseOutExpo, "EaseOutCirc": EaseOutCirc,
	"EaseOutBack": EaseOutBack,
	"EaseInOut": EaseInOut, "EaseInOutSine": EaseInOutSine, "EaseInOutQuad": EaseInOutQuad,
	"EaseInOutCubic": EaseInOutCubic, "EaseInOutQuart": EaseInOutQuart,
	"EaseInOutQuint": EaseInOutQuint, "EaseInOutExpo": EaseInOutExpo,
	"EaseInOutCirc": EaseInOutCirc, "EaseInOutBack": EaseInOutBack,
	"FastOutSlowIn": FastOutSlowIn, "SlowMiddle": SlowMiddle,
	"BounceIn": BounceIn, "BounceOut": BounceOut, "BounceInOut": BounceInOut,
	"ElasticIn": ElasticIn, "ElasticOut": ElasticOut, "ElasticInOut": ElasticInOut,

	// Exact analytic forms from gween, for configs that prefer them.
	"InQuad": EaseCurve(ease.InQuad), "OutQuad": EaseCurve(ease.OutQuad),
	"InOutQuad": EaseCurve(ease.InOutQuad), "InCubic": EaseCurve(ease.InCubic),
	"OutCubic": EaseCurve(ease.OutCubic), "InOutCubic": EaseCurve(ease.InOutCubic),
	"InSine": EaseCurve(ease.InSine), "OutSine": EaseCurve(ease.OutSine),
	"InOutSine": EaseCurve(ease.InOutSine), "InExpo": EaseCurve(ease.InExpo),
	"OutExpo": EaseCurve(ease.OutExpo), "InBack": EaseCurve(ease.InBack),
	"OutBack": EaseCurve(ease.OutBack),
}

// CurveByName returns the preset with the given name, such as "EaseInOut"
// or "OutBack". The second result is false for unknown names.
func CurveByName(name string) (Curve, bool) {
	c, ok := curvesByName[name]
	return c, ok
}

// UnmarshalText lets curves be named in YAML configs.
func (c *Curve) UnmarshalText(text []byte) error {
	curve, ok := CurveByName(string(text))
	if !ok {
		return errors.Errorf("pinewood: unknown curve %q", text)
	}
	*c = curve
	return nil
}
