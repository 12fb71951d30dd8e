package glnode

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidCurve is returned for curves that cannot be translated to GLSL.
var ErrInvalidCurve = errors.New("invalid curve")

// HandleType is the handle type of a curve control point. Translation
// interpolates linearly between points regardless of handle type.
type HandleType uint8

const (
	HandleAuto HandleType = iota
	HandleAutoClamped
	HandleVector
)

var handleNames = []string{"AUTO", "AUTO_CLAMPED", "VECTOR"}

func (h HandleType) String() string { return enumString(handleNames, h) }

// ParseHandleType parses Blender's curve handle identifiers such as "VECTOR".
func ParseHandleType(s string) (HandleType, error) {
	return parseEnum[HandleType](handleNames, s, "handle type")
}

// CurvePoint is a single control point of a [Curve].
type CurvePoint struct {
	X, Y   float32
	Handle HandleType
}

// Curve is an ordered sequence of control points sorted by increasing X.
type Curve struct {
	Points []CurvePoint
}

// Evaluate evaluates the piecewise linear curve at x on the CPU. Values of x
// outside the first and last point are extrapolated flat. The result matches the
// GLSL generated for the curve.
func (c Curve) Evaluate(x float32) float32 {
	pts := c.Points
	switch len(pts) {
	case 0:
		return 0
	case 1:
		return pts[0].Y
	}
	i := 0
	for j := 1; j < len(pts)-1; j++ {
		if x > pts[j].X {
			i++
		}
	}
	t := (x - pts[i].X) / (pts[i+1].X - pts[i].X)
	t = math32.Max(0, math32.Min(1, t))
	return pts[i].Y*(1-t) + pts[i+1].Y*t
}

// Validate checks the curve has at least one point, finite coordinates and strictly increasing X.
func (c Curve) Validate() error {
	if len(c.Points) == 0 {
		return fmt.Errorf("%w: no control points", ErrInvalidCurve)
	}
	for i, p := range c.Points {
		if !finite(p.X) || !finite(p.Y) {
			return fmt.Errorf("%w: non-finite point %d (%v, %v)", ErrInvalidCurve, i, p.X, p.Y)
		}
		if i > 0 && p.X <= c.Points[i-1].X {
			return fmt.Errorf("%w: point %d X=%v not greater than previous X=%v", ErrInvalidCurve, i, p.X, c.Points[i-1].X)
		}
	}
	return nil
}

// CurveMapping holds the x, y and z curves of a vector curve node.
type CurveMapping struct {
	Curves [3]Curve
}

// IdentityCurveMapping returns the default mapping of a new vector curve node,
// which maps [-1, 1] to [-1, 1] on every channel.
func IdentityCurveMapping() *CurveMapping {
	var cm CurveMapping
	for i := range cm.Curves {
		cm.Curves[i].Points = []CurvePoint{{X: -1, Y: -1}, {X: 1, Y: 1}}
	}
	return &cm
}

func (*CurveMapping) ParamsKind() Kind { return KindVectorCurve }

func (cm *CurveMapping) validate() error {
	for i, c := range cm.Curves {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("curve %c: %w", "xyz"[i], err)
		}
	}
	return nil
}
