package glparse

import (
	"fmt"
	"strings"

	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
)

// vectorCurve declares the lookup tables of curve c in the active buffer and
// returns the expression that evaluates it at fac. Declarations are prefixed by name.
//
// The segment index counts interior points whose X is exceeded by fac and
// the result is the linear interpolation between the segment ends, clamped
// to the segment. This matches [glnode.Curve.Evaluate].
func vectorCurve(st *State, name, fac string, c glnode.Curve) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	pts := c.Points
	if len(pts) == 1 {
		return glbuild.FormatFloat(pts[0].Y), nil
	}
	xs := make([]float32, len(pts))
	ys := make([]float32, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Y
	}
	ysVar, xsVar := name+"_ys", name+"_xs"
	facVar, idxVar := name+"_fac", name+"_i"
	var idx strings.Builder
	idx.WriteString("int " + idxVar + " = 0")
	for j := 1; j < len(pts)-1; j++ {
		fmt.Fprintf(&idx, " + (%s > %s ? 1 : 0)", facVar, glbuild.FormatFloat(pts[j].X))
	}
	idx.WriteByte(';')

	sh := st.Current()
	for _, decl := range [...][2]string{
		{ysVar, string(glbuild.AppendFloatSliceDecl(nil, ysVar, ys))},
		{xsVar, string(glbuild.AppendFloatSliceDecl(nil, xsVar, xs))},
		{facVar, "float " + facVar + " = " + fac + ";"},
		{idxVar, idx.String()},
	} {
		if _, err := sh.WriteDecl(decl[0], decl[1]); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("mix(%[1]s[%[3]s], %[1]s[%[3]s + 1], clamp((%[4]s - %[2]s[%[3]s]) / (%[2]s[%[3]s + 1] - %[2]s[%[3]s]), 0.0, 1.0))",
		ysVar, xsVar, idxVar, facVar), nil
}
