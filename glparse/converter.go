package glparse

import (
	"fmt"

	"github.com/soypat/glnode"
)

func parseMath(st *State, node *glnode.Node, out int) (string, error) {
	params, _ := node.Params.(*glnode.MathParams)
	if params == nil {
		params = &glnode.MathParams{}
	}
	n := 2
	if params.Op.IsUnary() {
		n = 1
	}
	var v [2]string
	for i := 0; i < n; i++ {
		in, err := inputAt(node, i)
		if err != nil {
			return "", err
		}
		v[i], err = st.ResolveValue(in)
		if err != nil {
			return "", err
		}
	}
	a, b := v[0], v[1]
	var expr string
	switch params.Op {
	case glnode.MathAdd:
		expr = "(" + a + " + " + b + ")"
	case glnode.MathSubtract:
		expr = "(" + a + " - " + paren(b) + ")"
	case glnode.MathMultiply:
		expr = "(" + paren(a) + " * " + paren(b) + ")"
	case glnode.MathDivide:
		expr = "(" + paren(a) + " / " + paren(b) + ")"
	case glnode.MathPower:
		expr = "pow(" + a + ", " + b + ")"
	case glnode.MathMinimum:
		expr = "min(" + a + ", " + b + ")"
	case glnode.MathMaximum:
		expr = "max(" + a + ", " + b + ")"
	case glnode.MathSine:
		expr = "sin(" + a + ")"
	case glnode.MathCosine:
		expr = "cos(" + a + ")"
	case glnode.MathAbsolute:
		expr = "abs(" + a + ")"
	case glnode.MathSqrt:
		expr = "sqrt(" + a + ")"
	default:
		return "", fmt.Errorf("unknown math operation %d", params.Op)
	}
	if params.Clamp {
		expr = "clamp(" + expr + ", 0.0, 1.0)"
	}
	return expr, nil
}

func parseVectorMath(st *State, node *glnode.Node, out int) (string, error) {
	params, _ := node.Params.(*glnode.VectorMathParams)
	if params == nil {
		params = &glnode.VectorMathParams{}
	}
	if out != 0 && out != 1 {
		return "", fmt.Errorf("%w: output index %d", ErrMissingSocket, out)
	}
	// The output not produced by the operation is zero.
	if params.Op.IsScalar() && out == 0 {
		return "vec3(0.0)", nil
	} else if !params.Op.IsScalar() && out == 1 {
		return "0.0", nil
	}
	n := 2
	if params.Op == glnode.VectorMathNormalize || params.Op == glnode.VectorMathLength {
		n = 1
	}
	var v [2]string
	for i := 0; i < n; i++ {
		in, err := inputAt(node, i)
		if err != nil {
			return "", err
		}
		v[i], err = st.ResolveVector(in)
		if err != nil {
			return "", err
		}
	}
	a, b := v[0], v[1]
	switch params.Op {
	case glnode.VectorMathAdd:
		return "(" + a + " + " + b + ")", nil
	case glnode.VectorMathSubtract:
		return "(" + a + " - " + paren(b) + ")", nil
	case glnode.VectorMathMultiply:
		return "(" + paren(a) + " * " + paren(b) + ")", nil
	case glnode.VectorMathCross:
		return "cross(" + a + ", " + b + ")", nil
	case glnode.VectorMathNormalize:
		return "normalize(" + a + ")", nil
	case glnode.VectorMathDot:
		return "dot(" + a + ", " + b + ")", nil
	case glnode.VectorMathLength:
		return "length(" + a + ")", nil
	}
	return "", fmt.Errorf("unknown vector math operation %d", params.Op)
}

func parseCombineXYZ(st *State, node *glnode.Node, out int) (string, error) {
	var c [3]string
	for i := range c {
		in, err := inputAt(node, i)
		if err != nil {
			return "", err
		}
		c[i], err = st.ResolveValue(in)
		if err != nil {
			return "", err
		}
	}
	return "vec3(" + c[0] + ", " + c[1] + ", " + c[2] + ")", nil
}

func parseSeparateXYZ(st *State, node *glnode.Node, out int) (string, error) {
	if out < 0 || out > 2 {
		return "", fmt.Errorf("%w: output index %d", ErrMissingSocket, out)
	}
	in, err := inputAt(node, 0)
	if err != nil {
		return "", err
	}
	v, err := st.ResolveVector(in)
	if err != nil {
		return "", err
	}
	return paren(v) + "." + "xyz"[out:out+1], nil
}
