package glbuild

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/soypat/geometry/ms3"
)

const VersionStr = "#version 430\n"

// ShaderFunction is a GLSL helper function needed by a [Shader]'s body such as a noise function.
type ShaderFunction struct {
	name   []byte
	source []byte
}

// MakeShaderFunction parses the name of the function defined by shaderDef,
// which must start with the function's return type.
func MakeShaderFunction(shaderDef []byte) (sf ShaderFunction, err error) {
	shaderDef = bytes.TrimSpace(shaderDef)
	fnNameEnd := bytes.IndexByte(shaderDef, '(')
	fnNameStart := bytes.IndexByte(shaderDef, ' ')
	if fnNameEnd < 0 || fnNameStart < 0 || fnNameStart > fnNameEnd {
		return ShaderFunction{}, errors.New("unable to parse function name")
	}
	name := shaderDef[fnNameStart:fnNameEnd]
	name = bytes.TrimSpace(name)
	if len(name) == 0 {
		return ShaderFunction{}, errors.New("empty function name")
	}
	return ShaderFunction{name: name, source: shaderDef}, nil
}

// Name returns the GLSL name of the function.
func (sf ShaderFunction) Name() string { return string(sf.name) }

// Source returns the complete GLSL definition of the function.
func (sf ShaderFunction) Source() string { return string(sf.source) }

func (sf ShaderFunction) Validate() error {
	if len(sf.name) == 0 {
		return errors.New("shader function zero-length name")
	} else if len(sf.source) == 0 {
		return errors.New("shader function empty source")
	}
	return nil
}

// Programmer assembles complete stage sources from [Shader] emission buffers.
type Programmer struct {
	scratch []byte
	header  []byte
	// names maps function names to body hashes for checking duplicates.
	names map[uint64]uint64
}

// NewDefaultProgrammer returns a Programmer that writes sources in the combined
// "#shader <stage>" format understood by the glgl package.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		scratch: make([]byte, 0, 1024),
		header:  []byte(VersionStr),
		names:   make(map[uint64]uint64),
	}
}

// WriteShader writes the complete source of sh to w: the stage directive,
// version, inputs, uniforms, helper functions and a main function containing
// the body statements.
func (p *Programmer) WriteShader(w io.Writer, sh *Shader) (n int, err error) {
	if sh == nil {
		return 0, errors.New("nil shader")
	}
	clear(p.names)
	b := p.scratch[:0]
	b = append(b, "#shader "...)
	b = append(b, sh.Stage().String()...)
	b = append(b, '\n')
	b = append(b, p.header...)
	for _, in := range sh.Ins() {
		b = append(b, "in "...)
		b = append(b, in...)
		b = append(b, ";\n"...)
	}
	for _, u := range sh.Uniforms() {
		b = append(b, "uniform "...)
		b = append(b, u...)
		b = append(b, ";\n"...)
	}
	for _, fn := range sh.Functions() {
		nameHash := hash(fn.name, 0)
		bodyHash := hash(fn.source, nameHash) // Body hash mixes name as well.
		gotBodyHash, nameConflict := p.names[nameHash]
		if nameConflict {
			if gotBodyHash == bodyHash {
				continue // Function already written and is identical, skip.
			}
			return 0, fmt.Errorf("duplicate %s shader function name %q with distinct body:\n%s", sh.Stage(), fn.name, fn.source)
		}
		p.names[nameHash] = bodyHash
		b = append(b, '\n')
		b = append(b, fn.source...)
		b = append(b, '\n')
	}
	b = append(b, "\nvoid main() {\n"...)
	b = sh.AppendBody(b)
	b = append(b, "}\n"...)
	p.scratch = b
	return w.Write(b)
}

// AppendFloat appends the shortest decimal representation of v that parses
// back to the same float32. The result always contains a decimal point so that
// GLSL types it as a float, i.e: 2 is appended as "2.0".
func AppendFloat(b []byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', -1, 32)
	if bytes.IndexByte(b[start:], '.') < 0 {
		b = append(b, ".0"...)
	}
	return b
}

// AppendFloats appends the float values separated by sep.
func AppendFloats(b []byte, sep string, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, v)
		if i != len(s)-1 {
			b = append(b, sep...)
		}
	}
	return b
}

// AppendVec3 appends v as a GLSL vec3 constructor: "vec3(x, y, z)".
func AppendVec3(b []byte, v ms3.Vec) []byte {
	b = append(b, "vec3("...)
	b = AppendFloats(b, ", ", v.X, v.Y, v.Z)
	b = append(b, ')')
	return b
}

// FormatFloat returns v formatted as by [AppendFloat].
func FormatFloat(v float32) string { return string(AppendFloat(nil, v)) }

// FormatVec3 returns v formatted as by [AppendVec3].
func FormatVec3(v ms3.Vec) string { return string(AppendVec3(nil, v)) }

const maxLineLim = 500

// AppendFloatSliceDecl appends a float array declaration with initializer:
//
//	float name[N] = float[N](v0, v1, ...);
func AppendFloatSliceDecl(b []byte, floatSliceVarname string, vecs []float32) []byte {
	return AppendGenericSliceDecl(b, "float", floatSliceVarname, len(vecs), func(b []byte, i int) []byte {
		return AppendFloat(b, vecs[i])
	})
}

func AppendGenericSliceDecl(b []byte, typename, varname string, nelem int, appendElement func(b []byte, i int) []byte) []byte {
	lineStart := len(b)
	b = appendStartSliceDecl(b, typename, varname, nelem)
	for i := 0; i < nelem; i++ {
		last := i == nelem-1
		b = appendElement(b, i)
		if !last {
			b = append(b, ", "...)
			lineLen := len(b) - lineStart
			if lineLen > maxLineLim {
				b = append(b, '\n') // Break up line for VERY long arrays.
				lineStart = len(b)
			}
		}
	}
	b = append(b, ");"...)
	return b
}

func appendStartSliceDecl(b []byte, typeName, varName string, length int) []byte {
	b = append(b, typeName...)
	b = append(b, ' ')
	b = append(b, varName...)
	b = append(b, '[')
	b = strconv.AppendInt(b, int64(length), 10)
	b = append(b, "] = "...)
	b = append(b, typeName...)
	b = append(b, '[')
	b = strconv.AppendInt(b, int64(length), 10)
	b = append(b, "]("...)
	return b
}

func hash(b []byte, in uint64) uint64 {
	x := in
	for len(b) >= 8 {
		x ^= binary.LittleEndian.Uint64(b)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
		b = b[8:]

	}
	if len(b) > 0 {
		var buf [8]byte
		copy(buf[:], b)
		x ^= binary.LittleEndian.Uint64(buf[:])
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
	}
	return x
}
