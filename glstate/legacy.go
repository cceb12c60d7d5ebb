// SPDX-License-Identifier: Unlicense OR MIT

package glstate

import (
	"fmt"

	"github.com/gfxkit/gfx/gl"
)

// Legacy caches the state of the fixed-function pipeline. It is
// separate from State so that contexts without the fixed-function
// pipeline carry none of it.
//
// Texture enables and the texture environment are tracked per
// texture unit, following the active unit of the owning State, for
// the first Caps.FixedTextureUnits units only.
// Client arrays are tracked for the default client texture unit only.
type Legacy struct {
	s     *State
	funcs gl.FixedFunctions

	matrixMode   slot[gl.Enum]
	enables      table[bool]
	units        []legacyUnit
	clientStates table[bool]
	color        slot[[4]float32]
	pointers     table[ArrayPointer]
}

type legacyUnit struct {
	enables  table[bool]
	envMode  slot[int]
	envColor slot[[4]float32]
}

// ArrayPointer is the state set by the client array pointer calls.
type ArrayPointer struct {
	Size   int
	Type   gl.Enum
	Stride int
	Offset uintptr
	// Buffer is the ARRAY_BUFFER binding at the time of the call,
	// which Offset is relative to.
	Buffer gl.Buffer
}

// pointerQueries lists the size, type, stride and buffer binding
// queries of each client array.
var pointerQueries = map[gl.Enum][4]gl.Enum{
	gl.TEXTURE_COORD_ARRAY: {gl.TEXTURE_COORD_ARRAY_SIZE, gl.TEXTURE_COORD_ARRAY_TYPE, gl.TEXTURE_COORD_ARRAY_STRIDE, gl.TEXTURE_COORD_ARRAY_BUFFER_BINDING},
	gl.COLOR_ARRAY:         {gl.COLOR_ARRAY_SIZE, gl.COLOR_ARRAY_TYPE, gl.COLOR_ARRAY_STRIDE, gl.COLOR_ARRAY_BUFFER_BINDING},
	gl.VERTEX_ARRAY:        {gl.VERTEX_ARRAY_SIZE, gl.VERTEX_ARRAY_TYPE, gl.VERTEX_ARRAY_STRIDE, gl.VERTEX_ARRAY_BUFFER_BINDING},
}

func newLegacy(s *State, f gl.FixedFunctions) *Legacy {
	l := &Legacy{s: s, funcs: f}
	l.init()
	s.log.Debug("glstate: fixed-function state enabled", "units", len(l.units))
	return l
}

func (l *Legacy) init() {
	l.matrixMode = newSlot[gl.Enum](gl.MODELVIEW)
	l.enables = make(table[bool])
	l.enables.add(gl.ALPHA_TEST, false)
	l.enables.add(gl.FOG, false)
	l.units = make([]legacyUnit, l.s.caps.FixedTextureUnits)
	for i := range l.units {
		u := &l.units[i]
		u.enables = make(table[bool])
		u.enables.add(gl.TEXTURE_2D, false)
		if l.s.caps.Has(FeatureTextureExternal) {
			u.enables.add(gl.TEXTURE_EXTERNAL_OES, false)
		}
		u.envMode = newSlot(gl.MODULATE)
		u.envColor = newSlot([4]float32{})
	}
	l.clientStates = make(table[bool])
	l.clientStates.add(gl.TEXTURE_COORD_ARRAY, false)
	l.clientStates.add(gl.COLOR_ARRAY, false)
	l.clientStates.add(gl.VERTEX_ARRAY, false)
	l.color = newSlot([4]float32{1, 1, 1, 1})
	l.pointers = make(table[ArrayPointer])
	def := ArrayPointer{Size: 4, Type: gl.FLOAT}
	for array := range pointerQueries {
		l.pointers.add(array, def)
	}
}

func (l *Legacy) reset() {
	l.matrixMode.reset()
	l.enables.reset()
	for i := range l.units {
		u := &l.units[i]
		u.enables.reset()
		u.envMode.reset()
		u.envColor.reset()
	}
	l.clientStates.reset()
	l.color.reset()
	l.pointers.reset()
}

// unit returns the fixed-function state of the active texture unit,
// or nil if the unit has none.
func (l *Legacy) unit() *legacyUnit {
	i := l.s.unit()
	if i >= len(l.units) {
		return nil
	}
	return &l.units[i]
}

// envUnit is like unit but panics for units without fixed-function
// state.
func (l *Legacy) envUnit() *legacyUnit {
	u := l.unit()
	if u == nil {
		unsupported("texture environment unit", l.s.activeTex.cur)
	}
	return u
}

// capability resolves a fixed-function capability, or returns nil.
func (l *Legacy) capability(cap gl.Enum) *slot[bool] {
	if c, ok := l.enables[cap]; ok {
		return c
	}
	if u := l.unit(); u != nil {
		if c, ok := u.enables[cap]; ok {
			return c
		}
	}
	return nil
}

// deleteBuffer resets the pointers sourced from buf.
func (l *Legacy) deleteBuffer(buf gl.Buffer) {
	for _, p := range l.pointers {
		if p.cur.Buffer == buf {
			p.cur.Buffer = gl.Buffer{}
		}
	}
}

func (l *Legacy) MatrixMode(mode gl.Enum) bool {
	s := l.s
	if mode == l.matrixMode.cur {
		return s.elided()
	}
	l.funcs.MatrixMode(mode)
	l.matrixMode.cur = mode
	if s.verify {
		s.check("matrix mode", mode, gl.Enum(s.funcs.GetInteger(gl.MATRIX_MODE)))
	}
	return s.forwarded()
}

func (l *Legacy) MatrixModeValue() gl.Enum {
	return l.matrixMode.cur
}

func (l *Legacy) clientSlot(array gl.Enum) *slot[bool] {
	c, ok := l.clientStates[array]
	if !ok {
		unsupported("client state", array)
	}
	return c
}

// SetClientState enables or disables the client array and reports
// whether the driver was called.
func (l *Legacy) SetClientState(array gl.Enum, enable bool) bool {
	s := l.s
	c := l.clientSlot(array)
	if enable == c.cur {
		return s.elided()
	}
	if enable {
		l.funcs.EnableClientState(array)
	} else {
		l.funcs.DisableClientState(array)
	}
	c.cur = enable
	if s.verify {
		s.check(fmt.Sprintf("client state 0x%x", uint(array)), enable, s.funcs.IsEnabled(array))
	}
	return s.forwarded()
}

func (l *Legacy) EnableClientState(array gl.Enum) bool {
	return l.SetClientState(array, true)
}

func (l *Legacy) DisableClientState(array gl.Enum) bool {
	return l.SetClientState(array, false)
}

func (l *Legacy) IsClientStateEnabled(array gl.Enum) bool {
	return l.clientSlot(array).cur
}

// TexEnvi sets a texture environment parameter of the active unit.
// Only TEXTURE_ENV_MODE is cached; other parameters are always
// forwarded.
func (l *Legacy) TexEnvi(target, pname gl.Enum, param int) bool {
	s := l.s
	u := l.envUnit()
	if target != gl.TEXTURE_ENV || pname != gl.TEXTURE_ENV_MODE {
		l.funcs.TexEnvi(target, pname, param)
		return s.forwarded()
	}
	m := &u.envMode
	if param == m.cur {
		return s.elided()
	}
	l.funcs.TexEnvi(target, pname, param)
	m.cur = param
	if s.verify {
		s.check("texture env mode", param, l.funcs.GetTexEnvi(target, pname))
	}
	return s.forwarded()
}

// TexEnvMode returns the cached TEXTURE_ENV_MODE of the active unit.
func (l *Legacy) TexEnvMode() int {
	return l.envUnit().envMode.cur
}

// TexEnvfv sets a vector texture environment parameter of the active
// unit. Only TEXTURE_ENV_COLOR is cached.
func (l *Legacy) TexEnvfv(target, pname gl.Enum, params [4]float32) bool {
	s := l.s
	u := l.envUnit()
	if target != gl.TEXTURE_ENV || pname != gl.TEXTURE_ENV_COLOR {
		l.funcs.TexEnvfv(target, pname, params)
		return s.forwarded()
	}
	c := &u.envColor
	if params == c.cur {
		return s.elided()
	}
	l.funcs.TexEnvfv(target, pname, params)
	c.cur = params
	if s.verify {
		s.check("texture env color", params, l.funcs.GetTexEnv4f(target, pname))
	}
	return s.forwarded()
}

func (l *Legacy) TexEnvColor() [4]float32 {
	return l.envUnit().envColor.cur
}

// Color4f sets the current color.
func (l *Legacy) Color4f(r, g, b, a float32) bool {
	s := l.s
	col := [4]float32{r, g, b, a}
	if col == l.color.cur {
		return s.elided()
	}
	l.funcs.Color4f(r, g, b, a)
	l.color.cur = col
	if s.verify {
		s.check("current color", col, s.funcs.GetFloat4(gl.CURRENT_COLOR))
	}
	return s.forwarded()
}

func (l *Legacy) Color() [4]float32 {
	return l.color.cur
}

func (l *Legacy) TexCoordPointer(size int, typ gl.Enum, stride int, offset uintptr) bool {
	return l.setPointer(gl.TEXTURE_COORD_ARRAY, size, typ, stride, offset, l.funcs.TexCoordPointer)
}

func (l *Legacy) ColorPointer(size int, typ gl.Enum, stride int, offset uintptr) bool {
	return l.setPointer(gl.COLOR_ARRAY, size, typ, stride, offset, l.funcs.ColorPointer)
}

func (l *Legacy) VertexPointer(size int, typ gl.Enum, stride int, offset uintptr) bool {
	return l.setPointer(gl.VERTEX_ARRAY, size, typ, stride, offset, l.funcs.VertexPointer)
}

func (l *Legacy) pointerFunc(array gl.Enum) func(int, gl.Enum, int, uintptr) {
	switch array {
	case gl.TEXTURE_COORD_ARRAY:
		return l.funcs.TexCoordPointer
	case gl.COLOR_ARRAY:
		return l.funcs.ColorPointer
	case gl.VERTEX_ARRAY:
		return l.funcs.VertexPointer
	}
	unsupported("client array", array)
	return nil
}

// setPointer elides a pointer call only if every field and the
// current ARRAY_BUFFER binding match the cached pointer.
func (l *Legacy) setPointer(array gl.Enum, size int, typ gl.Enum, stride int, offset uintptr, call func(int, gl.Enum, int, uintptr)) bool {
	s := l.s
	p := l.pointers[array]
	v := ArrayPointer{
		Size:   size,
		Type:   typ,
		Stride: stride,
		Offset: offset,
		Buffer: s.buffers[gl.ARRAY_BUFFER].cur,
	}
	if v == p.cur {
		return s.elided()
	}
	call(size, typ, stride, offset)
	p.cur = v
	if s.verify {
		s.check(fmt.Sprintf("array pointer 0x%x", uint(array)), v, l.queryPointer(array))
	}
	return s.forwarded()
}

// Pointer returns the cached pointer state of a client array.
func (l *Legacy) Pointer(array gl.Enum) ArrayPointer {
	p, ok := l.pointers[array]
	if !ok {
		unsupported("client array", array)
	}
	return p.cur
}

func (l *Legacy) queryPointer(array gl.Enum) ArrayPointer {
	f := l.s.funcs
	q := pointerQueries[array]
	// Offsets are not queryable through gl.Functions.
	return ArrayPointer{
		Size:   f.GetInteger(q[0]),
		Type:   gl.Enum(f.GetInteger(q[1])),
		Stride: f.GetInteger(q[2]),
		Offset: l.pointers[array].cur.Offset,
		Buffer: gl.Buffer(f.GetBinding(q[3])),
	}
}
