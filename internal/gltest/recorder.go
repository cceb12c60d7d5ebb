// SPDX-License-Identifier: Unlicense OR MIT

// Package gltest provides an in-memory OpenGL driver for tests and
// dry runs.
package gltest

import (
	"fmt"
	"strings"

	"github.com/gfxkit/gfx/gl"
)

// Call is a single recorded driver call.
type Call struct {
	Name string
	Args []interface{}
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		switch a := a.(type) {
		case gl.Enum:
			args[i] = fmt.Sprintf("0x%x", uint(a))
		default:
			args[i] = fmt.Sprint(a)
		}
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Recorder implements gl.Functions and gl.FixedFunctions by
// simulating the affected OpenGL state in memory. Every state
// changing call is appended to Calls; queries are not recorded.
//
// The Recorder follows the reported version and extensions: calls
// and queries the context lacks are ignored, answer zero, and set the
// error returned by GetError.
type Recorder struct {
	Version    string
	Extensions []string
	// Ints holds integer limits and query overrides, such as
	// MAX_TEXTURE_IMAGE_UNITS or CONTEXT_PROFILE_MASK.
	Ints map[gl.Enum]int

	Calls []Call

	err        gl.Enum
	activeTex  gl.Enum
	texBinds   map[texKey]gl.Texture
	enabled    map[gl.Enum]bool
	buffers    map[gl.Enum]gl.Buffer
	pixelStore map[gl.Enum]int
	blendSrc   gl.Enum
	blendDst   gl.Enum
	blendEq    gl.Enum
	prog       gl.Program
	drawFBO    gl.Framebuffer
	readFBO    gl.Framebuffer
	viewport   [4]int
	clearColor [4]float32
	depthFunc  gl.Enum
	depthMask  bool

	matrixMode gl.Enum
	// unitEnabled holds the texture enables of each unit.
	unitEnabled map[texKey]bool
	texEnvMode  map[gl.Enum]int
	texEnvCol   map[gl.Enum][4]float32
	color       [4]float32
	pointers    map[gl.Enum]pointer
}

type texKey struct {
	unit, target gl.Enum
}

type pointer struct {
	size   int
	typ    gl.Enum
	stride int
	offset uintptr
	buffer gl.Buffer
}

// NewRecorder returns a Recorder in the OpenGL initial state,
// reporting version ver and the given extensions.
func NewRecorder(ver string, exts ...string) *Recorder {
	r := &Recorder{
		Version:    ver,
		Extensions: exts,
		Ints: map[gl.Enum]int{
			gl.MAX_TEXTURE_IMAGE_UNITS: 8,
			gl.MAX_TEXTURE_UNITS:       2,
		},
	}
	r.Reset()
	return r
}

// Reset restores the OpenGL initial state and clears Calls.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.err = gl.NO_ERROR
	r.activeTex = gl.TEXTURE0
	r.texBinds = make(map[texKey]gl.Texture)
	r.enabled = map[gl.Enum]bool{
		gl.DITHER:      true,
		gl.MULTISAMPLE: true,
	}
	r.buffers = make(map[gl.Enum]gl.Buffer)
	r.pixelStore = map[gl.Enum]int{
		gl.UNPACK_ALIGNMENT: 4,
		gl.PACK_ALIGNMENT:   4,
	}
	r.blendSrc, r.blendDst = gl.ONE, gl.ZERO
	r.blendEq = gl.FUNC_ADD
	r.prog = gl.Program{}
	r.drawFBO, r.readFBO = gl.Framebuffer{}, gl.Framebuffer{}
	r.viewport = [4]int{}
	r.clearColor = [4]float32{}
	r.depthFunc = gl.LESS
	r.depthMask = true
	r.matrixMode = gl.MODELVIEW
	r.unitEnabled = make(map[texKey]bool)
	r.texEnvMode = make(map[gl.Enum]int)
	r.texEnvCol = make(map[gl.Enum][4]float32)
	r.color = [4]float32{1, 1, 1, 1}
	def := pointer{size: 4, typ: gl.FLOAT}
	r.pointers = map[gl.Enum]pointer{
		gl.TEXTURE_COORD_ARRAY: def,
		gl.COLOR_ARRAY:         def,
		gl.VERTEX_ARRAY:        def,
	}
}

// Count returns the number of recorded calls named name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Last returns the most recent call, or the zero Call.
func (r *Recorder) Last() Call {
	if len(r.Calls) == 0 {
		return Call{}
	}
	return r.Calls[len(r.Calls)-1]
}

// ClearCalls forgets the recorded calls but keeps the simulated state.
func (r *Recorder) ClearCalls() {
	r.Calls = nil
}

func (r *Recorder) record(name string, args ...interface{}) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

// setError records err unless an earlier error is pending.
func (r *Recorder) setError(err gl.Enum) {
	if r.err == gl.NO_ERROR {
		r.err = err
	}
}

func (r *Recorder) context() (ver [2]int, es bool) {
	ver, es, _ = gl.ParseGLVersion(r.Version)
	return ver, es
}

func (r *Recorder) atLeast(major, minor int) bool {
	ver, _ := r.context()
	return ver[0] > major || (ver[0] == major && ver[1] >= minor)
}

func (r *Recorder) hasExtension(ext string) bool {
	for _, e := range r.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// fixed reports whether the context has the fixed-function pipeline.
func (r *Recorder) fixed() bool {
	ver, es := r.context()
	switch {
	case es:
		return ver[0] == 1
	case !r.atLeast(3, 1):
		return true
	case !r.atLeast(3, 2):
		return r.hasExtension("GL_ARB_compatibility")
	}
	return r.Ints[gl.CONTEXT_PROFILE_MASK]&gl.CONTEXT_COMPATIBILITY_PROFILE_BIT != 0
}

func (r *Recorder) framebuffers() bool {
	_, es := r.context()
	if es {
		return r.atLeast(2, 0) || r.hasExtension("GL_OES_framebuffer_object")
	}
	return r.atLeast(3, 0) || r.hasExtension("GL_ARB_framebuffer_object") || r.hasExtension("GL_EXT_framebuffer_object")
}

func (r *Recorder) splitFramebuffers() bool {
	_, es := r.context()
	if es {
		return r.atLeast(3, 0)
	}
	return r.atLeast(3, 0) || r.hasExtension("GL_ARB_framebuffer_object")
}

func (r *Recorder) blendEquation() bool {
	_, es := r.context()
	return !es || r.atLeast(2, 0) || r.hasExtension("GL_OES_blend_subtract")
}

func (r *Recorder) shaders() bool {
	return r.atLeast(2, 0)
}

// lacks reports whether the context has no state named pname.
func (r *Recorder) lacks(pname gl.Enum) bool {
	_, es := r.context()
	es1 := es && !r.atLeast(2, 0)
	switch pname {
	case gl.BLEND_SRC_RGB, gl.BLEND_DST_RGB:
		return es1
	case gl.BLEND_SRC, gl.BLEND_DST:
		return es && !es1
	case gl.BLEND_EQUATION_RGB:
		return !r.blendEquation()
	case gl.CURRENT_PROGRAM:
		return !r.shaders()
	case gl.FRAMEBUFFER_BINDING:
		return !r.framebuffers()
	case gl.READ_FRAMEBUFFER_BINDING:
		return !r.splitFramebuffers()
	case gl.PIXEL_PACK_BUFFER_BINDING, gl.PIXEL_UNPACK_BUFFER_BINDING:
		if es {
			return !r.atLeast(3, 0)
		}
		return !r.atLeast(2, 1)
	case gl.UNPACK_ROW_LENGTH:
		return es && !r.atLeast(3, 0) && !r.hasExtension("GL_EXT_unpack_subimage")
	case gl.MAX_TEXTURE_IMAGE_UNITS:
		return !r.shaders()
	case gl.CONTEXT_PROFILE_MASK:
		return es || !r.atLeast(3, 2)
	case gl.MULTISAMPLE:
		return es
	case gl.MAX_TEXTURE_UNITS, gl.MATRIX_MODE, gl.CURRENT_COLOR,
		gl.ALPHA_TEST, gl.FOG, gl.TEXTURE_2D,
		gl.TEXTURE_COORD_ARRAY, gl.COLOR_ARRAY, gl.VERTEX_ARRAY,
		gl.TEXTURE_COORD_ARRAY_SIZE, gl.TEXTURE_COORD_ARRAY_TYPE, gl.TEXTURE_COORD_ARRAY_STRIDE, gl.TEXTURE_COORD_ARRAY_BUFFER_BINDING,
		gl.COLOR_ARRAY_SIZE, gl.COLOR_ARRAY_TYPE, gl.COLOR_ARRAY_STRIDE, gl.COLOR_ARRAY_BUFFER_BINDING,
		gl.VERTEX_ARRAY_SIZE, gl.VERTEX_ARRAY_TYPE, gl.VERTEX_ARRAY_STRIDE, gl.VERTEX_ARRAY_BUFFER_BINDING:
		return !r.fixed()
	}
	return false
}

// lacksCap is lacks for capabilities. Texture enables exist only on
// the first MAX_TEXTURE_UNITS units.
func (r *Recorder) lacksCap(cap gl.Enum) (gl.Enum, bool) {
	if r.lacks(cap) {
		return gl.INVALID_ENUM, true
	}
	if perUnit(cap) && !r.fixedUnit() {
		return gl.INVALID_OPERATION, true
	}
	return gl.NO_ERROR, false
}

// fixedUnit reports whether the active unit has fixed-function state.
func (r *Recorder) fixedUnit() bool {
	return r.fixed() && int(r.activeTex-gl.TEXTURE0) < r.Ints[gl.MAX_TEXTURE_UNITS]
}

// fixedCall reports whether a fixed-function call is valid, setting
// the error if not.
func (r *Recorder) fixedCall() bool {
	if !r.fixed() {
		r.setError(gl.INVALID_OPERATION)
		return false
	}
	return true
}

func (r *Recorder) ActiveTexture(texture gl.Enum) {
	r.record("ActiveTexture", texture)
	r.activeTex = texture
}

func (r *Recorder) BindBuffer(target gl.Enum, b gl.Buffer) {
	r.record("BindBuffer", target, b.V)
	if (target == gl.PIXEL_PACK_BUFFER || target == gl.PIXEL_UNPACK_BUFFER) && r.lacks(gl.PIXEL_PACK_BUFFER_BINDING) {
		r.setError(gl.INVALID_ENUM)
		return
	}
	r.buffers[target] = b
}

func (r *Recorder) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	r.record("BindFramebuffer", target, fb.V)
	if !r.framebuffers() {
		r.setError(gl.INVALID_OPERATION)
		return
	}
	if target != gl.FRAMEBUFFER && !r.splitFramebuffers() {
		r.setError(gl.INVALID_ENUM)
		return
	}
	switch target {
	case gl.FRAMEBUFFER:
		r.drawFBO, r.readFBO = fb, fb
	case gl.DRAW_FRAMEBUFFER:
		r.drawFBO = fb
	case gl.READ_FRAMEBUFFER:
		r.readFBO = fb
	}
}

func (r *Recorder) BindTexture(target gl.Enum, t gl.Texture) {
	r.record("BindTexture", target, t.V)
	r.texBinds[texKey{r.activeTex, target}] = t
}

func (r *Recorder) BlendEquation(mode gl.Enum) {
	r.record("BlendEquation", mode)
	if !r.blendEquation() {
		r.setError(gl.INVALID_OPERATION)
		return
	}
	r.blendEq = mode
}

func (r *Recorder) BlendFunc(sfactor, dfactor gl.Enum) {
	r.record("BlendFunc", sfactor, dfactor)
	r.blendSrc, r.blendDst = sfactor, dfactor
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
	r.clearColor = [4]float32{red, green, blue, alpha}
}

func (r *Recorder) DeleteBuffer(b gl.Buffer) {
	r.record("DeleteBuffer", b.V)
	for target, bound := range r.buffers {
		if bound == b {
			r.buffers[target] = gl.Buffer{}
		}
	}
	for array, p := range r.pointers {
		if p.buffer == b {
			p.buffer = gl.Buffer{}
			r.pointers[array] = p
		}
	}
}

func (r *Recorder) DeleteTexture(t gl.Texture) {
	r.record("DeleteTexture", t.V)
	for k, bound := range r.texBinds {
		if bound == t {
			r.texBinds[k] = gl.Texture{}
		}
	}
}

func (r *Recorder) DepthFunc(f gl.Enum) {
	r.record("DepthFunc", f)
	r.depthFunc = f
}

func (r *Recorder) DepthMask(mask bool) {
	r.record("DepthMask", mask)
	r.depthMask = mask
}

// perUnit reports whether cap is a texture unit capability.
func perUnit(cap gl.Enum) bool {
	return cap == gl.TEXTURE_2D || cap == gl.TEXTURE_EXTERNAL_OES
}

func (r *Recorder) setEnabled(cap gl.Enum, enable bool) {
	if err, ok := r.lacksCap(cap); ok {
		r.setError(err)
		return
	}
	if perUnit(cap) {
		r.unitEnabled[texKey{r.activeTex, cap}] = enable
		return
	}
	r.enabled[cap] = enable
}

func (r *Recorder) Disable(cap gl.Enum) {
	r.record("Disable", cap)
	r.setEnabled(cap, false)
}

func (r *Recorder) Enable(cap gl.Enum) {
	r.record("Enable", cap)
	r.setEnabled(cap, true)
}

func (r *Recorder) PixelStorei(pname gl.Enum, param int) {
	r.record("PixelStorei", pname, param)
	if r.lacks(pname) {
		r.setError(gl.INVALID_ENUM)
		return
	}
	r.pixelStore[pname] = param
}

func (r *Recorder) UseProgram(p gl.Program) {
	r.record("UseProgram", p.V)
	if !r.shaders() {
		r.setError(gl.INVALID_OPERATION)
		return
	}
	r.prog = p
}

func (r *Recorder) Viewport(x, y, width, height int) {
	r.record("Viewport", x, y, width, height)
	r.viewport = [4]int{x, y, width, height}
}

func (r *Recorder) GetBinding(pname gl.Enum) gl.Object {
	return gl.Object{V: uint(r.GetInteger(pname))}
}

// GetError returns and clears the pending error.
func (r *Recorder) GetError() gl.Enum {
	err := r.err
	r.err = gl.NO_ERROR
	return err
}

func (r *Recorder) GetFloat4(pname gl.Enum) [4]float32 {
	if r.lacks(pname) {
		r.setError(gl.INVALID_ENUM)
		return [4]float32{}
	}
	switch pname {
	case gl.COLOR_CLEAR_VALUE:
		return r.clearColor
	case gl.CURRENT_COLOR:
		return r.color
	}
	return [4]float32{}
}

func (r *Recorder) GetInteger(pname gl.Enum) int {
	if r.lacks(pname) {
		r.setError(gl.INVALID_ENUM)
		return 0
	}
	switch pname {
	case gl.ACTIVE_TEXTURE:
		return int(r.activeTex)
	case gl.TEXTURE_BINDING_2D:
		return int(r.texBinds[texKey{r.activeTex, gl.TEXTURE_2D}].V)
	case gl.TEXTURE_BINDING_EXTERNAL_OES:
		return int(r.texBinds[texKey{r.activeTex, gl.TEXTURE_EXTERNAL_OES}].V)
	case gl.ARRAY_BUFFER_BINDING:
		return int(r.buffers[gl.ARRAY_BUFFER].V)
	case gl.ELEMENT_ARRAY_BUFFER_BINDING:
		return int(r.buffers[gl.ELEMENT_ARRAY_BUFFER].V)
	case gl.PIXEL_PACK_BUFFER_BINDING:
		return int(r.buffers[gl.PIXEL_PACK_BUFFER].V)
	case gl.PIXEL_UNPACK_BUFFER_BINDING:
		return int(r.buffers[gl.PIXEL_UNPACK_BUFFER].V)
	case gl.UNPACK_ALIGNMENT, gl.PACK_ALIGNMENT, gl.UNPACK_ROW_LENGTH:
		return r.pixelStore[pname]
	case gl.BLEND_SRC_RGB, gl.BLEND_SRC:
		return int(r.blendSrc)
	case gl.BLEND_DST_RGB, gl.BLEND_DST:
		return int(r.blendDst)
	case gl.BLEND_EQUATION_RGB:
		return int(r.blendEq)
	case gl.CURRENT_PROGRAM:
		return int(r.prog.V)
	case gl.FRAMEBUFFER_BINDING:
		return int(r.drawFBO.V)
	case gl.READ_FRAMEBUFFER_BINDING:
		return int(r.readFBO.V)
	case gl.DEPTH_FUNC:
		return int(r.depthFunc)
	case gl.DEPTH_WRITEMASK:
		if r.depthMask {
			return gl.TRUE
		}
		return gl.FALSE
	case gl.MATRIX_MODE:
		return int(r.matrixMode)
	case gl.TEXTURE_COORD_ARRAY_SIZE:
		return r.pointers[gl.TEXTURE_COORD_ARRAY].size
	case gl.TEXTURE_COORD_ARRAY_TYPE:
		return int(r.pointers[gl.TEXTURE_COORD_ARRAY].typ)
	case gl.TEXTURE_COORD_ARRAY_STRIDE:
		return r.pointers[gl.TEXTURE_COORD_ARRAY].stride
	case gl.COLOR_ARRAY_SIZE:
		return r.pointers[gl.COLOR_ARRAY].size
	case gl.COLOR_ARRAY_TYPE:
		return int(r.pointers[gl.COLOR_ARRAY].typ)
	case gl.COLOR_ARRAY_STRIDE:
		return r.pointers[gl.COLOR_ARRAY].stride
	case gl.VERTEX_ARRAY_SIZE:
		return r.pointers[gl.VERTEX_ARRAY].size
	case gl.VERTEX_ARRAY_TYPE:
		return int(r.pointers[gl.VERTEX_ARRAY].typ)
	case gl.VERTEX_ARRAY_STRIDE:
		return r.pointers[gl.VERTEX_ARRAY].stride
	case gl.TEXTURE_COORD_ARRAY_BUFFER_BINDING:
		return int(r.pointers[gl.TEXTURE_COORD_ARRAY].buffer.V)
	case gl.COLOR_ARRAY_BUFFER_BINDING:
		return int(r.pointers[gl.COLOR_ARRAY].buffer.V)
	case gl.VERTEX_ARRAY_BUFFER_BINDING:
		return int(r.pointers[gl.VERTEX_ARRAY].buffer.V)
	}
	return r.Ints[pname]
}

func (r *Recorder) GetInteger4(pname gl.Enum) [4]int {
	if pname == gl.VIEWPORT {
		return r.viewport
	}
	return [4]int{}
}

func (r *Recorder) GetString(pname gl.Enum) string {
	switch pname {
	case gl.VERSION:
		return r.Version
	case gl.EXTENSIONS:
		return strings.Join(r.Extensions, " ")
	case gl.RENDERER:
		return "gltest"
	}
	return ""
}

func (r *Recorder) IsEnabled(cap gl.Enum) bool {
	if err, ok := r.lacksCap(cap); ok {
		r.setError(err)
		return false
	}
	if perUnit(cap) {
		return r.unitEnabled[texKey{r.activeTex, cap}]
	}
	return r.enabled[cap]
}

func (r *Recorder) Color4f(red, green, blue, alpha float32) {
	r.record("Color4f", red, green, blue, alpha)
	if !r.fixedCall() {
		return
	}
	r.color = [4]float32{red, green, blue, alpha}
}

func (r *Recorder) ColorPointer(size int, typ gl.Enum, stride int, offset uintptr) {
	r.record("ColorPointer", size, typ, stride, offset)
	if !r.fixedCall() {
		return
	}
	r.pointers[gl.COLOR_ARRAY] = pointer{size, typ, stride, offset, r.buffers[gl.ARRAY_BUFFER]}
}

func (r *Recorder) DisableClientState(array gl.Enum) {
	r.record("DisableClientState", array)
	if !r.fixedCall() {
		return
	}
	r.enabled[array] = false
}

func (r *Recorder) EnableClientState(array gl.Enum) {
	r.record("EnableClientState", array)
	if !r.fixedCall() {
		return
	}
	r.enabled[array] = true
}

func (r *Recorder) MatrixMode(mode gl.Enum) {
	r.record("MatrixMode", mode)
	if !r.fixedCall() {
		return
	}
	r.matrixMode = mode
}

func (r *Recorder) TexCoordPointer(size int, typ gl.Enum, stride int, offset uintptr) {
	r.record("TexCoordPointer", size, typ, stride, offset)
	if !r.fixedCall() {
		return
	}
	r.pointers[gl.TEXTURE_COORD_ARRAY] = pointer{size, typ, stride, offset, r.buffers[gl.ARRAY_BUFFER]}
}

func (r *Recorder) TexEnvfv(target, pname gl.Enum, params [4]float32) {
	r.record("TexEnvfv", target, pname, params)
	if !r.envUnit() {
		return
	}
	if target == gl.TEXTURE_ENV && pname == gl.TEXTURE_ENV_COLOR {
		r.texEnvCol[r.activeTex] = params
	}
}

func (r *Recorder) TexEnvi(target, pname gl.Enum, param int) {
	r.record("TexEnvi", target, pname, param)
	if !r.envUnit() {
		return
	}
	if target == gl.TEXTURE_ENV && pname == gl.TEXTURE_ENV_MODE {
		r.texEnvMode[r.activeTex] = param
	}
}

func (r *Recorder) VertexPointer(size int, typ gl.Enum, stride int, offset uintptr) {
	r.record("VertexPointer", size, typ, stride, offset)
	if !r.fixedCall() {
		return
	}
	r.pointers[gl.VERTEX_ARRAY] = pointer{size, typ, stride, offset, r.buffers[gl.ARRAY_BUFFER]}
}

// envUnit reports whether the active unit has a texture
// environment, setting the error if not.
func (r *Recorder) envUnit() bool {
	if !r.fixedCall() {
		return false
	}
	if !r.fixedUnit() {
		r.setError(gl.INVALID_OPERATION)
		return false
	}
	return true
}

func (r *Recorder) GetTexEnvi(target, pname gl.Enum) int {
	if !r.envUnit() {
		return 0
	}
	if target == gl.TEXTURE_ENV && pname == gl.TEXTURE_ENV_MODE {
		if m, ok := r.texEnvMode[r.activeTex]; ok {
			return m
		}
		return gl.MODULATE
	}
	return 0
}

func (r *Recorder) GetTexEnv4f(target, pname gl.Enum) [4]float32 {
	if !r.envUnit() {
		return [4]float32{}
	}
	if target == gl.TEXTURE_ENV && pname == gl.TEXTURE_ENV_COLOR {
		return r.texEnvCol[r.activeTex]
	}
	return [4]float32{}
}
