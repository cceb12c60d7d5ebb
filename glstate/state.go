// SPDX-License-Identifier: Unlicense OR MIT

package glstate

import (
	"fmt"
	"log/slog"

	"github.com/gfxkit/gfx/gl"
)

// State caches the OpenGL state of a single context and forwards a
// call to the driver only when it changes that state.
//
// The cache is the sole source of truth for the tracked state: no
// other code may change it through the driver directly, except
// before a call to Load. A State must only be used from the goroutine
// owning the context.
type State struct {
	funcs  gl.Functions
	caps   Caps
	log    *slog.Logger
	verify bool
	stats  Stats

	activeTex slot[gl.Enum]
	// texBinds holds the texture bindings of each texture unit.
	texBinds   []table[gl.Texture]
	enables    table[bool]
	blendFunc  slot[[2]gl.Enum]
	blendEq    slot[gl.Enum]
	// blendQuery holds the pnames reporting the blend factors.
	blendQuery [2]gl.Enum
	buffers    table[gl.Buffer]
	pixelStore table[int]

	prog       slot[gl.Program]
	drawFBO    slot[gl.Framebuffer]
	readFBO    slot[gl.Framebuffer]
	viewport   slot[[4]int]
	clearColor slot[[4]float32]
	depthFunc  slot[gl.Enum]
	depthMask  slot[bool]

	legacy *Legacy
}

// Options configures a State.
type Options struct {
	// Caps overrides capability negotiation with QueryCaps.
	Caps *Caps
	// Verify re-queries the driver after every forwarded call and
	// panics if the driver disagrees with the cache. It is meant for
	// debugging only.
	Verify bool
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Stats counts the calls seen by a State.
type Stats struct {
	// Forwarded is the number of calls passed to the driver.
	Forwarded int
	// Elided is the number of calls dropped as redundant.
	Elided int
}

// slot is a single piece of tracked state.
type slot[V comparable] struct {
	cur, def V
}

func newSlot[V comparable](def V) slot[V] {
	return slot[V]{cur: def, def: def}
}

// table maps a key to its slot. Keys are only present for state
// supported by the context; a missing key means unsupported.
type table[V comparable] map[gl.Enum]*slot[V]

func (s *slot[V]) reset() {
	s.cur = s.def
}

func (t table[V]) add(key gl.Enum, def V) {
	s := newSlot(def)
	t[key] = &s
}

func (t table[V]) reset() {
	for _, s := range t {
		s.reset()
	}
}

// Binding queries, indexed by bind target.
var (
	textureBindings = map[gl.Enum]gl.Enum{
		gl.TEXTURE_2D:           gl.TEXTURE_BINDING_2D,
		gl.TEXTURE_EXTERNAL_OES: gl.TEXTURE_BINDING_EXTERNAL_OES,
	}
	bufferBindings = map[gl.Enum]gl.Enum{
		gl.ARRAY_BUFFER:         gl.ARRAY_BUFFER_BINDING,
		gl.ELEMENT_ARRAY_BUFFER: gl.ELEMENT_ARRAY_BUFFER_BINDING,
		gl.PIXEL_PACK_BUFFER:    gl.PIXEL_PACK_BUFFER_BINDING,
		gl.PIXEL_UNPACK_BUFFER:  gl.PIXEL_UNPACK_BUFFER_BINDING,
	}
)

// New creates a State for the context current on the calling
// goroutine. The cache starts out with the OpenGL initial state; call
// Load to adopt a context already modified by other code.
func New(f gl.Functions, opts Options) (*State, error) {
	log := opts.Logger
	if log == nil {
		log = newNopLogger()
	}
	var caps Caps
	if opts.Caps != nil {
		caps = *opts.Caps
	} else {
		c, err := QueryCaps(f)
		if err != nil {
			return nil, fmt.Errorf("glstate: %w", err)
		}
		caps = c
	}
	ff, hasFF := f.(gl.FixedFunctions)
	if caps.Has(FeatureFixedFunction) && !hasFF {
		log.Debug("glstate: driver lacks fixed-function entry points", "driver", fmt.Sprintf("%T", f))
		caps.Features &^= FeatureFixedFunction
	}
	caps.clamp()
	s := &State{
		funcs:  f,
		caps:   caps,
		log:    log,
		verify: opts.Verify,
	}
	s.init()
	if caps.Has(FeatureFixedFunction) {
		s.legacy = newLegacy(s, ff)
	}
	log.Debug("glstate: context negotiated", "caps", caps.String(), "verify", opts.Verify)
	return s, nil
}

func (s *State) init() {
	c := s.caps
	s.activeTex = newSlot[gl.Enum](gl.TEXTURE0)
	s.texBinds = make([]table[gl.Texture], c.TextureUnits)
	for i := range s.texBinds {
		t := make(table[gl.Texture])
		t.add(gl.TEXTURE_2D, gl.Texture{})
		if c.Has(FeatureTextureExternal) {
			t.add(gl.TEXTURE_EXTERNAL_OES, gl.Texture{})
		}
		s.texBinds[i] = t
	}

	s.enables = make(table[bool])
	s.enables.add(gl.DEPTH_TEST, false)
	s.enables.add(gl.BLEND, false)
	s.enables.add(gl.SCISSOR_TEST, false)
	s.enables.add(gl.CULL_FACE, false)
	s.enables.add(gl.DITHER, true)
	if c.Has(FeatureMultisample) {
		s.enables.add(gl.MULTISAMPLE, true)
	}

	s.blendFunc = newSlot([2]gl.Enum{gl.ONE, gl.ZERO})
	s.blendQuery = [2]gl.Enum{gl.BLEND_SRC_RGB, gl.BLEND_DST_RGB}
	if c.ES && c.Version[0] == 1 {
		s.blendQuery = [2]gl.Enum{gl.BLEND_SRC, gl.BLEND_DST}
	}
	s.blendEq = newSlot[gl.Enum](gl.FUNC_ADD)

	s.buffers = make(table[gl.Buffer])
	s.buffers.add(gl.ARRAY_BUFFER, gl.Buffer{})
	s.buffers.add(gl.ELEMENT_ARRAY_BUFFER, gl.Buffer{})
	if c.Has(FeaturePixelBuffer) {
		s.buffers.add(gl.PIXEL_PACK_BUFFER, gl.Buffer{})
		s.buffers.add(gl.PIXEL_UNPACK_BUFFER, gl.Buffer{})
	}

	s.pixelStore = make(table[int])
	s.pixelStore.add(gl.UNPACK_ALIGNMENT, 4)
	s.pixelStore.add(gl.PACK_ALIGNMENT, 4)
	if c.Has(FeatureUnpackRowLength) {
		s.pixelStore.add(gl.UNPACK_ROW_LENGTH, 0)
	}

	s.prog = newSlot(gl.Program{})
	s.drawFBO = newSlot(gl.Framebuffer{})
	s.readFBO = newSlot(gl.Framebuffer{})
	s.viewport = newSlot([4]int{})
	s.clearColor = newSlot([4]float32{})
	s.depthFunc = newSlot[gl.Enum](gl.LESS)
	s.depthMask = newSlot(true)
}

// Caps returns the negotiated capabilities.
func (s *State) Caps() Caps {
	return s.caps
}

// Legacy returns the fixed-function sub-table, or nil if the context
// does not support the fixed-function pipeline.
func (s *State) Legacy() *Legacy {
	return s.legacy
}

// Reset reverts the cache to the OpenGL initial state without
// calling the driver, for use after the context has been recreated.
func (s *State) Reset() {
	s.activeTex.reset()
	for _, t := range s.texBinds {
		t.reset()
	}
	s.enables.reset()
	s.blendFunc.reset()
	s.blendEq.reset()
	s.buffers.reset()
	s.pixelStore.reset()
	s.prog.reset()
	s.drawFBO.reset()
	s.readFBO.reset()
	s.viewport.reset()
	s.clearColor.reset()
	s.depthFunc.reset()
	s.depthMask.reset()
	if s.legacy != nil {
		s.legacy.reset()
	}
}

func (s *State) Stats() Stats {
	return s.stats
}

func (s *State) ResetStats() {
	s.stats = Stats{}
}

func (s *State) elided() bool {
	s.stats.Elided++
	return false
}

func (s *State) forwarded() bool {
	s.stats.Forwarded++
	return true
}

// check panics if the driver value got differs from the cached value
// want, or if the driver reports an error. It is only called in
// verify mode.
func (s *State) check(what string, want, got interface{}) {
	if err := s.funcs.GetError(); err != gl.NO_ERROR {
		s.log.Error("glstate: driver error", "state", what, "error", fmt.Sprintf("0x%x", uint(err)))
		panic(fmt.Errorf("glstate: %s: driver error 0x%x", what, uint(err)))
	}
	if want == got {
		return
	}
	s.log.Error("glstate: cache diverged from driver", "state", what, "cached", want, "driver", got)
	panic(fmt.Errorf("glstate: %s: cached %v, driver reports %v", what, want, got))
}

func unsupported(kind string, key gl.Enum) {
	panic(fmt.Errorf("glstate: unsupported %s 0x%x", kind, uint(key)))
}

// unit returns the index of the active texture unit.
func (s *State) unit() int {
	return int(s.activeTex.cur - gl.TEXTURE0)
}

// ActiveTexture selects the texture unit affected by BindTexture.
func (s *State) ActiveTexture(unit gl.Enum) bool {
	if unit < gl.TEXTURE0 || int(unit-gl.TEXTURE0) >= len(s.texBinds) {
		unsupported("texture unit", unit)
	}
	if unit == s.activeTex.cur {
		return s.elided()
	}
	s.funcs.ActiveTexture(unit)
	s.activeTex.cur = unit
	if s.verify {
		s.check("ACTIVE_TEXTURE", unit, gl.Enum(s.funcs.GetInteger(gl.ACTIVE_TEXTURE)))
	}
	return s.forwarded()
}

// ActiveTextureUnit returns the active texture unit.
func (s *State) ActiveTextureUnit() gl.Enum {
	return s.activeTex.cur
}

func (s *State) texSlot(target gl.Enum) *slot[gl.Texture] {
	t, ok := s.texBinds[s.unit()][target]
	if !ok {
		unsupported("texture target", target)
	}
	return t
}

// BindTexture binds t to target on the active texture unit and
// reports whether the driver was called.
func (s *State) BindTexture(target gl.Enum, t gl.Texture) bool {
	b := s.texSlot(target)
	if t == b.cur {
		return s.elided()
	}
	s.funcs.BindTexture(target, t)
	b.cur = t
	if s.verify {
		s.check("texture binding", t, gl.Texture(s.funcs.GetBinding(textureBindings[target])))
	}
	return s.forwarded()
}

// BoundTexture returns the texture bound to target on the active
// texture unit.
func (s *State) BoundTexture(target gl.Enum) gl.Texture {
	return s.texSlot(target).cur
}

// DeleteTexture deletes t. Like OpenGL, every binding of t reverts
// to the zero texture.
func (s *State) DeleteTexture(t gl.Texture) {
	s.funcs.DeleteTexture(t)
	for _, unit := range s.texBinds {
		for _, b := range unit {
			if b.cur == t {
				b.cur = gl.Texture{}
			}
		}
	}
	s.forwarded()
}

// capability resolves cap to its slot, looking in the legacy
// sub-table if present. It returns nil for unsupported capabilities.
func (s *State) capability(cap gl.Enum) *slot[bool] {
	if c, ok := s.enables[cap]; ok {
		return c
	}
	if s.legacy != nil {
		return s.legacy.capability(cap)
	}
	return nil
}

// HasCapability reports whether cap is tracked for this context.
func (s *State) HasCapability(cap gl.Enum) bool {
	return s.capability(cap) != nil
}

// Set enables or disables cap and reports whether the driver was
// called.
func (s *State) Set(cap gl.Enum, enable bool) bool {
	c := s.capability(cap)
	if c == nil {
		unsupported("capability", cap)
	}
	if enable == c.cur {
		return s.elided()
	}
	if enable {
		s.funcs.Enable(cap)
	} else {
		s.funcs.Disable(cap)
	}
	c.cur = enable
	if s.verify {
		s.check(fmt.Sprintf("capability 0x%x", uint(cap)), enable, s.funcs.IsEnabled(cap))
	}
	return s.forwarded()
}

func (s *State) Enable(cap gl.Enum) bool {
	return s.Set(cap, true)
}

func (s *State) Disable(cap gl.Enum) bool {
	return s.Set(cap, false)
}

// IsEnabled returns the cached state of cap.
func (s *State) IsEnabled(cap gl.Enum) bool {
	c := s.capability(cap)
	if c == nil {
		unsupported("capability", cap)
	}
	return c.cur
}

// BlendFunc sets the blend factors. The call is elided only if
// both factors are unchanged.
func (s *State) BlendFunc(sfactor, dfactor gl.Enum) bool {
	v := [2]gl.Enum{sfactor, dfactor}
	if v == s.blendFunc.cur {
		return s.elided()
	}
	s.funcs.BlendFunc(sfactor, dfactor)
	s.blendFunc.cur = v
	if s.verify {
		got := [2]gl.Enum{
			gl.Enum(s.funcs.GetInteger(s.blendQuery[0])),
			gl.Enum(s.funcs.GetInteger(s.blendQuery[1])),
		}
		s.check("blend func", v, got)
	}
	return s.forwarded()
}

// BlendFactors returns the cached source and destination factors.
func (s *State) BlendFactors() (sfactor, dfactor gl.Enum) {
	return s.blendFunc.cur[0], s.blendFunc.cur[1]
}

// BlendEquation sets the blend equation. It requires
// FeatureBlendEquation.
func (s *State) BlendEquation(mode gl.Enum) bool {
	if !s.caps.Has(FeatureBlendEquation) {
		unsupported("blend equation", mode)
	}
	if mode == s.blendEq.cur {
		return s.elided()
	}
	s.funcs.BlendEquation(mode)
	s.blendEq.cur = mode
	if s.verify {
		s.check("blend equation", mode, gl.Enum(s.funcs.GetInteger(gl.BLEND_EQUATION_RGB)))
	}
	return s.forwarded()
}

func (s *State) BlendEquationMode() gl.Enum {
	return s.blendEq.cur
}

func (s *State) bufSlot(target gl.Enum) *slot[gl.Buffer] {
	b, ok := s.buffers[target]
	if !ok {
		unsupported("buffer target", target)
	}
	return b
}

// BindBuffer binds buf to target and reports whether the driver was
// called.
func (s *State) BindBuffer(target gl.Enum, buf gl.Buffer) bool {
	b := s.bufSlot(target)
	if buf == b.cur {
		return s.elided()
	}
	s.funcs.BindBuffer(target, buf)
	b.cur = buf
	if s.verify {
		s.check("buffer binding", buf, gl.Buffer(s.funcs.GetBinding(bufferBindings[target])))
	}
	return s.forwarded()
}

func (s *State) BoundBuffer(target gl.Enum) gl.Buffer {
	return s.bufSlot(target).cur
}

// IsBound reports whether a non-zero buffer is bound to target.
func (s *State) IsBound(target gl.Enum) bool {
	return s.bufSlot(target).cur.Valid()
}

// VBOIsBound reports whether a buffer is bound to ARRAY_BUFFER.
func (s *State) VBOIsBound() bool {
	return s.IsBound(gl.ARRAY_BUFFER)
}

// DeleteBuffer deletes buf. Every binding of buf reverts to the zero
// buffer.
func (s *State) DeleteBuffer(buf gl.Buffer) {
	s.funcs.DeleteBuffer(buf)
	for _, b := range s.buffers {
		if b.cur == buf {
			b.cur = gl.Buffer{}
		}
	}
	if s.legacy != nil {
		s.legacy.deleteBuffer(buf)
	}
	s.forwarded()
}

func (s *State) storeSlot(pname gl.Enum) *slot[int] {
	p, ok := s.pixelStore[pname]
	if !ok {
		unsupported("pixel store parameter", pname)
	}
	return p
}

// PixelStorei sets a pixel store parameter and reports whether the
// driver was called.
func (s *State) PixelStorei(pname gl.Enum, param int) bool {
	p := s.storeSlot(pname)
	if param == p.cur {
		return s.elided()
	}
	s.funcs.PixelStorei(pname, param)
	p.cur = param
	if s.verify {
		s.check(fmt.Sprintf("pixel store 0x%x", uint(pname)), param, s.funcs.GetInteger(pname))
	}
	return s.forwarded()
}

func (s *State) PixelStore(pname gl.Enum) int {
	return s.storeSlot(pname).cur
}

// UseProgram makes p the current program. It requires
// FeatureShaders.
func (s *State) UseProgram(p gl.Program) bool {
	if !s.caps.Has(FeatureShaders) {
		unsupported("program", gl.Enum(p.V))
	}
	if p == s.prog.cur {
		return s.elided()
	}
	s.funcs.UseProgram(p)
	s.prog.cur = p
	if s.verify {
		s.check("program", p, gl.Program(s.funcs.GetBinding(gl.CURRENT_PROGRAM)))
	}
	return s.forwarded()
}

func (s *State) Program() gl.Program {
	return s.prog.cur
}

// BindFramebuffer binds fbo to target. FRAMEBUFFER binds both the
// draw and read framebuffers. DRAW_FRAMEBUFFER and READ_FRAMEBUFFER
// require FeatureSplitFramebuffer.
func (s *State) BindFramebuffer(target gl.Enum, fbo gl.Framebuffer) bool {
	split := s.caps.Has(FeatureSplitFramebuffer)
	switch {
	case !s.caps.Has(FeatureFramebuffer):
		unsupported("framebuffer target", target)
	case target == gl.FRAMEBUFFER:
		if fbo == s.drawFBO.cur && fbo == s.readFBO.cur {
			return s.elided()
		}
		s.drawFBO.cur = fbo
		s.readFBO.cur = fbo
	case target == gl.DRAW_FRAMEBUFFER && split:
		if fbo == s.drawFBO.cur {
			return s.elided()
		}
		s.drawFBO.cur = fbo
	case target == gl.READ_FRAMEBUFFER && split:
		if fbo == s.readFBO.cur {
			return s.elided()
		}
		s.readFBO.cur = fbo
	default:
		unsupported("framebuffer target", target)
	}
	s.funcs.BindFramebuffer(target, fbo)
	if s.verify {
		if target != gl.READ_FRAMEBUFFER {
			s.check("draw framebuffer", fbo, gl.Framebuffer(s.funcs.GetBinding(gl.FRAMEBUFFER_BINDING)))
		}
		if split && target != gl.DRAW_FRAMEBUFFER {
			s.check("read framebuffer", fbo, gl.Framebuffer(s.funcs.GetBinding(gl.READ_FRAMEBUFFER_BINDING)))
		}
	}
	return s.forwarded()
}

// Framebuffers returns the bound draw and read framebuffers.
func (s *State) Framebuffers() (draw, read gl.Framebuffer) {
	return s.drawFBO.cur, s.readFBO.cur
}

func (s *State) Viewport(x, y, width, height int) bool {
	v := [4]int{x, y, width, height}
	if v == s.viewport.cur {
		return s.elided()
	}
	s.funcs.Viewport(x, y, width, height)
	s.viewport.cur = v
	if s.verify {
		s.check("viewport", v, s.funcs.GetInteger4(gl.VIEWPORT))
	}
	return s.forwarded()
}

func (s *State) ViewportRect() [4]int {
	return s.viewport.cur
}

func (s *State) ClearColor(r, g, b, a float32) bool {
	col := [4]float32{r, g, b, a}
	if col == s.clearColor.cur {
		return s.elided()
	}
	s.funcs.ClearColor(r, g, b, a)
	s.clearColor.cur = col
	if s.verify {
		s.check("clear color", col, s.funcs.GetFloat4(gl.COLOR_CLEAR_VALUE))
	}
	return s.forwarded()
}

func (s *State) ClearColorValue() [4]float32 {
	return s.clearColor.cur
}

func (s *State) DepthFunc(f gl.Enum) bool {
	if f == s.depthFunc.cur {
		return s.elided()
	}
	s.funcs.DepthFunc(f)
	s.depthFunc.cur = f
	if s.verify {
		s.check("depth func", f, gl.Enum(s.funcs.GetInteger(gl.DEPTH_FUNC)))
	}
	return s.forwarded()
}

func (s *State) DepthFuncValue() gl.Enum {
	return s.depthFunc.cur
}

func (s *State) DepthMask(mask bool) bool {
	if mask == s.depthMask.cur {
		return s.elided()
	}
	s.funcs.DepthMask(mask)
	s.depthMask.cur = mask
	if s.verify {
		s.check("depth mask", mask, s.funcs.GetInteger(gl.DEPTH_WRITEMASK) != gl.FALSE)
	}
	return s.forwarded()
}

func (s *State) DepthMaskValue() bool {
	return s.depthMask.cur
}
