// SPDX-License-Identifier: Unlicense OR MIT

package glstate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gfxkit/gfx/gl"
)

// Snapshot is a copy of the tracked state of a context.
type Snapshot struct {
	ActiveTexture gl.Enum
	// Textures holds the texture bindings by target, for each unit.
	Textures        []map[gl.Enum]gl.Texture
	Enabled         map[gl.Enum]bool
	BlendFunc       [2]gl.Enum
	BlendEquation   gl.Enum
	Buffers         map[gl.Enum]gl.Buffer
	PixelStore      map[gl.Enum]int
	Program         gl.Program
	DrawFramebuffer gl.Framebuffer
	ReadFramebuffer gl.Framebuffer
	Viewport        [4]int
	ClearColor      [4]float32
	DepthFunc       gl.Enum
	DepthMask       bool
	// Legacy is nil if the context lacks the fixed-function pipeline.
	Legacy *LegacySnapshot
}

// LegacySnapshot is a copy of the fixed-function state.
type LegacySnapshot struct {
	MatrixMode   gl.Enum
	Enabled      map[gl.Enum]bool
	Units        []LegacyUnitSnapshot
	ClientStates map[gl.Enum]bool
	Color        [4]float32
	Pointers     map[gl.Enum]ArrayPointer
}

// LegacyUnitSnapshot is the fixed-function state of a texture unit.
type LegacyUnitSnapshot struct {
	Enabled  map[gl.Enum]bool
	EnvMode  int
	EnvColor [4]float32
}

func (t table[V]) values() map[gl.Enum]V {
	m := make(map[gl.Enum]V, len(t))
	for k, s := range t {
		m[k] = s.cur
	}
	return m
}

// load sets the cached values of t from m. Keys missing from m keep
// their value.
func (t table[V]) load(m map[gl.Enum]V) {
	for k, v := range m {
		if s, ok := t[k]; ok {
			s.cur = v
		}
	}
}

// Snapshot returns a copy of the cached state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		ActiveTexture:   s.activeTex.cur,
		Textures:        make([]map[gl.Enum]gl.Texture, len(s.texBinds)),
		Enabled:         s.enables.values(),
		BlendFunc:       s.blendFunc.cur,
		BlendEquation:   s.blendEq.cur,
		Buffers:         s.buffers.values(),
		PixelStore:      s.pixelStore.values(),
		Program:         s.prog.cur,
		DrawFramebuffer: s.drawFBO.cur,
		ReadFramebuffer: s.readFBO.cur,
		Viewport:        s.viewport.cur,
		ClearColor:      s.clearColor.cur,
		DepthFunc:       s.depthFunc.cur,
		DepthMask:       s.depthMask.cur,
	}
	for i, t := range s.texBinds {
		snap.Textures[i] = t.values()
	}
	if l := s.legacy; l != nil {
		ls := &LegacySnapshot{
			MatrixMode:   l.matrixMode.cur,
			Enabled:      l.enables.values(),
			Units:        make([]LegacyUnitSnapshot, len(l.units)),
			ClientStates: l.clientStates.values(),
			Color:        l.color.cur,
			Pointers:     l.pointers.values(),
		}
		for i, u := range l.units {
			ls.Units[i] = LegacyUnitSnapshot{
				Enabled:  u.enables.values(),
				EnvMode:  u.envMode.cur,
				EnvColor: u.envColor.cur,
			}
		}
		snap.Legacy = ls
	}
	return snap
}

// query reads the tracked state from the driver. The driver state is
// left unchanged.
func (s *State) query() Snapshot {
	f := s.funcs
	snap := Snapshot{
		ActiveTexture:   gl.Enum(f.GetInteger(gl.ACTIVE_TEXTURE)),
		Textures:        make([]map[gl.Enum]gl.Texture, len(s.texBinds)),
		Enabled:         make(map[gl.Enum]bool, len(s.enables)),
		BlendFunc:       [2]gl.Enum{gl.Enum(f.GetInteger(s.blendQuery[0])), gl.Enum(f.GetInteger(s.blendQuery[1]))},
		BlendEquation:   s.blendEq.cur,
		Buffers:         make(map[gl.Enum]gl.Buffer, len(s.buffers)),
		PixelStore:      make(map[gl.Enum]int, len(s.pixelStore)),
		Program:         s.prog.cur,
		DrawFramebuffer: s.drawFBO.cur,
		ReadFramebuffer: s.readFBO.cur,
		Viewport:        f.GetInteger4(gl.VIEWPORT),
		ClearColor:      f.GetFloat4(gl.COLOR_CLEAR_VALUE),
		DepthFunc:       gl.Enum(f.GetInteger(gl.DEPTH_FUNC)),
		DepthMask:       f.GetInteger(gl.DEPTH_WRITEMASK) != gl.FALSE,
	}
	// State the context lacks keeps its cached value.
	if s.caps.Has(FeatureBlendEquation) {
		snap.BlendEquation = gl.Enum(f.GetInteger(gl.BLEND_EQUATION_RGB))
	}
	if s.caps.Has(FeatureShaders) {
		snap.Program = gl.Program(f.GetBinding(gl.CURRENT_PROGRAM))
	}
	if s.caps.Has(FeatureFramebuffer) {
		snap.DrawFramebuffer = gl.Framebuffer(f.GetBinding(gl.FRAMEBUFFER_BINDING))
		snap.ReadFramebuffer = snap.DrawFramebuffer
		if s.caps.Has(FeatureSplitFramebuffer) {
			snap.ReadFramebuffer = gl.Framebuffer(f.GetBinding(gl.READ_FRAMEBUFFER_BINDING))
		}
	}
	for c := range s.enables {
		snap.Enabled[c] = f.IsEnabled(c)
	}
	for target := range s.buffers {
		snap.Buffers[target] = gl.Buffer(f.GetBinding(bufferBindings[target]))
	}
	for pname := range s.pixelStore {
		snap.PixelStore[pname] = f.GetInteger(pname)
	}
	l := s.legacy
	if l != nil {
		snap.Legacy = &LegacySnapshot{
			MatrixMode:   gl.Enum(f.GetInteger(gl.MATRIX_MODE)),
			Enabled:      make(map[gl.Enum]bool, len(l.enables)),
			Units:        make([]LegacyUnitSnapshot, len(l.units)),
			ClientStates: make(map[gl.Enum]bool, len(l.clientStates)),
			Color:        f.GetFloat4(gl.CURRENT_COLOR),
			Pointers:     make(map[gl.Enum]ArrayPointer, len(l.pointers)),
		}
		for c := range l.enables {
			snap.Legacy.Enabled[c] = f.IsEnabled(c)
		}
		for array := range l.clientStates {
			snap.Legacy.ClientStates[array] = f.IsEnabled(array)
		}
		for array := range l.pointers {
			snap.Legacy.Pointers[array] = l.queryPointer(array)
		}
	}
	// Per-unit state requires switching the active unit.
	for i, t := range s.texBinds {
		f.ActiveTexture(gl.TEXTURE0 + gl.Enum(i))
		binds := make(map[gl.Enum]gl.Texture, len(t))
		for target := range t {
			binds[target] = gl.Texture(f.GetBinding(textureBindings[target]))
		}
		snap.Textures[i] = binds
		if l != nil && i < len(l.units) {
			u := l.units[i]
			us := LegacyUnitSnapshot{
				Enabled:  make(map[gl.Enum]bool, len(u.enables)),
				EnvMode:  l.funcs.GetTexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE),
				EnvColor: l.funcs.GetTexEnv4f(gl.TEXTURE_ENV, gl.TEXTURE_ENV_COLOR),
			}
			for c := range u.enables {
				us.Enabled[c] = f.IsEnabled(c)
			}
			snap.Legacy.Units[i] = us
		}
	}
	f.ActiveTexture(snap.ActiveTexture)
	return snap
}

// Load replaces the cached state with the state reported by the
// driver. Use it to adopt a context that other code has modified, for
// example at the start of a frame in an embedding application. Load
// panics if the active texture unit of the context is not tracked.
func (s *State) Load() {
	snap := s.query()
	if u := snap.ActiveTexture; u < gl.TEXTURE0 || int(u-gl.TEXTURE0) >= len(s.texBinds) {
		unsupported("texture unit", u)
	}
	s.activeTex.cur = snap.ActiveTexture
	for i, t := range s.texBinds {
		t.load(snap.Textures[i])
	}
	s.enables.load(snap.Enabled)
	s.blendFunc.cur = snap.BlendFunc
	s.blendEq.cur = snap.BlendEquation
	s.buffers.load(snap.Buffers)
	s.pixelStore.load(snap.PixelStore)
	s.prog.cur = snap.Program
	s.drawFBO.cur = snap.DrawFramebuffer
	s.readFBO.cur = snap.ReadFramebuffer
	s.viewport.cur = snap.Viewport
	s.clearColor.cur = snap.ClearColor
	s.depthFunc.cur = snap.DepthFunc
	s.depthMask.cur = snap.DepthMask
	if l := s.legacy; l != nil {
		ls := snap.Legacy
		l.matrixMode.cur = ls.MatrixMode
		l.enables.load(ls.Enabled)
		for i := range l.units {
			u := &l.units[i]
			u.enables.load(ls.Units[i].Enabled)
			u.envMode.cur = ls.Units[i].EnvMode
			u.envColor.cur = ls.Units[i].EnvColor
		}
		l.clientStates.load(ls.ClientStates)
		l.color.cur = ls.Color
		l.pointers.load(ls.Pointers)
	}
	s.log.Debug("glstate: loaded driver state", "program", snap.Program.V, "framebuffer", snap.DrawFramebuffer.V)
}

// Restore changes the context to the state in snap, forwarding only
// the calls needed. The snapshot must come from a State with the same
// capabilities.
func (s *State) Restore(snap Snapshot) {
	for i, binds := range snap.Textures {
		if s.unitMatches(i, snap) {
			continue
		}
		s.ActiveTexture(gl.TEXTURE0 + gl.Enum(i))
		for target, t := range binds {
			s.BindTexture(target, t)
		}
		if s.legacy != nil && snap.Legacy != nil && i < len(snap.Legacy.Units) {
			u := snap.Legacy.Units[i]
			for c, enable := range u.Enabled {
				s.Set(c, enable)
			}
			s.legacy.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, u.EnvMode)
			s.legacy.TexEnvfv(gl.TEXTURE_ENV, gl.TEXTURE_ENV_COLOR, u.EnvColor)
		}
	}
	s.ActiveTexture(snap.ActiveTexture)
	switch {
	case !s.caps.Has(FeatureFramebuffer):
	case !s.caps.Has(FeatureSplitFramebuffer), snap.DrawFramebuffer == snap.ReadFramebuffer:
		s.BindFramebuffer(gl.FRAMEBUFFER, snap.DrawFramebuffer)
	default:
		s.BindFramebuffer(gl.DRAW_FRAMEBUFFER, snap.DrawFramebuffer)
		s.BindFramebuffer(gl.READ_FRAMEBUFFER, snap.ReadFramebuffer)
	}
	for c, enable := range snap.Enabled {
		s.Set(c, enable)
	}
	s.BlendFunc(snap.BlendFunc[0], snap.BlendFunc[1])
	if s.caps.Has(FeatureBlendEquation) {
		s.BlendEquation(snap.BlendEquation)
	}
	s.DepthFunc(snap.DepthFunc)
	s.DepthMask(snap.DepthMask)
	if s.caps.Has(FeatureShaders) {
		s.UseProgram(snap.Program)
	}
	for pname, v := range snap.PixelStore {
		s.PixelStorei(pname, v)
	}
	if l, ls := s.legacy, snap.Legacy; l != nil && ls != nil {
		l.MatrixMode(ls.MatrixMode)
		for c, enable := range ls.Enabled {
			s.Set(c, enable)
		}
		for array, enable := range ls.ClientStates {
			l.SetClientState(array, enable)
		}
		l.Color4f(ls.Color[0], ls.Color[1], ls.Color[2], ls.Color[3])
		for array, p := range ls.Pointers {
			s.BindBuffer(gl.ARRAY_BUFFER, p.Buffer)
			l.setPointer(array, p.Size, p.Type, p.Stride, p.Offset, l.pointerFunc(array))
		}
	}
	for target, b := range snap.Buffers {
		s.BindBuffer(target, b)
	}
	v := snap.Viewport
	s.Viewport(v[0], v[1], v[2], v[3])
	c := snap.ClearColor
	s.ClearColor(c[0], c[1], c[2], c[3])
}

// unitMatches reports whether the cached state of texture unit i
// equals its state in snap.
func (s *State) unitMatches(i int, snap Snapshot) bool {
	for target, t := range snap.Textures[i] {
		if b, ok := s.texBinds[i][target]; !ok || b.cur != t {
			return false
		}
	}
	if s.legacy == nil || snap.Legacy == nil || i >= len(s.legacy.units) || i >= len(snap.Legacy.Units) {
		return true
	}
	u, us := &s.legacy.units[i], snap.Legacy.Units[i]
	for c, enable := range us.Enabled {
		if e, ok := u.enables[c]; !ok || e.cur != enable {
			return false
		}
	}
	return u.envMode.cur == us.EnvMode && u.envColor.cur == us.EnvColor
}

// Check compares the cache with the state reported by the driver and
// returns an error describing every difference.
func (s *State) Check() error {
	var diffs []string
	cmp := func(name string, cached, driver interface{}) {
		if !reflect.DeepEqual(cached, driver) {
			diffs = append(diffs, fmt.Sprintf("%s: cached %v, driver %v", name, cached, driver))
		}
	}
	c, d := s.Snapshot(), s.query()
	if err := s.funcs.GetError(); err != gl.NO_ERROR {
		diffs = append(diffs, fmt.Sprintf("driver error 0x%x", uint(err)))
	}
	cmp("active texture", c.ActiveTexture, d.ActiveTexture)
	cmp("textures", c.Textures, d.Textures)
	cmp("capabilities", c.Enabled, d.Enabled)
	cmp("blend func", c.BlendFunc, d.BlendFunc)
	cmp("blend equation", c.BlendEquation, d.BlendEquation)
	cmp("buffers", c.Buffers, d.Buffers)
	cmp("pixel store", c.PixelStore, d.PixelStore)
	cmp("program", c.Program, d.Program)
	cmp("draw framebuffer", c.DrawFramebuffer, d.DrawFramebuffer)
	cmp("read framebuffer", c.ReadFramebuffer, d.ReadFramebuffer)
	cmp("viewport", c.Viewport, d.Viewport)
	cmp("clear color", c.ClearColor, d.ClearColor)
	cmp("depth func", c.DepthFunc, d.DepthFunc)
	cmp("depth mask", c.DepthMask, d.DepthMask)
	if c.Legacy != nil {
		cmp("matrix mode", c.Legacy.MatrixMode, d.Legacy.MatrixMode)
		cmp("fixed-function capabilities", c.Legacy.Enabled, d.Legacy.Enabled)
		cmp("texture units", c.Legacy.Units, d.Legacy.Units)
		cmp("client states", c.Legacy.ClientStates, d.Legacy.ClientStates)
		cmp("current color", c.Legacy.Color, d.Legacy.Color)
		cmp("array pointers", c.Legacy.Pointers, d.Legacy.Pointers)
	}
	if len(diffs) == 0 {
		return nil
	}
	return errors.New("glstate: cache diverged: " + strings.Join(diffs, "; "))
}
