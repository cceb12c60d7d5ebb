// SPDX-License-Identifier: Unlicense OR MIT

package glstate

import (
	"testing"

	"github.com/gfxkit/gfx/gl"
)

func TestLegacyMatrixMode(t *testing.T) {
	s, r := newState(t, "OpenGL ES-CM 1.1")
	l := s.Legacy()
	if l == nil {
		t.Fatal("no fixed-function table on OpenGL ES 1")
	}
	if l.MatrixMode(gl.MODELVIEW) {
		t.Error("MatrixMode with the initial mode was forwarded")
	}
	if !l.MatrixMode(gl.PROJECTION) || l.MatrixMode(gl.PROJECTION) {
		t.Error("MatrixMode elision failed")
	}
	if n := r.Count("MatrixMode"); n != 1 {
		t.Errorf("got %d MatrixMode calls, expected 1", n)
	}
}

func TestLegacyTextureEnables(t *testing.T) {
	s, r := newState(t, "OpenGL ES-CM 1.1")
	if !s.Enable(gl.TEXTURE_2D) || s.Enable(gl.TEXTURE_2D) {
		t.Error("TEXTURE_2D elision failed")
	}
	s.ActiveTexture(gl.TEXTURE1)
	if s.IsEnabled(gl.TEXTURE_2D) {
		t.Error("TEXTURE_2D enabled on unit 1")
	}
	if !s.Enable(gl.TEXTURE_2D) {
		t.Error("TEXTURE_2D on unit 1 was elided")
	}
	if n := r.Count("Enable"); n != 2 {
		t.Errorf("got %d Enable calls, expected 2", n)
	}
	if !s.Enable(gl.ALPHA_TEST) || s.Enable(gl.ALPHA_TEST) {
		t.Error("ALPHA_TEST elision failed")
	}
	expectPanic(t, "unit 2", func() { s.ActiveTexture(gl.TEXTURE2) })
}

func TestLegacyClientStates(t *testing.T) {
	s, r := newState(t, "2.1")
	l := s.Legacy()
	if l.DisableClientState(gl.VERTEX_ARRAY) {
		t.Error("disabling a disabled array was forwarded")
	}
	if !l.EnableClientState(gl.VERTEX_ARRAY) || l.EnableClientState(gl.VERTEX_ARRAY) {
		t.Error("EnableClientState elision failed")
	}
	if !l.IsClientStateEnabled(gl.VERTEX_ARRAY) || l.IsClientStateEnabled(gl.COLOR_ARRAY) {
		t.Error("client states not cached")
	}
	if n := r.Count("EnableClientState"); n != 1 {
		t.Errorf("got %d EnableClientState calls, expected 1", n)
	}
	expectPanic(t, "normal array", func() { l.EnableClientState(0x8075) })
}

func TestLegacyTexEnv(t *testing.T) {
	s, r := newState(t, "OpenGL ES-CM 1.1")
	l := s.Legacy()
	if l.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, gl.MODULATE) {
		t.Error("TexEnvi with the initial mode was forwarded")
	}
	if !l.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, gl.REPLACE) || l.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, gl.REPLACE) {
		t.Error("TexEnvi elision failed")
	}
	s.ActiveTexture(gl.TEXTURE1)
	if got := l.TexEnvMode(); got != gl.MODULATE {
		t.Errorf("unit 1 has env mode 0x%x", got)
	}
	col := [4]float32{1, 0, 0, 1}
	if !l.TexEnvfv(gl.TEXTURE_ENV, gl.TEXTURE_ENV_COLOR, col) || l.TexEnvfv(gl.TEXTURE_ENV, gl.TEXTURE_ENV_COLOR, col) {
		t.Error("TexEnvfv elision failed")
	}
	if l.TexEnvColor() != col {
		t.Error("env color not cached")
	}
	// Untracked parameters are always forwarded.
	const combineRGB = 0x8571
	l.TexEnvi(gl.TEXTURE_ENV, combineRGB, gl.REPLACE)
	l.TexEnvi(gl.TEXTURE_ENV, combineRGB, gl.REPLACE)
	if n := r.Count("TexEnvi"); n != 3 {
		t.Errorf("got %d TexEnvi calls, expected 3", n)
	}
}

func TestLegacyColor(t *testing.T) {
	s, r := newState(t, "2.1")
	l := s.Legacy()
	if l.Color4f(1, 1, 1, 1) {
		t.Error("Color4f with the initial color was forwarded")
	}
	if !l.Color4f(0.5, 0.5, 0.5, 1) || l.Color4f(0.5, 0.5, 0.5, 1) {
		t.Error("Color4f elision failed")
	}
	if l.Color() != [4]float32{0.5, 0.5, 0.5, 1} {
		t.Errorf("Color: got %v", l.Color())
	}
	if n := r.Count("Color4f"); n != 1 {
		t.Errorf("got %d Color4f calls, expected 1", n)
	}
}

func TestLegacyPointers(t *testing.T) {
	s, r := newState(t, "2.1")
	l := s.Legacy()
	if !l.VertexPointer(2, gl.FLOAT, 16, 0) || l.VertexPointer(2, gl.FLOAT, 16, 0) {
		t.Error("VertexPointer elision failed")
	}
	vbo := gl.Buffer{V: 4}
	s.BindBuffer(gl.ARRAY_BUFFER, vbo)
	// Same arguments, different buffer.
	if !l.VertexPointer(2, gl.FLOAT, 16, 0) {
		t.Error("VertexPointer with a new buffer was elided")
	}
	if got := l.Pointer(gl.VERTEX_ARRAY); got != (ArrayPointer{Size: 2, Type: gl.FLOAT, Stride: 16, Buffer: vbo}) {
		t.Errorf("Pointer: got %+v", got)
	}
	if !l.TexCoordPointer(2, gl.FLOAT, 16, 8) || !l.ColorPointer(4, gl.UNSIGNED_BYTE, 16, 12) {
		t.Error("first TexCoordPointer or ColorPointer was elided")
	}
	if l.ColorPointer(4, gl.UNSIGNED_BYTE, 16, 12) {
		t.Error("repeated ColorPointer was forwarded")
	}
	if n := r.Count("VertexPointer"); n != 2 {
		t.Errorf("got %d VertexPointer calls, expected 2", n)
	}
	expectPanic(t, "normal array", func() { l.Pointer(0x8075) })
}

func TestLegacyFixedUnits(t *testing.T) {
	s, r := newState(t, "2.1")
	l := s.Legacy()
	if got := s.Caps().FixedTextureUnits; got != 2 {
		t.Fatalf("got %d fixed-function units, expected 2", got)
	}
	// Unit 2 has texture bindings but no fixed-function state.
	s.ActiveTexture(gl.TEXTURE2)
	if !s.BindTexture(gl.TEXTURE_2D, gl.Texture{V: 1}) {
		t.Error("bind on unit 2 was elided")
	}
	if s.HasCapability(gl.TEXTURE_2D) {
		t.Error("TEXTURE_2D tracked on unit 2")
	}
	if !s.HasCapability(gl.ALPHA_TEST) {
		t.Error("global fixed-function capability lost on unit 2")
	}
	expectPanic(t, "Enable", func() { s.Enable(gl.TEXTURE_2D) })
	expectPanic(t, "TexEnvi", func() { l.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, gl.REPLACE) })
	expectPanic(t, "TexEnvfv", func() { l.TexEnvfv(gl.TEXTURE_ENV, gl.TEXTURE_ENV_COLOR, [4]float32{}) })
	expectPanic(t, "TexEnvMode", func() { l.TexEnvMode() })
	if n := r.Count("Enable") + r.Count("TexEnvi") + r.Count("TexEnvfv"); n != 0 {
		t.Errorf("unsupported calls reached the driver: %v", r.Calls)
	}
	s.ActiveTexture(gl.TEXTURE1)
	if !s.Enable(gl.TEXTURE_2D) {
		t.Error("TEXTURE_2D on unit 1 was elided")
	}
}
