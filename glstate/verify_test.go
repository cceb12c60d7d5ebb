// SPDX-License-Identifier: Unlicense OR MIT

package glstate

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gfxkit/gfx/gl"
	"github.com/gfxkit/gfx/internal/gltest"
)

// lossyDriver drops texture binds and client color changes.
type lossyDriver struct {
	*gltest.Recorder
}

func (lossyDriver) BindTexture(gl.Enum, gl.Texture) {}

func (lossyDriver) Color4f(r, g, b, a float32) {}

func TestVerify(t *testing.T) {
	r := gltest.NewRecorder("3.0")
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := New(r, Options{Verify: true, Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	// A faithful driver passes verification.
	s.BindTexture(gl.TEXTURE_2D, gl.Texture{V: 1})
	s.Enable(gl.BLEND)
	s.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	s.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{V: 1})
	s.Viewport(0, 0, 16, 16)
	s.DepthMask(false)
	l := s.Legacy()
	l.EnableClientState(gl.VERTEX_ARRAY)
	l.VertexPointer(2, gl.FLOAT, 0, 0)
	l.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, gl.REPLACE)
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestVerifyDivergence(t *testing.T) {
	d := lossyDriver{gltest.NewRecorder("2.1")}
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := New(d, Options{Verify: true, Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	expectPanic(t, "BindTexture", func() { s.BindTexture(gl.TEXTURE_2D, gl.Texture{V: 1}) })
	expectPanic(t, "Color4f", func() { s.Legacy().Color4f(0, 0, 0, 1) })
	if !strings.Contains(buf.String(), "cache diverged") {
		t.Errorf("divergence not logged: %s", buf.String())
	}
}

func TestVerifyOff(t *testing.T) {
	d := lossyDriver{gltest.NewRecorder("2.1")}
	s, err := New(d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	s.BindTexture(gl.TEXTURE_2D, gl.Texture{V: 1})
	if err := s.Check(); err == nil || !strings.Contains(err.Error(), "textures") {
		t.Errorf("Check: got %v", err)
	}
}

func TestVerifyES1(t *testing.T) {
	r := gltest.NewRecorder("OpenGL ES-CM 1.1")
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := New(r, Options{Verify: true, Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	// Blend factors are verified through BLEND_SRC and BLEND_DST.
	s.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	s.Enable(gl.TEXTURE_2D)
	s.ActiveTexture(gl.TEXTURE1)
	s.BindTexture(gl.TEXTURE_2D, gl.Texture{V: 2})
	l := s.Legacy()
	l.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, gl.REPLACE)
	l.Color4f(0, 0, 0, 1)
	expectPanic(t, "BindFramebuffer", func() { s.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{V: 1}) })
	expectPanic(t, "BlendEquation", func() { s.BlendEquation(gl.FUNC_SUBTRACT) })
	expectPanic(t, "UseProgram", func() { s.UseProgram(gl.Program{V: 1}) })
	if n := r.Count("BindFramebuffer") + r.Count("BlendEquation") + r.Count("UseProgram"); n != 0 {
		t.Errorf("unsupported calls reached the driver: %v", r.Calls)
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestVerifyES1Extensions(t *testing.T) {
	r := gltest.NewRecorder("OpenGL ES-CM 1.1", "GL_OES_framebuffer_object", "GL_OES_blend_subtract")
	s, err := New(r, Options{Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	if !s.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{V: 1}) || !s.BlendEquation(gl.FUNC_SUBTRACT) {
		t.Error("extension state was elided")
	}
	expectPanic(t, "DRAW_FRAMEBUFFER", func() { s.BindFramebuffer(gl.DRAW_FRAMEBUFFER, gl.Framebuffer{V: 2}) })
	if err := s.Check(); err != nil {
		t.Error(err)
	}
}

func TestVerifyES2(t *testing.T) {
	r := gltest.NewRecorder("OpenGL ES 2.0")
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := New(r, Options{Verify: true, Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	fbo := gl.Framebuffer{V: 3}
	// Without split framebuffers the read binding is not queried.
	if !s.BindFramebuffer(gl.FRAMEBUFFER, fbo) {
		t.Error("BindFramebuffer was elided")
	}
	if draw, read := s.Framebuffers(); draw != fbo || read != fbo {
		t.Errorf("Framebuffers: got %v, %v", draw, read)
	}
	expectPanic(t, "DRAW_FRAMEBUFFER", func() { s.BindFramebuffer(gl.DRAW_FRAMEBUFFER, gl.Framebuffer{}) })
	expectPanic(t, "READ_FRAMEBUFFER", func() { s.BindFramebuffer(gl.READ_FRAMEBUFFER, gl.Framebuffer{}) })
	s.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	s.BlendEquation(gl.FUNC_SUBTRACT)
	s.UseProgram(gl.Program{V: 5})
	if err := s.Check(); err != nil {
		t.Error(err)
	}
	if e := r.GetError(); e != gl.NO_ERROR {
		t.Errorf("driver error 0x%x", uint(e))
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestVerifyDriverError(t *testing.T) {
	r := gltest.NewRecorder("OpenGL ES 2.0")
	s, err := New(r, Options{Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	// An error left by foreign code is reported by the next check.
	r.BindFramebuffer(gl.READ_FRAMEBUFFER, gl.Framebuffer{V: 1})
	expectPanic(t, "Viewport", func() { s.Viewport(0, 0, 1, 1) })
	r.BindFramebuffer(gl.READ_FRAMEBUFFER, gl.Framebuffer{V: 1})
	if err := s.Check(); err == nil || !strings.Contains(err.Error(), "driver error") {
		t.Errorf("Check: got %v", err)
	}
}
