// SPDX-License-Identifier: Unlicense OR MIT

package glstate

import (
	"testing"

	"github.com/gfxkit/gfx/gl"
	"github.com/gfxkit/gfx/internal/gltest"
)

func TestQueryCaps(t *testing.T) {
	const (
		desktop = FeatureUnpackRowLength | FeatureMultisample | FeatureBlendEquation | FeatureShaders
		fbo     = FeatureFramebuffer | FeatureSplitFramebuffer
		es2     = FeatureFramebuffer | FeatureBlendEquation | FeatureShaders
		ff      = FeatureFixedFunction
	)
	tests := []struct {
		ver   string
		exts  []string
		ints  map[gl.Enum]int
		es    bool
		feats Features
		units int
		fixed int
	}{
		{ver: "2.0", feats: desktop | ff, units: 8, fixed: 2},
		{ver: "2.1 Mesa 21.0.3", feats: desktop | FeaturePixelBuffer | ff, units: 8, fixed: 2},
		{ver: "2.1", exts: []string{"GL_EXT_framebuffer_object"}, feats: desktop | FeaturePixelBuffer | FeatureFramebuffer | ff, units: 8, fixed: 2},
		{ver: "2.1", exts: []string{"GL_ARB_framebuffer_object"}, feats: desktop | FeaturePixelBuffer | fbo | ff, units: 8, fixed: 2},
		{ver: "3.0", ints: map[gl.Enum]int{gl.MAX_TEXTURE_UNITS: 32}, feats: desktop | FeaturePixelBuffer | fbo | ff, units: 8, fixed: 8},
		{ver: "3.1", feats: desktop | FeaturePixelBuffer | fbo, units: 8},
		{ver: "3.1", exts: []string{"GL_ARB_compatibility"}, feats: desktop | FeaturePixelBuffer | fbo | ff, units: 8, fixed: 2},
		{
			ver:   "3.3",
			ints:  map[gl.Enum]int{gl.CONTEXT_PROFILE_MASK: gl.CONTEXT_COMPATIBILITY_PROFILE_BIT, gl.MAX_TEXTURE_UNITS: 4},
			feats: desktop | FeaturePixelBuffer | fbo | ff,
			units: 8,
			fixed: 4,
		},
		{ver: "4.6.0 NVIDIA", ints: map[gl.Enum]int{gl.CONTEXT_PROFILE_MASK: 1}, feats: desktop | FeaturePixelBuffer | fbo, units: 8},
		{ver: "OpenGL ES 2.0", es: true, feats: es2, units: 8},
		{
			ver:   "OpenGL ES 2.0",
			exts:  []string{"GL_OES_EGL_image_external", "GL_EXT_unpack_subimage"},
			es:    true,
			feats: es2 | FeatureTextureExternal | FeatureUnpackRowLength,
			units: 8,
		},
		{ver: "OpenGL ES 3.0", es: true, feats: es2 | FeaturePixelBuffer | FeatureUnpackRowLength | FeatureSplitFramebuffer, units: 8},
		{ver: "OpenGL ES-CM 1.1", es: true, feats: ff, units: 2, fixed: 2},
		{ver: "OpenGL ES-CL 1.0", es: true, feats: ff, units: 2, fixed: 2},
		{
			ver:   "OpenGL ES-CM 1.1",
			exts:  []string{"GL_OES_framebuffer_object", "GL_OES_blend_subtract"},
			es:    true,
			feats: ff | FeatureFramebuffer | FeatureBlendEquation,
			units: 2,
			fixed: 2,
		},
		{ver: "OpenGL ES 3.2", ints: map[gl.Enum]int{gl.MAX_TEXTURE_IMAGE_UNITS: 32}, es: true, feats: es2 | FeaturePixelBuffer | FeatureUnpackRowLength | FeatureSplitFramebuffer, units: maxTextureUnits},
		{ver: "OpenGL ES 2.0", ints: map[gl.Enum]int{gl.MAX_TEXTURE_IMAGE_UNITS: 0}, es: true, feats: es2, units: 1},
	}
	for _, test := range tests {
		r := gltest.NewRecorder(test.ver, test.exts...)
		for k, v := range test.ints {
			r.Ints[k] = v
		}
		c, err := QueryCaps(r)
		if err != nil {
			t.Errorf("%s: %v", test.ver, err)
			continue
		}
		if c.ES != test.es || c.Features != test.feats || c.TextureUnits != test.units || c.FixedTextureUnits != test.fixed {
			t.Errorf("%s %v: got %v, expected es=%v [%s] units=%d fixed-units=%d", test.ver, test.exts, c, test.es, test.feats, test.units, test.fixed)
		}
		if e := r.GetError(); e != gl.NO_ERROR {
			t.Errorf("%s: negotiation queried a missing enum, error 0x%x", test.ver, uint(e))
		}
	}
}

func TestFeaturesString(t *testing.T) {
	if got := (FeaturePixelBuffer | FeatureMultisample).String(); got != "pixel-buffer|multisample" {
		t.Errorf("got %q", got)
	}
	if got := (FeatureFramebuffer | FeatureSplitFramebuffer).String(); got != "framebuffer|split-framebuffer" {
		t.Errorf("got %q", got)
	}
	if got := Features(0).String(); got != "none" {
		t.Errorf("got %q", got)
	}
}

func TestTrackedSlots(t *testing.T) {
	s, _ := newState(t, "OpenGL ES 2.0", "GL_OES_EGL_image_external")
	if !s.BindTexture(gl.TEXTURE_EXTERNAL_OES, gl.Texture{V: 1}) {
		t.Error("TEXTURE_EXTERNAL_OES bind elided")
	}
	if got := s.BoundTexture(gl.TEXTURE_2D); got.Valid() {
		t.Errorf("external bind changed TEXTURE_2D to %v", got)
	}
}
