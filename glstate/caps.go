// SPDX-License-Identifier: Unlicense OR MIT

package glstate

import (
	"fmt"
	"strings"

	"github.com/gfxkit/gfx/gl"
	"golang.org/x/exp/slices"
)

// Features is a set of optional OpenGL features that add state
// slots to a State.
type Features uint

const (
	// FeatureTextureExternal tracks the TEXTURE_EXTERNAL_OES binding
	// (GL_OES_EGL_image_external).
	FeatureTextureExternal Features = 1 << iota
	// FeaturePixelBuffer tracks the PIXEL_PACK_BUFFER and
	// PIXEL_UNPACK_BUFFER bindings.
	FeaturePixelBuffer
	// FeatureUnpackRowLength tracks the UNPACK_ROW_LENGTH pixel store
	// parameter.
	FeatureUnpackRowLength
	// FeatureMultisample tracks the MULTISAMPLE capability.
	FeatureMultisample
	// FeatureFixedFunction enables the Legacy sub-table.
	FeatureFixedFunction
	// FeatureFramebuffer tracks the FRAMEBUFFER binding.
	FeatureFramebuffer
	// FeatureSplitFramebuffer tracks the DRAW_FRAMEBUFFER and
	// READ_FRAMEBUFFER bindings separately.
	FeatureSplitFramebuffer
	// FeatureBlendEquation tracks the blend equation.
	FeatureBlendEquation
	// FeatureShaders tracks the current program.
	FeatureShaders
)

// maxTextureUnits bounds the number of tracked texture units.
const maxTextureUnits = 16

// Caps describes the context a State is created for.
type Caps struct {
	ES       bool
	Version  [2]int
	Features Features
	// TextureUnits is the number of tracked texture units, starting
	// at TEXTURE0.
	TextureUnits int
	// FixedTextureUnits is the number of texture units with
	// fixed-function state, at most TextureUnits.
	FixedTextureUnits int
}

var featureNames = []struct {
	f    Features
	name string
}{
	{FeatureTextureExternal, "texture-external"},
	{FeaturePixelBuffer, "pixel-buffer"},
	{FeatureUnpackRowLength, "unpack-row-length"},
	{FeatureMultisample, "multisample"},
	{FeatureFixedFunction, "fixed-function"},
	{FeatureFramebuffer, "framebuffer"},
	{FeatureSplitFramebuffer, "split-framebuffer"},
	{FeatureBlendEquation, "blend-equation"},
	{FeatureShaders, "shaders"},
}

func (c Caps) Has(f Features) bool {
	return c.Features&f == f
}

func (f Features) String() string {
	var names []string
	for _, n := range featureNames {
		if f&n.f != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// QueryCaps negotiates the capabilities of the current context.
func QueryCaps(f gl.Functions) (Caps, error) {
	ver, gles, err := gl.ParseGLVersion(f.GetString(gl.VERSION))
	if err != nil {
		return Caps{}, err
	}
	exts := gl.Extensions(f.GetString(gl.EXTENSIONS))
	c := Caps{ES: gles, Version: ver}
	atLeast := func(major, minor int) bool {
		return ver[0] > major || (ver[0] == major && ver[1] >= minor)
	}
	has := func(ext string) bool {
		return slices.Contains(exts, ext)
	}
	if has("GL_OES_EGL_image_external") {
		c.Features |= FeatureTextureExternal
	}
	if gles {
		if atLeast(3, 0) {
			c.Features |= FeaturePixelBuffer | FeatureUnpackRowLength | FeatureSplitFramebuffer
		} else if has("GL_EXT_unpack_subimage") {
			c.Features |= FeatureUnpackRowLength
		}
		if ver[0] == 1 {
			c.Features |= FeatureFixedFunction
			if has("GL_OES_framebuffer_object") {
				c.Features |= FeatureFramebuffer
			}
			if has("GL_OES_blend_subtract") {
				c.Features |= FeatureBlendEquation
			}
		} else {
			c.Features |= FeatureFramebuffer | FeatureBlendEquation | FeatureShaders
		}
	} else {
		c.Features |= FeatureUnpackRowLength | FeatureMultisample | FeatureBlendEquation
		if atLeast(2, 0) {
			c.Features |= FeatureShaders
		}
		if atLeast(2, 1) {
			c.Features |= FeaturePixelBuffer
		}
		switch {
		case atLeast(3, 0), has("GL_ARB_framebuffer_object"):
			c.Features |= FeatureFramebuffer | FeatureSplitFramebuffer
		case has("GL_EXT_framebuffer_object"):
			c.Features |= FeatureFramebuffer
		}
		switch {
		case !atLeast(3, 1):
			c.Features |= FeatureFixedFunction
		case !atLeast(3, 2):
			if has("GL_ARB_compatibility") {
				c.Features |= FeatureFixedFunction
			}
		default:
			if f.GetInteger(gl.CONTEXT_PROFILE_MASK)&gl.CONTEXT_COMPATIBILITY_PROFILE_BIT != 0 {
				c.Features |= FeatureFixedFunction
			}
		}
	}
	if gles && ver[0] == 1 {
		c.TextureUnits = f.GetInteger(gl.MAX_TEXTURE_UNITS)
	} else {
		c.TextureUnits = f.GetInteger(gl.MAX_TEXTURE_IMAGE_UNITS)
	}
	if c.Has(FeatureFixedFunction) {
		c.FixedTextureUnits = f.GetInteger(gl.MAX_TEXTURE_UNITS)
	}
	c.clamp()
	return c, nil
}

// clamp bounds the unit counts to what a State can track.
func (c *Caps) clamp() {
	c.TextureUnits = clampUnits(c.TextureUnits, maxTextureUnits)
	if c.Has(FeatureFixedFunction) {
		c.FixedTextureUnits = clampUnits(c.FixedTextureUnits, c.TextureUnits)
	} else {
		c.FixedTextureUnits = 0
	}
}

func clampUnits(n, limit int) int {
	switch {
	case n < 1:
		return 1
	case n > limit:
		return limit
	}
	return n
}

func (c Caps) String() string {
	api := "OpenGL"
	if c.ES {
		api = "OpenGL ES"
	}
	return fmt.Sprintf("%s %d.%d [%s] units=%d fixed-units=%d", api, c.Version[0], c.Version[1], c.Features, c.TextureUnits, c.FixedTextureUnits)
}
