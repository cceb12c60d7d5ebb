// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gl defines the OpenGL types, constants and driver interfaces
shared by the state cache and its driver implementations.

Only the subset of OpenGL touched by package glstate is described
here; drivers are free to expose more.
*/
package gl

type Enum uint

type (
	Buffer      struct{ V uint }
	Framebuffer struct{ V uint }
	Program     struct{ V uint }
	Texture     struct{ V uint }
	Object      struct{ V uint }
)

func (b Buffer) Valid() bool {
	return b.V != 0
}

func (f Framebuffer) Valid() bool {
	return f.V != 0
}

func (p Program) Valid() bool {
	return p.V != 0
}

func (t Texture) Valid() bool {
	return t.V != 0
}

const (
	ACTIVE_TEXTURE                     = 0x84e0
	ALPHA_TEST                         = 0xbc0
	ALWAYS                             = 0x207
	ARRAY_BUFFER                       = 0x8892
	ARRAY_BUFFER_BINDING               = 0x8894
	BLEND                              = 0xbe2
	BLEND_DST                          = 0xbe0
	BLEND_DST_RGB                      = 0x80c8
	BLEND_EQUATION_RGB                 = 0x8009
	BLEND_SRC                          = 0xbe1
	BLEND_SRC_RGB                      = 0x80c9
	COLOR_ARRAY                        = 0x8076
	COLOR_ARRAY_BUFFER_BINDING         = 0x8898
	COLOR_ARRAY_SIZE                   = 0x8081
	COLOR_ARRAY_STRIDE                 = 0x8083
	COLOR_ARRAY_TYPE                   = 0x8082
	COLOR_BUFFER_BIT                   = 0x4000
	COLOR_CLEAR_VALUE                  = 0xc22
	CONSTANT_COLOR                     = 0x8001
	CONTEXT_COMPATIBILITY_PROFILE_BIT  = 0x2
	CONTEXT_PROFILE_MASK               = 0x9126
	CULL_FACE                          = 0xb44
	CURRENT_COLOR                      = 0xb00
	CURRENT_PROGRAM                    = 0x8b8d
	DEPTH_FUNC                         = 0xb74
	DEPTH_TEST                         = 0xb71
	DEPTH_WRITEMASK                    = 0xb72
	DITHER                             = 0xbd0
	DRAW_FRAMEBUFFER                   = 0x8ca9
	DST_ALPHA                          = 0x304
	DST_COLOR                          = 0x306
	ELEMENT_ARRAY_BUFFER               = 0x8893
	ELEMENT_ARRAY_BUFFER_BINDING       = 0x8895
	EQUAL                              = 0x202
	EXTENSIONS                         = 0x1f03
	FALSE                              = 0
	FLOAT                              = 0x1406
	FOG                                = 0xb60
	FRAMEBUFFER                        = 0x8d40
	FRAMEBUFFER_BINDING                = 0x8ca6
	FUNC_ADD                           = 0x8006
	FUNC_REVERSE_SUBTRACT              = 0x800b
	FUNC_SUBTRACT                      = 0x800a
	GEQUAL                             = 0x206
	GREATER                            = 0x204
	INVALID_ENUM                       = 0x500
	INVALID_OPERATION                  = 0x502
	LEQUAL                             = 0x203
	LESS                               = 0x201
	MATRIX_MODE                        = 0xba0
	MAX                                = 0x8008
	MAX_TEXTURE_IMAGE_UNITS            = 0x8872
	MAX_TEXTURE_UNITS                  = 0x84e2
	MIN                                = 0x8007
	MODELVIEW                          = 0x1700
	MODULATE                           = 0x2100
	MULTISAMPLE                        = 0x809d
	NEVER                              = 0x200
	NOTEQUAL                           = 0x205
	NO_ERROR                           = 0x0
	ONE                                = 0x1
	ONE_MINUS_CONSTANT_COLOR           = 0x8002
	ONE_MINUS_DST_ALPHA                = 0x305
	ONE_MINUS_DST_COLOR                = 0x307
	ONE_MINUS_SRC_ALPHA                = 0x303
	ONE_MINUS_SRC_COLOR                = 0x301
	PACK_ALIGNMENT                     = 0xd05
	PIXEL_PACK_BUFFER                  = 0x88eb
	PIXEL_PACK_BUFFER_BINDING          = 0x88ed
	PIXEL_UNPACK_BUFFER                = 0x88ec
	PIXEL_UNPACK_BUFFER_BINDING        = 0x88ef
	PROJECTION                         = 0x1701
	QUADS                              = 0x7
	READ_FRAMEBUFFER                   = 0x8ca8
	READ_FRAMEBUFFER_BINDING           = 0x8caa
	RENDERER                           = 0x1f01
	REPLACE                            = 0x1e01
	SCISSOR_TEST                       = 0xc11
	SRC_ALPHA                          = 0x302
	SRC_ALPHA_SATURATE                 = 0x308
	SRC_COLOR                          = 0x300
	TEXTURE                            = 0x1702
	TEXTURE0                           = 0x84c0
	TEXTURE1                           = 0x84c1
	TEXTURE2                           = 0x84c2
	TEXTURE3                           = 0x84c3
	TEXTURE4                           = 0x84c4
	TEXTURE5                           = 0x84c5
	TEXTURE6                           = 0x84c6
	TEXTURE7                           = 0x84c7
	TEXTURE8                           = 0x84c8
	TEXTURE9                           = 0x84c9
	TEXTURE10                          = 0x84ca
	TEXTURE11                          = 0x84cb
	TEXTURE12                          = 0x84cc
	TEXTURE13                          = 0x84cd
	TEXTURE14                          = 0x84ce
	TEXTURE15                          = 0x84cf
	TEXTURE_2D                         = 0xde1
	TEXTURE_BINDING_2D                 = 0x8069
	TEXTURE_BINDING_EXTERNAL_OES       = 0x8d67
	TEXTURE_COORD_ARRAY                = 0x8078
	TEXTURE_COORD_ARRAY_BUFFER_BINDING = 0x889a
	TEXTURE_COORD_ARRAY_SIZE           = 0x8088
	TEXTURE_COORD_ARRAY_STRIDE         = 0x808a
	TEXTURE_COORD_ARRAY_TYPE           = 0x8089
	TEXTURE_ENV                        = 0x2300
	TEXTURE_ENV_COLOR                  = 0x2201
	TEXTURE_ENV_MODE                   = 0x2200
	TEXTURE_EXTERNAL_OES               = 0x8d65
	TRIANGLES                          = 0x4
	TRUE                               = 1
	UNPACK_ALIGNMENT                   = 0xcf5
	UNPACK_ROW_LENGTH                  = 0xcf2
	UNSIGNED_BYTE                      = 0x1401
	VERSION                            = 0x1f02
	VERTEX_ARRAY                       = 0x8074
	VERTEX_ARRAY_BUFFER_BINDING        = 0x8896
	VERTEX_ARRAY_SIZE                  = 0x807a
	VERTEX_ARRAY_STRIDE                = 0x807c
	VERTEX_ARRAY_TYPE                  = 0x807b
	VIEWPORT                           = 0xba2
	ZERO                               = 0x0
)
