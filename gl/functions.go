// SPDX-License-Identifier: Unlicense OR MIT

package gl

// Functions is the set of OpenGL entry points used to change and
// query the tracked state. Implementations perform every call
// unconditionally; eliding redundant calls is the job of the caller.
//
// All methods must be called from the goroutine owning the current
// OpenGL context.
type Functions interface {
	ActiveTexture(texture Enum)
	BindBuffer(target Enum, b Buffer)
	BindFramebuffer(target Enum, fb Framebuffer)
	BindTexture(target Enum, t Texture)
	BlendEquation(mode Enum)
	BlendFunc(sfactor, dfactor Enum)
	ClearColor(red, green, blue, alpha float32)
	DeleteBuffer(b Buffer)
	DeleteTexture(t Texture)
	DepthFunc(f Enum)
	DepthMask(mask bool)
	Disable(cap Enum)
	Enable(cap Enum)
	PixelStorei(pname Enum, param int)
	UseProgram(p Program)
	Viewport(x, y, width, height int)

	GetBinding(pname Enum) Object
	GetError() Enum
	GetFloat4(pname Enum) [4]float32
	GetInteger(pname Enum) int
	GetInteger4(pname Enum) [4]int
	GetString(pname Enum) string
	IsEnabled(cap Enum) bool
}

// FixedFunctions is implemented by drivers whose context exposes the
// legacy fixed-function pipeline (OpenGL ES 1 and compatibility
// profiles of desktop OpenGL).
//
// Array pointers are passed as offsets: either into the buffer bound
// to ARRAY_BUFFER or, when no buffer is bound, as raw client memory
// addresses owned by the caller.
type FixedFunctions interface {
	Color4f(red, green, blue, alpha float32)
	ColorPointer(size int, typ Enum, stride int, offset uintptr)
	DisableClientState(array Enum)
	EnableClientState(array Enum)
	MatrixMode(mode Enum)
	TexCoordPointer(size int, typ Enum, stride int, offset uintptr)
	TexEnvfv(target, pname Enum, params [4]float32)
	TexEnvi(target, pname Enum, param int)
	VertexPointer(size int, typ Enum, stride int, offset uintptr)

	GetTexEnvi(target, pname Enum) int
	GetTexEnv4f(target, pname Enum) [4]float32
}
