// SPDX-License-Identifier: Unlicense OR MIT

// Package gogl implements gl.Functions and gl.FixedFunctions with
// the go-gl bindings for desktop OpenGL 2.1 and compatibility
// profiles.
package gogl

import (
	"unsafe"

	gfxgl "github.com/gfxkit/gfx/gl"
	"github.com/go-gl/gl/v2.1/gl"
)

// Functions calls the OpenGL context current on the calling thread.
// Call Init once a context is current before using it.
type Functions struct{}

// Init loads the OpenGL entry points of the current context.
func Init() error {
	return gl.Init()
}

func (f *Functions) ActiveTexture(texture gfxgl.Enum) {
	gl.ActiveTexture(uint32(texture))
}

func (f *Functions) BindBuffer(target gfxgl.Enum, b gfxgl.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b.V))
}

func (f *Functions) BindFramebuffer(target gfxgl.Enum, fb gfxgl.Framebuffer) {
	gl.BindFramebuffer(uint32(target), uint32(fb.V))
}

func (f *Functions) BindTexture(target gfxgl.Enum, t gfxgl.Texture) {
	gl.BindTexture(uint32(target), uint32(t.V))
}

func (f *Functions) BlendEquation(mode gfxgl.Enum) {
	gl.BlendEquation(uint32(mode))
}

func (f *Functions) BlendFunc(sfactor, dfactor gfxgl.Enum) {
	gl.BlendFunc(uint32(sfactor), uint32(dfactor))
}

func (f *Functions) ClearColor(red, green, blue, alpha float32) {
	gl.ClearColor(red, green, blue, alpha)
}

func (f *Functions) DeleteBuffer(v gfxgl.Buffer) {
	buf := uint32(v.V)
	gl.DeleteBuffers(1, &buf)
}

func (f *Functions) DeleteTexture(v gfxgl.Texture) {
	t := uint32(v.V)
	gl.DeleteTextures(1, &t)
}

func (f *Functions) DepthFunc(d gfxgl.Enum) {
	gl.DepthFunc(uint32(d))
}

func (f *Functions) DepthMask(mask bool) {
	gl.DepthMask(mask)
}

func (f *Functions) Disable(cap gfxgl.Enum) {
	gl.Disable(uint32(cap))
}

func (f *Functions) Enable(cap gfxgl.Enum) {
	gl.Enable(uint32(cap))
}

func (f *Functions) PixelStorei(pname gfxgl.Enum, param int) {
	gl.PixelStorei(uint32(pname), int32(param))
}

func (f *Functions) UseProgram(p gfxgl.Program) {
	gl.UseProgram(uint32(p.V))
}

func (f *Functions) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (f *Functions) GetBinding(pname gfxgl.Enum) gfxgl.Object {
	var o int32
	gl.GetIntegerv(uint32(pname), &o)
	return gfxgl.Object{V: uint(o)}
}

func (f *Functions) GetError() gfxgl.Enum {
	return gfxgl.Enum(gl.GetError())
}

func (f *Functions) GetFloat4(pname gfxgl.Enum) [4]float32 {
	var p [4]float32
	gl.GetFloatv(uint32(pname), &p[0])
	return p
}

func (f *Functions) GetInteger(pname gfxgl.Enum) int {
	var p [100]int32
	gl.GetIntegerv(uint32(pname), &p[0])
	return int(p[0])
}

func (f *Functions) GetInteger4(pname gfxgl.Enum) [4]int {
	var p [4]int32
	gl.GetIntegerv(uint32(pname), &p[0])
	return [4]int{int(p[0]), int(p[1]), int(p[2]), int(p[3])}
}

func (f *Functions) GetString(pname gfxgl.Enum) string {
	return gl.GoStr(gl.GetString(uint32(pname)))
}

func (f *Functions) IsEnabled(cap gfxgl.Enum) bool {
	return gl.IsEnabled(uint32(cap))
}

func (f *Functions) Color4f(red, green, blue, alpha float32) {
	gl.Color4f(red, green, blue, alpha)
}

func (f *Functions) ColorPointer(size int, ty gfxgl.Enum, stride int, offset uintptr) {
	gl.ColorPointer(int32(size), uint32(ty), int32(stride), unsafe.Pointer(offset))
}

func (f *Functions) DisableClientState(array gfxgl.Enum) {
	gl.DisableClientState(uint32(array))
}

func (f *Functions) EnableClientState(array gfxgl.Enum) {
	gl.EnableClientState(uint32(array))
}

func (f *Functions) MatrixMode(mode gfxgl.Enum) {
	gl.MatrixMode(uint32(mode))
}

func (f *Functions) TexCoordPointer(size int, ty gfxgl.Enum, stride int, offset uintptr) {
	gl.TexCoordPointer(int32(size), uint32(ty), int32(stride), unsafe.Pointer(offset))
}

func (f *Functions) TexEnvfv(target, pname gfxgl.Enum, params [4]float32) {
	gl.TexEnvfv(uint32(target), uint32(pname), &params[0])
}

func (f *Functions) TexEnvi(target, pname gfxgl.Enum, param int) {
	gl.TexEnvi(uint32(target), uint32(pname), int32(param))
}

func (f *Functions) VertexPointer(size int, ty gfxgl.Enum, stride int, offset uintptr) {
	gl.VertexPointer(int32(size), uint32(ty), int32(stride), unsafe.Pointer(offset))
}

func (f *Functions) GetTexEnvi(target, pname gfxgl.Enum) int {
	var i int32
	gl.GetTexEnviv(uint32(target), uint32(pname), &i)
	return int(i)
}

func (f *Functions) GetTexEnv4f(target, pname gfxgl.Enum) [4]float32 {
	var p [4]float32
	gl.GetTexEnvfv(uint32(target), uint32(pname), &p[0])
	return p
}

var (
	_ gfxgl.Functions      = (*Functions)(nil)
	_ gfxgl.FixedFunctions = (*Functions)(nil)
)
