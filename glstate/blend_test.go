// SPDX-License-Identifier: Unlicense OR MIT

package glstate

import (
	"testing"

	"github.com/gfxkit/gfx/gl"
	"github.com/gogpu/gputypes"
)

func TestSetBlendFactors(t *testing.T) {
	s, r := newState(t, "OpenGL ES 2.0")
	if s.SetBlendFactors(gputypes.BlendFactorOne, gputypes.BlendFactorZero) {
		t.Error("initial blend factors were forwarded")
	}
	if !s.SetBlendFactors(gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha) {
		t.Error("blend factor change was elided")
	}
	if s.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA) {
		t.Error("BlendFunc after equivalent SetBlendFactors was forwarded")
	}
	if got := r.GetInteger(gl.BLEND_DST_RGB); got != gl.ONE_MINUS_SRC_ALPHA {
		t.Errorf("driver has destination factor 0x%x", got)
	}
	expectPanic(t, "unknown factor", func() { s.SetBlendFactors(gputypes.BlendFactor(255), gputypes.BlendFactorOne) })
}

func TestSetBlendOperation(t *testing.T) {
	s, _ := newState(t, "OpenGL ES 3.0")
	ops := []struct {
		op   gputypes.BlendOperation
		mode gl.Enum
	}{
		{gputypes.BlendOperationSubtract, gl.FUNC_SUBTRACT},
		{gputypes.BlendOperationReverseSubtract, gl.FUNC_REVERSE_SUBTRACT},
		{gputypes.BlendOperationMin, gl.MIN},
		{gputypes.BlendOperationMax, gl.MAX},
		{gputypes.BlendOperationAdd, gl.FUNC_ADD},
	}
	for _, o := range ops {
		if !s.SetBlendOperation(o.op) {
			t.Errorf("%v: elided", o.op)
		}
		if got := s.BlendEquationMode(); got != o.mode {
			t.Errorf("%v: got mode 0x%x, expected 0x%x", o.op, uint(got), uint(o.mode))
		}
	}
}

func TestSetBlendState(t *testing.T) {
	s, r := newState(t, "OpenGL ES 2.0")
	b := gputypes.BlendStatePremultiplied()
	if !s.SetBlendState(b) {
		t.Error("SetBlendState was elided")
	}
	if s.SetBlendState(b) {
		t.Error("repeated SetBlendState was forwarded")
	}
	if !s.IsEnabled(gl.BLEND) {
		t.Error("SetBlendState did not enable blending")
	}
	if src, dst := s.BlendFactors(); src != gl.ONE || dst != gl.ONE_MINUS_SRC_ALPHA {
		t.Errorf("got factors (0x%x, 0x%x)", uint(src), uint(dst))
	}
	if n := r.Count("BlendEquation"); n != 0 {
		t.Errorf("got %d BlendEquation calls, expected 0", n)
	}
	b.Alpha.DstFactor = gputypes.BlendFactorZero
	expectPanic(t, "separate alpha", func() { s.SetBlendState(b) })
}
