// SPDX-License-Identifier: Unlicense OR MIT

package glstate

import (
	"fmt"

	"github.com/gfxkit/gfx/gl"
	"github.com/gogpu/gputypes"
)

// SetBlendFactors is BlendFunc with factors described by gputypes.
func (s *State) SetBlendFactors(src, dst gputypes.BlendFactor) bool {
	return s.BlendFunc(convertBlendFactor(src), convertBlendFactor(dst))
}

// SetBlendOperation is BlendEquation with the equation described by
// gputypes.
func (s *State) SetBlendOperation(op gputypes.BlendOperation) bool {
	return s.BlendEquation(convertBlendOperation(op))
}

// SetBlendState applies b and enables blending. The cache tracks a
// single blend function for color and alpha, so b.Color and b.Alpha
// must be equal. Operations other than add require
// FeatureBlendEquation.
func (s *State) SetBlendState(b gputypes.BlendState) bool {
	if b.Color != b.Alpha {
		panic(fmt.Errorf("glstate: separate color and alpha blending is not tracked"))
	}
	changed := s.Enable(gl.BLEND)
	changed = s.SetBlendFactors(b.Color.SrcFactor, b.Color.DstFactor) || changed
	// Contexts without blend equations always add.
	if s.caps.Has(FeatureBlendEquation) || b.Color.Operation != gputypes.BlendOperationAdd {
		changed = s.SetBlendOperation(b.Color.Operation) || changed
	}
	return changed
}

func convertBlendFactor(f gputypes.BlendFactor) gl.Enum {
	switch f {
	case gputypes.BlendFactorZero:
		return gl.ZERO
	case gputypes.BlendFactorOne:
		return gl.ONE
	case gputypes.BlendFactorSrc:
		return gl.SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return gl.ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return gl.DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return gl.ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		panic(fmt.Errorf("glstate: unsupported blend factor %v", f))
	}
}

func convertBlendOperation(op gputypes.BlendOperation) gl.Enum {
	switch op {
	case gputypes.BlendOperationAdd:
		return gl.FUNC_ADD
	case gputypes.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return gl.MIN
	case gputypes.BlendOperationMax:
		return gl.MAX
	default:
		panic(fmt.Errorf("glstate: unsupported blend operation %v", op))
	}
}
