// SPDX-License-Identifier: Unlicense OR MIT

// Command glstatedemo drives a sprite batch through a glstate.State
// and reports how many driver calls the cache elided.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gfxkit/gfx/gl"
	"github.com/gfxkit/gfx/glstate"
	"github.com/gfxkit/gfx/internal/gltest"
	"github.com/gogpu/gputypes"
)

var (
	dryRun  = flag.Bool("dry", false, "run against an in-memory driver instead of opening a window")
	frames  = flag.Int("frames", 120, "number of frames to draw")
	verify  = flag.Bool("verify", false, "check every forwarded call against the driver")
	verbose = flag.Bool("v", false, "enable debug logging")
)

const (
	width  = 800
	height = 600
)

// sprite is a batched quad. Sprites sharing an atlas and blend mode
// need no state changes between them.
type sprite struct {
	atlas gl.Texture
	blend bool
}

func main() {
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := mainErr(log); err != nil {
		fmt.Fprintf(os.Stderr, "glstatedemo: %v\n", err)
		os.Exit(1)
	}
}

func mainErr(log *slog.Logger) error {
	if *frames < 1 {
		return fmt.Errorf("invalid -frames %d", *frames)
	}
	if *dryRun {
		return run(log, gltest.NewRecorder("2.1"), nil)
	}
	return runWindow(log)
}

// run draws the frames, calling swap after each one.
func run(log *slog.Logger, f gl.Functions, swap func() bool) error {
	s, err := glstate.New(f, glstate.Options{Verify: *verify, Logger: log})
	if err != nil {
		return err
	}
	log.Info("context", "caps", s.Caps().String())
	batch := newBatch(256)
	for i := 0; i < *frames; i++ {
		drawFrame(s, i, batch)
		if r, ok := f.(*gltest.Recorder); ok {
			r.ClearCalls()
		}
		if *verify {
			if err := s.Check(); err != nil {
				return err
			}
		}
		if swap != nil && !swap() {
			break
		}
	}
	st := s.Stats()
	total := st.Forwarded + st.Elided
	log.Info("done",
		"frames", *frames,
		"forwarded", st.Forwarded,
		"elided", st.Elided,
		"elided_pct", fmt.Sprintf("%.1f", 100*float64(st.Elided)/float64(max(total, 1))),
	)
	return nil
}

// newBatch returns n sprites spread over a few atlases, sorted the
// way a renderer would submit them.
func newBatch(n int) []sprite {
	atlases := []gl.Texture{{V: 1}, {V: 2}, {V: 3}}
	batch := make([]sprite, n)
	for i := range batch {
		batch[i] = sprite{
			atlas: atlases[i*len(atlases)/n],
			blend: i%64 >= 16,
		}
	}
	return batch
}

func drawFrame(s *glstate.State, frame int, batch []sprite) {
	if s.Caps().Has(glstate.FeatureFramebuffer) {
		s.BindFramebuffer(gl.FRAMEBUFFER, gl.Framebuffer{})
	}
	s.Viewport(0, 0, width, height)
	pulse := float32(frame%60) / 60
	s.ClearColor(0.1, 0.1, 0.1+0.2*pulse, 1)
	s.Disable(gl.DEPTH_TEST)
	s.DepthMask(false)
	// Glyph uploads use tightly packed rows.
	s.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	l := s.Legacy()
	if l != nil {
		l.MatrixMode(gl.MODELVIEW)
		l.EnableClientState(gl.VERTEX_ARRAY)
		l.EnableClientState(gl.TEXTURE_COORD_ARRAY)
		l.VertexPointer(2, gl.FLOAT, 16, 0)
		l.TexCoordPointer(2, gl.FLOAT, 16, 8)
		s.Enable(gl.TEXTURE_2D)
		l.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, gl.MODULATE)
	}
	for _, sp := range batch {
		s.ActiveTexture(gl.TEXTURE0)
		s.BindTexture(gl.TEXTURE_2D, sp.atlas)
		if sp.blend {
			s.SetBlendState(gputypes.BlendStatePremultiplied())
		} else {
			s.Disable(gl.BLEND)
		}
		if l != nil {
			l.Color4f(1, 1, 1, 1)
		}
	}
	s.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
}
