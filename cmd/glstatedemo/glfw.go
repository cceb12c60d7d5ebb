// SPDX-License-Identifier: Unlicense OR MIT

// package glfw doesn't build on OpenBSD and FreeBSD.
//go:build !openbsd && !freebsd && !android && !ios && !js

package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/gfxkit/gfx/gl/gogl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func runWindow(log *slog.Logger) error {
	// Required by the OpenGL threading model.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(width, height, "glstate demo", nil, nil)
	if err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	if err := gogl.Init(); err != nil {
		return fmt.Errorf("gl: %w", err)
	}
	glfw.SwapInterval(1)
	log.Debug("window created", "width", width, "height", height)

	return run(log, new(gogl.Functions), func() bool {
		window.SwapBuffers()
		glfw.PollEvents()
		return !window.ShouldClose()
	})
}
