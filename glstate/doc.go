// SPDX-License-Identifier: Unlicense OR MIT

/*
Package glstate eliminates redundant OpenGL state changes.

A State mirrors the part of the OpenGL state touched by a renderer:
texture and buffer bindings, capabilities, blending, pixel store
parameters and a few more. Every setter compares the requested value
with the cached one and calls the driver only if they differ:

	s, err := glstate.New(funcs, glstate.Options{})
	if err != nil {
		...
	}
	s.BindTexture(gl.TEXTURE_2D, tex) // Forwarded.
	s.BindTexture(gl.TEXTURE_2D, tex) // Elided.

The tracked state depends on the capabilities of the context, as
negotiated by QueryCaps. Setting state the context does not support
panics. Contexts with the fixed-function pipeline carry an additional
Legacy table.

Code outside the State must not change tracked state through the
driver. Applications that share the context with other code can adopt
its changes with Load, and save and restore their own state with
Snapshot and Restore.
*/
package glstate
