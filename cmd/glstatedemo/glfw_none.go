// SPDX-License-Identifier: Unlicense OR MIT

//go:build openbsd || freebsd || android || ios || js

package main

import (
	"errors"
	"log/slog"
)

func runWindow(log *slog.Logger) error {
	return errors.New("windowed mode is not supported on this platform; use -dry")
}
