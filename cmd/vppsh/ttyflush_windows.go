//go:build windows
// +build windows

package main

// flushTTYInput is a no-op on Windows.
func flushTTYInput() {}
