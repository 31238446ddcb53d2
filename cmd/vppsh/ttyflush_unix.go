//go:build !windows
// +build !windows

package main

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// flushTTYInput drops unread bytes queued on the controlling terminal before
// the menu takes over, so stray terminal replies (OSC/DSR) and keys typed
// while connecting are not taken as menu commands.
//
// NOTE:
//   - tcflush(TCIFLUSH) is issued via ioctl(TCFLSH); the value is 0x540B on
//     Linux.
//   - Replies can arrive right after the flush, so a short non-blocking drain
//     follows.
//   - If /dev/tty isn't available this is a no-op.
func flushTTYInput() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
	if err != nil {
		return
	}
	defer func() { _ = tty.Close() }()

	fd := int(tty.Fd())
	if fd < 0 {
		return
	}

	const tcflsh = 0x540B
	_, _, _ = unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(tcflsh), uintptr(unix.TCIFLUSH))

	_ = unix.SetNonblock(fd, true)
	defer func() { _ = unix.SetNonblock(fd, false) }()

	deadline := time.Now().Add(200 * time.Millisecond)
	buf := make([]byte, 512)
	for time.Now().Before(deadline) {
		n, _ := unix.Read(fd, buf)
		if n <= 0 {
			break
		}
		// Part of a burst; give the rest a moment to land.
		deadline = time.Now().Add(75 * time.Millisecond)
	}
}
