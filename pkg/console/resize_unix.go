//go:build !windows
// +build !windows

package console

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchResize reports the size of f every time the process receives SIGWINCH.
//
// IMPORTANT:
//   - Implemented only on non-Windows because Windows does not define SIGWINCH.
//   - Sizes that cannot be queried are skipped. The channel closes when ctx is done.
func WatchResize(ctx context.Context, f *os.File) <-chan Size {
	out := make(chan Size, 1)
	winchCh := make(chan os.Signal, 1)
	signal.Notify(winchCh, syscall.SIGWINCH)

	go func() {
		defer close(out)
		defer signal.Stop(winchCh)
		for {
			select {
			case <-ctx.Done():
				return
			case <-winchCh:
				sz := TerminalSize(f)
				select {
				case out <- sz:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
