//go:build windows
// +build windows

package console

import (
	"context"
	"os"
)

// WatchResize is a no-op on Windows.
//
// Rationale:
//   - Windows does not define SIGWINCH, and referencing it anywhere in a Windows build
//     will fail compilation.
//   - The returned channel never delivers and closes when ctx is done.
func WatchResize(ctx context.Context, _ *os.File) <-chan Size {
	out := make(chan Size)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out
}
