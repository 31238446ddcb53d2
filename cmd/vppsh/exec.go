package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"pkt.systems/pslog"

	"vppsh/pkg/config"
	"vppsh/pkg/console"
	"vppsh/pkg/state"
	"vppsh/pkg/telopt"
	"vppsh/pkg/transport"
)

// runExec sends commands over a fresh connection and copies their output to
// out.
func runExec(ctx context.Context, cfg config.Config, commands []string, out io.Writer) error {
	logger := pslog.Ctx(ctx)
	logger.Info("connect to socket", "socket", cfg.Socket)
	conn, err := transport.Dial(ctx, cfg.Socket, cfg.ConnectTimeout)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	return console.Exec(ctx, conn, commands, out, console.ExecOptions{
		Negotiator: telopt.NewNegotiator(cfg.Term),
		Prompt:     []byte(cfg.Prompt),
		Width:      console.TerminalSize(os.Stdout).Width,
		Timeout:    cfg.ExecTimeout,
	})
}

// runReplay sends the configuration list of a saved snapshot.
func runReplay(ctx context.Context, cfg config.Config, path string, out io.Writer) error {
	snap, err := state.Load(path)
	if err != nil {
		return err
	}
	if len(snap.Commands) == 0 {
		return fmt.Errorf("replay %s: %w", path, state.ErrEmpty)
	}
	pslog.Ctx(ctx).Info("replaying snapshot", "path", path, "commands", len(snap.Commands), "saved", snap.Saved)
	return runExec(ctx, cfg, snap.Commands, out)
}
