package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
	"pkt.systems/pslog"

	"vppsh/pkg/config"
	"vppsh/pkg/console"
	"vppsh/pkg/display"
	"vppsh/pkg/history"
	"vppsh/pkg/i18n"
	"vppsh/pkg/telopt"
	"vppsh/pkg/transport"
)

var errNotATerminal = errors.New("interactive mode needs a terminal; pass a command to run it once")

// runInteractive owns the user's terminal until the session ends. Raw mode is
// always restored before returning, so callers may print errors afterwards.
func runInteractive(ctx context.Context, cfg config.Config) error {
	logger := pslog.Ctx(ctx)
	stdin, stdout := os.Stdin, os.Stdout
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		return errNotATerminal
	}

	catalog := i18n.NewCatalog()
	locale := i18n.Resolve(cfg.Locale, os.Getenv)
	tr := catalog.Translator(locale)

	fmt.Fprintln(stdout, tr.T("Connect to socket %s", cfg.Socket))
	dialer := transport.Dialer{Path: cfg.Socket, Timeout: cfg.ConnectTimeout}
	first, err := dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", tr.Text("Could not connect vpp ctl socket"), err)
	}
	logger.Info("connected", "socket", cfg.Socket, "locale", locale.String())

	var pending io.ReadWriteCloser = first
	connect := func(ctx context.Context) (io.ReadWriteCloser, error) {
		if pending != nil {
			c := pending
			pending = nil
			return c, nil
		}
		return dialer.Dial(ctx)
	}

	flushTTYInput()
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		_ = first.Close()
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()
	defer func() { _ = display.Restore(stdout) }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make(chan tea.KeyMsg)
	go func() {
		defer close(keys)
		if err := console.ReadKeys(ctx, stdin, keys); err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug("keyboard reader stopped", "err", err)
		}
	}()

	km := console.DefaultKeyMap()
	sel := history.NewSelection()
	sel.UndeleteToOrigin = cfg.UndeleteToOrigin

	sess := console.New(console.Options{
		Connect:     connect,
		Reconnect:   transport.Policy{Attempts: cfg.Reconnect.Attempts, Backoff: cfg.Reconnect.Backoff},
		Negotiator:  telopt.NewNegotiator(cfg.Term),
		Scanner:     history.NewScanner([]byte(cfg.Prompt), cfg.MaxCommandLen),
		Selection:   sel,
		Display:     display.NewScreen(stdout, display.LoadTheme(cfg.Theme), km),
		KeyMap:      &km,
		Terminal:    stdout,
		Catalog:     catalog,
		Locale:      locale,
		Size:        console.TerminalSize(stdout),
		Socket:      cfg.Socket,
		SnapshotDir: cfg.SnapshotDir,
	})
	err = sess.Run(ctx, keys, console.WatchResize(ctx, stdout))
	logger.Info("session ended", "history", len(sel.History()), "config", len(sel.Config()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
