package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"vppsh/pkg/config"
	"vppsh/pkg/console"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "vppsh: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	configPath string
	replay     string
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	def := config.Default()

	root := &cobra.Command{
		Use:   "vppsh [command...]",
		Short: "Console and command history manager for the VPP debug CLI",
		Long: `vppsh connects to the VPP CLI socket.

With a command, it runs it once, prints the output and exits.
Without one, it opens an interactive menu that relays to vppctl and
collects every command you type into an editable history.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}

	fs := root.Flags()
	fs.StringVar(&f.configPath, "config", "", "Path to YAML config (defaults to XDG paths if empty)")
	fs.StringVar(&f.replay, "replay", "", "Send every command of a saved snapshot and exit")
	fs.StringP("socket", "s", def.Socket, "VPP CLI socket path")
	fs.String("locale", def.Locale, "UI language: en|ru|sys")
	fs.String("log-file", def.LogFile, "Write logs to this file")
	fs.String("log-level", def.LogLevel, "Log level: trace|debug|info|warn|error")

	root.AddCommand(newVersionCmd())
	return root
}

func run(cmd *cobra.Command, args []string, f rootFlags) error {
	cfg, used, err := config.Load(f.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	oneShot := len(args) > 0 || f.replay != ""
	if len(args) > 0 && f.replay != "" {
		return errors.New("--replay cannot be combined with a command")
	}

	logger, closeLog, err := newLogger(cfg, oneShot, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()
	ctx := pslog.ContextWithLogger(cmd.Context(), logger)
	logger.Debug("config loaded", "path", used, "socket", cfg.Socket, "locale", cfg.Locale)

	var runErr error
	switch {
	case f.replay != "":
		runErr = runReplay(ctx, cfg, f.replay, cmd.OutOrStdout())
	case len(args) > 0:
		command := strings.Join(args, " ")
		if err := console.ValidateCommand(command); err != nil {
			return err
		}
		runErr = runExec(ctx, cfg, []string{command}, cmd.OutOrStdout())
	default:
		runErr = runInteractive(ctx, cfg)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.With("err", runErr).Error("vppsh failed")
	}
	return runErr
}
