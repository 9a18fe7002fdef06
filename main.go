package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version of the editor.
const Version = "1.0.0"

type rootOptions struct {
	configPath  string
	logLevel    string
	logFile     string
	metricsAddr string
	noSession   bool
	noStopper   bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "codestop [FILE...]",
		Short:         "Terminal code editor that refuses to start a new line after a syntax mistake",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd.Context(), opts, args)
		},
	}
	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/codestop/config.yaml)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "log file (the editor never logs to the terminal)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. 127.0.0.1:9464")
	cmd.Flags().BoolVar(&opts.noSession, "no-session", false, "do not restore or save the session")
	cmd.Flags().BoolVar(&opts.noStopper, "no-stopper", false, "start with the code stopper disabled")

	cmd.AddCommand(newCheckCommand(opts), newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "codestop version", Version)
		},
	}
}

func runEditor(ctx context.Context, opts *rootOptions, paths []string) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errors.New("codestop needs a terminal; use `codestop check FILE...` in scripts")
	}
	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if opts.noSession {
		cfg.Session.Disabled = true
	}
	if opts.noStopper {
		cfg.Stopper.Enabled = false
		cfg.Stopper.Forced = true
	}

	var logOut io.Writer = io.Discard
	if cfg.Log.File != "" {
		f, err := openLogFile(cfg.Log.File)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg.Log.Level)
	logger.Info("starting codestop", "version", Version)

	deps := EditorDeps{
		Logger:  logger,
		Metrics: NewMetrics(),
		Runner:  NewJudge0Client(cfg.Judge0, logger.With("component", "judge0")),
	}
	if a, err := NewAssistant(cfg.Assistant, logger.With("component", "assistant")); err != nil {
		logger.Warn("assistant disabled", "error", err)
	} else {
		deps.Assistant = a
	}
	if !cfg.Session.Disabled {
		store, err := OpenSessionStore(cfg.Session.Path, false, logger.With("component", "session"))
		if err != nil {
			logger.Warn("session store unavailable", "error", err)
		} else {
			defer store.Close()
			deps.Session = store
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := deps.Metrics.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	editor := NewEditor(cfg, deps)
	editor.Open(paths...)
	return editor.Run()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCommand().ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errRejected):
		stop()
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(2)
	}
}
