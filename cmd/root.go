package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/TFMV/findexec/internal/dispatch"
	"github.com/TFMV/findexec/internal/logging"
	"github.com/TFMV/findexec/internal/metrics"
	"github.com/TFMV/findexec/internal/walk"
)

var version = "0.1.0"

const longHelp = `findexec searches a directory tree for regular files matching every
given filter and prints their paths, or runs a program once per match.

Filters are given as flag/value pairs after the root path:
  -inum N            inode number equals N
  -name NAME         base name equals NAME exactly
  -nlinks N          hard-link count equals N
  -size -N|=N|+N     size is less than, equal to, or greater than N bytes
  -exec PROGRAM      run PROGRAM with each match as its only argument

Settings are read from $HOME/.findexec.yaml (or the file in FINDEXEC_CONFIG)
and FINDEXEC_* environment variables: log-level, log-output, max-matches,
max-retries, normalize-names, watch, watch-timeout, metrics-file.

Examples:
  findexec /var/log -size +1048576
  findexec . -name go.mod -nlinks 1
  findexec /srv/data -name core -exec /usr/local/bin/archive`

// Execute runs the root command. Errors are reported on standard error; the
// process exit status stays 0.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:     "findexec <path> [<filter> <value>]...",
		Short:   "Find files by inode, name, link count or size and optionally run a program on them",
		Long:    longHelp,
		Version: version,
		// The single-dash flag/value pairs are parsed by ParseArgs.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				switch args[0] {
				case "--help":
					return cmd.Help()
				case "--version":
					fmt.Fprintf(cmd.OutOrStdout(), "findexec version %s\n", version)
					return nil
				}
			}
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), v, args)
		},
	}
	return cmd
}

// run is the single place where failures become diagnostics.
func run(stdout, stderr io.Writer, v *viper.Viper, args []string) error {
	if err := initConfig(v); err != nil {
		return report(stderr, err)
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return report(stderr, err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogOutput)
	if err != nil {
		return report(stderr, fmt.Errorf("Can't create logger: %w", err))
	}
	defer logger.Sync()

	req, err := ParseArgs(args)
	if err != nil {
		logger.Debug("invalid arguments", zap.Strings("args", args), zap.Error(err))
		return report(stderr, err)
	}
	for _, flag := range req.Ignored {
		logger.Debug("ignoring unrecognized flag", zap.String("flag", flag))
	}

	return report(stderr, find(stdout, stderr, req, cfg, logger))
}

// report prints err as one diagnostic line and swallows it.
func report(stderr io.Writer, err error) error {
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
	}
	return nil
}

func find(stdout, stderr io.Writer, req Request, cfg Config, logger *zap.Logger) (err error) {
	filter := req.Filter
	filter.NormalizeNames = cfg.NormalizeNames

	walkStats := &walk.Stats{}
	dispatchStats := &dispatch.Stats{}

	if cfg.MetricsFile != "" {
		defer func() {
			rec := metrics.New()
			rec.RecordTraversal(*walkStats)
			rec.RecordDispatch(*dispatchStats)
			if werr := rec.WriteFile(cfg.MetricsFile); werr != nil && err == nil {
				err = fmt.Errorf("Can't write metrics file: %w", werr)
			}
		}()
	}

	matches, err := walk.Traverse(req.Root, filter, walk.Options{Logger: logger, Stats: walkStats})
	if err != nil {
		return err
	}

	var handle walk.WatchHandler
	if req.HasExec {
		d := dispatch.New(req.Exec, dispatch.Options{
			MaxMatches: cfg.MaxMatches,
			MaxRetries: cfg.MaxRetries,
			Out:        stdout,
			Err:        stderr,
			Logger:     logger,
			Stats:      dispatchStats,
		})
		if err := d.Run(matches); err != nil {
			return err
		}
		handle = func(ctx context.Context, path string) error {
			_, err := d.Dispatch(path)
			return err
		}
	} else {
		for _, path := range matches {
			fmt.Fprintln(stdout, path)
		}
		handle = func(ctx context.Context, path string) error {
			fmt.Fprintln(stdout, path)
			return nil
		}
	}

	if !cfg.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return walk.Watch(ctx, req.Root, filter, walk.WatchOptions{
		Logger:  logger,
		Timeout: cfg.WatchTimeout,
		Known:   matches,
		Stats:   walkStats,
	}, handle)
}
