package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// envPrefix is prepended to upper-cased flag names to find their
// environment variables.
const envPrefix = "CACHESIM_"

type app struct {
	logLevel string
	envFile  string
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "cachesim",
		Short: "Cachesim replays address traces through a simulated CPU cache.",
		Long: `Cachesim replays address traces through a simulated single-level, ` +
			`set-associative CPU cache and reports hits, misses and hit rates. ` +
			`It can compare replacement policies, sweep cache geometry and ` +
			`generate synthetic traces.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnv(a.envFile); err != nil {
				return err
			}

			if err := applyEnv(cmd.Flags()); err != nil {
				return err
			}

			level := a.logLevel
			if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
				level = "debug"
			}

			logger, err := newLogger(level, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "",
		"file with CACHESIM_* variables (default: .env when present)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newCompareCmd(a),
		newSweepCmd(a),
		newPatternsCmd(a),
		newGenTraceCmd(),
		newDecodeCmd(),
	)

	return rootCmd
}

// loadEnv loads path, or ./.env when path is empty and the file exists.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
		return nil
	}

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	return nil
}

// applyEnv sets every flag that was not given on the command line from its
// CACHESIM_* environment variable.
func applyEnv(flags *pflag.FlagSet) error {
	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}

		name := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		value, ok := os.LookupEnv(name)
		if !ok {
			return
		}

		if setErr := flags.Set(f.Name, value); setErr != nil {
			err = fmt.Errorf("invalid %s: %w", name, setErr)
		}
	})

	return err
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		lvl,
	)

	return zap.New(core).Named("cachesim"), nil
}
