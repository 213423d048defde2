package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/internal/logging"
	"github.com/teranos/carousel/internal/metrics"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gallery",
		Short:         "A 3D art gallery carousel",
		Long:          `Gallery arranges artworks on a ring and rotates it one slot at a time with arrow keys, clicks or HTTP requests.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().StringP("config", "c", "", "YAML or JSON gallery configuration (built-in scene when empty)")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	root.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")

	root.AddCommand(newRunCmd(), newWindowCmd(), newRenderCmd(), newRehearseCmd(), newValidateCmd())
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (carousel.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return carousel.DefaultConfig(), nil
	}
	return carousel.LoadConfig(path)
}

// newLogger builds the command logger. quiet discards logs unless a log file
// is given, for commands that own the terminal.
func newLogger(cmd *cobra.Command, quiet bool) (*slog.Logger, io.Closer, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	path, _ := cmd.Flags().GetString("log-file")
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return logging.NewWithWriter(f, level), f, nil
	}
	if quiet {
		return logging.NewNop(), io.NopCloser(nil), nil
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level), io.NopCloser(nil), nil
}

// newRecorder builds the navigation recorder served on /metrics, with the Go
// runtime and process collectors alongside.
func newRecorder() *metrics.Recorder {
	r := metrics.NewRecorder()
	r.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}
