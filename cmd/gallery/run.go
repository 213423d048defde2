package main

import (
	"context"
	"log/slog"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/gallery"
	"github.com/teranos/carousel/internal/remote"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Show the gallery in the terminal",
		Long:  `Starts the terminal gallery. Arrow keys, h/l and clicks on the arrows rotate the ring; ? shows help, q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, closer, err := newLogger(cmd, true)
			if err != nil {
				return err
			}
			defer closer.Close()

			nav, err := carousel.New(cfg, carousel.WithLogger(logger))
			if err != nil {
				return err
			}

			recorder := newRecorder()
			board := &gallery.StateBoard{}
			fps, _ := cmd.Flags().GetInt("fps")
			model, err := gallery.NewModel(nav, cfg,
				gallery.WithRecorder(recorder),
				gallery.WithBoard(board),
				gallery.WithLogger(logger),
				gallery.WithFrameRate(fps))
			if err != nil {
				return err
			}

			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			addr, _ := cmd.Flags().GetString("remote")
			rc := gallery.NewRemote(program, board)
			serveRemote(ctx, addr, rc, recorder.Handler(), logger)

			logger.Info("gallery started", "slots", nav.Count(), "remote", addr)
			_, err = program.Run()
			rc.Stop()
			return err
		},
	}

	cmd.Flags().String("remote", "", "Serve the HTTP remote control on this address, e.g. :8080")
	cmd.Flags().Int("fps", gallery.DefaultFrameRate, "Frames per second of the render loop")
	return cmd
}

// serveRemote starts the HTTP remote in the background when addr is set.
func serveRemote(ctx context.Context, addr string, ctrl remote.Controller, metricsHandler http.Handler, logger *slog.Logger) {
	if addr == "" {
		return
	}
	handler := remote.NewHandler(ctrl, metricsHandler, logger)
	go func() {
		if err := remote.Serve(ctx, addr, handler, logger); err != nil {
			logger.Error("remote stopped", "addr", addr, "error", err)
		}
	}()
}
