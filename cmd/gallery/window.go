package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/internal/host"
	"github.com/teranos/carousel/internal/window"
	"github.com/teranos/carousel/render"
)

func newWindowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show the gallery in a desktop window",
		Long:  `Opens a resizable window with the rendered ring. Click the arrows or use the arrow keys to rotate; Escape closes the window.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, closer, err := newLogger(cmd, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			nav, err := carousel.New(cfg, carousel.WithLogger(logger))
			if err != nil {
				return err
			}

			stageConfig := render.DefaultConfig()
			stageConfig.Width, _ = cmd.Flags().GetInt("width")
			stageConfig.Height, _ = cmd.Flags().GetInt("height")
			st, err := render.NewStage(stageConfig, cfg, nav.Ring())
			if err != nil {
				return err
			}

			recorder := newRecorder()
			h := host.New(nav, st, host.WithRecorder(recorder), host.WithLogger(logger))

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			addr, _ := cmd.Flags().GetString("remote")
			serveRemote(ctx, addr, h, recorder.Handler(), logger)

			logger.Info("window opened", "slots", nav.Count(), "width", stageConfig.Width, "height", stageConfig.Height)
			return window.Run(h, "Gallery")
		},
	}

	cmd.Flags().String("remote", "", "Serve the HTTP remote control on this address, e.g. :8080")
	cmd.Flags().Int("width", 960, "Initial window width")
	cmd.Flags().Int("height", 600, "Initial window height")
	return cmd
}
