package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/internal/host"
	"github.com/teranos/carousel/internal/remote"
	"github.com/teranos/carousel/render"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a sequence of moves to PNG frames",
		Long:  `Rotates the ring headlessly on a virtual clock and writes every frame of every transition as a PNG.`,
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

			out, _ := cmd.Flags().GetString("out")
			moves, _ := cmd.Flags().GetInt("moves")
			fps, _ := cmd.Flags().GetInt("fps")
			rawDirection, _ := cmd.Flags().GetString("direction")
			if fps <= 0 {
				return fmt.Errorf("fps must be positive, got %d", fps)
			}
			direction, err := remote.ParseDirection(rawDirection)
			if err != nil {
				return err
			}

			nav, err := carousel.New(cfg, carousel.WithLogger(logger))
			if err != nil {
				return err
			}
			stageConfig := render.DefaultConfig()
			stageConfig.Width, _ = cmd.Flags().GetInt("width")
			stageConfig.Height, _ = cmd.Flags().GetInt("height")
			stageConfig.OutputDir = out
			st, err := render.NewStage(stageConfig, cfg, nav.Ring())
			if err != nil {
				return err
			}

			interval := time.Second / time.Duration(fps)
			h := host.New(nav, st, host.WithLogger(logger), host.WithFrameInterval(interval))
			frames, err := renderMoves(h, moves, direction, interval)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", frames, out)
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "frames", "Directory to write frames into")
	cmd.Flags().IntP("moves", "n", 1, "Number of moves to render")
	cmd.Flags().String("direction", "next", "Move direction: next or prev")
	cmd.Flags().Int("fps", 30, "Frames per second of virtual time")
	cmd.Flags().Int("width", 640, "Frame width")
	cmd.Flags().Int("height", 400, "Frame height")
	return cmd
}

// renderMoves captures the resting frame, then every frame of each move
// until its transition ends.
func renderMoves(h *host.Host, moves, direction int, interval time.Duration) (int, error) {
	now := time.Unix(0, 0)
	h.Step(now)
	if _, err := h.Capture("start"); err != nil {
		return 0, err
	}
	frames := 1

	for m := 0; m < moves; m++ {
		h.Request(direction)
		for i := 0; ; i++ {
			now = now.Add(interval)
			h.Step(now)
			if _, err := h.Capture(fmt.Sprintf("move%02d_%03d", m, i)); err != nil {
				return frames, err
			}
			frames++
			if !h.Navigator().Active() {
				break
			}
		}
	}
	return frames, nil
}
