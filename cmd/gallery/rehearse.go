package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/gallery"
	"github.com/teranos/carousel/stage"
)

func newRehearseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rehearse",
		Short: "Walk the gallery once around and write an HTML report",
		Long: `Drives the terminal gallery on a virtual clock, one move per slot, capturing
the ring and the terminal after every move. The report lands in a timestamped
directory under --out and the dashboard at --out/index.html is regenerated.`,
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
			backwards, _ := cmd.Flags().GetBool("backwards")
			baseline, _ := cmd.Flags().GetString("baseline")
			update, _ := cmd.Flags().GetBool("update-baseline")
			tolerance, _ := cmd.Flags().GetFloat64("tolerance")
			if update && baseline == "" {
				return fmt.Errorf("--update-baseline needs --baseline")
			}
			dir := filepath.Join(out, time.Now().Format("20060102_150405"))

			nav, err := carousel.New(cfg, carousel.WithLogger(logger))
			if err != nil {
				return err
			}
			model, err := gallery.NewModel(nav, cfg, gallery.WithLogger(logger))
			if err != nil {
				return err
			}
			op, err := stage.NewOperator(nil, model, cfg, filepath.Join(dir, "frames"))
			if err != nil {
				return err
			}

			if baseline != "" {
				op.WithBaseline(baseline, tolerance, update)
			}
			shot := func(label string) {
				op.CaptureTrackingShot(label)
				if baseline != "" {
					op.AssertMatchesBaseline(label)
				}
			}

			op.Start()
			shot("start")
			for i := 0; i < cfg.SlotCount(); i++ {
				if backwards {
					op.PressLeft()
				} else {
					op.PressRight()
				}
				op.Settle()
				shot(fmt.Sprintf("slot%02d", i+1))
			}
			result := op.AssertIndex(0).Stop()

			report, err := stage.NewReport("gallery tour", result, op.Frames())
			if err != nil {
				return err
			}
			path, err := report.WriteHTML(dir)
			if err != nil {
				return err
			}
			n, err := stage.GenerateDashboard(out)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "report: %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "dashboard: %s (%d reports)\n", filepath.Join(out, "index.html"), n)
			if !result.Success {
				return fmt.Errorf("rehearsal failed: %s", result.ErrorMessage)
			}
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "reports", "Directory holding reports and the dashboard")
	cmd.Flags().Bool("backwards", false, "Walk the ring with the left arrow")
	cmd.Flags().String("baseline", "", "Compare every shot with PNG baselines in this directory")
	cmd.Flags().Bool("update-baseline", false, "Write the shots as the new baselines")
	cmd.Flags().Float64("tolerance", 0.01, "Fraction of pixels allowed to differ from a baseline")
	return cmd
}
