package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/teranos/carousel/render"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a gallery configuration",
		Long:  `Loads the configuration given with --config and reports the first problem, or a summary of the scene when it is valid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			palette, err := render.Palette(cfg.Colors, cfg.SlotCount())
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			w := cmd.OutOrStdout()
			out := termenv.NewOutput(w)
			fmt.Fprintf(w, "Configuration is valid: %d slots, %v per move, %s easing, %s policy\n",
				cfg.SlotCount(), cfg.Duration, cfg.Easing, cfg.Policy)
			for i, title := range cfg.Titles {
				fmt.Fprintf(w, "  %s %d. %s (%s)\n", swatch(out, palette[i]), i+1, title, cfg.Images[i])
			}
			if cfg.Autoplay > 0 {
				fmt.Fprintf(w, "Autoplay every %v\n", cfg.Autoplay)
			}
			if len(cfg.Colors) > 0 {
				fmt.Fprintf(w, "Colors: %s\n", strings.Join(cfg.Colors, ", "))
			}
			return nil
		},
	}
}

// swatch is a block in the slot color; plain on terminals without color.
func swatch(out *termenv.Output, c color.RGBA) string {
	return out.String("■").Foreground(out.Color(render.Hex(c))).String()
}
