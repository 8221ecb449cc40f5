package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/config"
	"github.com/sells-group/landgrid/internal/grid"
	"github.com/sells-group/landgrid/internal/render"
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Render the enriched grid as a PNG",
	Long: `Reads the enriched GeoJSON written by "landgrid metadata" and draws every
cell with its continent code and, when present, its centerpoint.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := zap.L().With(zap.String("command", "visualize"))

		opts := visualizeOptionsFromFlags(cmd, cfg)
		if err := cfg.Validate("visualize"); err != nil {
			return reportFailure(log, err)
		}

		if err := runVisualize(log, opts.Input, opts.Output, opts.Render); err != nil {
			return reportFailure(log, err)
		}

		fmt.Printf("Visualization saved as %s\n", opts.Output)
		return nil
	},
}

func init() {
	visualizeCmd.Flags().String("input", "", "enriched GeoJSON (default: grid.output)")
	visualizeCmd.Flags().String("output", "", "PNG path (default: visualize.output)")
	visualizeCmd.Flags().Bool("centerpoints", true, "draw centerpoint markers")
	rootCmd.AddCommand(visualizeCmd)
}

// visualizeOptions is everything one visualize run needs.
type visualizeOptions struct {
	Input  string
	Output string
	Render render.Options
}

// visualizeOptionsFromFlags layers command flags over the loaded config.
func visualizeOptionsFromFlags(cmd *cobra.Command, c *config.Config) visualizeOptions {
	input := enrichedInputFromFlags(cmd, c)
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		c.Visualize.Output = v
	}
	opts := visualizeOptions{
		Input:  input,
		Output: c.Visualize.Output,
		Render: render.Options{
			Width:        c.Visualize.Width,
			LabelSize:    c.Visualize.LabelSize,
			Centerpoints: c.Visualize.Centerpoints,
		},
	}
	if cmd.Flags().Changed("centerpoints") {
		opts.Render.Centerpoints, _ = cmd.Flags().GetBool("centerpoints")
	}
	return opts
}

// enrichedInputFromFlags resolves the enriched grid path: --input when given,
// otherwise grid.output. The resolved path is written back to c so Validate
// checks the file that will actually be read.
func enrichedInputFromFlags(cmd *cobra.Command, c *config.Config) string {
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		c.Grid.Output = v
	}
	return c.Grid.Output
}

func runVisualize(log *zap.Logger, input, output string, opts render.Options) error {
	doc, err := grid.Read(input)
	if err != nil {
		return err
	}

	if err := grid.Validate(doc.FeatureCollection); err != nil {
		log.Warn("enriched grid failed validation, rendering anyway", zap.Error(err))
	}

	if err := render.WriteFile(output, doc.FeatureCollection, opts); err != nil {
		return err
	}

	log.Info("visualization written",
		zap.String("output", output),
		zap.Int("cells", len(doc.Features)),
	)
	return nil
}
