package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/boundary"
	"github.com/sells-group/landgrid/internal/config"
	"github.com/sells-group/landgrid/internal/continent"
	"github.com/sells-group/landgrid/internal/fetcher"
	"github.com/sells-group/landgrid/internal/grid"
	"github.com/sells-group/landgrid/internal/land"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Label hexcells with continent codes and land centerpoints",
	Long: `Ensures the country boundary dataset is cached, builds the continent regions,
assigns state_id, continent_id and (by default) an on-land centerpoint to every
cell of the input grid, applies the override table, and writes the enriched
GeoJSON.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runID := uuid.New().String()
		log := zap.L().With(zap.String("command", "metadata"), zap.String("run_id", runID))

		opts, err := metadataOptionsFromFlags(cmd, cfg)
		if err != nil {
			return reportFailure(log, err)
		}
		if err := cfg.Validate("metadata"); err != nil {
			return reportFailure(log, err)
		}

		summary, err := runMetadata(ctx, log, opts)
		if err != nil {
			return reportFailure(log, err)
		}

		fmt.Printf("Wrote %d cells to %s\n", summary.Cells, opts.Output)
		return nil
	},
}

func init() {
	metadataCmd.Flags().Bool("centerpoints", true, "compute on-land centerpoints and classify from them")
	metadataCmd.Flags().String("input", "", "hexcell GeoJSON (default: grid.input)")
	metadataCmd.Flags().String("output", "", "enriched GeoJSON (default: grid.output)")
	metadataCmd.Flags().String("rules", "", "region rules YAML (default: metadata.rules_path or built-in rules)")
	rootCmd.AddCommand(metadataCmd)
}

// metadataOptions is everything one metadata run needs.
type metadataOptions struct {
	Boundary     config.BoundaryConfig
	Input        string
	Output       string
	RulesPath    string
	Centerpoints bool
}

// metadataOptionsFromFlags layers command flags over the loaded config.
func metadataOptionsFromFlags(cmd *cobra.Command, c *config.Config) (metadataOptions, error) {
	opts := metadataOptions{
		Boundary:     c.Boundary,
		Input:        c.Grid.Input,
		Output:       c.Grid.Output,
		RulesPath:    c.Metadata.RulesPath,
		Centerpoints: c.Metadata.Centerpoints,
	}

	if cmd.Flags().Changed("centerpoints") {
		v, err := cmd.Flags().GetBool("centerpoints")
		if err != nil {
			return opts, eris.Wrap(err, "metadata: centerpoints flag")
		}
		opts.Centerpoints = v
	}
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		opts.Input = v
		c.Grid.Input = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		opts.Output = v
		c.Grid.Output = v
	}
	if v, _ := cmd.Flags().GetString("rules"); v != "" {
		opts.RulesPath = v
	}
	return opts, nil
}

// runMetadata executes the full metadata pipeline and returns the run summary.
func runMetadata(ctx context.Context, log *zap.Logger, opts metadataOptions) (*grid.Summary, error) {
	start := time.Now()

	rules := continent.DefaultRules()
	if opts.RulesPath != "" {
		r, err := continent.LoadRules(opts.RulesPath)
		if err != nil {
			return nil, err
		}
		rules = r
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: opts.Boundary.UserAgent,
		Timeout:   time.Duration(opts.Boundary.TimeoutSecs) * time.Second,
	})
	cachePath, err := boundary.EnsureCached(ctx, f, opts.Boundary.SourceURL(), opts.Boundary.CacheFile())
	if err != nil {
		return nil, err
	}

	countries, err := boundary.Load(opts.Boundary.Format, cachePath, opts.Boundary.TempDir, boundary.Attributes{
		Admin:     rules.AdminProperty,
		Continent: rules.ContinentProperty,
	})
	if err != nil {
		return nil, err
	}
	log.Info("loaded boundaries", zap.Int("countries", len(countries)))

	classifier := continent.NewClassifier(continent.Build(countries, rules))

	var mass *land.Mass
	if opts.Centerpoints {
		mass = land.NewMass(countries)
	}

	doc, err := grid.Read(opts.Input)
	if err != nil {
		return nil, err
	}

	proc, err := grid.NewProcessor(classifier, mass, grid.Options{
		Centerpoints: opts.Centerpoints,
		Overrides:    rules.Overrides,
	})
	if err != nil {
		return nil, err
	}

	summary, err := proc.Process(doc.FeatureCollection)
	if err != nil {
		return nil, err
	}

	if err := grid.Write(opts.Output, doc); err != nil {
		return nil, err
	}

	log.Info("metadata complete", append(summary.Fields(),
		zap.String("output", opts.Output),
		zap.Bool("centerpoints", opts.Centerpoints),
		zap.Duration("elapsed", time.Since(start)),
	)...)
	return summary, nil
}
