package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/grid"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the structure of the enriched grid",
	Long:  "Prints the first feature of the enriched GeoJSON as indented JSON followed by its property keys.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := zap.L().With(zap.String("command", "inspect"))

		input := enrichedInputFromFlags(cmd, cfg)
		if err := cfg.Validate("inspect"); err != nil {
			return reportFailure(log, err)
		}

		if err := runInspect(os.Stdout, input); err != nil {
			return reportFailure(log, err)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("input", "", "enriched GeoJSON (default: grid.output)")
	rootCmd.AddCommand(inspectCmd)
}

// runInspect writes the first feature of the collection at path to w.
func runInspect(w io.Writer, path string) error {
	doc, err := grid.Read(path)
	if err != nil {
		return err
	}
	if len(doc.Features) == 0 {
		return eris.Errorf("inspect: %s has no features", path)
	}

	raw, err := doc.FeatureJSON(0)
	if err != nil {
		return err
	}
	var data bytes.Buffer
	if err := json.Indent(&data, raw, "", "  "); err != nil {
		return eris.Wrap(err, "inspect: indent feature")
	}

	first := doc.Features[0]
	fmt.Fprintln(w, "First feature structure:")
	fmt.Fprintln(w, data.String())

	keys := make([]string, 0, len(first.Properties))
	for k := range first.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available properties:")
	for _, k := range keys {
		fmt.Fprintf(w, "- %s\n", k)
	}
	return nil
}
