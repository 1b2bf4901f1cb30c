package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tklenke/wirebom/pkg/pipeline"
)

var (
	permissive    bool
	outputDir     string
	systemVoltage float64
	slackInches   float64
	labelDistance float64
)

var buildCmd = &cobra.Command{
	Use:   "build <schematic-root>",
	Short: "Parse a schematic tree and emit a wire-BOM",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&permissive, "permissive", false, "continue past recoverable errors instead of aborting")
	buildCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for report/diagram output (consumed by external collaborators)")
	buildCmd.Flags().Float64Var(&systemVoltage, "voltage", 0, "system voltage, default 14")
	buildCmd.Flags().Float64Var(&slackInches, "slack", 0, "wire length slack in inches, default 24")
	buildCmd.Flags().Float64Var(&labelDistance, "label-distance", 0, "label-to-wire association threshold in mm, default 10")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(c *cobra.Command, args []string) error {
	settings := pipeline.Settings{
		InputPath:                args[0],
		OutputDir:                outputDir,
		Permissive:               permissive,
		SystemVoltage:            systemVoltage,
		SlackInches:              slackInches,
		LabelDistanceThresholdMM: labelDistance,
	}

	if verbose {
		log.Printf("building wire BOM from %s (permissive=%v)", settings.InputPath, settings.Permissive)
	}

	result, err := pipeline.Run(settings)
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if err != nil {
		if errors.Is(err, pipeline.ErrStrictModeFailed) {
			return err
		}
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("%d wire rows, %d components, %d diagnostics\n", len(result.Rows), len(result.Components), len(result.Diagnostics))
	return nil
}
