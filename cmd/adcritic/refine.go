package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

var (
	refineBrandFlag     string
	refineMaxIterFlag   int
	refineThresholdFlag float64
	refineAspectFlag    string
	refineStyleFlag     string
	refineJSONFlag      bool
)

var refineCmd = &cobra.Command{
	Use:   "refine <prompt>",
	Short: "Run the generate-critique-refine loop for a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefine,
}

func init() {
	refineCmd.Flags().StringVarP(&refineBrandFlag, "brand", "b", "", "Brand kit id")
	refineCmd.Flags().IntVarP(&refineMaxIterFlag, "max-iterations", "n", 0, "Maximum iterations (0 = configured default)")
	refineCmd.Flags().Float64VarP(&refineThresholdFlag, "threshold", "t", 0, "Score threshold to stop at (0 = configured default)")
	refineCmd.Flags().StringVar(&refineAspectFlag, "aspect-ratio", "1:1", "Aspect ratio of generated ads")
	refineCmd.Flags().StringVar(&refineStyleFlag, "style", "", "Visual style hint")
	refineCmd.Flags().BoolVar(&refineJSONFlag, "json", false, "Print the full result as JSON after the summary")
}

func runRefine(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	brand, err := a.lookupBrand(cmd, refineBrandFlag)
	if err != nil {
		return err
	}

	result, err := a.orchestrator.Run(ctx, domain.WorkflowRequest{
		Prompt:         args[0],
		Brand:          brand,
		MaxIterations:  refineMaxIterFlag,
		ScoreThreshold: refineThresholdFlag,
		AspectRatio:    refineAspectFlag,
		Style:          refineStyleFlag,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
	if refineJSONFlag {
		fmt.Fprintln(cmd.OutOrStdout())
		return printJSON(cmd, result)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
