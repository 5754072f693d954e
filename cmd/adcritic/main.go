package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adcritic",
	Short: "Critique ad creatives and refine them iteratively",
	Long: `adcritic scores ad images on brand alignment, visual quality,
message clarity and safety, and runs a generate-critique-refine loop
that keeps the best scoring candidate.

Configuration is read from the environment and an optional .env file.

Examples:
  adcritic serve
  adcritic bot
  adcritic critique ./ad.png --brand acme
  adcritic refine "running shoes on a beach" --max-iterations 3
  adcritic brand import ./brands.json`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, botCmd, critiqueCmd, refineCmd, brandCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
