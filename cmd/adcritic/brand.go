package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var brandCmd = &cobra.Command{
	Use:   "brand",
	Short: "Manage brand kits",
}

var brandImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import brand kits from a JSON object or array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.brands.Import(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("imported %d brand kits before failure: %w", n, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d brand kits\n", n)
		return nil
	},
}

var brandListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored brand kits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		brands, err := a.brands.List(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCOLORS")
		for _, b := range brands {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", b.BrandID, b.BrandName, b.Category, len(b.PrimaryColors))
		}
		return tw.Flush()
	},
}

func init() {
	brandCmd.AddCommand(brandImportCmd, brandListCmd)
}
