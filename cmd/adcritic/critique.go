package main

import (
	"github.com/spf13/cobra"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/service"
)

var (
	critiqueBrandFlag       string
	critiqueDescriptionFlag string
	critiqueCategoryFlag    string
)

var critiqueCmd = &cobra.Command{
	Use:   "critique <image>",
	Short: "Score a single ad image and print the critique as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runCritique,
}

func init() {
	critiqueCmd.Flags().StringVarP(&critiqueBrandFlag, "brand", "b", "", "Brand kit id to check against")
	critiqueCmd.Flags().StringVar(&critiqueDescriptionFlag, "description", "", "Optional text description of the ad")
	critiqueCmd.Flags().StringVar(&critiqueCategoryFlag, "category", "", "Rubric category (defaults to the brand category)")
}

func runCritique(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	brand, err := a.lookupBrand(cmd, critiqueBrandFlag)
	if err != nil {
		return err
	}

	critique, err := a.critic.CritiqueImage(ctx, service.CritiqueRequest{
		ImagePath:   args[0],
		Brand:       brand,
		Description: critiqueDescriptionFlag,
		Category:    critiqueCategoryFlag,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, critique)
}

func (a *app) lookupBrand(cmd *cobra.Command, brandID string) (*domain.BrandKit, error) {
	if brandID == "" {
		return nil, nil
	}
	return a.brands.Get(cmd.Context(), brandID)
}
