package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Antagata/Month-recap-AVU/internal/catalog"
	"github.com/Antagata/Month-recap-AVU/internal/model"
	"github.com/Antagata/Month-recap-AVU/internal/pricing"
	"github.com/Antagata/Month-recap-AVU/internal/resolve"
)

var (
	matchVintage string
	matchPrice   string
	matchSize    float64
	matchBulk    bool
)

var matchCmd = &cobra.Command{
	Use:   "match <name>",
	Short: "Resolve a single mention against the catalog",
	Long:  "Runs the cascade for one name/vintage/price triple and prints the decision. Useful for checking why a line resolved the way it did.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		items, err := catalog.LoadXLSX(cfg.Catalog.Path, cfg.Catalog.Columns)
		if err != nil {
			return err
		}
		idx := catalog.NewIndex(items)

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		conv := pricing.Converter{Factor: cfg.Pricing.Factor, RoundAbove: cfg.Pricing.RoundAbove}
		opts, _ := cascadeSettings()
		resolver := resolve.New(idx, store, conv, opts)

		m := model.Mention{
			NameFragment: args[0],
			Vintage:      model.ParseVintage(matchVintage),
			Size:         matchSize,
			Bulk:         matchBulk,
			SourcePrice:  matchPrice,
		}
		res := resolver.Resolve(ctx, m)

		fmt.Fprintf(os.Stdout, "tier: %s\nconfidence: %.2f\n", res.Tier, res.Confidence)
		if res.ItemID != nil {
			fmt.Fprintf(os.Stdout, "item: %d\n", *res.ItemID)
		}
		if res.TargetPrice != nil {
			fmt.Fprintf(os.Stdout, "target: %s\n", pricing.FormatAmount(*res.TargetPrice))
		}
		if res.Reason != "" {
			fmt.Fprintf(os.Stdout, "reason: %s\n", res.Reason)
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchVintage, "vintage", "NV", "vintage year or NV")
	matchCmd.Flags().StringVar(&matchPrice, "price", "", "source price, e.g. 95.00")
	matchCmd.Flags().Float64Var(&matchSize, "size", 0, "bottle size in cl (75, 150)")
	matchCmd.Flags().BoolVar(&matchBulk, "bulk", false, "bulk quantity tier")
	_ = matchCmd.MarkFlagRequired("price")
	rootCmd.AddCommand(matchCmd)
}
