package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kadmin/config"
	"kadmin/flavors"
	"kadmin/kaltura"
	"kadmin/selector"
)

var flavorsCmd = &cobra.Command{
	Use:   "flavors",
	Short: "Flavor asset cleanup",
}

var (
	flavorsSel      selectorFlags
	flavorsKeepTags []string
)

var flavorsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete non-source flavors to reclaim storage",
	Long: `Plan the deletion of every flavor except the source one on the
selected entries, write a preview CSV, and execute after a typed
DELETE confirmation. Flavors carrying a --keep tag survive. Entries
with a single flavor are left alone.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		targets, err := flavorsSel.entries(ctx, client)
		if err != nil {
			return err
		}
		targets, err = selector.WithChildren(ctx, client, targets)
		if err != nil {
			return err
		}
		plan, err := flavors.BuildPlan(ctx, client, targets, flavorsKeepTags)
		if err != nil {
			return err
		}
		previewPath, err := plan.WritePreview(cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Println(plan.Summary())
		fmt.Printf("Preview: %s\n", previewPath)
		res, err := flavors.Execute(ctx, client, prompter(), plan, cfg.Workers, cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d flavors, %d failed, ~%d KB reclaimed\nReport: %s\n",
			res.Deleted, res.Failed, res.KBReclaimed, res.ResultPath)
		return nil
	}),
}

func init() {
	flavorsSel.register(flavorsDeleteCmd)
	flavorsDeleteCmd.Flags().StringSliceVar(&flavorsKeepTags, "keep", nil, "Flavor tags to protect from deletion")
	flavorsCmd.AddCommand(flavorsDeleteCmd)
}
