package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kadmin/chapters"
	"kadmin/config"
	"kadmin/kaltura"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "Chapter cue point management",
}

var chaptersCSV string

var chaptersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create chapter markers from a CSV plan",
	Long: `Read a plan CSV with entry_id, timecode (HH:MM:SS), chapter_title,
chapter_description and search_tags columns and create one chapter cue
point per row. The whole plan is validated before anything is created.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		plan, err := chapters.LoadPlan(chaptersCSV)
		if err != nil {
			return err
		}
		res, err := chapters.Add(ctx, client, plan, cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Added %d chapters, %d failed\nReport: %s\n", res.Added, res.Failed, res.ReportPath)
		return nil
	}),
}

func init() {
	chaptersAddCmd.Flags().StringVar(&chaptersCSV, "csv", "", "Plan CSV file (required)")
	chaptersAddCmd.MarkFlagRequired("csv")
	chaptersCmd.AddCommand(chaptersAddCmd)
}
