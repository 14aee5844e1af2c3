package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kadmin/config"
	"kadmin/cuepoints"
	"kadmin/kaltura"
)

var cuepointsCmd = &cobra.Command{
	Use:   "cuepoints",
	Short: "Cue point cleanup",
}

var (
	cuepointsSel  selectorFlags
	cuepointsKind string
)

var cuepointsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete cue points of one kind from entries",
	Long: `Delete chapters, quiz questions or quiz answers from the selected
entries, confirming per entry. Deleting quiz answers also removes the
submitting users' quiz attempts so they can retake the quiz.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		kind, err := cuepoints.ParseKind(cuepointsKind)
		if err != nil {
			return err
		}
		ids, err := cuepointsSel.entryIDs(ctx, client)
		if err != nil {
			return err
		}
		res, err := cuepoints.Delete(ctx, client, prompter(), ids, kind, cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d cue points, %d entries skipped\n", res.Deleted, res.Skipped)
		if res.AttemptsDeleted > 0 {
			fmt.Printf("Deleted %d quiz attempts\n", res.AttemptsDeleted)
		}
		if res.ReportPath != "" {
			fmt.Printf("Report: %s\n", res.ReportPath)
		}
		return nil
	}),
}

func init() {
	cuepointsSel.register(cuepointsDeleteCmd)
	cuepointsDeleteCmd.Flags().StringVar(&cuepointsKind, "kind", "", "Cue point kind: chapters, quiz-questions or quiz-answers (required)")
	cuepointsDeleteCmd.MarkFlagRequired("kind")
	cuepointsCmd.AddCommand(cuepointsDeleteCmd)
}
