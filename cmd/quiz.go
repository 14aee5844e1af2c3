package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kadmin/config"
	"kadmin/kaltura"
	"kadmin/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Quiz entry operations",
}

var (
	quizCloneSel selectorFlags
	quizCloneTag string
)

var quizCloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Clone quiz entries with their questions",
	Long: `Clone each selected quiz entry. The platform clone leaves the
question cue points behind, so they are copied onto the clone one by
one afterwards. Non-quiz entries in the selection are errors.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		ids, err := quizCloneSel.entryIDs(ctx, client)
		if err != nil {
			return err
		}
		res, err := quiz.Clone(ctx, client, ids, quizCloneTag, cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Cloned %d quizzes, %d failed\nReport: %s\n", res.Cloned, res.Failed, res.ReportPath)
		return nil
	}),
}

var (
	quizAttemptsSel   selectorFlags
	quizAttemptsUsers string
)

var quizAttemptsCmd = &cobra.Command{
	Use:   "delete-attempts",
	Short: "Delete quiz attempts so users can retake",
	Long: `Find the quiz attempts of the given users on the selected entries
and delete them after a typed confirmation. The detail report is
written before anything is deleted.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		entryIDs, err := quizAttemptsSel.entryIDs(ctx, client)
		if err != nil {
			return err
		}
		var userIDs []string
		for _, id := range strings.Split(quizAttemptsUsers, ",") {
			if id = strings.TrimSpace(id); id != "" {
				userIDs = append(userIDs, id)
			}
		}
		res, err := quiz.DeleteAttempts(ctx, client, prompter(), entryIDs, userIDs, cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d attempts\n", res.Deleted)
		if res.ReportPath != "" {
			fmt.Printf("Report: %s\n", res.ReportPath)
		}
		return nil
	}),
}

func init() {
	quizCloneSel.register(quizCloneCmd)
	quizCloneCmd.Flags().StringVar(&quizCloneTag, "add-tag", "", "Tag appended to every clone")

	quizAttemptsSel.register(quizAttemptsCmd)
	quizAttemptsCmd.Flags().StringVar(&quizAttemptsUsers, "users", "", "Comma-separated user ids (required)")
	quizAttemptsCmd.MarkFlagRequired("users")

	quizCmd.AddCommand(quizCloneCmd)
	quizCmd.AddCommand(quizAttemptsCmd)
}
