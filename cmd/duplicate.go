package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kadmin/config"
	"kadmin/duplicate"
	"kadmin/kaltura"
	"kadmin/selector"
)

var duplicateCmd = &cobra.Command{
	Use:   "duplicate",
	Short: "Copy content across accounts and channels",
}

var (
	dupSel          selectorFlags
	dupWithChildren bool
	dupOwner        string
	dupCoEditors    string
	dupCoPublishers string
	dupTag          string
	dupSkipLabel    string
	dupSkipTrans    bool
	dupQuizAnswers  bool
)

var duplicateEntriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Copy entries into the destination account",
	Long: `Copy the selected entries from the source account into the
destination account: media content, quiz settings, thumbnails,
captions, attachments and cue points. Parents are copied before their
children so multi-stream recordings stay linked. The report maps
source ids to destination ids.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.RequireDest(); err != nil {
			return err
		}
		ctx := cmd.Context()
		source, closeSource, err := openSession(ctx, cfg, cfg.Source)
		if err != nil {
			return err
		}
		defer closeSource()
		dest, closeDest, err := openSession(ctx, cfg, cfg.Dest)
		if err != nil {
			return err
		}
		defer closeDest()

		targets, err := dupSel.entries(ctx, source)
		if err != nil {
			return err
		}
		if dupWithChildren {
			targets, err = selector.WithChildren(ctx, source, targets)
			if err != nil {
				return err
			}
		}
		res, err := duplicate.Entries(ctx, source, dest, targets, duplicate.Options{
			Owner:            dupOwner,
			CoEditors:        dupCoEditors,
			CoPublishers:     dupCoPublishers,
			ExtraTag:         dupTag,
			SkipCaptionLabel: dupSkipLabel,
			SkipTranscripts:  dupSkipTrans,
			CopyQuizAnswers:  dupQuizAnswers,
			ReportsDir:       cfg.ReportsDir,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Copied %d entries, %d failed\nReport: %s\n", res.Copied, res.Failed, res.ReportPath)
		return nil
	},
}

var (
	dupPlaylistsSource int
	dupPlaylistsDest   int
)

var duplicatePlaylistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "Clone channel playlists onto another channel",
	Long: `Clone every playlist attached to the source channel category and
attach the clones to the destination channel category. Runs inside
one account; the categories come from --source-category and
--dest-category.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		res, err := duplicate.Playlists(ctx, client, dupPlaylistsSource, dupPlaylistsDest, cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Cloned %d playlists\nReport: %s\n", res.Cloned, res.ReportPath)
		return nil
	}),
}

func init() {
	dupSel.register(duplicateEntriesCmd)
	duplicateEntriesCmd.Flags().BoolVar(&dupWithChildren, "with-children", false, "Include multi-stream child entries")
	duplicateEntriesCmd.Flags().StringVar(&dupOwner, "set-owner", "", "Owner for the copies (default: keep source owner)")
	duplicateEntriesCmd.Flags().StringVar(&dupCoEditors, "co-editors", "", "Comma-separated co-editor list for the copies")
	duplicateEntriesCmd.Flags().StringVar(&dupCoPublishers, "co-publishers", "", "Comma-separated co-publisher list for the copies")
	duplicateEntriesCmd.Flags().StringVar(&dupTag, "add-tag", "", "Tag appended to every copy")
	duplicateEntriesCmd.Flags().StringVar(&dupSkipLabel, "skip-caption-label", "", "Caption label to leave behind")
	duplicateEntriesCmd.Flags().BoolVar(&dupSkipTrans, "skip-transcripts", false, "Leave transcript attachments behind")
	duplicateEntriesCmd.Flags().BoolVar(&dupQuizAnswers, "copy-quiz-answers", false, "Also copy student quiz answer cue points")

	duplicatePlaylistsCmd.Flags().IntVar(&dupPlaylistsSource, "source-category", 0, "Source channel category id (required)")
	duplicatePlaylistsCmd.Flags().IntVar(&dupPlaylistsDest, "dest-category", 0, "Destination channel category id (required)")
	duplicatePlaylistsCmd.MarkFlagRequired("source-category")
	duplicatePlaylistsCmd.MarkFlagRequired("dest-category")

	duplicateCmd.AddCommand(duplicateEntriesCmd)
	duplicateCmd.AddCommand(duplicatePlaylistsCmd)
}
