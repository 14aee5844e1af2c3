package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kadmin/captions"
	"kadmin/config"
	"kadmin/kaltura"
)

var captionsCmd = &cobra.Command{
	Use:   "captions",
	Short: "Caption asset management",
}

var (
	captionsHideSel   selectorFlags
	captionsHideLabel string
)

var captionsHideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide captions with a label from the player",
	Long: `Turn displayOnPlayer off for every caption whose label equals
--label on the selected entries. The usual target is the
machine-generated label before human captions are ordered.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		targets, err := captionsHideSel.entries(ctx, client)
		if err != nil {
			return err
		}
		res, err := captions.Hide(ctx, client, prompter(), targets, captionsHideLabel, cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Hid %d captions, %d unchanged\n", res.Hidden, res.Unchanged)
		if res.ReportPath != "" {
			fmt.Printf("Report: %s\n", res.ReportPath)
		}
		return nil
	}),
}

var (
	captionsDownloadSel  selectorFlags
	captionsDownloadDir  string
	captionsTranscripts  bool
	captionsSkipChildren bool
)

var captionsDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download caption files, optionally as transcripts",
	Long: `Download every caption of the selected entries, named by date,
entry id, title and label. With --transcripts the SRT and VTT files
are converted to plain text and the caption file is removed.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		targets, err := captionsDownloadSel.entries(ctx, client)
		if err != nil {
			return err
		}
		dir := captionsDownloadDir
		if dir == "" {
			dir = cfg.DownloadsDir
		}
		res, err := captions.Download(ctx, client, targets, captions.DownloadOptions{
			Dir:          dir,
			SkipChildren: captionsSkipChildren,
			ToTranscript: captionsTranscripts,
			ReportsDir:   cfg.ReportsDir,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Downloaded %d captions (%d converted), skipped %d, failed %d\nReport: %s\n",
			res.Downloaded, res.Converted, res.Skipped, res.Failed, res.ReportPath)
		return nil
	}),
}

func init() {
	captionsHideSel.register(captionsHideCmd)
	captionsHideCmd.Flags().StringVar(&captionsHideLabel, "label", "", "Caption label to hide (required)")
	captionsHideCmd.MarkFlagRequired("label")

	captionsDownloadSel.register(captionsDownloadCmd)
	captionsDownloadCmd.Flags().StringVar(&captionsDownloadDir, "dir", "", "Download directory (default from config)")
	captionsDownloadCmd.Flags().BoolVar(&captionsTranscripts, "transcripts", false, "Convert captions to plain-text transcripts")
	captionsDownloadCmd.Flags().BoolVar(&captionsSkipChildren, "skip-children", false, "Skip multi-stream child entries")

	captionsCmd.AddCommand(captionsHideCmd)
	captionsCmd.AddCommand(captionsDownloadCmd)
}
