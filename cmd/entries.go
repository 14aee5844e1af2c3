package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"kadmin/config"
	"kadmin/entries"
	"kadmin/kaltura"
	"kadmin/selector"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Bulk entry operations",
}

var (
	renameSel    selectorFlags
	renamePrefix string
	renameSuffix string
)

var entriesRenameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Add a prefix or suffix to entry titles",
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		if renamePrefix == "" && renameSuffix == "" {
			return fmt.Errorf("nothing to do: set --prefix or --suffix")
		}
		targets, err := renameSel.entries(ctx, client)
		if err != nil {
			return err
		}
		res, err := entries.Rename(ctx, client, prompter(), targets, entries.RenameOptions{
			Prefix:     renamePrefix,
			Suffix:     renameSuffix,
			ReportsDir: cfg.ReportsDir,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %d entries, %d failed\nReport: %s\n", res.Renamed, res.Failed, res.ReportPath)
		return nil
	}),
}

var (
	deleteSel  selectorFlags
	deleteMode string
)

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete or recycle entries",
	Long: `Delete the selected entries after writing a preview CSV and asking
for a typed confirmation. With --mode RECYCLE the entries go to the
recycle bin instead and can be restored from the KMC.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		mode, err := entries.ParseDeleteMode(deleteMode)
		if err != nil {
			return err
		}
		ids, err := deleteSel.entryIDs(ctx, client)
		if err != nil {
			return err
		}
		res, err := entries.Delete(ctx, client, prompter(), ids, mode, cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("%d deleted, %d not found, %d failed\n", res.Deleted, res.NotFound, res.Failed)
		if res.ResultPath != "" {
			fmt.Printf("Report: %s\n", res.ResultPath)
		}
		return nil
	}),
}

var (
	republishSel      selectorFlags
	republishCategory int
	republishCourse   string
	republishPrefix   string
)

var entriesRepublishCmd = &cobra.Command{
	Use:   "republish",
	Short: "Re-publish entries into a category",
	Long: `Remove each selected entry from the category and add it back,
verifying both steps. Fixes entries stuck in a pending publication
state. The category comes from --category, or from --course plus
--name-prefix when only the course id is known.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		categoryID, err := entries.ResolveCategory(ctx, client, entries.RepublishTarget{
			CategoryID:     republishCategory,
			FullNamePrefix: republishPrefix,
			CourseID:       republishCourse,
		})
		if err != nil {
			return err
		}
		ids, err := republishSel.entryIDs(ctx, client)
		if err != nil {
			return err
		}
		failed := 0
		for _, id := range ids {
			if err := entries.Republish(ctx, client, id, categoryID); err != nil {
				log.Printf("%s: %v", id, err)
				failed++
				continue
			}
			fmt.Printf("%s republished into %d\n", id, categoryID)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d entries failed", failed, len(ids))
		}
		return nil
	}),
}

var (
	entriesDownloadSel selectorFlags
	entriesDownloadDir string
)

var entriesDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the source flavor of entries",
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		targets, err := entriesDownloadSel.entries(ctx, client)
		if err != nil {
			return err
		}
		targets, err = selector.WithChildren(ctx, client, targets)
		if err != nil {
			return err
		}
		dir := entriesDownloadDir
		if dir == "" {
			dir = cfg.DownloadsDir
		}
		res, err := entries.Download(ctx, client, targets, dir, cfg.ReportsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Downloaded %d, skipped %d, failed %d\nReport: %s\n",
			res.Downloaded, res.Skipped, res.Failed, res.ReportPath)
		return nil
	}),
}

func init() {
	renameSel.register(entriesRenameCmd)
	entriesRenameCmd.Flags().StringVar(&renamePrefix, "prefix", "", "Text to prepend to every title")
	entriesRenameCmd.Flags().StringVar(&renameSuffix, "suffix", "", "Text to append to every title")

	deleteSel.register(entriesDeleteCmd)
	entriesDeleteCmd.Flags().StringVar(&deleteMode, "mode", "RECYCLE", "DELETE permanently or RECYCLE to the bin")

	republishSel.register(entriesRepublishCmd)
	entriesRepublishCmd.Flags().IntVar(&republishCategory, "category-id", 0, "Target category id")
	entriesRepublishCmd.Flags().StringVar(&republishCourse, "course", "", "Course id, matched against the category name")
	entriesRepublishCmd.Flags().StringVar(&republishPrefix, "name-prefix", "", "Category full name prefix for the course lookup")

	entriesDownloadSel.register(entriesDownloadCmd)
	entriesDownloadCmd.Flags().StringVar(&entriesDownloadDir, "dir", "", "Download directory (default from config)")

	entriesCmd.AddCommand(entriesRenameCmd)
	entriesCmd.AddCommand(entriesDeleteCmd)
	entriesCmd.AddCommand(entriesRepublishCmd)
	entriesCmd.AddCommand(entriesDownloadCmd)
}
