package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kadmin/channels"
	"kadmin/config"
	"kadmin/kaltura"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "MediaSpace channel management",
}

var (
	channelsCSV     string
	channelsParent  int
	channelsPrefix  string
	channelsPrivCtx string
	channelsSiteURL string
)

var channelsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create MediaSpace channels from a CSV plan",
	Long: `Read a plan CSV with channelname, owner, members and privacy
columns and create one channel category per row under the MediaSpace
channels category. Members are ';' separated in the CSV. Names that
already exist on the server are skipped so a partial run can be
repeated.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		plans, err := channels.LoadPlan(channelsCSV)
		if err != nil {
			return err
		}
		res, err := channels.Create(ctx, client, plans, channels.CreateOptions{
			ParentID:       channelsParent,
			FullNamePrefix: channelsPrefix,
			PrivacyContext: channelsPrivCtx,
			SiteURL:        channelsSiteURL,
			ReportsDir:     cfg.ReportsDir,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created %d channels, skipped %d existing\nReport: %s\n",
			res.Created, res.Skipped, res.ReportPath)
		return nil
	}),
}

var channelsRolesUsers string

var channelsRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Report channel memberships and roles of users",
	Long: `List every channel membership of the given users with the channel
hierarchy and role. Memberships pointing at deleted categories show
up as ORPHANED.`,
	RunE: withSource(func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error {
		var userIDs []string
		for _, id := range strings.Split(channelsRolesUsers, ",") {
			if id = strings.TrimSpace(id); id != "" {
				userIDs = append(userIDs, id)
			}
		}
		res, err := channels.Roles(ctx, client, userIDs, cfg.ReportsDir)
		if err != nil {
			return err
		}
		for _, s := range res.Summaries {
			fmt.Printf("%s: %d memberships\n", s.UserID, s.Total)
		}
		fmt.Printf("Report: %s\n", res.ReportPath)
		return nil
	}),
}

func init() {
	channelsCreateCmd.Flags().StringVar(&channelsCSV, "csv", "", "Plan CSV file (required)")
	channelsCreateCmd.Flags().IntVar(&channelsParent, "parent", 0, "MediaSpace channels category id (required)")
	channelsCreateCmd.Flags().StringVar(&channelsPrefix, "name-prefix", "", "Channels category full name prefix, e.g. \"MediaSpace>site>channels>\"")
	channelsCreateCmd.Flags().StringVar(&channelsPrivCtx, "privacy-context", "MediaSpace", "Privacy context of the MediaSpace instance")
	channelsCreateCmd.Flags().StringVar(&channelsSiteURL, "site-url", "", "MediaSpace base URL for the channel links in the report")
	channelsCreateCmd.MarkFlagRequired("csv")
	channelsCreateCmd.MarkFlagRequired("parent")

	channelsRolesCmd.Flags().StringVar(&channelsRolesUsers, "users", "", "Comma-separated user ids (required)")
	channelsRolesCmd.MarkFlagRequired("users")

	channelsCmd.AddCommand(channelsCreateCmd)
	channelsCmd.AddCommand(channelsRolesCmd)
}
