package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kadmin/config"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Session and credential checks",
}

var sessionPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Verify the configured credentials work",
	Long: `Open an admin session on the source account, call the system ping
and report the partner id the session is good for. Checks the destination
account too when one is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := pingAccount(cmd.Context(), cfg, cfg.Source, "source"); err != nil {
			return err
		}
		if cfg.Dest.Configured() {
			if err := pingAccount(cmd.Context(), cfg, cfg.Dest, "destination"); err != nil {
				return err
			}
		}
		return nil
	},
}

func pingAccount(ctx context.Context, cfg *config.Config, account config.Account, label string) error {
	client, closeSession, err := openSession(ctx, cfg, account)
	if err != nil {
		return fmt.Errorf("%s account: %w", label, err)
	}
	defer closeSession()
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("%s account ping: %w", label, err)
	}
	fmt.Printf("%s account %d: OK\n", label, account.PartnerID)
	return nil
}

func init() {
	sessionCmd.AddCommand(sessionPingCmd)
}
