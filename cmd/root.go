// Package cmd wires the kadmin subcommands. Every command loads the
// environment configuration, opens an admin session against the source
// account and closes it when the work is done.
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"kadmin/config"
	"kadmin/kaltura"
	"kadmin/notifier"
	"kadmin/prompt"
	"kadmin/selector"
)

var rootCmd = &cobra.Command{
	Use:   "kadmin",
	Short: "Admin toolkit for a Kaltura video platform account",
	Long: `kadmin batches the maintenance work the KMC makes tedious: bulk
metadata edits, cue point and caption cleanup, cross-account entry
duplication and CSV reporting jobs. Credentials come from the
environment or a .env file, see the README for the variable names.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var assumeYes bool

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip y/N confirmation prompts (typed confirmations still ask)")
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(cuepointsCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(flavorsCmd)
	rootCmd.AddCommand(captionsCmd)
	rootCmd.AddCommand(duplicateCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(reportCmd)
}

func prompter() *prompt.Prompter {
	p := prompt.Default()
	p.AssumeYes = assumeYes
	return p
}

// openSession builds a client for the account and starts an admin
// session on it. The returned func ends the session.
func openSession(ctx context.Context, cfg *config.Config, account config.Account) (*kaltura.Client, func(), error) {
	clientCfg := kaltura.DefaultConfig()
	clientCfg.ServiceURL = cfg.ServiceURL
	clientCfg.PartnerID = account.PartnerID
	clientCfg.RPS = cfg.RPS
	clientCfg.Timeout = cfg.Timeout
	clientCfg.Retry.MaxRetries = cfg.MaxRetries
	clientCfg.Retry.InitialBackoff = cfg.InitialBackoff
	clientCfg.Retry.MaxBackoff = cfg.MaxBackoff
	client := kaltura.New(clientCfg)
	opts := kaltura.SessionOptions{
		UserID:     account.UserID,
		Expiry:     cfg.SessionExpiry,
		Privileges: cfg.Privileges,
	}
	if _, err := client.StartSession(ctx, account.AdminSecret, opts); err != nil {
		return nil, nil, fmt.Errorf("start session on %d: %w", account.PartnerID, err)
	}
	closeSession := func() {
		if err := client.EndSession(context.Background()); err != nil {
			log.Printf("end session on %d: %v", account.PartnerID, err)
		}
	}
	return client, closeSession, nil
}

// withSource is the RunE body shared by most commands: load config,
// open a session on the source account, run fn, end the session.
func withSource(fn func(ctx context.Context, client *kaltura.Client, cfg *config.Config) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		client, closeSession, err := openSession(cmd.Context(), cfg, cfg.Source)
		if err != nil {
			return err
		}
		defer closeSession()
		return fn(cmd.Context(), client, cfg)
	}
}

// mailReport sends the finished report when SMTP is configured.
func mailReport(cfg *config.Config, subject, summary, reportPath string) {
	if err := notifier.New(cfg.SMTP).SendReport(subject, summary, reportPath); err != nil {
		log.Printf("mail report: %v", err)
	}
}

// selectorFlags are the shared entry selection flags. Exactly one of
// them must be set.
type selectorFlags struct {
	ids      string
	csv      string
	category int
	tag      string
	owner    string
}

func (f *selectorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ids, "ids", "", "Comma-separated entry ids")
	cmd.Flags().StringVar(&f.csv, "csv", "", "CSV file with an entry_id column")
	cmd.Flags().IntVar(&f.category, "category", 0, "Select entries published in this category id")
	cmd.Flags().StringVar(&f.tag, "tag", "", "Select entries carrying this tag")
	cmd.Flags().StringVar(&f.owner, "owner", "", "Select entries owned by this user id")
}

func (f *selectorFlags) selection() selector.Selection {
	return selector.Selection{
		IDs:        f.ids,
		CSVPath:    f.csv,
		CategoryID: f.category,
		Tag:        f.tag,
		Owner:      f.owner,
	}
}

func (f *selectorFlags) entries(ctx context.Context, client *kaltura.Client) ([]kaltura.MediaEntry, error) {
	sel := f.selection()
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return selector.Entries(ctx, client, sel)
}

func (f *selectorFlags) entryIDs(ctx context.Context, client *kaltura.Client) ([]string, error) {
	sel := f.selection()
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return selector.EntryIDs(ctx, client, sel)
}
