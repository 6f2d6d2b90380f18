package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/BlobGrant/internal/account"
	"github.com/dharsanguruparan/BlobGrant/internal/config"
	"github.com/dharsanguruparan/BlobGrant/internal/issuer"
	"github.com/dharsanguruparan/BlobGrant/internal/sas"
	"github.com/dharsanguruparan/BlobGrant/internal/signing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "blobgrant: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blobgrant",
		Short: "Issue time-bounded SAS tokens for blob storage",
		Long: `blobgrant signs Shared Access Signature tokens for containers and blobs
using the account credentials from BLOBGRANT_ACCOUNT / BLOBGRANT_ACCOUNT_KEY,
so clients get scoped, expiring access without ever seeing the account key.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newContainerCmd(),
		newBlobCmd(),
		newBatchCmd(),
	)
	return cmd
}

// grantFlags are shared by every issuing subcommand.
type grantFlags struct {
	permissions string
	ttl         time.Duration
}

func (f *grantFlags) register(cmd *cobra.Command, defaultPerms string) {
	cmd.Flags().StringVarP(&f.permissions, "permissions", "p", defaultPerms, "Permission letters (subset of racwdl)")
	cmd.Flags().DurationVar(&f.ttl, "ttl", 0, "Grant validity (defaults to BLOBGRANT_SAS_TTL)")
}

func (f *grantFlags) validity(cfg *config.Config) time.Duration {
	if f.ttl > 0 {
		return f.ttl
	}
	return cfg.SASTTL
}

// buildIssuer wires config, credential, and account client together. It runs
// per invocation so --help and flag errors never require credentials.
func buildIssuer() (*issuer.Issuer, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	cred, err := signing.New(cfg.Account, cfg.AccountKey)
	if err != nil {
		return nil, nil, err
	}
	client, err := account.New(account.Config{
		Account:    cfg.Account,
		AccountKey: cfg.AccountKey,
		Endpoint:   cfg.Endpoint,
	})
	if err != nil {
		return nil, nil, err
	}
	return issuer.New(cred, client).WithVersion(cfg.APIVersion), cfg, nil
}

func newContainerCmd() *cobra.Command {
	var flags grantFlags
	cmd := &cobra.Command{
		Use:   "container <name>",
		Short: "Issue a container-scoped SAS query string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iss, cfg, err := buildIssuer()
			if err != nil {
				return err
			}
			perms, err := sas.ParseContainerPermissions(flags.permissions)
			if err != nil {
				return err
			}
			query, err := iss.ContainerSAS(args[0], perms, flags.validity(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), query)
			return nil
		},
	}
	flags.register(cmd, "rl")
	return cmd
}

func newBlobCmd() *cobra.Command {
	var flags grantFlags
	cmd := &cobra.Command{
		Use:   "blob <container> <path>",
		Short: "Issue a blob-scoped SAS URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iss, cfg, err := buildIssuer()
			if err != nil {
				return err
			}
			perms, err := sas.ParseBlobPermissions(flags.permissions)
			if err != nil {
				return err
			}
			u, err := iss.BlobSASURL(args[0], args[1], perms, flags.validity(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	flags.register(cmd, "r")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var flags grantFlags
	var check bool
	cmd := &cobra.Command{
		Use:   "batch <container> <path>...",
		Short: "Issue SAS URLs for many blobs at once",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iss, cfg, err := buildIssuer()
			if err != nil {
				return err
			}
			perms, err := sas.ParseBlobPermissions(flags.permissions)
			if err != nil {
				return err
			}
			container, paths := args[0], args[1:]

			var urls map[string]string
			var skipped []string
			if check {
				urls, skipped, err = iss.ExistingBlobSASURLs(cmd.Context(), container, paths, perms, flags.validity(cfg))
			} else {
				urls, err = iss.BlobSASURLs(container, paths, perms, flags.validity(cfg))
			}
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(urls))
			for k := range urls {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, urls[k])
			}
			for _, p := range skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped (not found): %s\n", p)
			}
			return nil
		},
	}
	flags.register(cmd, "r")
	cmd.Flags().BoolVar(&check, "check", false, "Only issue URLs for blobs that exist")
	return cmd
}
