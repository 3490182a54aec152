package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/minuend/internal/buildinfo"
	"github.com/dmitrijs2005/minuend/internal/client/cli"
	"github.com/dmitrijs2005/minuend/internal/client/config"
	"github.com/dmitrijs2005/minuend/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags *config.Flags

	root := &cobra.Command{
		Use:          "mcli",
		Short:        "Minuend station client",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *cli.App) error {
				a.Run(ctx)
				return nil
			})
		},
	}
	flags = config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newWhoamiCmd(flags),
		newLogoutCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, args []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
	)
	return root
}

func newWhoamiCmd(flags *config.Flags) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved identity and its station",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *cli.App) error {
				if err := a.Whoami(ctx); err != nil {
					return err
				}
				if verbose {
					return a.Stored(ctx)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also list the records stored locally")
	return cmd
}

func newLogoutCmd(flags *config.Flags) *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved credential and end the server session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *cli.App) error {
				if purge {
					if err := a.Purge(ctx); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Local data removed.")
					return nil
				}
				if err := a.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "remove every record stored locally, logged in or not")
	return cmd
}

// withApp loads the configuration and builds an App for the duration of fn.
func withApp(cmd *cobra.Command, flags *config.Flags, fn func(ctx context.Context, a *cli.App) error) error {
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.NewTextLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	ctx := cmd.Context()
	a, err := cli.NewApp(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}
	defer a.Close()

	return fn(ctx, a)
}
