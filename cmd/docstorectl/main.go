/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// docstorectl provisions and inspects document stores from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/suparena/docstore"
	_ "github.com/suparena/docstore/backend/ddb"
	_ "github.com/suparena/docstore/backend/mock"
	_ "github.com/suparena/docstore/backend/mongo"
)

type globalFlags struct {
	configPath string
	endpoint   string
	credential string
	logLevel   string
	timeout    time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "docstorectl",
		Short:         "docstorectl manages databases, collections and items of a document store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVarP(&flags.endpoint, "endpoint", "e", "", "backend endpoint, overrides config and "+docstore.EnvEndpoint)
	cmd.PersistentFlags().StringVar(&flags.credential, "credential", "", "backend credential, overrides config")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "trace, debug, info, warn, error or disabled")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 2*time.Minute, "overall command timeout")

	cmd.AddCommand(
		versionCmd(),
		databaseCmd(flags),
		collectionCmd(flags),
		itemCmd(flags),
		queryCmd(flags),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := docstore.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "docstorectl version %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "Drivers: %v\n", info.Drivers)
		},
	}
}

// open loads the config, applies flag overrides and connects.
func (f *globalFlags) open(cmd *cobra.Command) (*docstore.Client, context.Context, context.CancelFunc, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := cfg.Logger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger())

	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	client, err := docstore.OpenWithConfig(ctx, cfg, docstore.WithLogger(logger))
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return client, ctx, cancel, nil
}

func (f *globalFlags) config() (docstore.Config, error) {
	if f.endpoint != "" {
		os.Setenv(docstore.EnvEndpoint, f.endpoint)
	}
	if f.credential != "" {
		os.Setenv(docstore.EnvCredential, f.credential)
	}
	if f.logLevel != "" {
		os.Setenv(docstore.EnvLogLevel, f.logLevel)
	}
	return docstore.LoadConfig(f.configPath)
}

// withClient runs fn with an open client and closes it afterwards.
func (f *globalFlags) withClient(cmd *cobra.Command, fn func(ctx context.Context, c *docstore.Client) error) error {
	client, ctx, cancel, err := f.open(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer client.Close()
	return fn(ctx, client)
}
