/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/suparena/docstore"
	"github.com/suparena/docstore/storagemodels"
)

func databaseCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "database", Short: "create or delete databases"}

	var (
		throughput  int32
		consistency string
	)
	create := &cobra.Command{
		Use:   "create <database>",
		Short: "create a database unless it exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := storagemodels.ParseConsistencyLevel(consistency)
			if err != nil {
				return err
			}
			return flags.withClient(cmd, func(ctx context.Context, c *docstore.Client) error {
				var shared *int32
				if throughput > 0 {
					shared = &throughput
				}
				ok, err := c.CreateDatabaseIfAbsent(ctx, args[0], shared, level)
				return report(cmd, ok, err, "database %s exists", args[0])
			})
		},
	}
	create.Flags().Int32Var(&throughput, "throughput", 0, "shared throughput, 0 for the backend default")
	create.Flags().StringVar(&consistency, "consistency", storagemodels.ConsistencySession.String(), "consistency level")

	del := &cobra.Command{
		Use:   "delete <database>",
		Short: "delete a database if present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(cmd, func(ctx context.Context, c *docstore.Client) error {
				ok, err := c.DeleteDatabaseIfPresent(ctx, args[0])
				return report(cmd, ok, err, "database %s deleted", args[0])
			})
		},
	}

	cmd.AddCommand(create, del)
	return cmd
}

func collectionCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "collection", Short: "create or delete collections"}

	var (
		partitionKey string
		throughput   int32
		consistency  string
		indexing     string
	)
	create := &cobra.Command{
		Use:   "create <database> <collection>",
		Short: "create a collection unless it exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := storagemodels.ParseConsistencyLevel(consistency)
			if err != nil {
				return err
			}
			mode, err := storagemodels.ParseIndexingMode(indexing)
			if err != nil {
				return err
			}
			req := docstore.ProvisioningRequest{
				DatabaseID:       args[0],
				CollectionID:     args[1],
				PartitionKeyPath: partitionKey,
				Consistency:      level,
				Indexing:         mode,
			}
			if throughput > 0 {
				req.Throughput = &throughput
			}
			return flags.withClient(cmd, func(ctx context.Context, c *docstore.Client) error {
				ok, err := c.Provision(ctx, req)
				return report(cmd, ok, err, "collection %s/%s exists", args[0], args[1])
			})
		},
	}
	create.Flags().StringVar(&partitionKey, "partition-key", "/key", "partition key path, empty for an unpartitioned collection")
	create.Flags().Int32Var(&throughput, "throughput", 0, "dedicated throughput, 0 for the backend default")
	create.Flags().StringVar(&consistency, "consistency", storagemodels.ConsistencySession.String(), "consistency level")
	create.Flags().StringVar(&indexing, "indexing", storagemodels.IndexingConsistent.String(), "indexing mode")

	del := &cobra.Command{
		Use:   "delete <database> <collection>",
		Short: "delete a collection if present",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(cmd, func(ctx context.Context, c *docstore.Client) error {
				ok, err := c.DeleteCollectionIfPresent(ctx, args[0], args[1])
				return report(cmd, ok, err, "collection %s/%s deleted", args[0], args[1])
			})
		},
	}

	cmd.AddCommand(create, del)
	return cmd
}

func itemCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "item", Short: "write or delete items"}

	var (
		partitionKey string
		file         string
		mode         string
	)
	put := &cobra.Command{
		Use:   "put <database> <collection> <id> [json]",
		Short: "write an item; the payload comes from the argument, --file or stdin",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, args[3:], file)
			if err != nil {
				return err
			}
			doc := docstore.NewDocument(args[2], partitionKey, payload)
			return flags.withClient(cmd, func(ctx context.Context, c *docstore.Client) error {
				var ok bool
				switch strings.ToLower(mode) {
				case "create":
					ok, err = docstore.Create(ctx, c, args[0], args[1], doc)
				case "replace":
					ok, err = docstore.Replace(ctx, c, args[0], args[1], doc)
				case "upsert":
					ok, err = docstore.Upsert(ctx, c, args[0], args[1], doc)
				default:
					return fmt.Errorf("unknown mode %q, want create, replace or upsert", mode)
				}
				return report(cmd, ok, err, "item %s written", args[2])
			})
		},
	}
	put.Flags().StringVarP(&partitionKey, "partition-key", "k", "", "partition key value")
	put.Flags().StringVarP(&file, "file", "f", "", "read the payload from a file, - for stdin")
	put.Flags().StringVar(&mode, "mode", "upsert", "create, replace or upsert")

	del := &cobra.Command{
		Use:   "delete <database> <collection> <id>",
		Short: "delete an item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(cmd, func(ctx context.Context, c *docstore.Client) error {
				ok, err := c.DeleteItem(ctx, args[0], args[1], args[2], partitionKey)
				return report(cmd, ok, err, "item %s deleted", args[2])
			})
		},
	}
	del.Flags().StringVarP(&partitionKey, "partition-key", "k", "", "partition key value")

	cmd.AddCommand(put, del)
	return cmd
}

func queryCmd(flags *globalFlags) *cobra.Command {
	var (
		params      []string
		pageSize    int32
		diagnostics bool
	)
	cmd := &cobra.Command{
		Use:   "query <database> <collection> <query>",
		Short: "run a query and print one JSON document per line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := storagemodels.NewQuerySpec(args[2])
			for _, p := range params {
				name, value, ok := strings.Cut(p, "=")
				if !ok || name == "" {
					return fmt.Errorf("invalid --param %q, want name=value", p)
				}
				if !strings.HasPrefix(name, "@") {
					name = "@" + name
				}
				spec = spec.WithParameter(name, parseParam(value))
			}

			var opts []storagemodels.PageOption
			if pageSize > 0 {
				opts = append(opts, storagemodels.WithPageSizeHint(pageSize))
			}
			return flags.withClient(cmd, func(ctx context.Context, c *docstore.Client) error {
				result, err := docstore.QueryWithDiagnostics[json.RawMessage](ctx, c, args[0], args[1], spec, opts...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, doc := range result.Documents {
					fmt.Fprintln(out, string(doc))
				}
				errOut := cmd.ErrOrStderr()
				fmt.Fprintf(errOut, "%d documents, %d pages, request cost %.2f\n",
					len(result.Documents), result.Pages, result.RequestCost)
				if diagnostics {
					for _, d := range result.Diagnostics {
						fmt.Fprintln(errOut, d)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "bind a parameter, name=value (repeatable)")
	cmd.Flags().Int32Var(&pageSize, "page-size", 0, "page size hint, 0 lets the backend decide")
	cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "print per-page diagnostics to stderr")
	return cmd
}

// parseParam keeps quoted values as strings and coerces bare booleans and numbers.
func parseParam(value string) any {
	if len(value) >= 2 && (value[0] == '\'' || value[0] == '"') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}
	if value == "true" || value == "false" {
		return cast.ToBool(value)
	}
	if n, err := cast.ToInt64E(value); err == nil {
		return n
	}
	if f, err := cast.ToFloat64E(value); err == nil {
		return f
	}
	return value
}

func readPayload(cmd *cobra.Command, args []string, file string) (json.RawMessage, error) {
	var raw []byte
	var err error
	switch {
	case len(args) == 1:
		raw = []byte(args[0])
	case file == "-" || file == "":
		raw, err = io.ReadAll(cmd.InOrStdin())
	default:
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func report(cmd *cobra.Command, ok bool, err error, format string, args ...any) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("operation did not take effect; check that the parent resource exists")
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	return nil
}
