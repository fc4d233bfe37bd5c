/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// QueryResult is a fully drained query with its accounting.
type QueryResult[T any] struct {
	Documents   []T
	RequestCost float64
	// Diagnostics holds one entry per page, in page order.
	Diagnostics []string
	Pages       int
}

// Query runs query against the collection and returns every decoded result.
// Null documents are skipped. Cancellation discards pages already fetched.
func Query[T any](ctx context.Context, c *Client, databaseID, collectionID string, query storagemodels.QuerySpec, opts ...storagemodels.PageOption) ([]T, error) {
	result, err := runQuery[T](ctx, c, databaseID, collectionID, query, opts)
	if err != nil {
		return nil, err
	}
	return result.Documents, nil
}

// QueryWithDiagnostics is Query with per-page diagnostics requested; it also
// reports the summed request cost and the page count.
func QueryWithDiagnostics[T any](ctx context.Context, c *Client, databaseID, collectionID string, query storagemodels.QuerySpec, opts ...storagemodels.PageOption) (*QueryResult[T], error) {
	return runQuery[T](ctx, c, databaseID, collectionID, query, append(slices.Clip(opts), storagemodels.WithDiagnostics()))
}

func runQuery[T any](ctx context.Context, c *Client, databaseID, collectionID string, query storagemodels.QuerySpec, opts []storagemodels.PageOption) (*QueryResult[T], error) {
	resource := databaseID + "/" + collectionID
	if err := c.ensureOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelledError("query", err)
	}

	container, err := c.ResolveContainer(ctx, databaseID, collectionID)
	if err != nil {
		return nil, err
	}
	pageOpts := storagemodels.ApplyPageOptions(storagemodels.DefaultPageOptions(), slices.Concat(c.pageOptions, opts)...)
	cursor, err := c.backend.OpenQueryCursor(ctx, container, query, pageOpts)
	if err != nil {
		return nil, errors.FromTransport("query", resource, err)
	}
	defer func() {
		if err := cursor.Close(context.WithoutCancel(ctx)); err != nil {
			c.logger.Debug().Err(err).Str("collection", resource).Msg("failed to close query cursor")
		}
	}()

	result := &QueryResult[T]{Documents: []T{}}
	var costs []float64
	for cursor.HasMore() {
		if err := ctx.Err(); err != nil {
			c.logger.Debug().Str("collection", resource).Int("pages", result.Pages).Msg("query cancelled")
			return nil, errors.NewCancelledError("query", err)
		}
		page, err := cursor.NextPage(ctx)
		if err != nil {
			return nil, errors.FromTransport("query", resource, err)
		}

		result.Pages++
		costs = append(costs, page.RequestCost)
		if pageOpts.Diagnostics {
			result.Diagnostics = append(result.Diagnostics, page.Diagnostics)
		}
		for _, raw := range page.Documents {
			if gjson.ParseBytes(raw).Type == gjson.Null {
				continue
			}
			var v T
			if err := c.serializer.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("docstore: query %s: decode document: %w", resource, err)
			}
			result.Documents = append(result.Documents, v)
		}
	}
	result.RequestCost = lo.Sum(costs)

	c.logger.Debug().
		Str("collection", resource).
		Int("documents", len(result.Documents)).
		Int("pages", result.Pages).
		Float64("requestCost", result.RequestCost).
		Msg("query completed")
	return result, nil
}
