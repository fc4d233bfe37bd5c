/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"

	"github.com/suparena/docstore/storagemodels"
)

// Collection binds a client to one (database, collection) pair for payload type T.
type Collection[T any] struct {
	client       *Client
	databaseID   string
	collectionID string
}

// CollectionOf returns a typed view of a collection. It does not contact the backend.
func CollectionOf[T any](client *Client, databaseID, collectionID string) *Collection[T] {
	return &Collection[T]{client: client, databaseID: databaseID, collectionID: collectionID}
}

func (c *Collection[T]) DatabaseID() string   { return c.databaseID }
func (c *Collection[T]) CollectionID() string { return c.collectionID }

func (c *Collection[T]) Create(ctx context.Context, doc Document[T]) (bool, error) {
	return Create(ctx, c.client, c.databaseID, c.collectionID, doc)
}

func (c *Collection[T]) Replace(ctx context.Context, doc Document[T]) (bool, error) {
	return Replace(ctx, c.client, c.databaseID, c.collectionID, doc)
}

func (c *Collection[T]) Upsert(ctx context.Context, doc Document[T]) (bool, error) {
	return Upsert(ctx, c.client, c.databaseID, c.collectionID, doc)
}

func (c *Collection[T]) Delete(ctx context.Context, id, partitionKey string) (bool, error) {
	return c.client.DeleteItem(ctx, c.databaseID, c.collectionID, id, partitionKey)
}

// Query decodes results as whole envelopes.
func (c *Collection[T]) Query(ctx context.Context, query storagemodels.QuerySpec, opts ...storagemodels.PageOption) ([]Document[T], error) {
	return Query[Document[T]](ctx, c.client, c.databaseID, c.collectionID, query, opts...)
}

func (c *Collection[T]) QueryWithDiagnostics(ctx context.Context, query storagemodels.QuerySpec, opts ...storagemodels.PageOption) (*QueryResult[Document[T]], error) {
	return QueryWithDiagnostics[Document[T]](ctx, c.client, c.databaseID, c.collectionID, query, opts...)
}
