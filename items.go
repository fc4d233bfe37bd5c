/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/errors"
)

// Create stores doc unless an item with the same ID and partition key exists.
func Create[T any](ctx context.Context, c *Client, databaseID, collectionID string, doc Document[T]) (bool, error) {
	return writeItem(ctx, c, backend.WriteCreate, databaseID, collectionID, doc)
}

// Replace overwrites an existing item.
func Replace[T any](ctx context.Context, c *Client, databaseID, collectionID string, doc Document[T]) (bool, error) {
	return writeItem(ctx, c, backend.WriteReplace, databaseID, collectionID, doc)
}

// Upsert creates or replaces the item unconditionally.
func Upsert[T any](ctx context.Context, c *Client, databaseID, collectionID string, doc Document[T]) (bool, error) {
	return writeItem(ctx, c, backend.WriteUpsert, databaseID, collectionID, doc)
}

func writeItem[T any](ctx context.Context, c *Client, mode backend.WriteMode, databaseID, collectionID string, doc Document[T]) (bool, error) {
	op := mode.String() + " item"
	if err := c.ensureOpen(); err != nil {
		return false, err
	}
	if err := c.validate.Struct(doc); err != nil {
		return false, validationError(err)
	}

	container, err := c.ResolveContainer(ctx, databaseID, collectionID)
	if err != nil {
		return false, err
	}
	partitionKey := strings.TrimSpace(doc.PartitionKey)
	if container.PartitionKeyPath() != "" && partitionKey == "" {
		return false, errors.NewMissingPartitionKeyError(databaseID, collectionID, doc.ID)
	}
	// the stored body carries the same key the item is addressed by
	doc.PartitionKey = partitionKey

	body, err := c.serializer.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("docstore: %s: encode %s: %w", op, doc.ID, err)
	}
	st, err := c.backend.WriteItem(ctx, mode, container, backend.Item{ID: doc.ID, PartitionKey: partitionKey, Body: body})
	if err != nil {
		return false, errors.FromTransport(op, itemResource(databaseID, collectionID, doc.ID), err)
	}
	return c.itemResult(op, databaseID, collectionID, doc.ID, st)
}

// DeleteItem removes one item. A blank partitionKey counts as omitted, which
// is rejected before any item call when the collection is partitioned or
// the backend cannot delete by ID alone. A missing item is reported as
// false with a NotFound error.
func (c *Client) DeleteItem(ctx context.Context, databaseID, collectionID, id, partitionKey string) (bool, error) {
	if err := c.ensureOpen(); err != nil {
		return false, err
	}
	if id == "" {
		return false, errors.NewValidationError("id", "must not be empty")
	}

	container, err := c.ResolveContainer(ctx, databaseID, collectionID)
	if err != nil {
		return false, err
	}
	partitionKey = strings.TrimSpace(partitionKey)
	if partitionKey == "" && (container.PartitionKeyPath() != "" || c.backend.Capabilities().DeleteRequiresPartitionKey) {
		return false, errors.NewMissingPartitionKeyError(databaseID, collectionID, id)
	}

	st, err := c.backend.DeleteItem(ctx, container, id, partitionKey)
	if err != nil {
		return false, errors.FromTransport("delete item", itemResource(databaseID, collectionID, id), err)
	}
	return c.itemResult("delete item", databaseID, collectionID, id, st)
}

func (c *Client) itemResult(op, databaseID, collectionID, id string, st backend.Status) (bool, error) {
	resource := itemResource(databaseID, collectionID, id)
	if st.IsSuccess() {
		c.logger.Debug().Str("item", resource).Int("status", st.Code).Msg(op)
		return true, nil
	}
	c.logger.Debug().Str("item", resource).Int("status", st.Code).Msg(op + " rejected")
	return false, errors.NewStatusError(op, resource, st.Code)
}

func itemResource(databaseID, collectionID, id string) string {
	return databaseID + "/" + collectionID + "/" + id
}
