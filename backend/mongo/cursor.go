/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/suparena/docstore/storagemodels"
)

// cursor turns each server batch of a find cursor into one page.
type cursor struct {
	cur         *mongo.Cursor
	resource    string
	diagnostics bool
	pageIndex   int
	done        bool
}

func (c *cursor) HasMore() bool {
	return !c.done
}

func (c *cursor) NextPage(ctx context.Context) (*storagemodels.Page, error) {
	if c.done {
		return nil, fmt.Errorf("docstore/mongo: next page: cursor exhausted")
	}

	cursorID := c.cur.ID()
	var docs []json.RawMessage
	if c.cur.Next(ctx) {
		docs = make([]json.RawMessage, 0, c.cur.RemainingBatchLength()+1)
		for {
			doc, err := rawToDocument(c.cur.Current)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
			if c.cur.RemainingBatchLength() == 0 || !c.cur.Next(ctx) {
				break
			}
		}
	}
	if err := c.cur.Err(); err != nil {
		return nil, errorOf("query", c.resource, err)
	}

	page := &storagemodels.Page{Documents: docs}
	if page.Documents == nil {
		page.Documents = []json.RawMessage{}
	}
	if c.diagnostics {
		page.Diagnostics = fmt.Sprintf("cursorId=%d page=%d batch=%d", cursorID, c.pageIndex, len(docs))
	}

	c.pageIndex++
	c.done = c.cur.ID() == 0 && c.cur.RemainingBatchLength() == 0
	if c.done {
		_ = c.cur.Close(ctx)
	}
	return page, nil
}

func (c *cursor) Close(ctx context.Context) error {
	c.done = true
	if c.cur == nil {
		return nil
	}
	if err := c.cur.Close(ctx); err != nil {
		return fmt.Errorf("docstore/mongo: close cursor: %w", err)
	}
	return nil
}

// rawToDocument renders a BSON document as relaxed Extended JSON.
func rawToDocument(raw bson.Raw) (json.RawMessage, error) {
	out, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("docstore/mongo: decode document: %w", err)
	}
	return out, nil
}
