/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"fmt"

	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/docstore/storagemodels"
)

// cursor pages an ExecuteStatement call, applying the OFFSET/LIMIT window
// client side.
type cursor struct {
	api         API
	input       *sdk.ExecuteStatementInput
	resource    string
	skip        int
	remaining   int // -1 when unlimited
	diagnostics bool
	pageIndex   int
	done        bool
}

func (c *cursor) HasMore() bool {
	return !c.done
}

func (c *cursor) NextPage(ctx context.Context) (*storagemodels.Page, error) {
	if c.done {
		return nil, fmt.Errorf("docstore/ddb: next page: cursor exhausted")
	}

	out, err := c.api.ExecuteStatement(ctx, c.input)
	if err != nil {
		return nil, errorOf("query", c.resource, err)
	}

	docs := make([]json.RawMessage, 0, len(out.Items))
	for _, item := range out.Items {
		if c.skip > 0 {
			c.skip--
			continue
		}
		if c.remaining == 0 {
			break
		}
		doc, err := itemToDocument(item)
		if err != nil {
			return nil, fmt.Errorf("docstore/ddb: decode item: %w", err)
		}
		docs = append(docs, doc)
		if c.remaining > 0 {
			c.remaining--
		}
	}

	page := &storagemodels.Page{Documents: docs}
	if out.ConsumedCapacity != nil && out.ConsumedCapacity.CapacityUnits != nil {
		page.RequestCost = *out.ConsumedCapacity.CapacityUnits
	}
	if c.diagnostics {
		requestID, _ := awsmiddleware.GetRequestIDMetadata(out.ResultMetadata)
		page.Diagnostics = fmt.Sprintf("requestId=%s page=%d items=%d consumedCapacity=%.2f",
			requestID, c.pageIndex, len(out.Items), page.RequestCost)
	}

	c.pageIndex++
	c.input.NextToken = out.NextToken
	c.done = out.NextToken == nil || c.remaining == 0
	return page, nil
}

func (c *cursor) Close(ctx context.Context) error {
	c.done = true
	return nil
}
