//go:build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/storagemodels"
)

// Run against DynamoDB Local:
//
//	docker run -p 8000:8000 amazon/dynamodb-local
//	DOCSTORE_DDB_ENDPOINT=http://localhost:8000 go test -tags integration ./backend/ddb/
func TestIntegrationRoundTrip(t *testing.T) {
	endpoint := os.Getenv("DOCSTORE_DDB_ENDPOINT")
	if endpoint == "" {
		t.Skip("DOCSTORE_DDB_ENDPOINT not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := NewDynamoDBClient(ctx, "local", "local", DefaultRegion, endpoint, 3)
	require.NoError(t, err)
	b := New(client, Config{TablePrefix: "it_"})

	db := "db" + uuid.NewString()[:8]
	st, err := b.EnsureDatabase(ctx, storagemodels.DatabaseSpec{ID: db})
	require.NoError(t, err)
	require.Equal(t, 201, st.Code)
	defer func() {
		_, _ = b.DeleteDatabase(context.Background(), db)
	}()

	st, err = b.EnsureCollection(ctx, storagemodels.CollectionSpec{DatabaseID: db, ID: "companies", PartitionKeyPath: "/key"})
	require.NoError(t, err)
	require.Equal(t, 201, st.Code)

	c, err := b.ResolveContainer(ctx, db, "companies")
	require.NoError(t, err)

	st, err = b.WriteItem(ctx, backend.WriteCreate, c, backend.Item{
		ID:           "1234",
		PartitionKey: "/key",
		Body:         []byte(`{"id":"1234","key":"/key","document":[{"Name":"Bar"},{"Name":"Foo","FooValue":42}]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 201, st.Code)

	cur, err := b.OpenQueryCursor(ctx, c, storagemodels.NewQuerySpec("SELECT * FROM c WHERE c.id = @id").WithParameter("@id", "1234"),
		storagemodels.ApplyPageOptions(storagemodels.DefaultPageOptions(), storagemodels.WithDiagnostics()))
	require.NoError(t, err)
	defer cur.Close(ctx)

	total := 0
	for cur.HasMore() {
		page, err := cur.NextPage(ctx)
		require.NoError(t, err)
		total += len(page.Documents)
	}
	assert.Equal(t, 1, total)

	st, err = b.DeleteItem(ctx, c, "1234", "/key")
	require.NoError(t, err)
	assert.Equal(t, 204, st.Code)
}
