//go:build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore"
	_ "github.com/suparena/docstore/backend/ddb"
	_ "github.com/suparena/docstore/backend/mongo"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
	"github.com/suparena/docstore/testmodels"
)

// Runs the facade against a live backend named by DOCSTORE_ENDPOINT, e.g.
//
//	DOCSTORE_ENDPOINT=mongodb://localhost:27017 go test -tags integration .
//	DOCSTORE_ENDPOINT=dynamodb://localhost:8000 DOCSTORE_REGION=us-east-1 go test -tags integration .
func openIntegrationClient(t *testing.T) *docstore.Client {
	t.Helper()
	if os.Getenv(docstore.EnvEndpoint) == "" {
		t.Skip(docstore.EnvEndpoint + " not set")
	}
	cfg, err := docstore.LoadConfig("")
	require.NoError(t, err)

	logger := cfg.Logger(zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	c, err := docstore.OpenWithConfig(ctx, cfg, docstore.WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestIntegrationLifecycle(t *testing.T) {
	c := openIntegrationClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db := "it_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	coll := "companies"
	throughput := int32(400)

	ok, err := c.CreateDatabaseIfAbsent(ctx, db, &throughput, storagemodels.ConsistencySession)
	require.NoError(t, err)
	require.True(t, ok)
	defer func() {
		_, _ = c.DeleteDatabaseIfPresent(context.Background(), db)
	}()
	ok, err = c.CreateDatabaseIfAbsent(ctx, db, &throughput, storagemodels.ConsistencySession)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.CreateCollectionIfAbsent(ctx, db, coll, "/key", storagemodels.ConsistencySession, storagemodels.IndexingConsistent)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = docstore.Create(ctx, c, db, coll, docstore.NewDocument("1234", "/key", testmodels.MixedCompanies()))
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = docstore.Create(ctx, c, db, coll, docstore.NewDocument("1234", "/key", testmodels.MixedCompanies()))
	assert.True(t, errors.IsAlreadyExists(err), "got %v", err)

	companies := docstore.CollectionOf[testmodels.Company](c, db, coll)
	for i, company := range testmodels.MockCompanies(50) {
		_, err := companies.Upsert(ctx, docstore.NewDocument(fmt.Sprintf("company-%d", i), "/key", company))
		require.NoError(t, err)
	}

	result, err := docstore.QueryWithDiagnostics[docstore.Document[any]](ctx, c, db, coll,
		storagemodels.NewQuerySpec(querySelectFirst(20)), storagemodels.WithPageSizeHint(7))
	require.NoError(t, err)
	assert.Len(t, result.Documents, 20)
	assert.Len(t, result.Diagnostics, result.Pages)

	ok, err = c.DeleteItem(ctx, db, coll, "1234", "/key")
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = c.DeleteItem(ctx, db, coll, "1234", "/key")
	assert.True(t, errors.IsNotFound(err))

	ok, err = c.DeleteCollectionIfPresent(ctx, db, coll)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.DeleteDatabaseIfPresent(ctx, db)
	require.NoError(t, err)
	assert.True(t, ok)
}

// querySelectFirst returns a backend-appropriate "first n documents" query.
func querySelectFirst(n int) string {
	if strings.HasPrefix(os.Getenv(docstore.EnvEndpoint), "mongodb") {
		return fmt.Sprintf("{} OFFSET 0 LIMIT %d", n)
	}
	return fmt.Sprintf("SELECT * FROM c OFFSET 0 LIMIT %d", n)
}
