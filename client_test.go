/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/backend/mock"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

const (
	testDatabase   = "test_database"
	testCollection = "test_collection"
	testKeyPath    = "/key"
)

func newTestClient(t *testing.T) (*Client, *mock.Backend) {
	t.Helper()
	m := mock.New()
	c := NewClient(m)
	t.Cleanup(func() { _ = c.Close() })
	return c, m
}

// provision creates the test database and a partitioned collection.
func provision(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	throughput := int32(400)
	ok, err := c.CreateDatabaseIfAbsent(ctx, testDatabase, &throughput, storagemodels.ConsistencySession)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = c.CreateCollectionIfAbsent(ctx, testDatabase, testCollection, testKeyPath,
		storagemodels.ConsistencySession, storagemodels.IndexingConsistent)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("mock scheme", func(t *testing.T) {
		host := "open-" + uuid.NewString()[:8]
		c1, err := Open(ctx, "mock://"+host, "")
		require.NoError(t, err)
		defer c1.Close()
		c2, err := Open(ctx, "mock://"+host, "")
		require.NoError(t, err)
		defer c2.Close()

		ok, err := c1.CreateDatabaseIfAbsent(ctx, "shared", nil, storagemodels.ConsistencyStrong)
		require.NoError(t, err)
		require.True(t, ok)
		databases, err := c2.Backend().ListDatabases(ctx)
		require.NoError(t, err)
		assert.Len(t, databases, 1, "clients on the same mock host share one store")
	})

	t.Run("rejections are connection errors", func(t *testing.T) {
		for _, endpoint := range []string{"", "not a uri", "unknown://host", "/relative/path"} {
			_, err := Open(ctx, endpoint, "")
			assert.True(t, errors.IsConnection(err), "endpoint %q: %v", endpoint, err)
		}
	})

	t.Run("driver failure is a connection error", func(t *testing.T) {
		_, err := Open(ctx, "mock://bad-settings", "", WithDriverSettings(map[string]string{"pageSize": "zero"}))
		assert.True(t, errors.IsConnection(err))
	})

	t.Run("driver settings reach the driver", func(t *testing.T) {
		c, err := Open(ctx, "mock://small-pages-"+uuid.NewString()[:8], "",
			WithDriverSettings(map[string]string{"pageSize": "3"}))
		require.NoError(t, err)
		defer c.Close()
		provision(t, c)
		for i := 0; i < 7; i++ {
			_, err := Create(ctx, c, testDatabase, testCollection, NewDocument(uuid.NewString(), "/key", i))
			require.NoError(t, err)
		}
		result, err := QueryWithDiagnostics[Document[int]](ctx, c, testDatabase, testCollection,
			storagemodels.NewQuerySpec("SELECT * FROM c"))
		require.NoError(t, err)
		assert.Equal(t, 3, result.Pages)
	})
}

func TestResolveContainerCache(t *testing.T) {
	ctx := context.Background()
	c, m := newTestClient(t)
	provision(t, c)
	ok, err := c.CreateCollectionIfAbsent(ctx, testDatabase, "other", "", storagemodels.ConsistencyEventual, storagemodels.IndexingNone)
	require.NoError(t, err)
	require.True(t, ok)

	first, err := c.ResolveContainer(ctx, testDatabase, testCollection)
	require.NoError(t, err)
	second, err := c.ResolveContainer(ctx, testDatabase, testCollection)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, m.CallCount(mock.OpResolveContainer))
	assert.Equal(t, testKeyPath, first.PartitionKeyPath())

	_, err = c.ResolveContainer(ctx, testDatabase, "other")
	require.NoError(t, err)
	assert.Equal(t, 2, c.cachedContainers())

	ok, err = c.DeleteCollectionIfPresent(ctx, testDatabase, testCollection)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, c.cachedContainers())

	ok, err = c.DeleteDatabaseIfPresent(ctx, testDatabase)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, c.cachedContainers())

	_, err = c.ResolveContainer(ctx, testDatabase, testCollection)
	assert.True(t, errors.IsNotFound(err), "got %v", err)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	c, m := newTestClient(t)
	provision(t, c)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "close is idempotent")

	m.ResetCalls()
	_, err := c.CreateDatabaseIfAbsent(ctx, testDatabase, nil, storagemodels.ConsistencySession)
	assert.True(t, errors.IsConnection(err))
	_, err = c.DeleteItem(ctx, testDatabase, testCollection, "1", "/key")
	assert.True(t, errors.IsConnection(err))
	_, err = Query[any](ctx, c, testDatabase, testCollection, storagemodels.NewQuerySpec("SELECT * FROM c"))
	assert.True(t, errors.IsConnection(err))
	assert.Empty(t, m.Calls())
}

// closingResolver closes the client while a container lookup is in flight.
type closingResolver struct {
	*mock.Backend
	client *Client
}

func (r *closingResolver) ResolveContainer(ctx context.Context, databaseID, collectionID string) (backend.Container, error) {
	container, err := r.Backend.ResolveContainer(ctx, databaseID, collectionID)
	_ = r.client.Close()
	return container, err
}

func TestResolveContainerDuringClose(t *testing.T) {
	ctx := context.Background()
	m := mock.New()
	setup := NewClient(m)
	provision(t, setup)

	r := &closingResolver{Backend: m}
	c := NewClient(r)
	r.client = c

	_, err := c.ResolveContainer(ctx, testDatabase, testCollection)
	assert.True(t, errors.IsConnection(err), "got %v", err)
	assert.Equal(t, 0, c.cachedContainers())
}

func TestDocumentEqual(t *testing.T) {
	a := NewDocument("1", "/a", "x")
	b := NewDocument("1", "/b", "y")
	c := NewDocument("2", "/a", "x")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Contains(t, info.Drivers, mock.Scheme)
}
