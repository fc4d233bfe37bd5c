/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/backend/mock"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/registry"
	"github.com/suparena/docstore/storagemodels"
)

func newStore(t *testing.T, pkPath string) (*mock.Backend, backend.Container) {
	t.Helper()
	ctx := context.Background()
	m := mock.New()

	st, err := m.EnsureDatabase(ctx, storagemodels.DatabaseSpec{ID: "db"})
	require.NoError(t, err)
	require.Equal(t, 201, st.Code)

	st, err = m.EnsureCollection(ctx, storagemodels.CollectionSpec{DatabaseID: "db", ID: "coll", PartitionKeyPath: pkPath})
	require.NoError(t, err)
	require.Equal(t, 201, st.Code)

	c, err := m.ResolveContainer(ctx, "db", "coll")
	require.NoError(t, err)
	return m, c
}

func item(id, pk string, n int) backend.Item {
	return backend.Item{
		ID:           id,
		PartitionKey: pk,
		Body:         []byte(fmt.Sprintf(`{"id":%q,"key":%q,"document":{"n":%d}}`, id, pk, n)),
	}
}

func TestMockBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("Provisioning", func(t *testing.T) {
		m := mock.New()

		st, err := m.EnsureDatabase(ctx, storagemodels.DatabaseSpec{ID: "db"})
		require.NoError(t, err)
		assert.Equal(t, 201, st.Code)

		st, err = m.EnsureDatabase(ctx, storagemodels.DatabaseSpec{ID: "db"})
		require.NoError(t, err)
		assert.Equal(t, 200, st.Code)

		st, err = m.EnsureCollection(ctx, storagemodels.CollectionSpec{DatabaseID: "missing", ID: "c"})
		require.NoError(t, err)
		assert.Equal(t, 404, st.Code)

		_, err = m.EnsureCollection(ctx, storagemodels.CollectionSpec{DatabaseID: "db", ID: "c", Consistency: 11})
		assert.True(t, errors.IsUnsupportedPolicyValue(err))

		st, err = m.EnsureCollection(ctx, storagemodels.CollectionSpec{
			DatabaseID:  "db",
			ID:          "c",
			Consistency: storagemodels.ConsistencySession,
			Indexing:    storagemodels.IndexingPolicy{Mode: storagemodels.IndexingLazy},
		})
		require.NoError(t, err)
		assert.Equal(t, 201, st.Code)

		consistency, indexing, ok := m.Policies("db", "c")
		require.True(t, ok)
		assert.Equal(t, "Session", consistency)
		assert.Equal(t, "Lazy", indexing)

		dbs, err := m.ListDatabases(ctx)
		require.NoError(t, err)
		assert.Equal(t, []storagemodels.DatabaseDescriptor{{ID: "db"}}, dbs)

		colls, err := m.ListCollections(ctx, "db")
		require.NoError(t, err)
		assert.Len(t, colls, 1)

		st, err = m.DeleteCollection(ctx, "db", "c")
		require.NoError(t, err)
		assert.Equal(t, 204, st.Code)

		st, err = m.DeleteCollection(ctx, "db", "c")
		require.NoError(t, err)
		assert.Equal(t, 404, st.Code)

		st, err = m.DeleteDatabase(ctx, "db")
		require.NoError(t, err)
		assert.Equal(t, 204, st.Code)

		_, err = m.ListCollections(ctx, "db")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("WriteModes", func(t *testing.T) {
		m, c := newStore(t, "/key")

		st, err := m.WriteItem(ctx, backend.WriteCreate, c, item("1", "a", 1))
		require.NoError(t, err)
		assert.Equal(t, 201, st.Code)

		st, _ = m.WriteItem(ctx, backend.WriteCreate, c, item("1", "a", 2))
		assert.Equal(t, 409, st.Code)

		st, _ = m.WriteItem(ctx, backend.WriteReplace, c, item("2", "a", 2))
		assert.Equal(t, 404, st.Code)

		st, _ = m.WriteItem(ctx, backend.WriteReplace, c, item("1", "a", 3))
		assert.Equal(t, 200, st.Code)

		st, _ = m.WriteItem(ctx, backend.WriteUpsert, c, item("1", "b", 4))
		assert.Equal(t, 201, st.Code, "same id under a different partition is a new item")

		docs := m.Documents("db", "coll")
		require.Len(t, docs, 2)
		assert.Equal(t, int64(3), gjson.GetBytes(docs[0], "document.n").Int())
		assert.NotEmpty(t, gjson.GetBytes(docs[0], "_etag").String())

		st, _ = m.WriteItem(ctx, backend.WriteUpsert, c, backend.Item{ID: "x", Body: []byte(`not json`)})
		assert.Equal(t, 400, st.Code)
	})

	t.Run("DeleteItem", func(t *testing.T) {
		m, c := newStore(t, "/key")
		_, err := m.WriteItem(ctx, backend.WriteCreate, c, item("1", "a", 1))
		require.NoError(t, err)

		st, _ := m.DeleteItem(ctx, c, "1", "b")
		assert.Equal(t, 404, st.Code)

		st, _ = m.DeleteItem(ctx, c, "1", "a")
		assert.Equal(t, 204, st.Code)
		assert.Empty(t, m.Documents("db", "coll"))
	})

	t.Run("FaultInjection", func(t *testing.T) {
		m, c := newStore(t, "")
		m.WithStatus(mock.OpWriteItem, 503)

		st, err := m.WriteItem(ctx, backend.WriteUpsert, c, item("1", "", 1))
		require.NoError(t, err)
		assert.Equal(t, 503, st.Code)
		assert.Empty(t, m.Documents("db", "coll"))

		boom := fmt.Errorf("connection reset")
		m.WithError(mock.OpDeleteItem, boom)
		_, err = m.DeleteItem(ctx, c, "1", "")
		assert.Equal(t, boom, err)

		m.WithStatus(mock.OpListDatabases, 500)
		_, err = m.ListDatabases(ctx)
		assert.True(t, errors.IsBackendFailure(err))

		m.ClearFaults()
		st, _ = m.WriteItem(ctx, backend.WriteUpsert, c, item("1", "", 1))
		assert.Equal(t, 201, st.Code)
		assert.Equal(t, 2, m.CallCount(mock.OpWriteItem))
	})

	t.Run("Closed", func(t *testing.T) {
		m, c := newStore(t, "")
		require.NoError(t, m.Close())
		_, err := m.WriteItem(ctx, backend.WriteUpsert, c, item("1", "", 1))
		assert.True(t, errors.IsConnection(err))
	})
}

func TestMockCursor(t *testing.T) {
	ctx := context.Background()

	t.Run("Paging", func(t *testing.T) {
		m, c := newStore(t, "")
		for i := 0; i < 25; i++ {
			_, err := m.WriteItem(ctx, backend.WriteCreate, c, item(fmt.Sprint(i), "", i))
			require.NoError(t, err)
		}

		opts := storagemodels.ApplyPageOptions(storagemodels.DefaultPageOptions(),
			storagemodels.WithPageSizeHint(10), storagemodels.WithDiagnostics())
		cur, err := m.OpenQueryCursor(ctx, c, storagemodels.NewQuerySpec("SELECT * FROM c"), opts)
		require.NoError(t, err)

		var sizes []int
		for cur.HasMore() {
			page, err := cur.NextPage(ctx)
			require.NoError(t, err)
			sizes = append(sizes, len(page.Documents))
			assert.Equal(t, mock.DefaultCharge(page.Documents), page.RequestCost)
			assert.Contains(t, page.Diagnostics, "activityId=")
		}
		require.NoError(t, cur.Close(ctx))
		assert.Equal(t, []int{10, 10, 5}, sizes)
		assert.Equal(t, 3, m.CallCount(mock.OpNextPage))
	})

	t.Run("Empty", func(t *testing.T) {
		m, c := newStore(t, "")
		cur, err := m.OpenQueryCursor(ctx, c, storagemodels.NewQuerySpec("SELECT * FROM c"), storagemodels.DefaultPageOptions())
		require.NoError(t, err)
		assert.False(t, cur.HasMore())
	})

	t.Run("PageHook", func(t *testing.T) {
		m, c := newStore(t, "")
		for i := 0; i < 3; i++ {
			_, err := m.WriteItem(ctx, backend.WriteCreate, c, item(fmt.Sprint(i), "", i))
			require.NoError(t, err)
		}
		stop := fmt.Errorf("stop")
		m.WithPageSize(1).WithPageHook(func(ctx context.Context, pageIndex int) error {
			if pageIndex == 1 {
				return stop
			}
			return nil
		})

		cur, err := m.OpenQueryCursor(ctx, c, storagemodels.NewQuerySpec("SELECT * FROM c"), storagemodels.DefaultPageOptions())
		require.NoError(t, err)
		_, err = cur.NextPage(ctx)
		require.NoError(t, err)
		_, err = cur.NextPage(ctx)
		assert.Equal(t, stop, err)
	})

	t.Run("BadQuery", func(t *testing.T) {
		m, c := newStore(t, "")
		_, err := m.OpenQueryCursor(ctx, c, storagemodels.NewQuerySpec("DROP TABLE c"), storagemodels.DefaultPageOptions())
		require.Error(t, err)
		var statusErr *errors.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 400, statusErr.Code)
	})

	t.Run("QueryFunc", func(t *testing.T) {
		m, c := newStore(t, "")
		m.WithQueryFunc(func(ctx context.Context, docs []json.RawMessage, q storagemodels.QuerySpec) ([]json.RawMessage, error) {
			return []json.RawMessage{json.RawMessage(`null`), json.RawMessage(`{"id":"x"}`)}, nil
		})
		cur, err := m.OpenQueryCursor(ctx, c, storagemodels.NewQuerySpec("anything"), storagemodels.DefaultPageOptions())
		require.NoError(t, err)
		page, err := cur.NextPage(ctx)
		require.NoError(t, err)
		assert.Len(t, page.Documents, 2)
	})
}

func TestEvaluateQuery(t *testing.T) {
	docs := []json.RawMessage{
		json.RawMessage(`{"id":"1","key":"a","document":{"name":"Foo","size":3,"active":true}}`),
		json.RawMessage(`{"id":"2","key":"b","document":{"name":"Bar","size":5,"active":false}}`),
		json.RawMessage(`{"id":"3","key":"a","document":{"name":"Baz","size":5,"active":true}}`),
	}

	tests := []struct {
		name    string
		query   storagemodels.QuerySpec
		want    []string
		wantErr bool
	}{
		{"all", storagemodels.NewQuerySpec("select * from c"), []string{"1", "2", "3"}, false},
		{"offset limit", storagemodels.NewQuerySpec("SELECT * FROM c OFFSET 1 LIMIT 1"), []string{"2"}, false},
		{"offset beyond", storagemodels.NewQuerySpec("SELECT * FROM c OFFSET 10 LIMIT 5"), []string{}, false},
		{"string literal", storagemodels.NewQuerySpec("SELECT * FROM c WHERE c.key = 'a'"), []string{"1", "3"}, false},
		{"number and bool", storagemodels.NewQuerySpec("SELECT * FROM c WHERE c.document.size = 5 AND c.document.active = true"), []string{"3"}, false},
		{"parameter", storagemodels.NewQuerySpec("SELECT * FROM c WHERE c.document.name = @name").WithParameter("@name", "Bar"), []string{"2"}, false},
		{"int parameter", storagemodels.NewQuerySpec("SELECT * FROM c WHERE c.document.size = @n").WithParameter("@n", 3), []string{"1"}, false},
		{"unbound parameter", storagemodels.NewQuerySpec("SELECT * FROM c WHERE c.id = @id"), nil, true},
		{"wrong alias", storagemodels.NewQuerySpec("SELECT * FROM c WHERE d.id = '1'"), nil, true},
		{"unsupported", storagemodels.NewQuerySpec("SELECT c.id FROM c"), nil, true},
		{"offset overflow", storagemodels.NewQuerySpec("SELECT * FROM c OFFSET 99999999999999999999 LIMIT 1"), nil, true},
		{"limit overflow", storagemodels.NewQuerySpec("SELECT * FROM c OFFSET 0 LIMIT 99999999999999999999"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mock.EvaluateQuery(docs, tt.query)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, d := range got {
				ids = append(ids, gjson.GetBytes(d, "id").String())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDriverSharesInstances(t *testing.T) {
	connect, err := registry.GetConnector(mock.Scheme)
	require.NoError(t, err)

	u, err := url.Parse("mock://shared-test")
	require.NoError(t, err)
	a, err := connect(context.Background(), registry.ConnectParams{Endpoint: u})
	require.NoError(t, err)
	b, err := connect(context.Background(), registry.ConnectParams{Endpoint: u})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	st, err := a.EnsureDatabase(context.Background(), storagemodels.DatabaseSpec{ID: "shared"})
	require.NoError(t, err)
	assert.Equal(t, backend.StatusCreated, st)
	databases, err := b.ListDatabases(context.Background())
	require.NoError(t, err)
	assert.Len(t, databases, 1, "handles on one host share the store")

	_, err = connect(context.Background(), registry.ConnectParams{
		Endpoint: &url.URL{Scheme: "mock", Host: "other"},
		Settings: map[string]string{"pageSize": "zero"},
	})
	assert.Error(t, err)
}
