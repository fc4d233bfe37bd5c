/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/suparena/docstore/backend"
	docerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

func TestStatusOf(t *testing.T) {
	dupKey := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate key", dupKey, 409},
		{"no documents", mongo.ErrNoDocuments, 404},
		{"wrapped no documents", fmt.Errorf("find: %w", mongo.ErrNoDocuments), 404},
		{"namespace not found", mongo.CommandError{Code: 26, Name: "NamespaceNotFound"}, 404},
		{"namespace exists", mongo.CommandError{Code: 48, Name: "NamespaceExists"}, 409},
		{"bad value", mongo.CommandError{Code: 2, Name: "BadValue"}, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := statusOf(tt.err)
			if err != nil {
				t.Fatalf("unexpected transport error %v", err)
			}
			if st.Code != tt.want {
				t.Errorf("got %d, want %d", st.Code, tt.want)
			}
		})
	}
}

func TestStatusOfTransport(t *testing.T) {
	for _, cause := range []error{
		fmt.Errorf("server selection: %w", context.DeadlineExceeded),
		errors.New("connection reset by peer"),
	} {
		st, err := statusOf(cause)
		if err == nil || st.Code != 0 {
			t.Errorf("%v: expected transport error, got (%v, %v)", cause, st, err)
		}
	}
}

func TestErrorOf(t *testing.T) {
	err := errorOf("resolve container", "db/coll", mongo.ErrNoDocuments)
	if !docerrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected cause to be kept, got %v", err)
	}
}

func TestPolicyMappingTotality(t *testing.T) {
	for _, level := range storagemodels.ConsistencyLevels {
		c, err := mapConsistency(level)
		if err != nil {
			t.Fatalf("level %s: %v", level, err)
		}
		if c.read == nil || c.readPref == nil {
			t.Errorf("level %s: incomplete concerns %+v", level, c)
		}
	}
	if _, err := mapConsistency(storagemodels.ConsistencyLevel(99)); !docerrors.IsUnsupportedPolicyValue(err) {
		t.Errorf("expected unsupported policy value, got %v", err)
	}

	for _, mode := range storagemodels.IndexingModes {
		wildcard, err := mapIndexing(mode)
		if err != nil {
			t.Fatalf("mode %s: %v", mode, err)
		}
		if wildcard == (mode == storagemodels.IndexingNone) {
			t.Errorf("mode %s: wildcard=%v", mode, wildcard)
		}
	}
	if _, err := mapIndexing(storagemodels.IndexingMode(7)); !docerrors.IsUnsupportedPolicyValue(err) {
		t.Errorf("expected unsupported policy value, got %v", err)
	}
}

func TestParseFilter(t *testing.T) {
	t.Run("empty selects everything", func(t *testing.T) {
		spec, err := parseFilter("  ", nil)
		if err != nil || len(spec.filter) != 0 || spec.limit != 0 {
			t.Fatalf("got (%+v, %v)", spec, err)
		}
	})

	t.Run("binds parameters", func(t *testing.T) {
		spec, err := parseFilter(`{"key": "@key", "n": {"$in": ["@a", 2]}}`, map[string]any{"@key": "/key", "@a": 1})
		if err != nil {
			t.Fatal(err)
		}
		if spec.filter[0].Value != "/key" {
			t.Errorf("key bound to %v", spec.filter[0].Value)
		}
		in := spec.filter[1].Value.(bson.D)[0].Value.(bson.A)
		if in[0] != 1 {
			t.Errorf("array element bound to %v", in[0])
		}
	})

	t.Run("window", func(t *testing.T) {
		spec, err := parseFilter(`{} offset 5 LIMIT 20`, nil)
		if err != nil {
			t.Fatal(err)
		}
		if spec.skip != 5 || spec.limit != 20 || spec.empty {
			t.Errorf("got skip=%d limit=%d empty=%v", spec.skip, spec.limit, spec.empty)
		}
		spec, err = parseFilter(`OFFSET 0 LIMIT 0`, nil)
		if err != nil || !spec.empty {
			t.Errorf("expected empty window, got (%+v, %v)", spec, err)
		}
	})

	t.Run("errors", func(t *testing.T) {
		if _, err := parseFilter(`SELECT * FROM c`, nil); err == nil {
			t.Error("expected error for non-JSON filter")
		}
		if _, err := parseFilter(`{"key": "@missing"}`, nil); err == nil {
			t.Error("expected error for unbound parameter")
		}
		if _, err := parseFilter(`{} OFFSET 99999999999999999999 LIMIT 1`, nil); err == nil {
			t.Error("expected error for overflowing OFFSET")
		}
	})

	t.Run("literal at signs are kept", func(t *testing.T) {
		spec, err := parseFilter(`{"email": "a@b.c"}`, nil)
		if err != nil || spec.filter[0].Value != "a@b.c" {
			t.Errorf("got (%+v, %v)", spec, err)
		}
	})
}

func TestItemDocument(t *testing.T) {
	doc, err := itemDocument(backend.Item{
		ID:           "1234",
		PartitionKey: "/key",
		Body:         []byte(`{"_id":"x","id":"old","document":{"n":1}}`),
	}, "key")
	if err != nil {
		t.Fatal(err)
	}
	fields := map[string]any{}
	for _, e := range doc {
		fields[e.Key] = e.Value
	}
	if _, ok := fields["_id"]; ok {
		t.Error("_id should be dropped")
	}
	if fields["id"] != "1234" || fields["key"] != "/key" {
		t.Errorf("got %v", fields)
	}

	if _, err := itemDocument(backend.Item{ID: "1", Body: []byte(`[1,2]`)}, ""); err == nil {
		t.Error("expected error for non-object body")
	}
}

func TestContainerKey(t *testing.T) {
	partitioned := &container{partitionAttr: "key"}
	if got := partitioned.key("1", "/key"); len(got) != 2 {
		t.Errorf("expected id and partition key, got %v", got)
	}
	if got := partitioned.key("1", ""); len(got) != 1 {
		t.Errorf("blank partition key should match on id only, got %v", got)
	}
	if got := (&container{}).key("1", "/key"); len(got) != 1 {
		t.Errorf("unpartitioned should match on id only, got %v", got)
	}
}

func TestRawToDocument(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "id", Value: "1"}, {Key: "n", Value: int32(3)}})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := rawToDocument(raw)
	if err != nil {
		t.Fatal(err)
	}
	if string(doc) != `{"id":"1","n":3}` {
		t.Errorf("got %s", doc)
	}
}
