/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"encoding/json"
	"strings"
)

// ThroughputOptions carries the optional provisioned throughput of a database.
// At most one of the two fields is meaningful per call; both nil means the
// backend default.
type ThroughputOptions struct {
	// Throughput is dedicated throughput for the resource being created.
	Throughput *int32
	// SharedThroughput is throughput shared by every collection of a database.
	SharedThroughput *int32
}

// DatabaseSpec describes a database to be provisioned.
type DatabaseSpec struct {
	ID          string
	Throughput  ThroughputOptions
	Consistency ConsistencyLevel
}

// CollectionSpec describes a collection to be provisioned inside an existing database.
type CollectionSpec struct {
	DatabaseID string
	ID         string
	// PartitionKeyPath is the document path of the partition key (e.g. "/key").
	// Empty means the collection is not partitioned.
	PartitionKeyPath string
	// Throughput is optional dedicated throughput for the collection.
	Throughput  *int32
	Consistency ConsistencyLevel
	Indexing    IndexingPolicy
}

// DatabaseDescriptor is one entry of a database listing.
type DatabaseDescriptor struct {
	ID string
}

// CollectionDescriptor is one entry of a collection listing.
type CollectionDescriptor struct {
	ID               string
	PartitionKeyPath string
}

// QuerySpec is a parameterized query. Parameter names include their
// placeholder prefix, e.g. "@name".
type QuerySpec struct {
	Text       string
	Parameters map[string]any
}

// NewQuerySpec builds a QuerySpec without parameters.
func NewQuerySpec(text string) QuerySpec {
	return QuerySpec{Text: text}
}

// WithParameter returns a copy of q with name bound to value.
func (q QuerySpec) WithParameter(name string, value any) QuerySpec {
	params := make(map[string]any, len(q.Parameters)+1)
	for k, v := range q.Parameters {
		params[k] = v
	}
	params[name] = value
	q.Parameters = params
	return q
}

// Page is one page of raw query results returned by a backend cursor.
type Page struct {
	// Documents holds one JSON document per result, in backend order.
	Documents []json.RawMessage
	// RequestCost is the backend-reported cost of the page, zero when not collected.
	RequestCost float64
	// Diagnostics is a backend-specific trace of the page, empty when not collected.
	Diagnostics string
}

// PartitionKeyAttribute returns the top-level attribute name addressed by a
// partition key path ("/key" -> "key"). Nested paths keep their inner slashes.
func PartitionKeyAttribute(path string) string {
	return strings.TrimPrefix(strings.TrimSpace(path), "/")
}
