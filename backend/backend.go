/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package backend

import (
	"context"
	"fmt"

	"github.com/suparena/docstore/storagemodels"
)

// Status is the protocol-level outcome of a backend call.
type Status struct {
	Code int
}

// IsSuccess reports whether the code is in the 2xx range.
func (s Status) IsSuccess() bool {
	return s.Code >= 200 && s.Code < 300
}

func (s Status) String() string {
	return fmt.Sprintf("status %d", s.Code)
}

// Common statuses returned by adapters.
var (
	StatusOK         = Status{Code: 200}
	StatusCreated    = Status{Code: 201}
	StatusNoContent  = Status{Code: 204}
	StatusBadRequest = Status{Code: 400}
	StatusNotFound   = Status{Code: 404}
	StatusConflict   = Status{Code: 409}
	StatusThrottled  = Status{Code: 429}
	StatusInternal   = Status{Code: 500}
)

// WriteMode selects the write semantics of WriteItem.
type WriteMode int

const (
	// WriteCreate fails with a conflict when the id already exists.
	WriteCreate WriteMode = iota
	// WriteReplace fails with not-found when the id does not exist.
	WriteReplace
	// WriteUpsert inserts or overwrites.
	WriteUpsert
)

func (m WriteMode) String() string {
	switch m {
	case WriteCreate:
		return "create"
	case WriteReplace:
		return "replace"
	case WriteUpsert:
		return "upsert"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

// Item is a serialized envelope handed to WriteItem. Body is the full JSON
// document including the id and partition key fields.
type Item struct {
	ID           string
	PartitionKey string
	Body         []byte
}

// Capabilities describes adapter quirks the core must honour.
type Capabilities struct {
	// DeleteRequiresPartitionKey makes every item delete demand a partition key,
	// even on unpartitioned collections.
	DeleteRequiresPartitionKey bool
	// RequestCost is set when pages report a meaningful request cost.
	RequestCost bool
	// Diagnostics is set when pages carry a diagnostics trace.
	Diagnostics bool
}

// Container is a resolved handle to a (database, collection) pair.
type Container interface {
	DatabaseID() string
	CollectionID() string
	// PartitionKeyPath is empty for unpartitioned collections.
	PartitionKeyPath() string
}

// Cursor iterates the pages of one query.
type Cursor interface {
	HasMore() bool
	NextPage(ctx context.Context) (*storagemodels.Page, error)
	Close(ctx context.Context) error
}

// Backend is the port every store adapter implements. Error returns are
// reserved for transport failures; protocol outcomes travel in Status.
type Backend interface {
	EnsureDatabase(ctx context.Context, spec storagemodels.DatabaseSpec) (Status, error)

	EnsureCollection(ctx context.Context, spec storagemodels.CollectionSpec) (Status, error)

	ListDatabases(ctx context.Context) ([]storagemodels.DatabaseDescriptor, error)

	ListCollections(ctx context.Context, databaseID string) ([]storagemodels.CollectionDescriptor, error)

	DeleteDatabase(ctx context.Context, databaseID string) (Status, error)

	DeleteCollection(ctx context.Context, databaseID, collectionID string) (Status, error)

	ResolveContainer(ctx context.Context, databaseID, collectionID string) (Container, error)

	WriteItem(ctx context.Context, mode WriteMode, container Container, item Item) (Status, error)

	DeleteItem(ctx context.Context, container Container, id, partitionKey string) (Status, error)

	OpenQueryCursor(ctx context.Context, container Container, query storagemodels.QuerySpec, opts storagemodels.PageOptions) (Cursor, error)

	Capabilities() Capabilities

	Close() error
}

// ContainerRef is a plain Container implementation adapters can embed or return.
type ContainerRef struct {
	Database     string
	Collection   string
	PartitionKey string
}

func (c ContainerRef) DatabaseID() string       { return c.Database }
func (c ContainerRef) CollectionID() string     { return c.Collection }
func (c ContainerRef) PartitionKeyPath() string { return c.PartitionKey }

// ContainerName renders a container as "database/collection" for logs and errors.
func ContainerName(c Container) string {
	return c.DatabaseID() + "/" + c.CollectionID()
}
