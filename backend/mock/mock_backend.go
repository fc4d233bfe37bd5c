/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the backend port for testing
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// Op names a backend port operation for fault injection and call recording.
type Op string

const (
	OpEnsureDatabase   Op = "EnsureDatabase"
	OpEnsureCollection Op = "EnsureCollection"
	OpListDatabases    Op = "ListDatabases"
	OpListCollections  Op = "ListCollections"
	OpDeleteDatabase   Op = "DeleteDatabase"
	OpDeleteCollection Op = "DeleteCollection"
	OpResolveContainer Op = "ResolveContainer"
	OpWriteItem        Op = "WriteItem"
	OpDeleteItem       Op = "DeleteItem"
	OpOpenQueryCursor  Op = "OpenQueryCursor"
	OpNextPage         Op = "NextPage"
)

// DefaultPageSize is used when the caller does not hint a page size.
const DefaultPageSize = 100

// Call is one recorded backend invocation.
type Call struct {
	Op           Op
	DatabaseID   string
	CollectionID string
	ItemID       string
	ActivityID   string
}

// QueryFunc evaluates a query over a snapshot of the collection's documents.
type QueryFunc func(ctx context.Context, docs []json.RawMessage, query storagemodels.QuerySpec) ([]json.RawMessage, error)

// ChargeFunc computes the request charge reported for one page.
type ChargeFunc func(page []json.RawMessage) float64

// PageHook runs before page pageIndex (zero-based) is served. A non-nil
// error fails NextPage with that error.
type PageHook func(ctx context.Context, pageIndex int) error

// DefaultCharge reports a fixed per-page overhead plus a per-document cost.
func DefaultCharge(page []json.RawMessage) float64 {
	return 2.5 + 0.3*float64(len(page))
}

type document struct {
	id           string
	partitionKey string
	body         json.RawMessage
}

type collection struct {
	spec        storagemodels.CollectionSpec
	consistency string
	indexing    string
	docs        []*document
}

type database struct {
	spec        storagemodels.DatabaseSpec
	collections map[string]*collection
	order       []string
}

// Backend is an in-memory document store implementing backend.Backend
type Backend struct {
	mu        sync.RWMutex
	databases map[string]*database
	order     []string
	closed    bool

	pageSize   int
	queryFunc  QueryFunc
	chargeFunc ChargeFunc
	pageHook   PageHook
	statuses   map[Op]backend.Status
	errs       map[Op]error
	caps       backend.Capabilities
	calls      []Call
}

var _ backend.Backend = (*Backend)(nil)

// New creates an empty mock backend
func New() *Backend {
	return &Backend{
		databases:  make(map[string]*database),
		pageSize:   DefaultPageSize,
		chargeFunc: DefaultCharge,
		statuses:   make(map[Op]backend.Status),
		errs:       make(map[Op]error),
		caps:       backend.Capabilities{RequestCost: true, Diagnostics: true},
	}
}

// WithPageSize sets the page size used when the caller gives no hint
func (m *Backend) WithPageSize(size int) *Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	if size > 0 {
		m.pageSize = size
	}
	return m
}

// WithQueryFunc replaces the default query evaluator
func (m *Backend) WithQueryFunc(f QueryFunc) *Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryFunc = f
	return m
}

// WithChargeFunc sets the per-page request charge function
func (m *Backend) WithChargeFunc(f ChargeFunc) *Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chargeFunc = f
	return m
}

// WithPageHook installs a hook that runs before each page is served
func (m *Backend) WithPageHook(h PageHook) *Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageHook = h
	return m
}

// WithStatus makes op return code without touching the store
func (m *Backend) WithStatus(op Op, code int) *Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[op] = backend.Status{Code: code}
	return m
}

// WithError makes op fail with a transport error
func (m *Backend) WithError(op Op, err error) *Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[op] = err
	return m
}

// WithCapabilities overrides the advertised capabilities
func (m *Backend) WithCapabilities(caps backend.Capabilities) *Backend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caps = caps
	return m
}

// ClearFaults removes every injected status and error
func (m *Backend) ClearFaults() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = make(map[Op]backend.Status)
	m.errs = make(map[Op]error)
}

// Capabilities returns the advertised capabilities
func (m *Backend) Capabilities() backend.Capabilities {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.caps
}

// EnsureDatabase creates the database when absent
func (m *Backend) EnsureDatabase(ctx context.Context, spec storagemodels.DatabaseSpec) (backend.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(OpEnsureDatabase, spec.ID, "", "")

	if err := m.check(ctx); err != nil {
		return backend.Status{}, err
	}
	if st, injected, err := m.fault(OpEnsureDatabase); injected {
		return st, err
	}
	if err := spec.Consistency.Validate(); err != nil {
		return backend.Status{}, err
	}

	if _, exists := m.databases[spec.ID]; exists {
		return backend.StatusOK, nil
	}
	m.databases[spec.ID] = &database{spec: spec, collections: make(map[string]*collection)}
	m.order = append(m.order, spec.ID)
	return backend.StatusCreated, nil
}

// EnsureCollection creates the collection when absent; the database must exist
func (m *Backend) EnsureCollection(ctx context.Context, spec storagemodels.CollectionSpec) (backend.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(OpEnsureCollection, spec.DatabaseID, spec.ID, "")

	if err := m.check(ctx); err != nil {
		return backend.Status{}, err
	}
	if st, injected, err := m.fault(OpEnsureCollection); injected {
		return st, err
	}
	consistency, indexing, err := mapPolicies(spec)
	if err != nil {
		return backend.Status{}, err
	}

	db, ok := m.databases[spec.DatabaseID]
	if !ok {
		return backend.StatusNotFound, nil
	}
	if _, exists := db.collections[spec.ID]; exists {
		return backend.StatusOK, nil
	}
	db.collections[spec.ID] = &collection{spec: spec, consistency: consistency, indexing: indexing}
	db.order = append(db.order, spec.ID)
	return backend.StatusCreated, nil
}

// ListDatabases lists databases in creation order
func (m *Backend) ListDatabases(ctx context.Context) ([]storagemodels.DatabaseDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(OpListDatabases, "", "", "")

	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if err := m.faultErr(OpListDatabases, "list databases", ""); err != nil {
		return nil, err
	}
	return lo.Map(m.order, func(id string, _ int) storagemodels.DatabaseDescriptor {
		return storagemodels.DatabaseDescriptor{ID: id}
	}), nil
}

// ListCollections lists the collections of a database in creation order
func (m *Backend) ListCollections(ctx context.Context, databaseID string) ([]storagemodels.CollectionDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(OpListCollections, databaseID, "", "")

	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if err := m.faultErr(OpListCollections, "list collections", databaseID); err != nil {
		return nil, err
	}
	db, ok := m.databases[databaseID]
	if !ok {
		return nil, errors.NewStatusError("list collections", databaseID, backend.StatusNotFound.Code)
	}
	return lo.Map(db.order, func(id string, _ int) storagemodels.CollectionDescriptor {
		return storagemodels.CollectionDescriptor{ID: id, PartitionKeyPath: db.collections[id].spec.PartitionKeyPath}
	}), nil
}

// DeleteDatabase removes a database and all its collections
func (m *Backend) DeleteDatabase(ctx context.Context, databaseID string) (backend.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(OpDeleteDatabase, databaseID, "", "")

	if err := m.check(ctx); err != nil {
		return backend.Status{}, err
	}
	if st, injected, err := m.fault(OpDeleteDatabase); injected {
		return st, err
	}
	if _, ok := m.databases[databaseID]; !ok {
		return backend.StatusNotFound, nil
	}
	delete(m.databases, databaseID)
	m.order = lo.Without(m.order, databaseID)
	return backend.StatusNoContent, nil
}

// DeleteCollection removes a collection and its documents
func (m *Backend) DeleteCollection(ctx context.Context, databaseID, collectionID string) (backend.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(OpDeleteCollection, databaseID, collectionID, "")

	if err := m.check(ctx); err != nil {
		return backend.Status{}, err
	}
	if st, injected, err := m.fault(OpDeleteCollection); injected {
		return st, err
	}
	db, ok := m.databases[databaseID]
	if !ok {
		return backend.StatusNotFound, nil
	}
	if _, ok := db.collections[collectionID]; !ok {
		return backend.StatusNotFound, nil
	}
	delete(db.collections, collectionID)
	db.order = lo.Without(db.order, collectionID)
	return backend.StatusNoContent, nil
}

// ResolveContainer returns a handle to an existing collection
func (m *Backend) ResolveContainer(ctx context.Context, databaseID, collectionID string) (backend.Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(OpResolveContainer, databaseID, collectionID, "")

	resource := databaseID + "/" + collectionID
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if err := m.faultErr(OpResolveContainer, "resolve container", resource); err != nil {
		return nil, err
	}
	coll, ok := m.lookup(databaseID, collectionID)
	if !ok {
		return nil, errors.NewStatusError("resolve container", resource, backend.StatusNotFound.Code)
	}
	return backend.ContainerRef{
		Database:     databaseID,
		Collection:   collectionID,
		PartitionKey: coll.spec.PartitionKeyPath,
	}, nil
}

// WriteItem stores an item according to mode
func (m *Backend) WriteItem(ctx context.Context, mode backend.WriteMode, container backend.Container, item backend.Item) (backend.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(OpWriteItem, container.DatabaseID(), container.CollectionID(), item.ID)

	if err := m.check(ctx); err != nil {
		return backend.Status{}, err
	}
	if st, injected, err := m.fault(OpWriteItem); injected {
		return st, err
	}
	coll, ok := m.lookup(container.DatabaseID(), container.CollectionID())
	if !ok {
		return backend.StatusNotFound, nil
	}
	body, err := stamp(item.Body)
	if err != nil {
		return backend.StatusBadRequest, nil
	}

	idx := coll.find(item.ID, item.PartitionKey)
	doc := &document{id: item.ID, partitionKey: item.PartitionKey, body: body}
	switch mode {
	case backend.WriteCreate:
		if idx >= 0 {
			return backend.StatusConflict, nil
		}
		coll.docs = append(coll.docs, doc)
		return backend.StatusCreated, nil
	case backend.WriteReplace:
		if idx < 0 {
			return backend.StatusNotFound, nil
		}
		coll.docs[idx] = doc
		return backend.StatusOK, nil
	case backend.WriteUpsert:
		if idx < 0 {
			coll.docs = append(coll.docs, doc)
			return backend.StatusCreated, nil
		}
		coll.docs[idx] = doc
		return backend.StatusOK, nil
	default:
		return backend.StatusBadRequest, nil
	}
}

// DeleteItem removes an item by id and partition key
func (m *Backend) DeleteItem(ctx context.Context, container backend.Container, id, partitionKey string) (backend.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(OpDeleteItem, container.DatabaseID(), container.CollectionID(), id)

	if err := m.check(ctx); err != nil {
		return backend.Status{}, err
	}
	if st, injected, err := m.fault(OpDeleteItem); injected {
		return st, err
	}
	coll, ok := m.lookup(container.DatabaseID(), container.CollectionID())
	if !ok {
		return backend.StatusNotFound, nil
	}
	idx := coll.find(id, partitionKey)
	if idx < 0 {
		return backend.StatusNotFound, nil
	}
	coll.docs = append(coll.docs[:idx], coll.docs[idx+1:]...)
	return backend.StatusNoContent, nil
}

// OpenQueryCursor evaluates the query over a snapshot and pages the results
func (m *Backend) OpenQueryCursor(ctx context.Context, container backend.Container, query storagemodels.QuerySpec, opts storagemodels.PageOptions) (backend.Cursor, error) {
	m.mu.Lock()
	activityID := m.record(OpOpenQueryCursor, container.DatabaseID(), container.CollectionID(), "")
	resource := backend.ContainerName(container)

	if err := m.check(ctx); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if err := m.faultErr(OpOpenQueryCursor, "query", resource); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	coll, ok := m.lookup(container.DatabaseID(), container.CollectionID())
	if !ok {
		m.mu.Unlock()
		return nil, errors.NewStatusError("query", resource, backend.StatusNotFound.Code)
	}
	snapshot := lo.Map(coll.docs, func(d *document, _ int) json.RawMessage { return d.body })
	eval := m.queryFunc
	pageSize := m.pageSize
	m.mu.Unlock()

	if eval == nil {
		eval = func(_ context.Context, docs []json.RawMessage, q storagemodels.QuerySpec) ([]json.RawMessage, error) {
			return EvaluateQuery(docs, q)
		}
	}
	results, err := eval(ctx, snapshot, query)
	if err != nil {
		return nil, &errors.StatusError{Op: "query", Resource: resource, Code: backend.StatusBadRequest.Code, Err: err}
	}
	if opts.PageSizeHint > 0 {
		pageSize = int(opts.PageSizeHint)
	}
	return &cursor{
		backend:     m,
		container:   container,
		activityID:  activityID,
		results:     results,
		pageSize:    pageSize,
		diagnostics: opts.Diagnostics,
	}, nil
}

// Close marks the backend closed; later calls fail with a connection error
func (m *Backend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls returns a copy of the recorded calls
func (m *Backend) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times op was invoked
func (m *Backend) CallCount(op Op) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.CountBy(m.calls, func(c Call) bool { return c.Op == op })
}

// ResetCalls clears the call log
func (m *Backend) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Documents returns the stored documents of a collection in insertion order
func (m *Backend) Documents(databaseID, collectionID string) []json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, ok := m.lookup(databaseID, collectionID)
	if !ok {
		return nil
	}
	return lo.Map(coll.docs, func(d *document, _ int) json.RawMessage { return d.body })
}

// CollectionSpec returns the spec a collection was created with
func (m *Backend) CollectionSpec(databaseID, collectionID string) (storagemodels.CollectionSpec, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, ok := m.lookup(databaseID, collectionID)
	if !ok {
		return storagemodels.CollectionSpec{}, false
	}
	return coll.spec, true
}

// DatabaseSpec returns the spec a database was created with
func (m *Backend) DatabaseSpec(databaseID string) (storagemodels.DatabaseSpec, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	db, ok := m.databases[databaseID]
	if !ok {
		return storagemodels.DatabaseSpec{}, false
	}
	return db.spec, true
}

// Policies returns the backend-native consistency and indexing names of a collection
func (m *Backend) Policies(databaseID, collectionID string) (consistency, indexing string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, found := m.lookup(databaseID, collectionID)
	if !found {
		return "", "", false
	}
	return coll.consistency, coll.indexing, true
}

// record appends a call; the caller holds m.mu.
func (m *Backend) record(op Op, databaseID, collectionID, itemID string) string {
	activityID := uuid.NewString()
	m.calls = append(m.calls, Call{
		Op:           op,
		DatabaseID:   databaseID,
		CollectionID: collectionID,
		ItemID:       itemID,
		ActivityID:   activityID,
	})
	return activityID
}

func (m *Backend) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.closed {
		return errors.NewConnectionError("mock", fmt.Errorf("backend closed"))
	}
	return nil
}

func (m *Backend) fault(op Op) (backend.Status, bool, error) {
	if err, ok := m.errs[op]; ok {
		return backend.Status{}, true, err
	}
	if st, ok := m.statuses[op]; ok {
		return st, true, nil
	}
	return backend.Status{}, false, nil
}

// faultErr turns an injected fault into an error for operations without a status.
func (m *Backend) faultErr(op Op, name, resource string) error {
	st, injected, err := m.fault(op)
	if !injected {
		return nil
	}
	if err != nil {
		return err
	}
	if !st.IsSuccess() {
		return errors.NewStatusError(name, resource, st.Code)
	}
	return nil
}

func (m *Backend) lookup(databaseID, collectionID string) (*collection, bool) {
	db, ok := m.databases[databaseID]
	if !ok {
		return nil, false
	}
	coll, ok := db.collections[collectionID]
	return coll, ok
}

// find locates an item; unpartitioned collections match on id alone.
func (c *collection) find(id, partitionKey string) int {
	_, idx, ok := lo.FindIndexOf(c.docs, func(d *document) bool {
		if d.id != id {
			return false
		}
		return c.spec.PartitionKeyPath == "" || partitionKey == "" || d.partitionKey == partitionKey
	})
	if !ok {
		return -1
	}
	return idx
}

// stamp adds the revision metadata a real store would attach.
func stamp(body []byte) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("document is not an object")
	}
	etag, err := json.Marshal(uuid.NewString())
	if err != nil {
		return nil, err
	}
	fields["_etag"] = etag
	fields["_ts"] = json.RawMessage(fmt.Sprintf("%d", time.Now().Unix()))
	return json.Marshal(fields)
}

func mapPolicies(spec storagemodels.CollectionSpec) (string, string, error) {
	if err := spec.Consistency.Validate(); err != nil {
		return "", "", err
	}
	if err := spec.Indexing.Mode.Validate(); err != nil {
		return "", "", err
	}
	return spec.Consistency.String(), spec.Indexing.Mode.String(), nil
}

type cursor struct {
	backend     *Backend
	container   backend.Container
	activityID  string
	results     []json.RawMessage
	pageSize    int
	pos         int
	pageIndex   int
	diagnostics bool
	closed      bool
}

func (c *cursor) HasMore() bool {
	return !c.closed && c.pos < len(c.results)
}

func (c *cursor) NextPage(ctx context.Context) (*storagemodels.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.HasMore() {
		return nil, fmt.Errorf("docstore/mock: next page: cursor exhausted")
	}

	c.backend.mu.Lock()
	c.backend.record(OpNextPage, c.container.DatabaseID(), c.container.CollectionID(), "")
	err := c.backend.check(ctx)
	if err == nil {
		err = c.backend.faultErr(OpNextPage, "query", backend.ContainerName(c.container))
	}
	hook := c.backend.pageHook
	charge := c.backend.chargeFunc
	c.backend.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if hook != nil {
		if err := hook(ctx, c.pageIndex); err != nil {
			return nil, err
		}
	}

	end := min(c.pos+c.pageSize, len(c.results))
	docs := c.results[c.pos:end]
	page := &storagemodels.Page{Documents: docs}
	if charge != nil {
		page.RequestCost = charge(docs)
	}
	if c.diagnostics {
		page.Diagnostics = fmt.Sprintf("activityId=%s page=%d items=%d requestCharge=%.2f",
			c.activityID, c.pageIndex, len(docs), page.RequestCost)
	}
	c.pos = end
	c.pageIndex++
	return page, nil
}

func (c *cursor) Close(ctx context.Context) error {
	c.closed = true
	return nil
}
