/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/suparena/docstore/backend"
	docerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

const (
	metaCollection   = "_docstore"
	databaseEntryID  = "$database"
	collectionPrefix = "collection/"
	kindDatabase     = "database"
	kindCollection   = "collection"
	idField          = "id"
)

var systemDatabases = []string{"admin", "local", "config"}

// metaDoc is one document of a database's metadata collection.
type metaDoc struct {
	ID               string    `bson:"_id"`
	Kind             string    `bson:"kind"`
	Collection       string    `bson:"collection,omitempty"`
	PartitionKeyPath string    `bson:"partitionKeyPath,omitempty"`
	Consistency      string    `bson:"consistency"`
	Indexing         string    `bson:"indexing,omitempty"`
	Throughput       *int32    `bson:"throughput,omitempty"`
	SharedThroughput *int32    `bson:"sharedThroughput,omitempty"`
	CreatedAt        time.Time `bson:"createdAt"`
}

// container is a resolved MongoDB collection with its consistency concerns applied.
type container struct {
	backend.ContainerRef
	coll          *mongo.Collection
	partitionAttr string
}

// Backend implements backend.Backend on MongoDB. Each database keeps a
// metadata collection recording the specs it was provisioned with.
type Backend struct {
	client *mongo.Client
	logger zerolog.Logger
}

var _ backend.Backend = (*Backend)(nil)

// New wraps a connected client. The Backend owns it and disconnects on Close.
func New(client *mongo.Client, logger zerolog.Logger) *Backend {
	return &Backend{client: client, logger: logger}
}

// Capabilities reports per-batch diagnostics. MongoDB reports no request cost.
func (b *Backend) Capabilities() backend.Capabilities {
	return backend.Capabilities{Diagnostics: true}
}

// Close disconnects the client.
func (b *Backend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("docstore/mongo: close: %w", err)
	}
	return nil
}

func (b *Backend) meta(databaseID string) *mongo.Collection {
	return b.client.Database(databaseID).Collection(metaCollection)
}

// EnsureDatabase records the database in its metadata collection; MongoDB
// materializes the database with it.
func (b *Backend) EnsureDatabase(ctx context.Context, spec storagemodels.DatabaseSpec) (backend.Status, error) {
	if _, err := mapConsistency(spec.Consistency); err != nil {
		return backend.Status{}, err
	}
	if spec.ID == "" || lo.Contains(systemDatabases, spec.ID) {
		return backend.StatusBadRequest, nil
	}

	shared := spec.Throughput.SharedThroughput
	if shared == nil {
		shared = spec.Throughput.Throughput
	}
	_, err := b.meta(spec.ID).InsertOne(ctx, metaDoc{
		ID:               databaseEntryID,
		Kind:             kindDatabase,
		Consistency:      spec.Consistency.String(),
		SharedThroughput: shared,
		CreatedAt:        time.Now().UTC(),
	})
	if err != nil {
		st, terr := statusOf(err)
		if terr == nil && st == backend.StatusConflict {
			return backend.StatusOK, nil
		}
		return st, terr
	}
	b.logger.Info().Str("database", spec.ID).Msg("created database")
	return backend.StatusCreated, nil
}

// EnsureCollection creates the collection, its key index and, unless
// indexing is off, a wildcard index. Index creation is idempotent, so an
// existing collection still gets any missing index or metadata entry.
func (b *Backend) EnsureCollection(ctx context.Context, spec storagemodels.CollectionSpec) (backend.Status, error) {
	if _, err := mapConsistency(spec.Consistency); err != nil {
		return backend.Status{}, err
	}
	wildcard, err := mapIndexing(spec.Indexing.Mode)
	if err != nil {
		return backend.Status{}, err
	}
	attr := storagemodels.PartitionKeyAttribute(spec.PartitionKeyPath)
	if spec.ID == "" || spec.ID == metaCollection || strings.Contains(attr, "/") {
		return backend.StatusBadRequest, nil
	}

	var dbEntry metaDoc
	if err := b.meta(spec.DatabaseID).FindOne(ctx, bson.D{{Key: "_id", Value: databaseEntryID}}).Decode(&dbEntry); err != nil {
		return statusOf(err)
	}

	db := b.client.Database(spec.DatabaseID)
	created := true
	if err := db.CreateCollection(ctx, spec.ID); err != nil {
		st, terr := statusOf(err)
		if terr != nil || st != backend.StatusConflict {
			return st, terr
		}
		// NamespaceExists: indexes and metadata are still written below,
		// completing a collection left behind by an interrupted call.
		created = false
	}

	keys := bson.D{{Key: idField, Value: 1}}
	if attr != "" && attr != idField {
		keys = bson.D{{Key: attr, Value: 1}, {Key: idField, Value: 1}}
	}
	models := []mongo.IndexModel{{Keys: keys, Options: options.Index().SetUnique(true)}}
	if wildcard {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: "$**", Value: 1}}})
	}
	if _, err := db.Collection(spec.ID).Indexes().CreateMany(ctx, models); err != nil {
		return statusOf(err)
	}

	throughput := spec.Throughput
	if throughput == nil {
		throughput = dbEntry.SharedThroughput
	}
	_, err = b.meta(spec.DatabaseID).InsertOne(ctx, metaDoc{
		ID:               collectionPrefix + spec.ID,
		Kind:             kindCollection,
		Collection:       spec.ID,
		PartitionKeyPath: spec.PartitionKeyPath,
		Consistency:      spec.Consistency.String(),
		Indexing:         spec.Indexing.Mode.String(),
		Throughput:       throughput,
		CreatedAt:        time.Now().UTC(),
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return statusOf(err)
	}
	if !created {
		return backend.StatusOK, nil
	}
	b.logger.Info().Str("database", spec.DatabaseID).Str("collection", spec.ID).
		Bool("wildcardIndex", wildcard).Msg("created collection")
	return backend.StatusCreated, nil
}

// ListDatabases lists user databases.
func (b *Backend) ListDatabases(ctx context.Context) ([]storagemodels.DatabaseDescriptor, error) {
	names, err := b.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, errorOf("list databases", "*", err)
	}
	names = lo.Without(names, systemDatabases...)
	return lo.Map(names, func(name string, _ int) storagemodels.DatabaseDescriptor {
		return storagemodels.DatabaseDescriptor{ID: name}
	}), nil
}

// ListCollections reads the collection entries of the metadata collection.
func (b *Backend) ListCollections(ctx context.Context, databaseID string) ([]storagemodels.CollectionDescriptor, error) {
	if _, err := b.databaseEntry(ctx, databaseID); err != nil {
		return nil, errorOf("list collections", databaseID, err)
	}
	cur, err := b.meta(databaseID).Find(ctx, bson.D{{Key: "kind", Value: kindCollection}})
	if err != nil {
		return nil, errorOf("list collections", databaseID, err)
	}
	var entries []metaDoc
	if err := cur.All(ctx, &entries); err != nil {
		return nil, errorOf("list collections", databaseID, err)
	}
	return lo.Map(entries, func(e metaDoc, _ int) storagemodels.CollectionDescriptor {
		return storagemodels.CollectionDescriptor{ID: e.Collection, PartitionKeyPath: e.PartitionKeyPath}
	}), nil
}

// DeleteDatabase drops the database.
func (b *Backend) DeleteDatabase(ctx context.Context, databaseID string) (backend.Status, error) {
	if _, err := b.databaseEntry(ctx, databaseID); err != nil {
		return statusOf(err)
	}
	if err := b.client.Database(databaseID).Drop(ctx); err != nil {
		return statusOf(err)
	}
	b.logger.Info().Str("database", databaseID).Msg("deleted database")
	return backend.StatusNoContent, nil
}

// DeleteCollection drops the collection and removes its metadata entry.
func (b *Backend) DeleteCollection(ctx context.Context, databaseID, collectionID string) (backend.Status, error) {
	db := b.client.Database(databaseID)
	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: collectionID}})
	if err != nil {
		return statusOf(err)
	}
	if len(names) == 0 || collectionID == metaCollection {
		return backend.StatusNotFound, nil
	}
	if err := db.Collection(collectionID).Drop(ctx); err != nil {
		return statusOf(err)
	}
	if _, err := b.meta(databaseID).DeleteOne(ctx, bson.D{{Key: "_id", Value: collectionPrefix + collectionID}}); err != nil {
		b.logger.Warn().Err(err).Str("database", databaseID).Str("collection", collectionID).
			Msg("failed to remove metadata entry")
	}
	return backend.StatusNoContent, nil
}

// ResolveContainer reads the collection's metadata entry and applies its
// consistency level to the collection handle.
func (b *Backend) ResolveContainer(ctx context.Context, databaseID, collectionID string) (backend.Container, error) {
	resource := databaseID + "/" + collectionID
	var entry metaDoc
	err := b.meta(databaseID).FindOne(ctx, bson.D{{Key: "_id", Value: collectionPrefix + collectionID}}).Decode(&entry)
	if err != nil {
		return nil, errorOf("resolve container", resource, err)
	}

	level, err := storagemodels.ParseConsistencyLevel(entry.Consistency)
	if err != nil {
		return nil, fmt.Errorf("docstore/mongo: resolve container %s: %w", resource, err)
	}
	c, err := mapConsistency(level)
	if err != nil {
		return nil, err
	}
	collOpts := options.Collection().SetReadConcern(c.read).SetReadPreference(c.readPref)
	if c.write != nil {
		collOpts.SetWriteConcern(c.write)
	}

	return &container{
		ContainerRef: backend.ContainerRef{
			Database:     databaseID,
			Collection:   collectionID,
			PartitionKey: entry.PartitionKeyPath,
		},
		coll:          b.client.Database(databaseID).Collection(collectionID, collOpts),
		partitionAttr: storagemodels.PartitionKeyAttribute(entry.PartitionKeyPath),
	}, nil
}

// WriteItem inserts or replaces the item according to mode.
func (b *Backend) WriteItem(ctx context.Context, mode backend.WriteMode, c backend.Container, item backend.Item) (backend.Status, error) {
	ct, err := b.container(ctx, c)
	if err != nil {
		return b.containerStatus(err)
	}
	doc, err := itemDocument(item, ct.partitionAttr)
	if err != nil {
		return backend.StatusBadRequest, nil
	}

	switch mode {
	case backend.WriteCreate:
		if _, err := ct.coll.InsertOne(ctx, doc); err != nil {
			return statusOf(err)
		}
		return backend.StatusCreated, nil
	case backend.WriteReplace, backend.WriteUpsert:
		res, err := ct.coll.ReplaceOne(ctx, ct.key(item.ID, item.PartitionKey), doc,
			options.Replace().SetUpsert(mode == backend.WriteUpsert))
		if err != nil {
			return statusOf(err)
		}
		if res.UpsertedCount > 0 {
			return backend.StatusCreated, nil
		}
		if res.MatchedCount == 0 {
			return backend.StatusNotFound, nil
		}
		return backend.StatusOK, nil
	default:
		return backend.StatusBadRequest, nil
	}
}

// DeleteItem removes the item matching id and partition key.
func (b *Backend) DeleteItem(ctx context.Context, c backend.Container, id, partitionKey string) (backend.Status, error) {
	ct, err := b.container(ctx, c)
	if err != nil {
		return b.containerStatus(err)
	}
	res, err := ct.coll.DeleteOne(ctx, ct.key(id, partitionKey))
	if err != nil {
		return statusOf(err)
	}
	if res.DeletedCount == 0 {
		return backend.StatusNotFound, nil
	}
	return backend.StatusNoContent, nil
}

// OpenQueryCursor runs the filter and pages the result one server batch at a time.
func (b *Backend) OpenQueryCursor(ctx context.Context, c backend.Container, query storagemodels.QuerySpec, opts storagemodels.PageOptions) (backend.Cursor, error) {
	ct, err := b.container(ctx, c)
	if err != nil {
		return nil, err
	}
	resource := backend.ContainerName(ct)

	spec, err := parseFilter(query.Text, query.Parameters)
	if err != nil {
		return nil, &docerrors.StatusError{Op: "query", Resource: resource, Code: backend.StatusBadRequest.Code, Err: err}
	}
	if spec.empty {
		return &cursor{resource: resource, done: true}, nil
	}

	findOpts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
	if spec.skip > 0 {
		findOpts.SetSkip(spec.skip)
	}
	if spec.limit > 0 {
		findOpts.SetLimit(spec.limit)
	}
	if opts.PageSizeHint > 0 {
		findOpts.SetBatchSize(opts.PageSizeHint)
	}

	b.logger.Debug().Str("collection", resource).Int("filterFields", len(spec.filter)).Msg("opening query cursor")
	cur, err := ct.coll.Find(ctx, spec.filter, findOpts)
	if err != nil {
		return nil, errorOf("query", resource, err)
	}
	return &cursor{cur: cur, resource: resource, diagnostics: opts.Diagnostics}, nil
}

func (c *container) key(id, partitionKey string) bson.D {
	filter := bson.D{{Key: idField, Value: id}}
	if c.partitionAttr != "" && c.partitionAttr != idField && partitionKey != "" {
		filter = append(filter, bson.E{Key: c.partitionAttr, Value: partitionKey})
	}
	return filter
}

// itemDocument decodes the item body and stamps the id and partition key
// fields. A client-supplied _id is dropped.
func itemDocument(item backend.Item, partitionAttr string) (bson.D, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON(item.Body, false, &doc); err != nil {
		return nil, err
	}
	doc = lo.Filter(doc, func(e bson.E, _ int) bool { return e.Key != "_id" })
	doc = setField(doc, idField, item.ID)
	if partitionAttr != "" && partitionAttr != idField {
		if _, found := lo.Find(doc, func(e bson.E) bool { return e.Key == partitionAttr }); !found {
			doc = append(doc, bson.E{Key: partitionAttr, Value: item.PartitionKey})
		}
	}
	return doc, nil
}

func setField(doc bson.D, key string, value any) bson.D {
	if _, i, found := lo.FindIndexOf(doc, func(e bson.E) bool { return e.Key == key }); found {
		doc[i].Value = value
		return doc
	}
	return append(doc, bson.E{Key: key, Value: value})
}

// container returns c as a resolved MongoDB container, resolving it when it
// was produced elsewhere.
func (b *Backend) container(ctx context.Context, c backend.Container) (*container, error) {
	if ct, ok := c.(*container); ok {
		return ct, nil
	}
	resolved, err := b.ResolveContainer(ctx, c.DatabaseID(), c.CollectionID())
	if err != nil {
		return nil, err
	}
	return resolved.(*container), nil
}

func (b *Backend) containerStatus(err error) (backend.Status, error) {
	if docerrors.IsNotFound(err) {
		return backend.StatusNotFound, nil
	}
	return backend.Status{}, err
}

func (b *Backend) databaseEntry(ctx context.Context, databaseID string) (metaDoc, error) {
	var entry metaDoc
	err := b.meta(databaseID).FindOne(ctx, bson.D{{Key: "_id", Value: databaseEntryID}}).Decode(&entry)
	return entry, err
}
