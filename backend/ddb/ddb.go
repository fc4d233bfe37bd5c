/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/docstore/backend"
	docerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

const (
	// DefaultWaitTimeout bounds how long table creation and deletion are awaited.
	DefaultWaitTimeout = 2 * time.Minute

	databaseEntryID  = "$database"
	collectionPrefix = "collection/"
	kindDatabase     = "database"
	kindCollection   = "collection"
	idAttribute      = "id"
)

// Config holds adapter settings.
type Config struct {
	// TablePrefix is prepended to every table the adapter creates or lists.
	TablePrefix string
	// WaitTimeout bounds table creation/deletion waits (default: 2m).
	WaitTimeout time.Duration
	Logger      zerolog.Logger
}

func (c *Config) validate() {
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
}

// catalogEntry is one item of a database catalog table.
type catalogEntry struct {
	ID               string `dynamodbav:"id"`
	Kind             string `dynamodbav:"kind"`
	Collection       string `dynamodbav:"collection,omitempty"`
	PartitionKeyPath string `dynamodbav:"partitionKeyPath,omitempty"`
	Consistency      string `dynamodbav:"consistency"`
	Indexing         string `dynamodbav:"indexing,omitempty"`
	Throughput       *int32 `dynamodbav:"throughput,omitempty"`
	SharedThroughput *int32 `dynamodbav:"sharedThroughput,omitempty"`
	CreatedAt        string `dynamodbav:"createdAt"`
}

// container is a resolved collection table.
type container struct {
	backend.ContainerRef
	table          string
	partitionAttr  string
	consistentRead bool
}

// Backend implements backend.Backend on Amazon DynamoDB. A database is a
// catalog table named after it; each collection is a table named
// "<database>.<collection>".
type Backend struct {
	api    API
	config Config
	logger zerolog.Logger
}

var _ backend.Backend = (*Backend)(nil)

// New wraps a DynamoDB client.
func New(api API, cfg Config) *Backend {
	cfg.validate()
	return &Backend{api: api, config: cfg, logger: cfg.Logger}
}

func (b *Backend) catalogTable(databaseID string) string {
	return b.config.TablePrefix + databaseID
}

func (b *Backend) collectionTable(databaseID, collectionID string) string {
	return b.config.TablePrefix + databaseID + "." + collectionID
}

// Capabilities reports that pages carry consumed capacity and a request trace.
func (b *Backend) Capabilities() backend.Capabilities {
	return backend.Capabilities{RequestCost: true, Diagnostics: true}
}

// Close is a no-op; the SDK client holds no connections that need releasing.
func (b *Backend) Close() error {
	return nil
}

// EnsureDatabase creates the catalog table and its database entry.
func (b *Backend) EnsureDatabase(ctx context.Context, spec storagemodels.DatabaseSpec) (backend.Status, error) {
	if _, err := mapConsistency(spec.Consistency); err != nil {
		return backend.Status{}, err
	}
	if spec.ID == "" || strings.Contains(spec.ID, ".") {
		return backend.StatusBadRequest, nil
	}

	table := b.catalogTable(spec.ID)
	exists, err := b.tableExists(ctx, table)
	if err != nil {
		return statusOf(err, backend.StatusConflict)
	}

	created := false
	if !exists {
		_, err = b.api.CreateTable(ctx, &sdk.CreateTableInput{
			TableName: aws.String(table),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(idAttribute), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String(idAttribute), AttributeType: types.ScalarAttributeTypeS},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		if err != nil {
			// ResourceInUse: created concurrently
			st, terr := statusOf(err, backend.StatusConflict)
			if terr != nil || st != backend.StatusConflict {
				return st, terr
			}
		} else {
			created = true
		}
		if err := b.waitExists(ctx, table); err != nil {
			return backend.Status{}, err
		}
	}

	shared := spec.Throughput.SharedThroughput
	if shared == nil {
		shared = spec.Throughput.Throughput
	}
	entry := catalogEntry{
		ID:               databaseEntryID,
		Kind:             kindDatabase,
		Consistency:      spec.Consistency.String(),
		SharedThroughput: shared,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if !created {
		return b.completeCatalog(ctx, spec.ID, entry)
	}
	if st, err := b.putEntry(ctx, table, entry); err != nil || !st.IsSuccess() {
		return st, err
	}
	b.logger.Info().Str("table", table).Msg("created database catalog")
	return backend.StatusCreated, nil
}

// completeCatalog writes the database entry of an existing catalog table
// that lacks one, as left by an interrupted EnsureDatabase. A table that
// already holds other items is not a catalog and reports a conflict.
func (b *Backend) completeCatalog(ctx context.Context, databaseID string, entry catalogEntry) (backend.Status, error) {
	table := b.catalogTable(databaseID)
	_, found, err := b.databaseEntry(ctx, databaseID)
	if err != nil {
		return statusOf(err, backend.StatusConflict)
	}
	if found {
		return backend.StatusOK, nil
	}

	out, err := b.api.Scan(ctx, &sdk.ScanInput{
		TableName:      aws.String(table),
		Limit:          aws.Int32(1),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return statusOf(err, backend.StatusConflict)
	}
	if len(out.Items) > 0 {
		b.logger.Warn().Str("table", table).Msg("table exists but is not a database catalog")
		return backend.StatusConflict, nil
	}
	if st, err := b.putEntry(ctx, table, entry); err != nil || !st.IsSuccess() {
		return st, err
	}
	b.logger.Info().Str("table", table).Msg("restored database catalog entry")
	return backend.StatusOK, nil
}

// EnsureCollection creates the collection table and records it in the catalog.
func (b *Backend) EnsureCollection(ctx context.Context, spec storagemodels.CollectionSpec) (backend.Status, error) {
	if _, err := mapConsistency(spec.Consistency); err != nil {
		return backend.Status{}, err
	}
	indexing, err := mapIndexing(spec.Indexing.Mode)
	if err != nil {
		return backend.Status{}, err
	}
	attr := storagemodels.PartitionKeyAttribute(spec.PartitionKeyPath)
	if strings.Contains(attr, "/") || spec.ID == "" {
		return backend.StatusBadRequest, nil
	}

	catalog := b.catalogTable(spec.DatabaseID)
	db, found, err := b.databaseEntry(ctx, spec.DatabaseID)
	if err != nil {
		return statusOf(err, backend.StatusConflict)
	}
	if !found {
		return backend.StatusNotFound, nil
	}

	table := b.collectionTable(spec.DatabaseID, spec.ID)
	entry := catalogEntry{
		ID:               collectionPrefix + spec.ID,
		Kind:             kindCollection,
		Collection:       spec.ID,
		PartitionKeyPath: spec.PartitionKeyPath,
		Consistency:      spec.Consistency.String(),
		Indexing:         indexing,
		Throughput:       spec.Throughput,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	exists, err := b.tableExists(ctx, table)
	if err != nil {
		return statusOf(err, backend.StatusConflict)
	}
	if exists {
		return b.completeCollection(ctx, catalog, table, entry)
	}

	input := &sdk.CreateTableInput{
		TableName:   aws.String(table),
		BillingMode: types.BillingModePayPerRequest,
	}
	if attr == "" || attr == idAttribute {
		input.KeySchema = []types.KeySchemaElement{
			{AttributeName: aws.String(idAttribute), KeyType: types.KeyTypeHash},
		}
		input.AttributeDefinitions = []types.AttributeDefinition{
			{AttributeName: aws.String(idAttribute), AttributeType: types.ScalarAttributeTypeS},
		}
	} else {
		input.KeySchema = []types.KeySchemaElement{
			{AttributeName: aws.String(attr), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(idAttribute), KeyType: types.KeyTypeRange},
		}
		input.AttributeDefinitions = []types.AttributeDefinition{
			{AttributeName: aws.String(attr), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(idAttribute), AttributeType: types.ScalarAttributeTypeS},
		}
	}
	throughput := spec.Throughput
	if throughput == nil {
		throughput = db.SharedThroughput
	}
	if throughput != nil && *throughput > 0 {
		units := int64(*throughput)
		input.BillingMode = types.BillingModeProvisioned
		input.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(units),
			WriteCapacityUnits: aws.Int64(units),
		}
	}

	created := true
	if _, err := b.api.CreateTable(ctx, input); err != nil {
		st, terr := statusOf(err, backend.StatusConflict)
		if terr != nil || st != backend.StatusConflict {
			return st, terr
		}
		created = false
	}
	if err := b.waitExists(ctx, table); err != nil {
		return backend.Status{}, err
	}
	if !created {
		return b.completeCollection(ctx, catalog, table, entry)
	}

	if st, err := b.putEntry(ctx, catalog, entry); err != nil || !st.IsSuccess() {
		return st, err
	}
	b.logger.Info().Str("table", table).Str("indexing", indexing).Msg("created collection table")
	return backend.StatusCreated, nil
}

// completeCollection records an existing collection table whose catalog
// entry is missing.
func (b *Backend) completeCollection(ctx context.Context, catalog, table string, entry catalogEntry) (backend.Status, error) {
	_, found, err := b.getEntry(ctx, catalog, entry.ID)
	if err != nil {
		return statusOf(err, backend.StatusConflict)
	}
	if found {
		return backend.StatusOK, nil
	}
	if st, err := b.putEntry(ctx, catalog, entry); err != nil || !st.IsSuccess() {
		return st, err
	}
	b.logger.Info().Str("table", table).Msg("restored collection catalog entry")
	return backend.StatusOK, nil
}

// ListDatabases lists catalog tables under the configured prefix.
func (b *Backend) ListDatabases(ctx context.Context) ([]storagemodels.DatabaseDescriptor, error) {
	var names []string
	paginator := sdk.NewListTablesPaginator(b.api, &sdk.ListTablesInput{})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errorOf("list databases", b.config.TablePrefix+"*", err)
		}
		names = append(names, out.TableNames...)
	}

	candidates := lo.FilterMap(names, func(name string, _ int) (string, bool) {
		if !strings.HasPrefix(name, b.config.TablePrefix) {
			return "", false
		}
		id := strings.TrimPrefix(name, b.config.TablePrefix)
		return id, id != "" && !strings.Contains(id, ".")
	})

	// only tables carrying a database entry are catalogs
	var databases []storagemodels.DatabaseDescriptor
	for _, id := range candidates {
		_, found, err := b.databaseEntry(ctx, id)
		if err != nil {
			return nil, errorOf("list databases", id, err)
		}
		if found {
			databases = append(databases, storagemodels.DatabaseDescriptor{ID: id})
		}
	}
	return databases, nil
}

// ListCollections scans the catalog for collection entries.
func (b *Backend) ListCollections(ctx context.Context, databaseID string) ([]storagemodels.CollectionDescriptor, error) {
	entries, err := b.collectionEntries(ctx, databaseID)
	if err != nil {
		return nil, errorOf("list collections", databaseID, err)
	}
	return lo.Map(entries, func(e catalogEntry, _ int) storagemodels.CollectionDescriptor {
		return storagemodels.CollectionDescriptor{ID: e.Collection, PartitionKeyPath: e.PartitionKeyPath}
	}), nil
}

// DeleteDatabase drops every collection table concurrently, then the
// catalog. A table without a database entry is left alone.
func (b *Backend) DeleteDatabase(ctx context.Context, databaseID string) (backend.Status, error) {
	_, found, err := b.databaseEntry(ctx, databaseID)
	if err != nil {
		return statusOf(err, backend.StatusNotFound)
	}
	if !found {
		return backend.StatusNotFound, nil
	}

	entries, err := b.collectionEntries(ctx, databaseID)
	if err != nil {
		return statusOf(err, backend.StatusNotFound)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, entry := range entries {
		table := b.collectionTable(databaseID, entry.Collection)
		g.Go(func() error {
			return b.dropTable(gctx, table)
		})
	}
	if err := g.Wait(); err != nil {
		return statusOf(err, backend.StatusNotFound)
	}

	catalog := b.catalogTable(databaseID)
	if _, err := b.api.DeleteTable(ctx, &sdk.DeleteTableInput{TableName: aws.String(catalog)}); err != nil {
		return statusOf(err, backend.StatusNotFound)
	}
	if err := b.waitNotExists(ctx, catalog); err != nil {
		return backend.Status{}, err
	}
	b.logger.Info().Str("table", catalog).Int("collections", len(entries)).Msg("deleted database")
	return backend.StatusNoContent, nil
}

// DeleteCollection drops the collection table and its catalog entry.
func (b *Backend) DeleteCollection(ctx context.Context, databaseID, collectionID string) (backend.Status, error) {
	table := b.collectionTable(databaseID, collectionID)
	if _, err := b.api.DeleteTable(ctx, &sdk.DeleteTableInput{TableName: aws.String(table)}); err != nil {
		return statusOf(err, backend.StatusNotFound)
	}
	if err := b.waitNotExists(ctx, table); err != nil {
		return backend.Status{}, err
	}

	_, err := b.api.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: aws.String(b.catalogTable(databaseID)),
		Key: map[string]types.AttributeValue{
			idAttribute: &types.AttributeValueMemberS{Value: collectionPrefix + collectionID},
		},
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("table", table).Msg("failed to remove catalog entry")
	}
	return backend.StatusNoContent, nil
}

// ResolveContainer reads the collection's catalog entry.
func (b *Backend) ResolveContainer(ctx context.Context, databaseID, collectionID string) (backend.Container, error) {
	resource := databaseID + "/" + collectionID
	entry, found, err := b.getEntry(ctx, b.catalogTable(databaseID), collectionPrefix+collectionID)
	if err != nil {
		return nil, errorOf("resolve container", resource, err)
	}
	if !found {
		return nil, docerrors.NewStatusError("resolve container", resource, backend.StatusNotFound.Code)
	}

	level, err := storagemodels.ParseConsistencyLevel(entry.Consistency)
	if err != nil {
		return nil, fmt.Errorf("docstore/ddb: resolve container %s: %w", resource, err)
	}
	consistentRead, err := mapConsistency(level)
	if err != nil {
		return nil, err
	}
	return &container{
		ContainerRef: backend.ContainerRef{
			Database:     databaseID,
			Collection:   collectionID,
			PartitionKey: entry.PartitionKeyPath,
		},
		table:          b.collectionTable(databaseID, collectionID),
		partitionAttr:  storagemodels.PartitionKeyAttribute(entry.PartitionKeyPath),
		consistentRead: consistentRead,
	}, nil
}

// WriteItem stores the item with PutItem, conditioned on mode.
func (b *Backend) WriteItem(ctx context.Context, mode backend.WriteMode, c backend.Container, item backend.Item) (backend.Status, error) {
	ct, err := b.container(ctx, c)
	if err != nil {
		return b.containerStatus(err)
	}
	av, err := documentToItem(item.Body)
	if err != nil {
		return backend.StatusBadRequest, nil
	}
	av[idAttribute] = &types.AttributeValueMemberS{Value: item.ID}
	if ct.partitionAttr != "" && ct.partitionAttr != idAttribute {
		// the item is keyed by item.PartitionKey, as DeleteItem addresses it
		if _, ok := av[ct.partitionAttr]; !ok || item.PartitionKey != "" {
			av[ct.partitionAttr] = &types.AttributeValueMemberS{Value: item.PartitionKey}
		}
	}

	input := &sdk.PutItemInput{TableName: aws.String(ct.table), Item: av}
	conditional, success := backend.StatusConflict, backend.StatusOK
	switch mode {
	case backend.WriteCreate:
		input.ConditionExpression = aws.String("attribute_not_exists(id)")
		success = backend.StatusCreated
	case backend.WriteReplace:
		input.ConditionExpression = aws.String("attribute_exists(id)")
		conditional = backend.StatusNotFound
	case backend.WriteUpsert:
	default:
		return backend.StatusBadRequest, nil
	}

	if _, err := b.api.PutItem(ctx, input); err != nil {
		return statusOf(err, conditional)
	}
	return success, nil
}

// DeleteItem removes an existing item.
func (b *Backend) DeleteItem(ctx context.Context, c backend.Container, id, partitionKey string) (backend.Status, error) {
	ct, err := b.container(ctx, c)
	if err != nil {
		return b.containerStatus(err)
	}
	key := map[string]types.AttributeValue{
		idAttribute: &types.AttributeValueMemberS{Value: id},
	}
	if ct.partitionAttr != "" && ct.partitionAttr != idAttribute {
		key[ct.partitionAttr] = &types.AttributeValueMemberS{Value: partitionKey}
	}

	_, err = b.api.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:           aws.String(ct.table),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		return statusOf(err, backend.StatusNotFound)
	}
	return backend.StatusNoContent, nil
}

// OpenQueryCursor rewrites the query to PartiQL and returns a paging cursor.
func (b *Backend) OpenQueryCursor(ctx context.Context, c backend.Container, query storagemodels.QuerySpec, opts storagemodels.PageOptions) (backend.Cursor, error) {
	ct, err := b.container(ctx, c)
	if err != nil {
		return nil, err
	}
	resource := backend.ContainerName(ct)

	stmt, err := rewriteStatement(query.Text, ct.table, query.Parameters)
	if err != nil {
		return nil, &docerrors.StatusError{Op: "query", Resource: resource, Code: backend.StatusBadRequest.Code, Err: err}
	}

	input := &sdk.ExecuteStatementInput{
		Statement:      aws.String(stmt.text),
		ConsistentRead: aws.Bool(ct.consistentRead),
	}
	if len(stmt.args) > 0 {
		input.Parameters = stmt.args
	}
	if opts.PageSizeHint > 0 {
		input.Limit = aws.Int32(opts.PageSizeHint)
	}
	if opts.Diagnostics {
		input.ReturnConsumedCapacity = types.ReturnConsumedCapacityTotal
	}

	b.logger.Debug().Str("statement", stmt.text).Int("params", len(stmt.args)).Msg("opening query cursor")
	return &cursor{
		api:         b.api,
		input:       input,
		resource:    resource,
		skip:        stmt.window.offset,
		remaining:   stmt.window.limit,
		diagnostics: opts.Diagnostics,
		done:        stmt.window.limit == 0,
	}, nil
}

// container returns c as a resolved DynamoDB container, resolving it when
// it was produced elsewhere.
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

func (b *Backend) tableExists(ctx context.Context, table string) (bool, error) {
	_, err := b.api.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: aws.String(table)})
	if err == nil {
		return true, nil
	}
	if st, terr := statusOf(err, backend.StatusConflict); terr == nil && st == backend.StatusNotFound {
		return false, nil
	}
	return false, err
}

func (b *Backend) waitExists(ctx context.Context, table string) error {
	b.logger.Debug().Str("table", table).Msg("waiting for table to become active")
	waiter := sdk.NewTableExistsWaiter(b.api)
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(table)}, b.config.WaitTimeout); err != nil {
		return fmt.Errorf("docstore/ddb: wait for table %s: %w", table, err)
	}
	return nil
}

func (b *Backend) waitNotExists(ctx context.Context, table string) error {
	b.logger.Debug().Str("table", table).Msg("waiting for table deletion")
	waiter := sdk.NewTableNotExistsWaiter(b.api)
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(table)}, b.config.WaitTimeout); err != nil {
		return fmt.Errorf("docstore/ddb: wait for table %s deletion: %w", table, err)
	}
	return nil
}

// dropTable deletes a collection table, treating an absent table as dropped.
func (b *Backend) dropTable(ctx context.Context, table string) error {
	if _, err := b.api.DeleteTable(ctx, &sdk.DeleteTableInput{TableName: aws.String(table)}); err != nil {
		if st, terr := statusOf(err, backend.StatusNotFound); terr == nil && st == backend.StatusNotFound {
			return nil
		}
		return err
	}
	return b.waitNotExists(ctx, table)
}

func (b *Backend) getEntry(ctx context.Context, table, id string) (catalogEntry, bool, error) {
	out, err := b.api.GetItem(ctx, &sdk.GetItemInput{
		TableName:      aws.String(table),
		Key:            map[string]types.AttributeValue{idAttribute: &types.AttributeValueMemberS{Value: id}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		if st, terr := statusOf(err, backend.StatusConflict); terr == nil && st == backend.StatusNotFound {
			return catalogEntry{}, false, nil
		}
		return catalogEntry{}, false, err
	}
	if out.Item == nil {
		return catalogEntry{}, false, nil
	}
	var entry catalogEntry
	if err := attributevalue.UnmarshalMap(out.Item, &entry); err != nil {
		return catalogEntry{}, false, fmt.Errorf("docstore/ddb: decode catalog entry %s: %w", id, err)
	}
	return entry, true, nil
}

// databaseEntry reads the database entry of a catalog. A missing table, a
// table keyed on something other than id, or an item of another kind all
// report found=false.
func (b *Backend) databaseEntry(ctx context.Context, databaseID string) (catalogEntry, bool, error) {
	entry, found, err := b.getEntry(ctx, b.catalogTable(databaseID), databaseEntryID)
	if err != nil {
		if st, terr := statusOf(err, backend.StatusConflict); terr == nil && st == backend.StatusBadRequest {
			return catalogEntry{}, false, nil
		}
		return catalogEntry{}, false, err
	}
	return entry, found && entry.Kind == kindDatabase, nil
}

// putEntry writes entry unless one with the same ID exists; an existing
// entry counts as written.
func (b *Backend) putEntry(ctx context.Context, table string, entry catalogEntry) (backend.Status, error) {
	av, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return backend.Status{}, fmt.Errorf("docstore/ddb: encode catalog entry %s: %w", entry.ID, err)
	}
	_, err = b.api.PutItem(ctx, &sdk.PutItemInput{
		TableName:           aws.String(table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return statusOf(err, backend.StatusOK)
	}
	return backend.StatusOK, nil
}

func (b *Backend) collectionEntries(ctx context.Context, databaseID string) ([]catalogEntry, error) {
	paginator := sdk.NewScanPaginator(b.api, &sdk.ScanInput{
		TableName:                 aws.String(b.catalogTable(databaseID)),
		FilterExpression:          aws.String("#kind = :kind"),
		ExpressionAttributeNames:  map[string]string{"#kind": "kind"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":kind": &types.AttributeValueMemberS{Value: kindCollection}},
		ConsistentRead:            aws.Bool(true),
	})

	var entries []catalogEntry
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var page []catalogEntry
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("docstore/ddb: decode catalog: %w", err)
		}
		entries = append(entries, page...)
	}
	return entries, nil
}
