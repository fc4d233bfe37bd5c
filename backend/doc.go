/*
Package backend defines the port between the docstore core and a concrete document store.

The main interface is Backend, which every adapter implements:

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

Go errors are reserved for transport failures (network, cancellation). Every
protocol outcome, including not-found and conflict, is reported as a Status so
the core can classify it without knowing the adapter.

Implementations:
  - ddb: Amazon DynamoDB, one table per collection plus a catalog table per database
  - mongo: MongoDB, one collection per collection plus a metadata collection per database
  - mock: in-memory store with fault injection for testing

Version-specific behaviour is expressed through Capabilities rather than separate types.
*/
package backend
