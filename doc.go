/*
Package docstore is a client facade over document databases. It provisions
databases and collections idempotently, writes and deletes single documents
with consistency control, and runs parameterized queries that are paged by the
backend and materialized into one result with request cost and diagnostics.

Backends are selected by endpoint scheme. Import the drivers you need:

	import (
		_ "github.com/suparena/docstore/backend/ddb"   // dynamodb://, http://, https://
		_ "github.com/suparena/docstore/backend/mongo" // mongodb://, mongodb+srv://
		_ "github.com/suparena/docstore/backend/mock"  // mock://
	)

Basic Usage:

	client, err := docstore.Open(ctx, "http://localhost:8000", "local:local",
		docstore.WithLogger(logger))
	if err != nil {
		return err
	}
	defer client.Close()

	if _, err := client.CreateDatabaseIfAbsent(ctx, "shop", nil, storagemodels.ConsistencySession); err != nil {
		return err
	}
	if _, err := client.CreateCollectionIfAbsent(ctx, "shop", "orders", "/key",
		storagemodels.ConsistencySession, storagemodels.IndexingConsistent); err != nil {
		return err
	}

	orders := docstore.CollectionOf[Order](client, "shop", "orders")
	ok, err := orders.Create(ctx, docstore.NewDocument("1234", "/key", order))

	result, err := orders.QueryWithDiagnostics(ctx,
		storagemodels.NewQuerySpec("SELECT * FROM c WHERE c.key = @key").WithParameter("@key", "/key"))
	fmt.Println(len(result.Documents), result.RequestCost, result.Pages)

Item operations report success as a boolean. A false result is always paired
with an error from the errors package carrying the backend status code.
*/
package docstore
