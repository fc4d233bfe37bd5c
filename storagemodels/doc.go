/*
Package storagemodels defines the data structures shared by the docstore facade
and its backends.

Key Types:

Policies:
ConsistencyLevel and IndexingMode are closed enums. DefaultIndexingPolicy maps an
indexing mode to the policy used for new collections:

	policy, err := storagemodels.DefaultIndexingPolicy(storagemodels.IndexingConsistent)
	// policy.IncludedPaths[0] == {Path: "/*", Indexes: [{Range String -1}]}

QuerySpec:
A query text with named parameters:

	q := storagemodels.NewQuerySpec("SELECT * FROM c WHERE c.key = @key").
	    WithParameter("@key", "/key")

PageOptions:
Configuration for backend cursors. Every bound defaults to -1 so the backend
chooses its own batching:

	opts := []PageOption{
	    WithPageSizeHint(100),
	    WithDiagnostics(),
	}

These types provide a consistent interface across different storage implementations.
*/
package storagemodels
