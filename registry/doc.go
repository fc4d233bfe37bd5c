/*
Package registry maps endpoint URL schemes to backend drivers for docstore.

Drivers register themselves in init(), the way database/sql drivers do, so a
program selects the backends it supports with blank imports:

	import (
	    _ "github.com/suparena/docstore/backend/ddb"   // dynamodb://, http://, https://
	    _ "github.com/suparena/docstore/backend/mongo" // mongodb://, mongodb+srv://
	)

	client, err := docstore.Open(ctx, "mongodb://localhost:27017", "user:secret")

A driver registers a Connector for one or more schemes:

	registry.RegisterDriver(connect, "mock")

The registry is thread-safe. Registering the same scheme twice panics.
*/
package registry
