/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package mongo implements the docstore backend on MongoDB.

Importing the package registers the "mongodb" and "mongodb+srv" schemes:

	import _ "github.com/suparena/docstore/backend/mongo"

	client, err := docstore.Open(ctx, "mongodb://localhost:27017", "user:secret")

Every database carries a "_docstore" collection holding one document for the
database and one per collection, recording the provisioning specs. Collections
get a unique index on (partition key, id); unless the indexing mode is None
they also get a wildcard index.

Queries are MongoDB filters written as relaxed Extended JSON. String values of
the form "@name" are replaced by the bound parameter, and a trailing
"OFFSET n LIMIT m" becomes skip and limit:

	{"key": "@key", "document.FooValue": {"$gt": 10}} OFFSET 0 LIMIT 20

Each server batch is returned as one page. MongoDB reports no request cost,
so pages carry zero cost.

Consistency levels map to read and write concerns:

	Strong            linearizable read, majority write
	BoundedStaleness  majority read
	Session           majority read, majority write
	Eventual          available read from secondaries when possible
	ConsistentPrefix  local read
*/
package mongo
