/*
Package ddb provides an Amazon DynamoDB implementation of the docstore backend port.

Layout:
  - A database "shop" is a catalog table named "shop" (hash key "id"). Its
    "$database" item records the consistency level and shared throughput;
    one "collection/<name>" item per collection records the partition key
    path, consistency level and indexing mode.
  - A collection "orders" is a table named "shop.orders". With partition key
    path "/key" the table is keyed on ("key", "id"); unpartitioned
    collections are keyed on "id" alone.

Database identifiers must not contain dots. A table prefix can be configured
to keep docstore tables apart from others in the same account.

Writes:
Create, Replace and Upsert map to PutItem with attribute_not_exists(id),
attribute_exists(id) and no condition. Deletes require the item to exist.

Queries:
Document queries run as PartiQL through ExecuteStatement:

	SELECT * FROM c WHERE c.document.name = @name OFFSET 0 LIMIT 20

becomes

	SELECT * FROM "shop.orders" WHERE "document"."name" = ?

with @name bound positionally. OFFSET and LIMIT are applied by the cursor.
Strong consistency maps to ConsistentRead; every other level reads eventually
consistent. With diagnostics on, each page reports consumed capacity as its
request cost and the request id in its trace.

Endpoints:

	dynamodb://eu-west-1          AWS in the given region
	http://localhost:8000         DynamoDB Local (region from the "region" setting)

The credential is "ACCESS:SECRET"; an empty credential uses the default chain.
*/
package ddb
