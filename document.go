/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

// Document is the envelope every stored item is wrapped in. The payload is
// opaque to the client and round-trips through its Serializer.
type Document[T any] struct {
	ID           string `json:"id" validate:"required"`
	PartitionKey string `json:"key"`
	Payload      T      `json:"document"`
}

// NewDocument builds an envelope.
func NewDocument[T any](id, partitionKey string, payload T) Document[T] {
	return Document[T]{ID: id, PartitionKey: partitionKey, Payload: payload}
}

// Equal reports whether both envelopes have the same ID.
func (d Document[T]) Equal(other Document[T]) bool {
	return d.ID == other.ID
}
