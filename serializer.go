/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import "encoding/json"

// Serializer converts envelopes to and from the raw documents a backend stores.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONSerializer is the default Serializer.
type JSONSerializer struct{}

func (JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
