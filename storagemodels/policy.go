/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"strings"

	"github.com/suparena/docstore/errors"
)

// ConsistencyLevel is the read freshness guarantee requested from the backend,
// ordered from strongest to weakest.
type ConsistencyLevel int

const (
	ConsistencyStrong ConsistencyLevel = iota
	ConsistencyBoundedStaleness
	ConsistencySession
	ConsistencyEventual
	ConsistencyConsistentPrefix
)

// ConsistencyLevels lists every defined level, strongest first.
var ConsistencyLevels = []ConsistencyLevel{
	ConsistencyStrong,
	ConsistencyBoundedStaleness,
	ConsistencySession,
	ConsistencyEventual,
	ConsistencyConsistentPrefix,
}

var consistencyNames = map[ConsistencyLevel]string{
	ConsistencyStrong:           "Strong",
	ConsistencyBoundedStaleness: "BoundedStaleness",
	ConsistencySession:          "Session",
	ConsistencyEventual:         "Eventual",
	ConsistencyConsistentPrefix: "ConsistentPrefix",
}

func (c ConsistencyLevel) String() string {
	if name, ok := consistencyNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ConsistencyLevel(%d)", int(c))
}

// Validate returns an UnsupportedPolicyValue error when c is outside the enum.
func (c ConsistencyLevel) Validate() error {
	if _, ok := consistencyNames[c]; !ok {
		return errors.NewPolicyError("consistencyLevel", int(c))
	}
	return nil
}

// ParseConsistencyLevel parses a level name, case-insensitively.
func ParseConsistencyLevel(s string) (ConsistencyLevel, error) {
	for level, name := range consistencyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return level, nil
		}
	}
	return 0, errors.NewValidationError("consistencyLevel", fmt.Sprintf("unknown level %q", s))
}

// IndexingMode governs when the backend updates secondary indexes after a write.
type IndexingMode int

const (
	IndexingConsistent IndexingMode = iota
	IndexingLazy
	IndexingNone
)

// IndexingModes lists every defined mode.
var IndexingModes = []IndexingMode{IndexingConsistent, IndexingLazy, IndexingNone}

var indexingNames = map[IndexingMode]string{
	IndexingConsistent: "Consistent",
	IndexingLazy:       "Lazy",
	IndexingNone:       "None",
}

func (m IndexingMode) String() string {
	if name, ok := indexingNames[m]; ok {
		return name
	}
	return fmt.Sprintf("IndexingMode(%d)", int(m))
}

// Validate returns an UnsupportedPolicyValue error when m is outside the enum.
func (m IndexingMode) Validate() error {
	if _, ok := indexingNames[m]; !ok {
		return errors.NewPolicyError("indexingMode", int(m))
	}
	return nil
}

// ParseIndexingMode parses a mode name, case-insensitively.
func ParseIndexingMode(s string) (IndexingMode, error) {
	for mode, name := range indexingNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return mode, nil
		}
	}
	return 0, errors.NewValidationError("indexingMode", fmt.Sprintf("unknown mode %q", s))
}

// IndexKind is the kind of index built over an included path.
type IndexKind string

const (
	IndexKindRange IndexKind = "Range"
	IndexKindHash  IndexKind = "Hash"
)

// UnboundedPrecision asks the backend for maximum index precision.
const UnboundedPrecision = -1

// Index describes one index over an included path.
type Index struct {
	Kind      IndexKind
	DataType  string
	Precision int
}

// IncludedPath is a document path covered by the indexing policy.
type IncludedPath struct {
	Path    string
	Indexes []Index
}

// IndexingPolicy is the backend-neutral description of how a collection is indexed.
type IndexingPolicy struct {
	Mode          IndexingMode
	Automatic     bool
	IncludedPaths []IncludedPath
}

// DefaultIndexingPolicy maps an indexing mode to the default policy used when
// creating collections: every string-valued path gets a range index with
// unbounded precision, unless indexing is disabled.
func DefaultIndexingPolicy(mode IndexingMode) (IndexingPolicy, error) {
	switch mode {
	case IndexingConsistent, IndexingLazy:
		return IndexingPolicy{
			Mode:      mode,
			Automatic: true,
			IncludedPaths: []IncludedPath{
				{
					Path: "/*",
					Indexes: []Index{
						{Kind: IndexKindRange, DataType: "String", Precision: UnboundedPrecision},
					},
				},
			},
		}, nil
	case IndexingNone:
		return IndexingPolicy{Mode: IndexingNone}, nil
	default:
		return IndexingPolicy{}, errors.NewPolicyError("indexingMode", int(mode))
	}
}
