/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"

	"github.com/suparena/docstore/backend"
	docerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// Server error codes the adapter interprets.
const (
	codeNamespaceNotFound = 26
	codeNamespaceExists   = 48
)

// statusOf maps a server-side error to a protocol status. Network errors,
// timeouts and cancellation are returned unchanged as transport errors.
func statusOf(err error) (backend.Status, error) {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return backend.Status{}, err
	}
	if mongo.IsDuplicateKeyError(err) {
		return backend.StatusConflict, nil
	}
	if isNoDocuments(err) {
		return backend.StatusNotFound, nil
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case codeNamespaceNotFound:
			return backend.StatusNotFound, nil
		case codeNamespaceExists:
			return backend.StatusConflict, nil
		}
		return backend.StatusBadRequest, nil
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return backend.StatusBadRequest, nil
	}
	return backend.Status{}, err
}

// errorOf is statusOf for calls that report protocol failures as errors.
func errorOf(op, resource string, err error) error {
	st, transportErr := statusOf(err)
	if transportErr != nil {
		return transportErr
	}
	return &docerrors.StatusError{Op: op, Resource: resource, Code: st.Code, Err: err}
}

// concerns are the native settings a consistency level maps to.
type concerns struct {
	read     *readconcern.ReadConcern
	write    *writeconcern.WriteConcern
	readPref *readpref.ReadPref
}

// mapConsistency maps a consistency level to read/write concerns.
func mapConsistency(level storagemodels.ConsistencyLevel) (concerns, error) {
	switch level {
	case storagemodels.ConsistencyStrong:
		return concerns{read: readconcern.Linearizable(), write: writeconcern.Majority(), readPref: readpref.Primary()}, nil
	case storagemodels.ConsistencyBoundedStaleness:
		return concerns{read: readconcern.Majority(), readPref: readpref.Primary()}, nil
	case storagemodels.ConsistencySession:
		return concerns{read: readconcern.Majority(), write: writeconcern.Majority(), readPref: readpref.Primary()}, nil
	case storagemodels.ConsistencyEventual:
		return concerns{read: readconcern.Available(), readPref: readpref.SecondaryPreferred()}, nil
	case storagemodels.ConsistencyConsistentPrefix:
		return concerns{read: readconcern.Local(), readPref: readpref.PrimaryPreferred()}, nil
	default:
		return concerns{}, docerrors.NewPolicyError("consistencyLevel", int(level))
	}
}

// mapIndexing reports whether a wildcard index over the payload is built.
func mapIndexing(mode storagemodels.IndexingMode) (bool, error) {
	switch mode {
	case storagemodels.IndexingConsistent, storagemodels.IndexingLazy:
		return true, nil
	case storagemodels.IndexingNone:
		return false, nil
	default:
		return false, docerrors.NewPolicyError("indexingMode", int(mode))
	}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
