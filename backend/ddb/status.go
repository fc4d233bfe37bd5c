/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/suparena/docstore/backend"
	docerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// statusOf maps a DynamoDB API error to a protocol status. conditional is the
// status reported for a failed condition check. Errors that are not API
// errors (network, cancellation) are returned unchanged as transport errors.
func statusOf(err error, conditional backend.Status) (backend.Status, error) {
	var (
		notFound    *types.ResourceNotFoundException
		conditionKO *types.ConditionalCheckFailedException
		inUse       *types.ResourceInUseException
		throughput  *types.ProvisionedThroughputExceededException
		limit       *types.RequestLimitExceeded
		internal    *types.InternalServerError
		apiErr      smithy.APIError
	)
	switch {
	case errors.As(err, &notFound):
		return backend.StatusNotFound, nil
	case errors.As(err, &conditionKO):
		return conditional, nil
	case errors.As(err, &inUse):
		return backend.StatusConflict, nil
	case errors.As(err, &throughput), errors.As(err, &limit):
		return backend.StatusThrottled, nil
	case errors.As(err, &internal):
		return backend.StatusInternal, nil
	case errors.As(err, &apiErr):
		if apiErr.ErrorCode() == "ThrottlingException" {
			return backend.StatusThrottled, nil
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return backend.StatusInternal, nil
		}
		return backend.StatusBadRequest, nil
	default:
		return backend.Status{}, err
	}
}

// errorOf is statusOf for calls that report protocol failures as errors.
func errorOf(op, resource string, err error) error {
	st, transportErr := statusOf(err, backend.StatusConflict)
	if transportErr != nil {
		return transportErr
	}
	return &docerrors.StatusError{Op: op, Resource: resource, Code: st.Code, Err: err}
}

// mapConsistency returns whether reads at level must be strongly consistent.
func mapConsistency(level storagemodels.ConsistencyLevel) (bool, error) {
	switch level {
	case storagemodels.ConsistencyStrong:
		return true, nil
	case storagemodels.ConsistencyBoundedStaleness,
		storagemodels.ConsistencySession,
		storagemodels.ConsistencyEventual,
		storagemodels.ConsistencyConsistentPrefix:
		return false, nil
	default:
		return false, docerrors.NewPolicyError("consistencyLevel", int(level))
	}
}

// mapIndexing returns the catalog name of an indexing mode.
func mapIndexing(mode storagemodels.IndexingMode) (string, error) {
	switch mode {
	case storagemodels.IndexingConsistent:
		return "CONSISTENT", nil
	case storagemodels.IndexingLazy:
		return "LAZY", nil
	case storagemodels.IndexingNone:
		return "NONE", nil
	default:
		return "", docerrors.NewPolicyError("indexingMode", int(mode))
	}
}
