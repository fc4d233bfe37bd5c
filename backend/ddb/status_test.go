/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/suparena/docstore/backend"
	docerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		conditional backend.Status
		want        int
	}{
		{"not found", &types.ResourceNotFoundException{}, backend.StatusConflict, 404},
		{"condition on create", &types.ConditionalCheckFailedException{}, backend.StatusConflict, 409},
		{"condition on replace", &types.ConditionalCheckFailedException{}, backend.StatusNotFound, 404},
		{"in use", &types.ResourceInUseException{}, backend.StatusConflict, 409},
		{"throughput", &types.ProvisionedThroughputExceededException{}, backend.StatusConflict, 429},
		{"request limit", &types.RequestLimitExceeded{}, backend.StatusConflict, 429},
		{"internal", &types.InternalServerError{}, backend.StatusConflict, 500},
		{"throttling", &smithy.GenericAPIError{Code: "ThrottlingException"}, backend.StatusConflict, 429},
		{"validation", &smithy.GenericAPIError{Code: "ValidationException", Fault: smithy.FaultClient}, backend.StatusConflict, 400},
		{"server fault", &smithy.GenericAPIError{Code: "ServiceUnavailable", Fault: smithy.FaultServer}, backend.StatusConflict, 500},
		{"wrapped", fmt.Errorf("operation error: %w", &types.ResourceNotFoundException{}), backend.StatusConflict, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := statusOf(tt.err, tt.conditional)
			if err != nil {
				t.Fatalf("unexpected transport error %v", err)
			}
			if st.Code != tt.want {
				t.Errorf("got %d, want %d", st.Code, tt.want)
			}
		})
	}
}

func TestStatusOfTransport(t *testing.T) {
	cause := fmt.Errorf("dial tcp: %w", context.DeadlineExceeded)
	st, err := statusOf(cause, backend.StatusConflict)
	if !errors.Is(err, context.DeadlineExceeded) || st.Code != 0 {
		t.Fatalf("expected transport error, got (%v, %v)", st, err)
	}
}

func TestErrorOf(t *testing.T) {
	err := errorOf("query", "db/coll", &types.ResourceNotFoundException{})
	if !docerrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	err = errorOf("query", "db/coll", &smithy.GenericAPIError{Code: "ValidationException"})
	if !docerrors.IsBackendFailure(err) {
		t.Fatalf("expected backend failure, got %v", err)
	}
}

func TestPolicyMappingTotality(t *testing.T) {
	for _, level := range storagemodels.ConsistencyLevels {
		strong, err := mapConsistency(level)
		if err != nil {
			t.Fatalf("level %s: %v", level, err)
		}
		if strong != (level == storagemodels.ConsistencyStrong) {
			t.Errorf("level %s: consistentRead=%v", level, strong)
		}
	}
	if _, err := mapConsistency(storagemodels.ConsistencyLevel(99)); !docerrors.IsUnsupportedPolicyValue(err) {
		t.Errorf("expected unsupported policy value, got %v", err)
	}

	want := map[storagemodels.IndexingMode]string{
		storagemodels.IndexingConsistent: "CONSISTENT",
		storagemodels.IndexingLazy:       "LAZY",
		storagemodels.IndexingNone:       "NONE",
	}
	for _, mode := range storagemodels.IndexingModes {
		got, err := mapIndexing(mode)
		if err != nil || got != want[mode] {
			t.Errorf("mode %s: got (%q, %v)", mode, got, err)
		}
	}
	if _, err := mapIndexing(storagemodels.IndexingMode(-1)); !docerrors.IsUnsupportedPolicyValue(err) {
		t.Errorf("expected unsupported policy value, got %v", err)
	}
}
