/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	stderrors "errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// ProvisioningRequest describes a database and, optionally, one collection in it.
type ProvisioningRequest struct {
	DatabaseID       string                         `validate:"required"`
	CollectionID     string                         `validate:"required_with=PartitionKeyPath Throughput"`
	PartitionKeyPath string                         `validate:"omitempty,startswith=/"`
	Throughput       *int32                         `validate:"omitempty,gt=0,excluded_with=SharedThroughput"`
	SharedThroughput *int32                         `validate:"omitempty,gt=0"`
	Consistency      storagemodels.ConsistencyLevel `validate:"gte=0,lte=4"`
	Indexing         storagemodels.IndexingMode     `validate:"gte=0,lte=2"`
}

// CreateDatabaseIfAbsent creates the database unless it exists. It returns
// true when the database exists after the call.
func (c *Client) CreateDatabaseIfAbsent(ctx context.Context, databaseID string, sharedThroughput *int32, level storagemodels.ConsistencyLevel) (bool, error) {
	if err := c.ensureOpen(); err != nil {
		return false, err
	}
	if databaseID == "" {
		return false, errors.NewValidationError("databaseID", "must not be empty")
	}
	if err := level.Validate(); err != nil {
		return false, err
	}

	st, err := c.backend.EnsureDatabase(ctx, storagemodels.DatabaseSpec{
		ID:          databaseID,
		Throughput:  storagemodels.ThroughputOptions{SharedThroughput: sharedThroughput},
		Consistency: level,
	})
	if err != nil {
		return false, errors.FromTransport("create database", databaseID, err)
	}
	return c.provisioned("create database", databaseID, "", st)
}

// CreateCollectionIfAbsent creates the collection with the default indexing
// policy for mode unless it exists. A missing database yields false.
func (c *Client) CreateCollectionIfAbsent(ctx context.Context, databaseID, collectionID, partitionKeyPath string, level storagemodels.ConsistencyLevel, mode storagemodels.IndexingMode) (bool, error) {
	return c.createCollection(ctx, databaseID, collectionID, partitionKeyPath, nil, level, mode)
}

func (c *Client) createCollection(ctx context.Context, databaseID, collectionID, partitionKeyPath string, throughput *int32, level storagemodels.ConsistencyLevel, mode storagemodels.IndexingMode) (bool, error) {
	if err := c.ensureOpen(); err != nil {
		return false, err
	}
	if databaseID == "" || collectionID == "" {
		return false, errors.NewValidationError("collectionID", "database and collection IDs must not be empty")
	}
	if err := level.Validate(); err != nil {
		return false, err
	}
	policy, err := storagemodels.DefaultIndexingPolicy(mode)
	if err != nil {
		return false, err
	}

	st, err := c.backend.EnsureCollection(ctx, storagemodels.CollectionSpec{
		DatabaseID:       databaseID,
		ID:               collectionID,
		PartitionKeyPath: partitionKeyPath,
		Throughput:       throughput,
		Consistency:      level,
		Indexing:         policy,
	})
	if err != nil {
		return false, errors.FromTransport("create collection", databaseID+"/"+collectionID, err)
	}
	return c.provisioned("create collection", databaseID, collectionID, st)
}

// DeleteDatabaseIfPresent deletes the database if the backend lists it. An
// absent database is a success without a delete call.
func (c *Client) DeleteDatabaseIfPresent(ctx context.Context, databaseID string) (bool, error) {
	if err := c.ensureOpen(); err != nil {
		return false, err
	}
	databases, err := c.backend.ListDatabases(ctx)
	if err != nil {
		return false, errors.FromTransport("list databases", databaseID, err)
	}
	if !lo.ContainsBy(databases, func(d storagemodels.DatabaseDescriptor) bool { return d.ID == databaseID }) {
		c.logger.Debug().Str("database", databaseID).Msg("database absent, nothing to delete")
		return true, nil
	}

	st, err := c.backend.DeleteDatabase(ctx, databaseID)
	if err != nil {
		return false, errors.FromTransport("delete database", databaseID, err)
	}
	c.forgetDatabase(databaseID)
	return c.deleted("delete database", databaseID, "", st)
}

// DeleteCollectionIfPresent deletes the collection if its database and the
// collection are listed, and drops the cached container either way.
func (c *Client) DeleteCollectionIfPresent(ctx context.Context, databaseID, collectionID string) (bool, error) {
	if err := c.ensureOpen(); err != nil {
		return false, err
	}
	defer c.forgetContainer(databaseID, collectionID)
	resource := databaseID + "/" + collectionID

	databases, err := c.backend.ListDatabases(ctx)
	if err != nil {
		return false, errors.FromTransport("list databases", databaseID, err)
	}
	if !lo.ContainsBy(databases, func(d storagemodels.DatabaseDescriptor) bool { return d.ID == databaseID }) {
		c.logger.Debug().Str("database", databaseID).Msg("database absent, nothing to delete")
		return true, nil
	}

	collections, err := c.backend.ListCollections(ctx, databaseID)
	if err != nil {
		err = errors.FromTransport("list collections", databaseID, err)
		if errors.IsNotFound(err) {
			c.logger.Warn().Str("database", databaseID).Msg("database disappeared while listing collections")
			return true, nil
		}
		return false, err
	}
	if !lo.ContainsBy(collections, func(d storagemodels.CollectionDescriptor) bool { return d.ID == collectionID }) {
		c.logger.Debug().Str("collection", resource).Msg("collection absent, nothing to delete")
		return true, nil
	}

	st, err := c.backend.DeleteCollection(ctx, databaseID, collectionID)
	if err != nil {
		return false, errors.FromTransport("delete collection", resource, err)
	}
	return c.deleted("delete collection", databaseID, collectionID, st)
}

// Provision validates req, then creates the database and, when
// CollectionID is set, the collection.
func (c *Client) Provision(ctx context.Context, req ProvisioningRequest) (bool, error) {
	if err := c.validate.Struct(req); err != nil {
		return false, validationError(err)
	}
	ok, err := c.CreateDatabaseIfAbsent(ctx, req.DatabaseID, req.SharedThroughput, req.Consistency)
	if err != nil || !ok || req.CollectionID == "" {
		return ok, err
	}
	return c.createCollection(ctx, req.DatabaseID, req.CollectionID, req.PartitionKeyPath, req.Throughput, req.Consistency, req.Indexing)
}

func (c *Client) provisioned(op, databaseID, collectionID string, st backend.Status) (bool, error) {
	resource := databaseID
	if collectionID != "" {
		resource += "/" + collectionID
	}
	switch {
	case st == backend.StatusCreated:
		c.logger.Info().Str("resource", resource).Msg(op + ": created")
		return true, nil
	case st.IsSuccess():
		c.logger.Debug().Str("resource", resource).Int("status", st.Code).Msg(op + ": already exists")
		return true, nil
	case st == backend.StatusNotFound:
		c.logger.Warn().Str("resource", resource).Msg(op + ": parent not found")
		return false, nil
	default:
		c.logger.Error().Str("resource", resource).Int("status", st.Code).Msg(op + " failed")
		return false, errors.NewStatusError(op, resource, st.Code)
	}
}

func (c *Client) deleted(op, databaseID, collectionID string, st backend.Status) (bool, error) {
	resource := databaseID
	if collectionID != "" {
		resource += "/" + collectionID
	}
	switch {
	case st.IsSuccess():
		c.logger.Info().Str("resource", resource).Msg(op + ": deleted")
		return true, nil
	case st == backend.StatusNotFound:
		c.logger.Warn().Str("resource", resource).Msg(op + ": already gone")
		return true, nil
	default:
		c.logger.Error().Str("resource", resource).Int("status", st.Code).Msg(op + " failed")
		return false, errors.NewStatusError(op, resource, st.Code)
	}
}

// validationError converts the first validator failure into a ValidationError.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(fe.Field(), "failed on the '"+fe.Tag()+"' rule")
	}
	return errors.NewValidationError("", err.Error())
}
