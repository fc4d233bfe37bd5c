/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/registry"
)

// DefaultConnectTimeout bounds the initial connection and ping.
const DefaultConnectTimeout = 10 * time.Second

func init() {
	registry.RegisterDriver(connect, "mongodb", "mongodb+srv")
}

// connect serves standard MongoDB connection strings. The credential is
// "user:password" or empty.
func connect(ctx context.Context, params registry.ConnectParams) (backend.Backend, error) {
	timeout, err := cast.ToDurationE(params.Setting("connectTimeout", DefaultConnectTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("docstore/mongo: connect: invalid connectTimeout: %w", err)
	}

	opts := options.Client().
		ApplyURI(params.Endpoint.String()).
		SetConnectTimeout(timeout).
		SetAppName(params.Setting("appName", "docstore"))
	if params.Credential != "" {
		user, password, ok := strings.Cut(params.Credential, ":")
		if !ok || user == "" {
			return nil, fmt.Errorf("docstore/mongo: connect: credential must have the form USER:PASSWORD")
		}
		opts.SetAuth(options.Credential{Username: user, Password: password})
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("docstore/mongo: connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("docstore/mongo: connect: ping: %w", err)
	}

	logger := params.Logger.With().Str("component", "mongo").Str("host", params.Endpoint.Host).Logger()
	logger.Debug().Str("endpoint", params.Endpoint.Redacted()).Msg("MongoDB client initialized")
	return New(client, logger), nil
}
