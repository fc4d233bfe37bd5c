/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cast"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/registry"
)

// DefaultRegion is used when neither the endpoint nor the settings name one.
const DefaultRegion = "us-east-1"

func init() {
	registry.RegisterDriver(connect, "dynamodb", "http", "https")
}

// NewDynamoDBClient initializes a DynamoDB client. An empty baseEndpoint
// targets AWS; otherwise requests go to the given emulator URL. Empty keys
// fall back to the default credential chain. Throttled and transient calls
// are retried by the SDK up to maxAttempts times; zero keeps the SDK default.
func NewDynamoDBClient(ctx context.Context, accessKey, secretKey, region, baseEndpoint string, maxAttempts int) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if maxAttempts > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(maxAttempts))
	}
	if accessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
		}
	}), nil
}

// connect serves dynamodb://<region> for AWS and http(s)://host:port for
// DynamoDB Local. The credential is "ACCESS:SECRET" or empty.
func connect(ctx context.Context, params registry.ConnectParams) (backend.Backend, error) {
	region := params.Setting("region", DefaultRegion)
	var baseEndpoint string
	if params.Endpoint.Scheme == "dynamodb" {
		if params.Endpoint.Host != "" {
			region = params.Endpoint.Host
		}
	} else {
		baseEndpoint = params.Endpoint.Scheme + "://" + params.Endpoint.Host
	}

	var accessKey, secretKey string
	if params.Credential != "" {
		var ok bool
		accessKey, secretKey, ok = strings.Cut(params.Credential, ":")
		if !ok || accessKey == "" || secretKey == "" {
			return nil, fmt.Errorf("docstore/ddb: connect: credential must have the form ACCESS:SECRET")
		}
	}

	waitTimeout, err := cast.ToDurationE(params.Setting("tableWaitTimeout", DefaultWaitTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("docstore/ddb: connect: invalid tableWaitTimeout: %w", err)
	}

	maxAttempts, err := cast.ToIntE(params.Setting("maxRetryAttempts", "0"))
	if err != nil || maxAttempts < 0 {
		return nil, fmt.Errorf("docstore/ddb: connect: invalid maxRetryAttempts %q", params.Setting("maxRetryAttempts", ""))
	}

	client, err := NewDynamoDBClient(ctx, accessKey, secretKey, region, baseEndpoint, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("docstore/ddb: connect: %w", err)
	}
	if _, err := client.ListTables(ctx, &sdk.ListTablesInput{Limit: aws.Int32(1)}); err != nil {
		return nil, fmt.Errorf("docstore/ddb: connect: %w", err)
	}

	logger := params.Logger.With().Str("component", "ddb").Str("region", region).Logger()
	logger.Debug().Str("endpoint", params.Endpoint.Redacted()).Msg("DynamoDB client initialized")

	return New(client, Config{
		TablePrefix: params.Setting("tablePrefix", ""),
		WaitTimeout: waitTimeout,
		Logger:      logger,
	}), nil
}
