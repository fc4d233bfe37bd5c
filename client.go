/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/registry"
	"github.com/suparena/docstore/storagemodels"
)

type containerKey struct {
	database   string
	collection string
}

// Client is one handle per backend connection. It is safe for concurrent use;
// the container cache is its only shared state.
type Client struct {
	backend      backend.Backend
	endpoint     string
	logger       zerolog.Logger
	driverLogger zerolog.Logger
	serializer   Serializer
	validate     *validator.Validate

	pageOptions    []storagemodels.PageOption
	driverSettings map[string]string

	mu         sync.RWMutex
	containers map[containerKey]backend.Container
	closed     bool
}

func newClient(opts ...Option) *Client {
	c := &Client{
		logger:       zerolog.Nop(),
		driverLogger: zerolog.Nop(),
		serializer:   JSONSerializer{},
		validate:     validator.New(),
		containers:   make(map[containerKey]backend.Container),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClient wraps an already connected backend.
func NewClient(b backend.Backend, opts ...Option) *Client {
	c := newClient(opts...)
	c.backend = b
	c.endpoint = "backend"
	return c
}

// Open connects to endpoint with the driver registered for its scheme. A
// malformed endpoint, an unknown scheme or a driver failure is reported as a
// ConnectionError.
func Open(ctx context.Context, endpoint, credential string, opts ...Option) (*Client, error) {
	c := newClient(opts...)
	c.endpoint = endpoint

	if !strfmt.Default.Validates("uri", endpoint) {
		return nil, errors.NewConnectionError(endpoint, fmt.Errorf("endpoint is not a valid URI"))
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.NewConnectionError(endpoint, err)
	}
	c.endpoint = u.Redacted()
	if u.Scheme == "" {
		return nil, errors.NewConnectionError(c.endpoint, fmt.Errorf("endpoint has no scheme"))
	}

	connect, err := registry.GetConnector(strings.ToLower(u.Scheme))
	if err != nil {
		return nil, errors.NewConnectionError(c.endpoint, err)
	}
	b, err := connect(ctx, registry.ConnectParams{
		Endpoint:   u,
		Credential: credential,
		Settings:   c.driverSettings,
		Logger:     c.driverLogger,
	})
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", c.endpoint).Msg("failed to open backend")
		return nil, errors.NewConnectionError(c.endpoint, err)
	}
	c.backend = b
	c.logger.Info().Str("endpoint", c.endpoint).Msg("opened backend")
	return c, nil
}

// OpenWithConfig opens a client from a loaded Config. Options are applied
// after the ones derived from the config.
func OpenWithConfig(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	return Open(ctx, cfg.Endpoint, cfg.Credential, append(cfg.Options(), opts...)...)
}

// Backend returns the underlying backend.
func (c *Client) Backend() backend.Backend {
	return c.backend
}

// ResolveContainer returns the cached handle for the pair, resolving and
// caching it on a miss. Concurrent misses may both resolve; the last one wins.
func (c *Client) ResolveContainer(ctx context.Context, databaseID, collectionID string) (backend.Container, error) {
	if err := c.ensureOpen(); err != nil {
		return nil, err
	}
	key := containerKey{database: databaseID, collection: collectionID}

	c.mu.RLock()
	container, ok := c.containers[key]
	c.mu.RUnlock()
	if ok {
		return container, nil
	}

	container, err := c.backend.ResolveContainer(ctx, databaseID, collectionID)
	if err != nil {
		return nil, errors.FromTransport("resolve container", databaseID+"/"+collectionID, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.NewConnectionError(c.endpoint, fmt.Errorf("client closed while resolving %s/%s", databaseID, collectionID))
	}
	c.containers[key] = container
	c.mu.Unlock()
	c.logger.Debug().Str("database", databaseID).Str("collection", collectionID).Msg("cached container")
	return container, nil
}

// Close releases the backend. It is idempotent; operations on a closed
// client fail with a ConnectionError.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	clear(c.containers)
	c.mu.Unlock()

	if err := c.backend.Close(); err != nil {
		c.logger.Warn().Err(err).Str("endpoint", c.endpoint).Msg("failed to close backend")
		return errors.NewConnectionError(c.endpoint, err)
	}
	c.logger.Debug().Str("endpoint", c.endpoint).Msg("closed backend")
	return nil
}

func (c *Client) ensureOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.NewConnectionError(c.endpoint, fmt.Errorf("client is closed"))
	}
	return nil
}

func (c *Client) forgetContainer(databaseID, collectionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.containers, containerKey{database: databaseID, collection: collectionID})
}

func (c *Client) forgetDatabase(databaseID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.containers {
		if key.database == databaseID {
			delete(c.containers, key)
		}
	}
}

// cachedContainers reports how many handles are cached.
func (c *Client) cachedContainers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.containers)
}
