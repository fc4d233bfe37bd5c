/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"maps"

	"github.com/rs/zerolog"

	"github.com/suparena/docstore/storagemodels"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The client logs under component "docstore".
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With().Str("component", "docstore").Logger()
		c.driverLogger = logger
	}
}

// WithSerializer replaces the JSON serializer used for envelopes.
func WithSerializer(s Serializer) Option {
	return func(c *Client) {
		if s != nil {
			c.serializer = s
		}
	}
}

// WithPageOptions sets page options applied to every query before the
// per-call options.
func WithPageOptions(opts ...storagemodels.PageOption) Option {
	return func(c *Client) {
		c.pageOptions = append(c.pageOptions, opts...)
	}
}

// WithDriverSettings passes driver-specific settings to Open, such as
// "region" or "tablePrefix" for DynamoDB.
func WithDriverSettings(settings map[string]string) Option {
	return func(c *Client) {
		if c.driverSettings == nil {
			c.driverSettings = make(map[string]string, len(settings))
		}
		maps.Copy(c.driverSettings, settings)
	}
}
