/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/suparena/docstore/backend"
)

// ConnectParams carries everything a driver needs to open a backend.
type ConnectParams struct {
	Endpoint   *url.URL
	Credential string
	Settings   map[string]string
	Logger     zerolog.Logger
}

// Setting returns the named driver setting or def when it is unset.
func (p ConnectParams) Setting(name, def string) string {
	if v, ok := p.Settings[name]; ok && v != "" {
		return v
	}
	return def
}

// Connector opens a backend for an endpoint whose scheme it was registered under.
type Connector func(ctx context.Context, params ConnectParams) (backend.Backend, error)

var (
	drivers  = make(map[string]Connector)
	driverMu sync.RWMutex
)

// RegisterDriver associates one or more URL schemes with a connector.
// Registering a scheme twice panics to prevent accidental overrides.
func RegisterDriver(connector Connector, schemes ...string) {
	if connector == nil {
		panic("driver registry: nil connector")
	}

	driverMu.Lock()
	defer driverMu.Unlock()
	for _, scheme := range schemes {
		scheme = strings.ToLower(scheme)
		if _, exists := drivers[scheme]; exists {
			panic(fmt.Sprintf("driver registry: scheme %q already registered", scheme))
		}
		drivers[scheme] = connector
	}
}

// GetConnector returns the connector registered for scheme.
func GetConnector(scheme string) (Connector, error) {
	driverMu.RLock()
	defer driverMu.RUnlock()
	c, ok := drivers[strings.ToLower(scheme)]
	if !ok {
		return nil, fmt.Errorf("driver registry: no driver registered for scheme %q", scheme)
	}
	return c, nil
}

// Schemes lists the registered schemes in lexical order.
func Schemes() []string {
	driverMu.RLock()
	defer driverMu.RUnlock()
	out := make([]string, 0, len(drivers))
	for s := range drivers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
