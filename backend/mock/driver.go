/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cast"

	"github.com/suparena/docstore/backend"
	"github.com/suparena/docstore/registry"
)

// Scheme is the endpoint scheme served by this package, e.g. "mock://local".
const Scheme = "mock"

var (
	instances   = make(map[string]*Backend)
	instancesMu sync.Mutex
)

func init() {
	registry.RegisterDriver(connect, Scheme)
}

// connect returns a handle on the named in-memory instance, creating it on
// first use so that every client opened on the same host shares one store.
// Closing a handle leaves the store intact for later connections.
func connect(_ context.Context, params registry.ConnectParams) (backend.Backend, error) {
	name := params.Endpoint.Host

	instancesMu.Lock()
	defer instancesMu.Unlock()
	if b, ok := instances[name]; ok {
		return handle{b}, nil
	}

	b := New()
	if raw := params.Setting("pageSize", ""); raw != "" {
		size, err := cast.ToIntE(raw)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("docstore/mock: connect: invalid pageSize %q", raw)
		}
		b.WithPageSize(size)
	}
	instances[name] = b
	return handle{b}, nil
}

// handle is a connection to a shared instance.
type handle struct {
	*Backend
}

func (handle) Close() error { return nil }
