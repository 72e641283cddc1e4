// Package cache holds short-lived JSON snapshots keyed by namespace.
// A miss is never an error: callers recompute and Set.
package cache

import (
	"context"
	"time"
)

// NamespaceDashboard holds every dashboard aggregate. Any service or
// payment write invalidates it.
const NamespaceDashboard = "dashboard"

type Cache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, namespace, key string, dest any) (bool, error)
	// Set stores value for ttl. A ttl of zero or less disables caching.
	Set(ctx context.Context, namespace, key string, value any, ttl time.Duration) error
	// Invalidate drops every key stored under namespace.
	Invalidate(ctx context.Context, namespace string) error
	Ping(ctx context.Context) error
	Close() error
}

type Nop struct{}

func (Nop) Get(context.Context, string, string, any) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, string, any, time.Duration) error { return nil }
func (Nop) Invalidate(context.Context, string) error                      { return nil }
func (Nop) Ping(context.Context) error                                    { return nil }
func (Nop) Close() error                                                  { return nil }

var _ Cache = Nop{}
