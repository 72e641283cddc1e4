package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("storage: object store not configured")

// ObjectStore holds photo bytes. URL returns a short-lived link the
// browser can load directly.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// PhotoKey is a fresh object key for a service photo.
func PhotoKey(serviceID uint) string {
	return fmt.Sprintf("services/%d/%s.webp", serviceID, uuid.NewString())
}

// Disabled is used when no bucket is configured.
type Disabled struct{}

func (Disabled) Put(context.Context, string, string, []byte) error { return ErrNotConfigured }
func (Disabled) Delete(context.Context, string) error              { return ErrNotConfigured }
func (Disabled) URL(context.Context, string) (string, error)       { return "", ErrNotConfigured }
