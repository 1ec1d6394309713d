// Package adapter defines the generic resource-connection contracts shared by
// the database adapters.
package adapter

import (
	"context"
)

// ResourceConnection represents a generic connection to a resource.
type ResourceConnection interface {
	// Close closes the resource connection.
	Close() error
	// Type returns the type of the resource (e.g., "sqlite", "postgres").
	Type() string
	// Name returns the connection name (e.g., "metadata").
	Name() string
}

// ResourceProvider provides resource connections based on configuration.
type ResourceProvider interface {
	// GetConnection retrieves a resource connection with the specified name.
	GetConnection(name string) (ResourceConnection, error)
	// CloseAll closes all connections managed by this provider.
	CloseAll() error
	// Type returns the type of resource handled by this provider.
	Type() string
}

// ResourceConnectionResolver resolves a usable connection by name.
type ResourceConnectionResolver interface {
	// ResolveConnection returns a valid connection, re-establishing it if necessary.
	ResolveConnection(ctx context.Context, name string) (ResourceConnection, error)
}
