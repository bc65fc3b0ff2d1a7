package ports

import (
	"context"

	"github.com/sellwise/funnel/pkg/domain"
)

// FlowLoader defines how the engine retrieves funnel definitions.
// This allows the storage layer (YAML files, Memory) to be decoupled.
type FlowLoader interface {
	// GetFlow retrieves a flow definition by id.
	GetFlow(id string) (*domain.Flow, error)

	// ListFlows returns the ids of all flows available to this loader.
	// Used for introspection and the 'funnel graph' tool.
	ListFlows() ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend
// changes. This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying flow
	// definitions change. It abstracts away the specific event details,
	// signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
