// Package memory provides in-memory implementations of the flow loader and
// conversation store ports. Useful for tests and embedded single-process
// hosts.
package memory

import (
	"fmt"
	"sort"

	"github.com/sellwise/funnel/pkg/domain"
)

// Loader implements ports.FlowLoader using an in-memory map.
type Loader struct {
	flows map[string]*domain.Flow
}

// NewLoader creates a Loader from domain objects keyed by flow id.
func NewLoader(flows map[string]*domain.Flow) *Loader {
	data := make(map[string]*domain.Flow, len(flows))
	for id, f := range flows {
		data[id] = f
	}
	return &Loader{flows: data}
}

// NewFromFlow creates a single-flow Loader, the common case for embedded
// use where the flow was built in code.
func NewFromFlow(id string, flow *domain.Flow) (*Loader, error) {
	if id == "" {
		return nil, fmt.Errorf("flow missing id")
	}
	if flow == nil {
		return nil, fmt.Errorf("flow %s is nil", id)
	}
	return &Loader{flows: map[string]*domain.Flow{id: flow}}, nil
}

// GetFlow retrieves a flow definition by id.
func (l *Loader) GetFlow(id string) (*domain.Flow, error) {
	flow, ok := l.flows[id]
	if !ok {
		return nil, fmt.Errorf("flow not found: %s", id)
	}
	return flow, nil
}

// ListFlows returns all available flow ids.
func (l *Loader) ListFlows() ([]string, error) {
	ids := make([]string, 0, len(l.flows))
	for id := range l.flows {
		ids = append(ids, id)
	}
	sort.Strings(ids) // Deterministic order
	return ids, nil
}
