package funnel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/sellwise/funnel/internal/runtime"
	yamladapter "github.com/sellwise/funnel/pkg/adapters/yaml"
	"github.com/sellwise/funnel/pkg/domain"
	"github.com/sellwise/funnel/pkg/ports"
)

// Engine is the high-level entry point for the funnel library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	mu      sync.RWMutex
	runtime *runtime.Engine

	loader      ports.FlowLoader
	flowID      string
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	flow        *domain.Flow
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom FlowLoader, bypassing the default YAML loader.
func WithLoader(l ports.FlowLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithFlow binds the engine to an in-memory flow, skipping loaders entirely.
// Useful with the dsl package.
func WithFlow(flow *domain.Flow) Option {
	return func(e *Engine) {
		e.flow = flow
	}
}

// WithFlowID selects which flow to run when the loader holds several.
func WithFlowID(id string) Option {
	return func(e *Engine) {
		e.flowID = id
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDisplayPolicy overrides how selections echo into the transcript.
func WithDisplayPolicy(policy domain.DisplayPolicy) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithDisplayPolicy(policy))
	}
}

// WithDebounceWindow overrides the duplicate-input suppression window.
func WithDebounceWindow(window time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithDebounceWindow(window))
	}
}

// New initializes a new funnel Engine.
// By default it reads flow definitions from the YAML file or directory at
// path. WithLoader or WithFlow replace that default; path may then be empty.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.flow == nil && eng.loader == nil {
		if path == "" {
			return nil, fmt.Errorf("path is required when no custom loader or flow is provided")
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		loader, err := yamladapter.NewLoader(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize yaml loader: %w", err)
		}
		eng.loader = loader
		eng.Name = filepath.Base(absPath)
	} else if path != "" {
		eng.Name = filepath.Base(path)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("funnel", eng.Name)
	}

	if err := eng.reload(); err != nil {
		return nil, err
	}
	return eng, nil
}

// reload resolves the current flow from the loader and rebuilds the runtime.
func (e *Engine) reload() error {
	flow := e.flow
	if flow == nil {
		var err error
		flow, err = e.resolveFlow()
		if err != nil {
			return err
		}
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	}
	runtimeOpts = append(runtimeOpts, e.runtimeOpts...)

	e.mu.Lock()
	e.runtime = runtime.NewEngine(flow, runtimeOpts...)
	e.mu.Unlock()
	return nil
}

func (e *Engine) resolveFlow() (*domain.Flow, error) {
	if e.flowID != "" {
		return e.loader.GetFlow(e.flowID)
	}

	ids, err := e.loader.ListFlows()
	if err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("loader holds no flows")
	case 1:
		return e.loader.GetFlow(ids[0])
	default:
		return nil, fmt.Errorf("loader holds %d flows; select one with WithFlowID", len(ids))
	}
}

func (e *Engine) current() *runtime.Engine {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.runtime
}

// Start creates a fresh conversation positioned at the entry block.
func (e *Engine) Start(ctx context.Context) *domain.Conversation {
	return e.current().Start(ctx)
}

// Resume revalidates a stored snapshot against the current flow.
func (e *Engine) Resume(ctx context.Context, conv *domain.Conversation) *domain.Conversation {
	return e.current().Resume(ctx, conv)
}

// SelectOption advances the conversation along the chosen option.
func (e *Engine) SelectOption(ctx context.Context, conv *domain.Conversation, option domain.Option, index int) *domain.Conversation {
	return e.current().SelectOption(ctx, conv, option, index)
}

// SubmitText matches free text against the current options and advances on
// a hit, or records a guidance exchange on a miss.
func (e *Engine) SubmitText(ctx context.Context, conv *domain.Conversation, input string) *domain.Conversation {
	return e.current().SubmitText(ctx, conv, input)
}

// ActivateTimer arms the deferred bought/didn't-buy decision on an offer block.
func (e *Engine) ActivateTimer(conv *domain.Conversation, blockID string) (*domain.Conversation, error) {
	return e.current().ActivateTimer(conv, blockID)
}

// ResolveTimer settles a pending offer timer and follows the matching branch.
func (e *Engine) ResolveTimer(ctx context.Context, conv *domain.Conversation, outcome domain.TimerOutcome) (*domain.Conversation, error) {
	return e.current().ResolveTimer(ctx, conv, outcome)
}

// Options returns the choices currently presented to the user.
func (e *Engine) Options(conv *domain.Conversation) []domain.Option {
	return e.current().Options(conv)
}

// OptionsLeadingToOffer returns the indices of current options from which
// the given offer block is reachable.
func (e *Engine) OptionsLeadingToOffer(conv *domain.Conversation, offerID string) []int {
	return e.current().OptionsLeadingToOffer(conv, offerID)
}

// Inspect returns the full flow definition for visualization or
// introspection tools.
func (e *Engine) Inspect() (*domain.Flow, error) {
	return e.current().Inspect()
}

// Watch returns a channel that signals after the underlying flow changed and
// the engine reloaded it. Returns an error if the loader does not support
// watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if e.loader == nil {
		return nil, fmt.Errorf("engine is bound to a static flow; nothing to watch")
	}
	w, ok := e.loader.(ports.Watchable)
	if !ok {
		return nil, fmt.Errorf("current loader does not support watching")
	}

	source, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, open := <-source:
				if !open {
					return
				}
				if err := e.reload(); err != nil {
					e.logger.Error("flow reload failed", "err", err)
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

// Loader returns the underlying FlowLoader used by the engine, or nil when
// the engine was built with WithFlow.
func (e *Engine) Loader() ports.FlowLoader {
	return e.loader
}
