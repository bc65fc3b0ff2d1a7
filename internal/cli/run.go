package cli

import (
	"context"
	"crypto/md5"
	"fmt"
	"os"

	"github.com/sellwise/funnel"
	"github.com/sellwise/funnel/internal/presentation/tui"
	"github.com/sellwise/funnel/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Path      string
	FlowID    string
	Headless  bool
	Watch     bool
	Debug     bool
	SessionID string
	Fresh     bool
	RedisURL  string
}

// Execute handles the run command logic.
func Execute(opts RunOptions) error {
	if opts.Watch && opts.Headless {
		return fmt.Errorf("--watch and --headless cannot be used together")
	}

	// Watch mode keeps progress across reloads by defaulting to a session
	// scoped by path hash, so two projects never collide.
	if opts.Watch && opts.SessionID == "" {
		hash := md5.Sum([]byte(opts.Path))
		opts.SessionID = fmt.Sprintf("watch-%x", hash[:4])
	}

	return runSession(opts)
}

// CreateEngine initializes a funnel engine with standard CLI conventions.
func CreateEngine(opts RunOptions) (*funnel.Engine, error) {
	logger := createLogger(opts.Debug)

	engineOpts := []funnel.Option{
		funnel.WithLogger(logger),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, funnel.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if opts.FlowID != "" {
		engineOpts = append(engineOpts, funnel.WithFlowID(opts.FlowID))
	}

	engine, err := funnel.New(opts.Path, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

func runSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	if !opts.Headless {
		tui.PrintBanner()
	}

	engine, err := CreateEngine(opts)
	if err != nil {
		return err
	}

	ctx, cancel := newSignalContext(context.Background())
	defer cancel()

	// The engine reloads in place on flow changes, so watch mode only needs
	// a goroutine announcing reloads.
	if opts.Watch {
		watchCh, err := engine.Watch(ctx)
		if err != nil {
			return fmt.Errorf("watch unavailable: %w", err)
		}
		go func() {
			for range watchCh {
				fmt.Printf("\n")
				printSystemMessage("Flow reloaded.")
			}
		}()
	}

	runner := funnel.NewRunner()
	runner.Input = os.Stdin
	runner.Output = os.Stdout
	runner.Headless = opts.Headless
	if !opts.Headless {
		runner.Renderer = tui.NewRenderer()
	}

	// Persistence: hydrate the session and save after every turn.
	if opts.SessionID != "" {
		manager, err := SetupPersistence(opts.RedisURL, logger)
		if err != nil {
			return fmt.Errorf("persistence setup: %w", err)
		}
		if opts.Fresh {
			ResetSession(ctx, manager, opts.SessionID)
		}

		conv, err := manager.LoadOrStart(ctx, opts.SessionID, engine.Start)
		if err != nil {
			return fmt.Errorf("failed to init session: %w", err)
		}
		if !conv.Terminal() && len(conv.History) > 0 {
			printSystemMessage("Resuming at '%s' block.", conv.CurrentBlockID)
		}

		runner.Resume = conv
		runner.OnAdvance = func(c *domain.Conversation) error {
			return manager.Save(ctx, opts.SessionID, c)
		}
	}

	runErr := runner.Run(engine)
	if ctx.Err() != nil && runErr == nil {
		runErr = ctx.Err()
	}
	return handleExecutionError(runErr)
}
