package funnel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sellwise/funnel/pkg/domain"
)

// Runner handles the interactive execution loop of a funnel using provided IO.
// This allows for easy testing and integration with different frontends
// (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer

	// Resume, when set, continues an existing conversation instead of
	// starting a fresh one.
	Resume *domain.Conversation

	// OnAdvance is invoked after every state change, letting hosts persist
	// the snapshot. A non-nil return aborts the loop.
	OnAdvance func(*domain.Conversation) error
}

// ContentRenderer is a function that transforms bot content before outputting
// it. This allows for TUI rendering (markdown to ANSI) without coupling the
// core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner. The caller must set Input and Output
// (typically os.Stdin and os.Stdout).
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the conversation loop until termination.
func (r *Runner) Run(engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)
	writer := r.Output

	ctx := context.Background()
	var conv *domain.Conversation
	if r.Resume != nil {
		conv = engine.Resume(ctx, r.Resume)
	} else {
		conv = engine.Start(ctx)
	}
	if err := r.advance(conv); err != nil {
		return err
	}
	printed := 0

	if !r.Headless {
		fmt.Fprintln(writer, "--- Funnel (interactive) ---")
	}

	for {
		printed = r.flush(writer, conv, printed)

		if conv.Terminal() {
			break
		}

		if conv.TimerPending(conv.CurrentBlockID) || r.offerWithoutOptions(engine, conv) {
			next, done, err := r.resolveOffer(ctx, engine, conv, lineReader, writer)
			if err != nil {
				return err
			}
			if done {
				break
			}
			conv = next
			if err := r.advance(conv); err != nil {
				return err
			}
			continue
		}

		options := engine.Options(conv)
		for i, opt := range options {
			fmt.Fprintf(writer, "  %d. %s\n", i+1, opt.Text)
		}

		fmt.Fprint(writer, "> ")
		text, err := lineReader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(text)

		if input == "exit" || input == "quit" {
			fmt.Fprintln(writer, "Bye!")
			break
		}

		conv = engine.SubmitText(ctx, conv, input)
		if err := r.advance(conv); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) advance(conv *domain.Conversation) error {
	if r.OnAdvance == nil {
		return nil
	}
	return r.OnAdvance(conv)
}

// flush prints transcript entries appended since the last turn. User entries
// are skipped; the user just typed them.
func (r *Runner) flush(writer io.Writer, conv *domain.Conversation, printed int) int {
	for _, msg := range conv.History[printed:] {
		switch msg.Type {
		case domain.MessageBot:
			output := msg.Text
			if r.Renderer != nil {
				if rendered, err := r.Renderer(msg.Text); err == nil {
					output = rendered
				}
			}
			fmt.Fprintln(writer, strings.TrimSpace(output))
		case domain.MessageSystem:
			fmt.Fprintf(writer, "[%s]\n", msg.Text)
		}
	}
	return len(conv.History)
}

func (r *Runner) offerWithoutOptions(engine *Engine, conv *domain.Conversation) bool {
	if engine.Options(conv) != nil {
		return false
	}
	flow, err := engine.Inspect()
	if err != nil {
		return false
	}
	block, ok := flow.Block(conv.CurrentBlockID)
	return ok && block.HasTimerTargets()
}

// resolveOffer arms the offer timer if needed and asks for the purchase
// outcome. Returns done=true when the user bails out.
func (r *Runner) resolveOffer(ctx context.Context, engine *Engine, conv *domain.Conversation, lineReader *bufio.Reader, writer io.Writer) (*domain.Conversation, bool, error) {
	if !conv.TimerPending(conv.CurrentBlockID) {
		next, err := engine.ActivateTimer(conv, conv.CurrentBlockID)
		if err != nil {
			return nil, false, fmt.Errorf("activate offer timer: %w", err)
		}
		conv = next
	}

	fmt.Fprint(writer, "offer pending (bought/didnt_buy)> ")
	text, err := lineReader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return conv, true, nil
		}
		return nil, false, fmt.Errorf("input error: %w", err)
	}
	input := strings.TrimSpace(text)
	if input == "exit" || input == "quit" {
		fmt.Fprintln(writer, "Bye!")
		return conv, true, nil
	}

	outcome := domain.TimerOutcome(input)
	if !outcome.Valid() {
		fmt.Fprintln(writer, "please answer 'bought' or 'didnt_buy'")
		return conv, false, nil
	}

	next, err := engine.ResolveTimer(ctx, conv, outcome)
	if err != nil {
		return nil, false, fmt.Errorf("resolve offer timer: %w", err)
	}
	return next, false, nil
}
