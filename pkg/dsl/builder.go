package dsl

import (
	"fmt"

	"github.com/sellwise/funnel/internal/validator"
	"github.com/sellwise/funnel/pkg/domain"
)

// Builder accumulates a flow definition. Methods return the builder for
// chaining; structural errors are collected and reported once by Build.
type Builder struct {
	flow    *domain.Flow
	stage   *domain.Stage
	block   *domain.Block
	problem error
}

// NewFlow creates a new flow builder.
func NewFlow(name string) *Builder {
	return &Builder{
		flow: &domain.Flow{
			Name:   name,
			Blocks: make(map[string]domain.Block),
		},
	}
}

// Stage opens a new stage; subsequent Block calls attach to it. Use
// domain.StageTransition as the name for an auto-advancing stage.
func (b *Builder) Stage(name, cardType string) *Builder {
	b.commitBlock()
	b.flow.Stages = append(b.flow.Stages, domain.Stage{Name: name, CardType: cardType})
	b.stage = &b.flow.Stages[len(b.flow.Stages)-1]
	return b
}

// Block opens a new block in the current stage.
func (b *Builder) Block(id string) *Builder {
	b.commitBlock()
	if id == "" {
		b.fail("block with empty id")
		return b
	}
	if _, exists := b.flow.Blocks[id]; exists {
		b.fail("duplicate block id '%s'", id)
		return b
	}
	b.block = &domain.Block{ID: id}
	if b.stage != nil {
		b.stage.BlockIDs = append(b.stage.BlockIDs, id)
	}
	return b
}

// Message sets the bot text of the current block. It may contain the
// [LINK] placeholder.
func (b *Builder) Message(text string) *Builder {
	if b.current() != nil {
		b.block.Message = text
	}
	return b
}

// Option appends a successor choice. An empty target ends the branch when
// selected.
func (b *Builder) Option(text, target string) *Builder {
	if b.current() != nil {
		b.block.Options = append(b.block.Options, domain.Option{Text: text, NextBlockID: target})
	}
	return b
}

// End appends an option that terminates the conversation when selected.
func (b *Builder) End(text string) *Builder {
	return b.Option(text, "")
}

// Upsell sets the successor taken when the offer timer resolves to bought.
func (b *Builder) Upsell(target string) *Builder {
	if b.current() != nil {
		b.block.UpsellBlockID = target
	}
	return b
}

// Downsell sets the successor taken when the offer timer resolves to
// didn't-buy.
func (b *Builder) Downsell(target string) *Builder {
	if b.current() != nil {
		b.block.DownsellBlockID = target
	}
	return b
}

// Timeout sets the minutes before the host should force the timer decision.
func (b *Builder) Timeout(minutes int) *Builder {
	if b.current() != nil {
		b.block.TimeoutMinutes = minutes
	}
	return b
}

// Resource links the block to an external offer or product.
func (b *Builder) Resource(id, name string) *Builder {
	if b.current() != nil {
		b.block.ResourceID = id
		b.block.ResourceName = name
	}
	return b
}

// Start declares the entry block.
func (b *Builder) Start(blockID string) *Builder {
	b.flow.StartBlockID = blockID
	return b
}

// Build commits pending state, validates the flow, and returns it.
func (b *Builder) Build() (*domain.Flow, error) {
	b.commitBlock()
	if b.problem != nil {
		return nil, b.problem
	}
	if err := validator.ValidateFlow(b.flow); err != nil {
		return nil, fmt.Errorf("invalid flow '%s': %w", b.flow.Name, err)
	}
	return b.flow, nil
}

// MustBuild is Build for program-literal flows where a structural error is
// a programming bug.
func (b *Builder) MustBuild() *domain.Flow {
	flow, err := b.Build()
	if err != nil {
		panic(err)
	}
	return flow
}

func (b *Builder) current() *domain.Block {
	if b.block == nil {
		b.fail("no open block; call Block(id) first")
	}
	return b.block
}

func (b *Builder) commitBlock() {
	if b.block == nil {
		return
	}
	b.flow.Blocks[b.block.ID] = *b.block
	b.block = nil
}

func (b *Builder) fail(format string, args ...any) {
	if b.problem == nil {
		b.problem = fmt.Errorf(format, args...)
	}
}
