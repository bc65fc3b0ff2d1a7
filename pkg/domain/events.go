package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBlockEnter   EventType = "block_enter"
	EventBlockLeave   EventType = "block_leave"
	EventMessage      EventType = "message"
	EventTimerResolve EventType = "timer_resolve"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// BlockEvent represents entry into or exit from a block.
type BlockEvent struct {
	EventBase
	BlockID   string `json:"block_id"`
	StageName string `json:"stage_name,omitempty"`
}

// MessageEvent represents a transcript entry being appended.
type MessageEvent struct {
	EventBase
	Message Message `json:"message"`
}

// TimerEvent represents an offer-timer resolution.
type TimerEvent struct {
	EventBase
	BlockID string `json:"block_id"`
	Outcome string `json:"outcome"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnBlockEnter   func(context.Context, *BlockEvent)
	OnBlockLeave   func(context.Context, *BlockEvent)
	OnMessage      func(context.Context, *MessageEvent)
	OnTimerResolve func(context.Context, *TimerEvent)
}
