package domain

import "errors"

// ErrConversationNotFound is returned when a conversation ID cannot be found in the store.
var ErrConversationNotFound = errors.New("conversation not found")

// ErrNoTimerTarget is returned when a timer is activated on a block that
// declares neither an upsell nor a downsell successor.
var ErrNoTimerTarget = errors.New("block declares no upsell or downsell target")

// ErrNoActiveTimer is returned when a timer outcome arrives without a
// pending timer to resolve.
var ErrNoActiveTimer = errors.New("no offer timer is pending")
