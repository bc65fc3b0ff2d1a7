/*
Package ports defines the driven ports (interfaces) for the funnel engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to work with various flow sources, conversation storage
backends, and lock managers.

# Key Interfaces

  - FlowLoader: responsible for loading funnel Flow definitions (e.g., from
    YAML files or memory).
  - ConversationStore: responsible for persisting and loading Conversation
    snapshots.
  - DistributedLocker: provides distributed locking for handling concurrent
    access to the same conversation.
*/
package ports
