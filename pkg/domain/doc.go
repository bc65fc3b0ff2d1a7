/*
Package domain contains the core domain models for the funnel engine.

It defines the static funnel graph (Flow, Stage, Block, Option), the
conversation transcript (Message), and the runtime cursor (Conversation).
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Flow: the whole authored conversation graph (stages + blocks + options).
  - Block: one conversational turn/node in the graph.
  - Stage: a named grouping of blocks controlling display policy and the
    TRANSITION auto-advance behavior.
  - Message: a transcript entry (user, bot, or system).
  - Conversation: the runtime snapshot of a single guided conversation.
*/
package domain
