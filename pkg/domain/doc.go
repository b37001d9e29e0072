/*
Package domain contains the core domain models of the Selim companion.

It defines the entities exchanged between the turn pipeline and its front ends. This
package is kept pure and free of external I/O, following Hexagonal Architecture principles.

# Key Entities

  - Turn: One immutable message in the transcript (user or assistant).
  - Transcript: The ordered sequence of Turns of the single active conversation.
  - Classification: The decided intent category for a piece of user text.
  - TurnOutcome: The finalized reply produced by the dispatcher for one user turn.
  - SessionConfig: The remote conversation parameters (model, system instruction, temperature).
*/
package domain
