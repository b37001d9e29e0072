/*
Package ports defines the driven ports (interfaces) of the Selim companion.

These interfaces decouple the conversation core from concrete transports and storage.

# Key Interfaces

  - Assistant: the remote language-model boundary. Receives the model parameters, the
    conversation history and the new user text; returns reply text or an error.
  - TranscriptStore: persists the transcript of the single active conversation.
*/
package ports
