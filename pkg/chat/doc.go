/*
Package chat owns the transcript of the single active conversation.

A Conversation appends the user turn, asks the companion for a reply and appends the
assistant turn, one turn at a time. Clear resets the remote session before replacing the
transcript, so the next remote turn never sees the discarded history. Every change is
mirrored to a ports.TranscriptStore and broadcast to subscribers.
*/
package chat
