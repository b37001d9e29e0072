/*
Package session owns the single remote conversation context of the process.

A Manager lazily creates at most one Handle per reset epoch. Reset discards the live handle
so the next GetSession starts a fresh remote context; handles are never reused across resets.
The handle's message history is the context sent to the remote assistant on every turn.
*/
package session
