/*
Package dispatch turns one line of user text into a finalized TurnOutcome.

Without a credential the local responder answers after a short cosmetic delay. With one, the
session manager forwards the turn to the remote assistant, and a remote failure is converted
into a degraded reply according to the configured DegradeMode. HandleTurn never panics and
never returns an error; every failure becomes a reply with IsError set.
*/
package dispatch
