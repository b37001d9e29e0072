/*
Package selim is the core of Selim AI, a Turkish-speaking chat companion.

A Companion takes one line of user text and produces a reply. With an API credential the turn
goes to a remote language model through a single lazily created conversation context; without
one, a rule-based local responder answers greetings, identity and time questions, and simple
arithmetic such as "10 kere 2".

# Concept

The pipeline is split into small packages:

  - intent: classifies text with a fixed, first-match priority order.
  - arith: normalizes and evaluates arithmetic with a restricted grammar (no dynamic evaluation).
  - responder: composes the local reply.
  - session: owns the single remote conversation handle and its reset epochs.
  - dispatch: picks remote or local, and turns every failure into a degraded reply.
  - chat: owns the transcript shown to the user and serializes turns.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/aretw0/selim"
	)

	func main() {
		c, err := selim.New(selim.WithCredential(os.Getenv("GEMINI_API_KEY")))
		if err != nil {
			log.Fatal(err)
		}

		out := c.HandleTurn(context.Background(), "10 kere 2 kaç eder?")
		fmt.Println(out.ReplyText)
	}

HandleTurn never returns an error. A failed remote call yields an apology (or the local reply,
with WithDegradeMode) and IsError set, so callers can style it differently.
*/
package selim
