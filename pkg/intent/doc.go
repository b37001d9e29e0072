// Package intent classifies a line of user text into one of a fixed set of intents.
//
// Classification is pure and first-match: the order returned by Priority is the contract.
// Arithmetic is decided by the arith package; every other intent by the keyword tables in
// keywords.yaml, which can be replaced with WithKeywords.
package intent
