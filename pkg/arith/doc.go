/*
Package arith normalizes natural-language arithmetic phrases and evaluates them with a
small, fully specified grammar.

The grammar accepts numbers (digits with an optional decimal point), the four binary
operators and an optional unary minus. There are no parentheses, identifiers or function
calls, and nothing is ever executed dynamically.

	expr   = term { ("+" | "-") term }
	term   = unary { ("*" | "/") unary }
	unary  = "-" unary | number
	number = digits [ "." [ digits ] ] | "." digits
*/
package arith
