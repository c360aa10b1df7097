// Package chain turns a raw command-line argument vector into a validated,
// typed key-value result by routing tokens through a tree of nested parser
// nodes. Each node owns a flag registry; matching runs a fused
// "option=value" pass before the positional pass, resolution descends
// depth-first into the first token naming a sub-command, and mandatory
// flags are enforced across every node of the resolved chain before the
// terminal handler runs.
//
// Trees are wired once at startup and are read-only during parsing, so any
// number of parses may run concurrently against the same tree.
package chain
