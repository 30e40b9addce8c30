// Package driving provides interfaces exposed to external actors
// (primary/inbound ports): the conversation controller commands and
// college lookups used by the CLI and TUI adapters.
package driving
