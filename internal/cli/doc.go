// Package cli implements the bb command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to workflow functions for the actual work:
//
//	bb run TARGET [MONITOR...]  - Start the bar for a display target
//	bb trigger MONITOR...       - Wake monitors in running instances
//	bb log TARGET [COMMAND...]  - View a target's log file
//	bb targets                  - List configured display targets
//	bb init                     - Create a starter .bb.yaml config
//	bb version                  - Print version information
//
// Exit codes: 0 on success, 1 for runtime fatals (publish failure,
// signal-driven shutdown, no monitors active), 2 for usage and
// configuration validation errors.
package cli
