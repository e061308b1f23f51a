// Package cmd implements the command-line interface for the peopled
// collection server. It provides a hierarchical command structure with
// operations for running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - people: One-shot collection commands (add, show, remove-by-id, etc.)
//   - shell: The interactive console client
//   - serve: Commands for starting and configuring the peopled server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See peopled -help for a list of all commands.
package cmd
