// Package common provides core data structures and utilities shared across
// the collection server and its clients. It defines fundamental types,
// configuration structures, and protocol elements used by other packages.
//
// The package focuses on:
//   - Message protocol definition for client/server communication
//   - Configuration structures for client and server components
//   - A custom logging implementation with consistent formatting
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication, with a flexible
//     structure that adapts to different commands. Includes factory methods
//     for creating the various request and response messages.
//
//   - CommandType: Enumeration defining all supported commands, categorized
//     into read-only, mutating (REFRESH-class) and account commands.
//
//   - Status: Enumeration of response outcomes (OK, ERROR, REFRESH,
//     ASK_OBJECT). A REFRESH response carries the complete collection and
//     tells every connected view to replace its local copy.
//
//   - ServerConfig / ClientConfig: Configuration for the two processes,
//     covering endpoints, store backends, frame size bounds, timeouts and
//     reconnect behavior.
//
//   - Logger: Custom logging implementation providing LEVEL | component |
//     message formatting across the application.
package common
