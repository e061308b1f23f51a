// Package rpc provides the communication framework between the collection
// server and its clients, enabling operations across network boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable
//     implementations (TCP, Unix sockets).
//
//   - serializer: Message serialization with multiple format options (JSON,
//     Sonic, GOB) for converting between Message objects and byte arrays.
//
//   - client: The Session type through which applications issue commands
//     against a remote collection server.
//
//   - server: RPC server components that handle incoming requests, including
//     the dispatcher that routes commands to the collection and account
//     managers.
package rpc
