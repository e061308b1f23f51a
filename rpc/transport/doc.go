// Package transport defines the interfaces and abstractions for RPC
// communication in the collection client/server system. It provides a common
// contract that all transport implementations must fulfill, enabling
// protocol-agnostic communication.
//
// The package focuses on:
//   - Defining clear interfaces for client and server transport layers
//   - Correlating concurrent requests on one connection via embedded ids
//   - Enabling multiple transport implementations (TCP, Unix sockets)
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations
//     that handles connection management, reconnects and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations
//     that receives requests and routes them to the registered handler.
//
//   - IConnectionListener: Observer interface for connection state changes.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
package transport
