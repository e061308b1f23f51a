// Package base provides a foundation for transport layers in the collection
// client/server system, implementing core functionality for RPC communication
// independent of the specific network protocol (TCP, Unix sockets, etc.). It
// serves as a base layer that can be extended with protocol-specific
// connectors.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - Length-prefixed framing with strict size limits
//   - Request/response correlation via ids embedded in the message bodies
//   - Automatic reconnection with a fixed backoff on the client side
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific
//     operations that allow extending the base transport with different
//     network protocols.
//
//   - clientTransport: Core client implementation maintaining a single
//     connection to the server. A broken connection fails all in-flight
//     requests, notifies registered listeners, and is restored in the
//     background with a fixed delay between attempts.
//
//   - serverTransport: Core server implementation that accepts connections
//     and routes received frames to the registered handler. A per-connection
//     worker semaphore bounds concurrency; with the default of one worker
//     the requests of a connection are processed strictly in arrival order.
//
// Wire Format:
//
//	Every frame consists of a 4-byte big-endian length prefix followed by
//	exactly that many body bytes. A declared length of zero or above the
//	configured maximum is treated as stream corruption and closes the
//	connection, since the stream offers no way to resynchronize.
//
// Performance Optimizations:
//
//   - Buffer Pooling: The server uses a sync.Pool to reuse read buffers,
//     reducing GC pressure and memory allocations.
//
//   - Asynchronous Processing: The client sends requests and correlates
//     responses asynchronously using unique request ids, so multiple
//     requests can be in flight on one connection.
//
//   - Frame Batching: The transport uses net.Buffers to reduce syscalls when
//     writing frames, combining header and payload into a single write.
//
// Thread Safety:
//
//	All public methods are thread-safe. The client transport uses atomic
//	operations and mutexes to ensure concurrent access safety, while the
//	server creates a dedicated goroutine for each connection.
package base
