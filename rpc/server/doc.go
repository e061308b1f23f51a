// Package server implements the RPC server for the shared person-record
// collection. It provides the command dispatcher that routes decoded requests
// to the collection and account managers, along with the core server
// implementation that ties transport, serializer and store together.
//
// The package focuses on:
//   - Total dispatch: every request, including malformed or unknown ones,
//     produces exactly one response carrying the request's correlation id
//   - Adapter pattern to decouple application logic from RPC mechanisms
//   - Store backend selection (sqlite or in-memory) from configuration
//   - Request metrics in Prometheus format
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for server adapters,
//     with the Handle method that processes one incoming request.
//
//   - NewDispatcher: Factory function creating the adapter that maps command
//     tags to collection.Manager and auth.Manager calls. Mutating commands
//     answer with a REFRESH response carrying the full collection; commands
//     that need a record the client did not send answer with ASK_OBJECT.
//
//   - NewRPCServer: Factory function creating a configured server with the
//     specified transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Endpoint:      "0.0.0.0:8080",
//	  Store:         common.StoreBackendSQLite,
//	  StorePath:     "people.db",
//	  TimeoutSecond: 5,
//	  LogLevel:      "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewSonicSerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
package server
