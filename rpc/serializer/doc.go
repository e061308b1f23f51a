// Package serializer provides message serialization capabilities for the
// collection RPC system. It defines a common interface and multiple
// implementations for serializing and deserializing messages between client
// and server components.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different performance characteristics
//   - Supporting efficient encoding of the system's message structure
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: Implementation using the standard library JSON
//     encoder. Human readable, useful for debugging and interoperability.
//
//   - sonicSerializerImpl: Implementation using the bytedance/sonic JSON
//     encoder. Produces the same wire format as the json serializer at a
//     fraction of the encoding cost; recommended for production use. The two
//     JSON serializers are interchangeable between peers.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding,
//     offering tight integration with Go's type system but with larger
//     serialized sizes and no cross-language readability.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	Serializers are typically created once and reused throughout the application:
//
//	  serializer := serializer.NewSonicSerializer()
//	  data, err := serializer.Serialize(message)
//	  // ... send data ...
//	  var receivedMsg common.Message
//	  err = serializer.Deserialize(receivedData, &receivedMsg)
package serializer
