package transport

import (
	"github.com/trybenon/peopled/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes the raw request bytes as a parameter and returns the raw response
type ServerHandleFunc func(req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler is called once per received frame
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and listens for incoming requests
	// It blocks until Close is called or an unrecoverable error occurs
	Listen(config common.ServerConfig) error
	// Close stops the listener and makes Listen return
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IConnectionListener is notified about connection state transitions of a
// client transport. Implementations must not block: callbacks are invoked
// from the transport's reader goroutine.
type IConnectionListener interface {
	// OnDisconnect is called when an established connection breaks.
	// All in-flight requests have already been failed at this point.
	OnDisconnect(err error)
	// OnReconnect is called after the transport has re-established the
	// connection to the server.
	OnReconnect()
}

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration. An
	// unreachable server is not an error: the transport keeps dialing in
	// the background and Send fails until a connection is established.
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response. The id
	// must equal the correlation id embedded in the serialized request; the
	// server echoes it in the response so that concurrent requests on one
	// connection can be matched.
	Send(id uint64, req []byte) (resp []byte, err error)
	// AddListener registers a listener for connection state transitions
	AddListener(listener IConnectionListener)
	// Close closes the transport connection
	Close() error
}
