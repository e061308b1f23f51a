package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Frame size bounds
// --------------------------------------------------------------------------

const (
	// DefaultServerMaxFrameSize bounds the length a server accepts for one
	// frame. A declared length outside (0, max] is treated as corruption.
	DefaultServerMaxFrameSize = 1024 * 1024 // 1 MiB

	// DefaultClientMaxFrameSize bounds the length a client accepts. The
	// client buffer is deliberately smaller than the server's: responses are
	// bounded by the collection size a single user works with.
	DefaultClientMaxFrameSize = 18920

	// DefaultReconnectDelayMS is the fixed backoff between reconnect
	// attempts after a lost connection.
	DefaultReconnectDelayMS = 5000
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// StoreBackend selects the backing store implementation of the server.
type StoreBackend string

const (
	StoreBackendSQLite StoreBackend = "sqlite"
	StoreBackendMemory StoreBackend = "memory"
)

// ServerConfig holds all configuration parameters for the collection server.
type ServerConfig struct {
	// Endpoint is the address the transport listens on
	// (host:port for tcp, a socket path for unix).
	Endpoint string

	// Store selects the backing store implementation.
	Store StoreBackend
	// StorePath is the database file path (sqlite backend only).
	StorePath string

	// TimeoutSecond bounds each socket read/write. Zero disables deadlines.
	TimeoutSecond int64

	// WorkersPerConn bounds how many requests of one connection may execute
	// concurrently. The default of 1 keeps per-connection handling strictly
	// sequential.
	WorkersPerConn int

	// MaxFrameSize bounds accepted frame lengths.
	MaxFrameSize int

	// MetricsEndpoint optionally exposes Prometheus metrics over HTTP
	// (empty = disabled).
	MetricsEndpoint string

	// Transport tuning
	Transport SocketConfig

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration.
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Collection Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Workers Per Conn", strconv.Itoa(c.WorkersPerConn))
	addField("Max Frame Size", fmt.Sprintf("%d bytes", c.MaxFrameSize))

	addSection("Store")
	addField("Backend", string(c.Store))
	if c.Store == StoreBackendSQLite {
		addField("Database", c.StorePath)
	}

	if c.MetricsEndpoint != "" {
		addSection("Metrics")
		addField("Endpoint", c.MetricsEndpoint)
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters for a client session.
type ClientConfig struct {
	// Endpoint is the server address.
	Endpoint string

	// TimeoutSecond bounds how long a caller waits for a response.
	TimeoutSecond int

	// ReconnectDelayMS is the fixed backoff between connect attempts.
	ReconnectDelayMS int

	// MaxFrameSize bounds accepted frame lengths.
	MaxFrameSize int

	// Transport tuning
	Transport SocketConfig
}

// String returns a formatted string representation of the client configuration.
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Reconnect Delay", fmt.Sprintf("%d ms", c.ReconnectDelayMS))
	addField("Max Frame Size", fmt.Sprintf("%d bytes", c.MaxFrameSize))

	return sb.String()
}

// --------------------------------------------------------------------------
// Socket tuning (shared by client and server)
// --------------------------------------------------------------------------

// SocketConfig carries transport-level socket options. All fields are
// optional; the zero value leaves the OS defaults in place.
type SocketConfig struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
	ReadBufferSize  int
	WriteBufferSize int
}
