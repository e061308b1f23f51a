package base

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/trybenon/peopled/rpc/common"
	"github.com/trybenon/peopled/rpc/transport"
)

var Logger = logger.GetLogger("transport/rpc")

// ErrNotConnected is returned by Send while the transport has no
// established connection (it is still connecting or reconnecting).
var ErrNotConnected = fmt.Errorf("not connected to server")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection based on the provided configuration
	Connect(endpoint string) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// ExtractIDFunc returns the correlation id embedded in a serialized response.
// The transport itself never interprets message bodies; the serialization
// layer injects this function so responses can be matched to requests.
type ExtractIDFunc func(resp []byte) (uint64, error)

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// connection states
const (
	stateDisconnected int32 = iota
	stateConnecting
	stateConnected
)

// responseResult contains the result of a request
type responseResult struct {
	data []byte
	err  error
}

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.).
// It maintains a single connection to the server and restores it with a
// fixed backoff whenever it breaks.
type clientTransport struct {
	connector IClientConnector
	extractID ExtractIDFunc
	config    common.ClientConfig

	conn   net.Conn
	connMu sync.Mutex // Protects conn and serializes writes
	state  atomic.Int32

	requestChans *xsync.MapOf[uint64, chan responseResult]

	listeners   []transport.IConnectionListener
	listenersMu sync.RWMutex

	stopCh chan struct{}
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector, extractID ExtractIDFunc) transport.IRPCClientTransport {
	return &clientTransport{
		connector:    connector,
		extractID:    extractID,
		requestChans: xsync.NewMapOf[uint64, chan responseResult](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if config.Endpoint == "" {
		return fmt.Errorf("no endpoint provided")
	}

	// Store the config
	t.config = config
	if t.config.MaxFrameSize <= 0 {
		t.config.MaxFrameSize = common.DefaultClientMaxFrameSize
	}
	if t.config.ReconnectDelayMS <= 0 {
		t.config.ReconnectDelayMS = common.DefaultReconnectDelayMS
	}
	t.stopCh = make(chan struct{})

	t.state.Store(stateConnecting)
	conn, err := t.dial()
	if err != nil {
		// An unreachable server is handled like a lost connection: keep
		// dialing with the fixed delay until it comes up or the transport is
		// closed. Send fails with ErrNotConnected in the meantime.
		Logger.Warningf("Connect to %s failed: %v - retrying in background", config.Endpoint, err)
		go func() {
			t.handleDisconnect(err)
			if t.state.Load() == stateConnected {
				t.readResponses()
			}
		}()
		return nil
	}

	t.connMu.Lock()
	t.conn = conn
	t.connMu.Unlock()
	t.state.Store(stateConnected)

	Logger.Infof("Connected to %s using %s transport", config.Endpoint, t.connector.GetName())

	// Start the response reader
	go t.readResponses()

	return nil
}

func (t *clientTransport) Send(id uint64, req []byte) (resp []byte, err error) {
	if t.state.Load() != stateConnected {
		return nil, ErrNotConnected
	}

	// Create a channel for the response
	respCh := make(chan responseResult, 1)

	// Register the request
	t.requestChans.Store(id, respCh)

	// Ensure we clean up when done
	defer t.requestChans.Delete(id)

	// Lock the connection only for writing
	t.connMu.Lock()
	conn := t.conn
	if conn == nil {
		t.connMu.Unlock()
		return nil, ErrNotConnected
	}
	if t.config.TimeoutSecond > 0 {
		timeout := time.Duration(t.config.TimeoutSecond) * time.Second
		conn.SetWriteDeadline(time.Now().Add(timeout))
	}
	err = writeFrame(conn, req, t.config.MaxFrameSize)
	t.connMu.Unlock()

	if err != nil {
		return nil, err
	}

	// Wait for response or timeout
	var timeoutCh <-chan time.Time
	if t.config.TimeoutSecond > 0 {
		timeout := time.Duration(t.config.TimeoutSecond) * time.Second
		timeoutCh = time.After(timeout)
	} else {
		timeoutCh = make(chan time.Time) // Never triggers
	}

	select {
	case result := <-respCh:
		return result.data, result.err
	case <-timeoutCh:
		return nil, fmt.Errorf("request timed out")
	case <-t.stopCh:
		return nil, fmt.Errorf("transport closed")
	}
}

func (t *clientTransport) AddListener(listener transport.IConnectionListener) {
	t.listenersMu.Lock()
	defer t.listenersMu.Unlock()
	t.listeners = append(t.listeners, listener)
}

func (t *clientTransport) Close() error {
	select {
	case <-t.stopCh:
		// Already closed
	default:
		close(t.stopCh)
	}

	t.state.Store(stateDisconnected)

	t.connMu.Lock()
	defer t.connMu.Unlock()
	if t.conn != nil {
		err := t.conn.Close()
		t.conn = nil
		return err
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// dial establishes and upgrades a single connection
func (t *clientTransport) dial() (net.Conn, error) {
	conn, err := t.connector.Connect(t.config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %v", t.config.Endpoint, err)
	}

	// Upgrade the connection with protocol-specific settings
	if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to upgrade connection to %s: %v", t.config.Endpoint, err)
	}

	return conn, nil
}

// readResponses reads responses in a loop and distributes them to waiting
// requests. When the connection breaks it fails all in-flight requests and
// re-establishes the connection before resuming.
func (t *clientTransport) readResponses() {
	for {
		// Check if we should stop
		select {
		case <-t.stopCh:
			return
		default:
			// Continue
		}

		t.connMu.Lock()
		conn := t.conn
		t.connMu.Unlock()
		if conn == nil {
			return
		}

		// Read the response frame
		data, err := readFrame(conn, nil, t.config.MaxFrameSize)
		if err != nil {
			select {
			case <-t.stopCh:
				return
			default:
			}

			Logger.Warningf("Connection to %s lost: %v", t.config.Endpoint, err)
			t.handleDisconnect(err)
			if t.state.Load() != stateConnected {
				return
			}
			continue
		}

		// Extract the correlation id from the response body
		id, err := t.extractID(data)
		if err != nil {
			Logger.Errorf("Failed to parse response: %v", err)
			continue
		}

		// Find the corresponding request channel
		respCh, found := t.requestChans.Load(id)
		if !found {
			Logger.Warningf("Received response for unknown request ID %d", id)
			continue
		}

		// Send the response to the waiting request
		respCh <- responseResult{data, nil}
	}
}

// handleDisconnect fails all in-flight requests, notifies listeners and
// retries the connection with a fixed delay until it succeeds or the
// transport is closed.
func (t *clientTransport) handleDisconnect(cause error) {
	t.state.Store(stateConnecting)

	t.connMu.Lock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.connMu.Unlock()

	// Fail all in-flight requests, their responses are lost
	t.requestChans.Range(func(id uint64, respCh chan responseResult) bool {
		select {
		case respCh <- responseResult{nil, fmt.Errorf("connection lost: %v", cause)}:
		default:
		}
		return true
	})

	t.notify(func(l transport.IConnectionListener) { l.OnDisconnect(cause) })

	// Reconnect with a fixed delay, indefinitely
	delay := time.Duration(t.config.ReconnectDelayMS) * time.Millisecond
	for attempt := 1; ; attempt++ {
		conn, err := t.dial()
		if err == nil {
			t.connMu.Lock()
			t.conn = conn
			t.connMu.Unlock()
			t.state.Store(stateConnected)

			Logger.Infof("Reconnected to %s after %d attempt(s)", t.config.Endpoint, attempt)
			t.notify(func(l transport.IConnectionListener) { l.OnReconnect() })
			return
		}

		Logger.Debugf("Reconnect attempt %d failed: %v", attempt, err)

		select {
		case <-t.stopCh:
			t.state.Store(stateDisconnected)
			return
		case <-time.After(delay):
		}
	}
}

// notify invokes fn for every registered listener
func (t *clientTransport) notify(fn func(l transport.IConnectionListener)) {
	t.listenersMu.RLock()
	defer t.listenersMu.RUnlock()
	for _, l := range t.listeners {
		fn(l)
	}
}
