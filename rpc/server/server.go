package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"

	"github.com/trybenon/peopled/lib/auth"
	"github.com/trybenon/peopled/lib/collection"
	"github.com/trybenon/peopled/lib/store"
	"github.com/trybenon/peopled/lib/store/memstore"
	"github.com/trybenon/peopled/lib/store/sqlstore"
	"github.com/trybenon/peopled/rpc/common"
	"github.com/trybenon/peopled/rpc/serializer"
	"github.com/trybenon/peopled/rpc/transport"
)

var Logger = logger.GetLogger("rpc")

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//		serializer.NewSonicSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
	}
}

// RPCServer ties a transport, a serializer and the command dispatcher
// together over one backing store.
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	adapter    IRPCServerAdapter
	store      store.IStore
}

func (s *RPCServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		// Decode the request
		if err := s.serializer.Deserialize(req, &msg); err != nil {
			respMsg = common.Message{
				Cmd:    common.CmdUnknown,
				Status: common.StatusError,
				Text:   fmt.Sprintf("failed to deserialize request: %s", err),
			}
		} else {
			// Let the adapter handle the request
			start := time.Now()
			respMsg = *s.adapter.Handle(&msg)

			metrics.GetOrCreateCounter(fmt.Sprintf(`peopled_requests_total{command=%q,status=%q}`, msg.Cmd, respMsg.Status)).Inc()
			metrics.GetOrCreateSummary(fmt.Sprintf(`peopled_request_duration_seconds{command=%q}`, msg.Cmd)).UpdateDuration(start)
		}

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			// The payload could not be encoded, fall back to a bare error
			// response that is guaranteed to serialize
			Logger.Errorf("Failed to serialize response: %v", err)
			respMsg = common.Message{
				ID:     msg.ID,
				Cmd:    msg.Cmd,
				Status: common.StatusError,
				Text:   fmt.Sprintf("failed to serialize response: %s", err),
			}
			val, _ = s.serializer.Serialize(respMsg)
		}
		return val
	})
}

func (s *RPCServer) init() error {

	// Init logger
	common.InitLoggers(s.config.LogLevel)

	// Create the backing store
	var (
		st  store.IStore
		err error
	)
	switch s.config.Store {
	case common.StoreBackendMemory:
		st = memstore.NewMemoryStore()
		Logger.Infof("Created in-memory store")
	case common.StoreBackendSQLite, "":
		if st, err = sqlstore.NewSQLStore(s.config.StorePath); err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		Logger.Infof("Opened sqlite store at %s", s.config.StorePath)
	default:
		return fmt.Errorf("invalid store backend: %s", s.config.Store)
	}
	s.store = st

	// Wire the dispatcher over the store
	s.adapter = NewDispatcher(
		collection.NewManager(st),
		auth.NewManager(st),
	)

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server
// This function will also initialize the server and start the transport layer.
// It blocks until Close is called.
func (s *RPCServer) Serve() error {
	if err := s.init(); err != nil {
		return err
	}

	// Optionally expose Prometheus metrics over HTTP
	if s.config.MetricsEndpoint != "" {
		go s.serveMetrics()
	}

	return s.transport.Listen(s.config)
}

// Close stops the transport and releases the backing store
func (s *RPCServer) Close() error {
	if err := s.transport.Close(); err != nil {
		Logger.Errorf("Failed to close transport: %v", err)
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// HandleSignals blocks until SIGINT or SIGTERM and then shuts the server down
func (s *RPCServer) HandleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	Logger.Infof("Received signal %s, shutting down", sig)
	if err := s.Close(); err != nil {
		Logger.Errorf("Shutdown error: %v", err)
	}
}

// serveMetrics exposes the VictoriaMetrics registry in Prometheus text format
func (s *RPCServer) serveMetrics() {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	Logger.Infof("Serving metrics on http://%s/metrics", s.config.MetricsEndpoint)
	if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
		Logger.Errorf("Metrics endpoint failed: %v", err)
	}
}
