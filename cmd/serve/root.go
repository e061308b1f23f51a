package serve

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "github.com/trybenon/peopled/cmd/util"
	"github.com/trybenon/peopled/rpc/common"
	"github.com/trybenon/peopled/rpc/serializer"
	"github.com/trybenon/peopled/rpc/server"
	"github.com/trybenon/peopled/rpc/transport"
	"github.com/trybenon/peopled/rpc/transport/tcp"
	"github.com/trybenon/peopled/rpc/transport/unix"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the collection server",
		Long:    `Start the collection server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is PEOPLED_<flag> (e.g. PEOPLED_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address to listen on (host:port for tcp, a socket path for unix)"))

	key = "store"
	ServeCmd.PersistentFlags().String(key, "sqlite", cmdUtil.WrapString("Backing store for the collection (sqlite, memory)"))

	key = "store-path"
	ServeCmd.PersistentFlags().String(key, "people.db", cmdUtil.WrapString("Database file path (sqlite store only)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Socket write timeout in seconds (0 disables deadlines)"))

	key = "workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 1, cmdUtil.WrapString("How many requests of one connection may execute concurrently. The default of 1 keeps per-connection handling strictly sequential"))

	key = "max-frame-size"
	ServeCmd.PersistentFlags().Int(key, common.DefaultServerMaxFrameSize, cmdUtil.WrapString("Largest request frame the server accepts (in bytes)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional address to expose Prometheus metrics on (e.g. localhost:9090, empty disables)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "transport-tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY for accepted connections (only for tcp)"))

	key = "transport-tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval for accepted connections (in seconds, only for tcp)"))
}

// processConfig reads the configuration from the command line flags and
// environment variables and converts it to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	switch backend := viper.GetString("store"); backend {
	case "sqlite":
		serveCmdConfig.Store = common.StoreBackendSQLite
	case "memory":
		serveCmdConfig.Store = common.StoreBackendMemory
	default:
		return fmt.Errorf("invalid store backend: %s (expected sqlite or memory)", backend)
	}

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.StorePath = viper.GetString("store-path")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.WorkersPerConn = viper.GetInt("workers-per-conn")
	serveCmdConfig.MaxFrameSize = viper.GetInt("max-frame-size")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport = common.SocketConfig{
		TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
		TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
	}

	return nil
}

// run starts the collection server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	var s serializer.IRPCSerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	case "sonic":
		s = serializer.NewSonicSerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "tcp":
		t = tcp.NewTCPServerTransport()
	case "unix":
		t = unix.NewUnixServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	// shut down cleanly on SIGINT/SIGTERM
	go serv.HandleSignals()

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("peopled")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
