package shell

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trybenon/peopled/cmd/util"
	"github.com/trybenon/peopled/rpc/client"
)

var (
	session *client.Session

	// ShellCmd represents the interactive console
	ShellCmd = &cobra.Command{
		Use:     "shell",
		Short:   "Start an interactive console connected to a collection server",
		Long:    `Start an interactive console connected to a collection server. Commands are read line by line from stdin; type 'help' for the list of commands and 'exit' to leave.`,
		PreRunE: setupShellClient,
		RunE:    run,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the shell command
	util.SetupRPCClientFlags(ShellCmd)
}

// setupShellClient connects the RPC session
func setupShellClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	session, err = util.ConnectSession()
	return err
}

// run starts the console loop on stdin
func run(_ *cobra.Command, _ []string) error {
	defer func() {
		_ = session.Close()
	}()

	c := newConsole(session, os.Stdout)

	// print connection notices between prompts
	session.AddConnectionListener(noticeListener{})

	fmt.Println("connected, type 'help' for the list of commands")
	return c.runInteractive(os.Stdin)
}

// noticeListener prints connection state changes to the console
type noticeListener struct{}

// docu see interface
func (noticeListener) OnDisconnect(err error) {
	fmt.Printf("\nconnection lost: %v - reconnecting...\n", err)
}

// docu see interface
func (noticeListener) OnReconnect() {
	fmt.Println("\nconnection re-established")
}
