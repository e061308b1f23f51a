package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trybenon/peopled/cmd/people"
	"github.com/trybenon/peopled/cmd/serve"
	"github.com/trybenon/peopled/cmd/shell"
	"github.com/trybenon/peopled/cmd/util"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "peopled",
		Short: "shared person-record collection",
		Long: fmt.Sprintf(`peopled (v%s)

A client/server system for a shared collection of person records,
with per-user ownership, an interactive console and one-shot commands.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of peopled",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("peopled v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(people.PeopleCommands)
	RootCmd.AddCommand(shell.ShellCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "sonic", util.WrapString("serializer to use (json, gob, sonic)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
