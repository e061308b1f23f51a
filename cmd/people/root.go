package people

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trybenon/peopled/cmd/util"
	"github.com/trybenon/peopled/rpc/client"
)

var (
	session *client.Session

	// PeopleCommands represents the collection command group
	PeopleCommands = &cobra.Command{
		Use:                "people",
		Short:              "Perform one-shot collection operations",
		PersistentPreRunE:  setupPeopleClient,
		PersistentPostRunE: teardownPeopleClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the people command
	util.SetupRPCClientFlags(PeopleCommands)

	// Account flags (login/password authenticate the session before the
	// subcommand runs; register does not need them)
	PeopleCommands.PersistentFlags().String("login", "", util.WrapString("Login to authenticate with"))
	PeopleCommands.PersistentFlags().String("password", "", util.WrapString("Password to authenticate with"))

	// Add subcommands
	PeopleCommands.AddCommand(registerCmd)
	PeopleCommands.AddCommand(helpCmd)
	PeopleCommands.AddCommand(infoCmd)
	PeopleCommands.AddCommand(showCmd)
	PeopleCommands.AddCommand(headCmd)
	PeopleCommands.AddCommand(averageCmd)
	PeopleCommands.AddCommand(ascendingCmd)
	PeopleCommands.AddCommand(heightsCmd)
	PeopleCommands.AddCommand(checkIDCmd)
	PeopleCommands.AddCommand(addCmd)
	PeopleCommands.AddCommand(addIfMaxCmd)
	PeopleCommands.AddCommand(updateCmd)
	PeopleCommands.AddCommand(removeCmd)
	PeopleCommands.AddCommand(clearCmd)
	PeopleCommands.AddCommand(removeHeadCmd)
	PeopleCommands.AddCommand(perfTestCmd)
}

// setupPeopleClient connects the RPC session and, if credentials were given,
// authenticates it
func setupPeopleClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	session, err = util.ConnectSession()
	if err != nil {
		return err
	}

	// authenticate when credentials were supplied
	if login := viper.GetString("login"); login != "" {
		if _, err := session.Authenticate(login, viper.GetString("password")); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	return nil
}

// teardownPeopleClient closes the RPC session
func teardownPeopleClient(_ *cobra.Command, _ []string) error {
	if session != nil {
		return session.Close()
	}
	return nil
}
