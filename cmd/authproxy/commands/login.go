package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [user-key]",
		Short: "Establish a session with an existing user key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := client.Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		},
	}
}
