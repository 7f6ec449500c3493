package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen [user-key]",
		Short: "Log in and print push messages until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if _, err := client.Login(ctx, args[0]); err != nil {
				return err
			}

			ch := client.NewChannel()
			events, err := ch.Subscribe(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = ch.Close() }()

			for {
				select {
				case <-ctx.Done():
					return client.Logout(cmd.Context())
				case evt, ok := <-events:
					if !ok {
						return fmt.Errorf("push stream closed")
					}
					if evt.Decoded {
						fmt.Printf("%s %v\n", evt.Name, evt.Data)
					} else {
						fmt.Printf("%s %s\n", evt.Name, evt.Raw)
					}
				}
			}
		},
	}
}
