package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func enrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll [phone]",
		Short: "Register a new user key for the given phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			enrollment := client.Enrollment()

			status, err := enrollment.RequestReset(ctx, args[0])
			if err != nil {
				return err
			}
			log.Info("enroll.reset_requested", "status", status)

			code, err := prompt("Code from email: ")
			if err != nil {
				return err
			}
			opts, err := enrollment.InitializeEnrollment(ctx, code)
			if err != nil {
				return err
			}

			otp, err := prompt("One-time code: ")
			if err != nil {
				return err
			}
			key, err := enrollment.FinalizeEnrollment(ctx, otp, opts)
			if err != nil {
				return err
			}

			// The key is the root credential and is never stored by the SDK.
			fmt.Println(key)
			log.Warn("enroll.key_minted", "note", "store this key safely; it cannot be recovered")
			return nil
		},
	}
}
