package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"friendgraph/utils"
)

var tokenCmd = &cobra.Command{
	Use:   "token [user-id]",
	Short: "Print a bearer token for a user id, for local testing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !utils.ValidID(args[0]) {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		token, err := utils.GenerateToken(args[0])
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
