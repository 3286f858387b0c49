package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/crypto/bcrypt"
	"github.com/spf13/cobra"
)

func createHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "command for hashing admin password, put result into CONTACTS_ADMIN_PASSWORDHASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := bcrypt.HashAndSalt(args[0], cost)
			if err != nil {
				return errors.Wrap(err, "hash password")
			}

			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}
