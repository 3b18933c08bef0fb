package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neomdavid/IAX-ROLEX-backend/app/services"
)

// rolex user:promote <email>
var userPromoteCmd = &cobra.Command{
	Use:   "user:promote <email>",
	Short: "Grant the admin role to a registered user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer k.App.Shutdown(context.Background())

		svc := services.NewAuthService(k.Deps.Stores.Users, k.Deps.Signer)
		u, err := svc.Promote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅  %s <%s> is now %s\n", u.Name, u.Email, u.Role)
		return nil
	},
}
