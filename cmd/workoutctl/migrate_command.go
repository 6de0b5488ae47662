package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alcyxob/workout-tracker/internal/repository/gormstore"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.openStore(cmd.ErrOrStderr()); err != nil {
				return err
			}
			defer ctx.close()
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", gormstore.DialectName(ctx.db))
			return nil
		},
	}
}
