package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "workoutctl",
		Short:         "Workout tracker operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", ".", "Directory containing config.yaml")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newCreateAdminCommand(ctx))
	rootCmd.AddCommand(newUsersCommand(ctx))
	rootCmd.AddCommand(newImportExercisesCommand(ctx))

	return rootCmd
}
