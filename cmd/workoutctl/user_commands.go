package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/service"
)

func newCreateAdminCommand(ctx *commandContext) *cobra.Command {
	var in service.CreateUserInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ctx.close()
			authenticator, err := ctx.authenticator()
			if err != nil {
				return err
			}
			in.IsActive = true
			in.IsAdmin = true
			user, err := service.NewUserService(store, authenticator).Create(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "Display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUsersCommand(ctx *commandContext) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect accounts",
	}
	usersCmd.AddCommand(newUsersListCommand(ctx))
	return usersCmd
}

func newUsersListCommand(ctx *commandContext) *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ctx.close()
			users, err := store.Users().List(cmd.Context(), repository.Page{Skip: skip, Limit: limit})
			if err != nil {
				return err
			}
			printUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Rows to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum rows")
	return cmd
}

func printUsers(out io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(out, "No users.")
		return
	}
	const stampLayout = "2006-01-02 15:04"
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(u.ID), 10),
			u.Username,
			u.Email,
			yesNo(u.IsActive),
			yesNo(u.IsAdmin),
			u.CreatedAt.UTC().Format(stampLayout),
		})
	}
	headers := []string{"ID", "Username", "Email", "Active", "Admin", "Created"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
