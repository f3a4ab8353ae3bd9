package main

import (
	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage remote repositories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <path>",
		Short: "Record a named remote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			return r.AddRemote(args[0], args[1])
		},
	})
	return cmd
}
