package main

import (
	"fmt"

	"github.com/odvcencio/enkelgit/pkg/remote"
	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newPushCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "push <remote> <branch>",
		Short: "Update a remote branch with local commits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			result, err := remote.NewSyncer(r, logger).Push(args[0], args[1], force)
			if err != nil {
				return err
			}
			if result.UpToDate {
				fmt.Fprintln(cmd.OutOrStdout(), "Already up-to-date")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "To %s\nCount %d\n%s -> %s\n",
				result.To, result.Count, result.Branch, result.Branch)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "allow non-fast-forward updates")
	return cmd
}
