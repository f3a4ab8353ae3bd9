package main

import (
	"fmt"

	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch [<name>]",
		Short: "List branches or create one at HEAD",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return r.CreateBranch(args[0])
			}

			branches, err := r.Branches()
			if err != nil {
				return err
			}
			for _, b := range branches {
				marker := "  "
				if b.Current {
					marker = "* "
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", marker, b.Name)
			}
			return nil
		},
	}
}
