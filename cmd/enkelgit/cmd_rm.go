package main

import (
	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	var recursive bool
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove files from the index and working copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			return r.Rm(args[0], recursive, force)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove directories recursively")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "unsupported")
	return cmd
}
