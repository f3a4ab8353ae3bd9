package main

import (
	"fmt"

	"github.com/odvcencio/enkelgit/pkg/remote"
	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <remote> <branch>",
		Short: "Download objects and refs from a remote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			result, err := remote.NewSyncer(r, logger).Fetch(args[0], args[1])
			if err != nil {
				return err
			}

			forced := ""
			if result.Forced {
				forced = " (forced)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "From %s\nCount %d\n%s -> %s/%s%s\n",
				result.From, result.Count, result.Branch, result.Remote, result.Branch, forced)
			return nil
		},
	}
}
