package main

import (
	"fmt"
	"sort"

	"github.com/odvcencio/enkelgit/pkg/diff"
	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [<ref1> [<ref2>]]",
		Short: "Show changed paths between two snapshots",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			var ref1, ref2 string
			if len(args) > 0 {
				ref1 = args[0]
			}
			if len(args) > 1 {
				ref2 = args[1]
			}
			d, err := r.DiffRange(ref1, ref2)
			if err != nil {
				return err
			}

			ns := diff.NameStatus(d)
			paths := make([]string, 0, len(ns))
			for p := range ns {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ns[p], p)
			}
			return nil
		},
	}
}
