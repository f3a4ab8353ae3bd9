package main

import (
	"fmt"

	"github.com/odvcencio/enkelgit/pkg/remote"
	"github.com/spf13/cobra"
)

func newCloneCmd() *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:   "clone <src> <dst>",
		Short: "Copy a repository on the local filesystem",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := remote.Clone(args[0], args[1], bare, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cloning into %s\n", args[1])
			return nil
		},
	}
	cmd.Flags().BoolVar(&bare, "bare", false, "clone into a bare repository")
	return cmd
}
