package main

import (
	"fmt"

	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the staged snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			if r.IsBare() {
				return repo.ErrBare
			}
			if message == "" && !r.IsMergeInProgress() {
				return fmt.Errorf("commit message is required (-m)")
			}
			out, err := r.Commit(message)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}
