package main

import (
	"fmt"

	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			branch := loadUserConfig().Init.DefaultBranch
			r, err := repo.Init(".", bare, branch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty enkelgit repository in %s\n", r.MetaDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&bare, "bare", false, "create a bare repository")
	return cmd
}
