package main

import (
	"fmt"
	"strings"

	"github.com/odvcencio/enkelgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the working copy state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			report, err := r.Status()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatStatus(report))
			return nil
		},
	}
}

func formatStatus(report *repo.StatusReport) string {
	var b strings.Builder
	if report.Detached {
		b.WriteString("On detached HEAD\n")
	} else {
		fmt.Fprintf(&b, "On branch %s\n", report.Branch)
	}

	section := func(header string, lines []string) {
		if len(lines) == 0 {
			return
		}
		b.WriteString(header + "\n")
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
	}
	section("Untracked files:", report.Untracked)
	section("Unmerged paths:", report.Unmerged)
	section("Changes to be committed:", report.ToCommit)
	section("Changes not staged for commit:", report.NotStaged)
	return b.String()
}
