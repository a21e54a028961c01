package commands

import (
	"github.com/spf13/cobra"

	"voicetasks/internal/output"
)

func newListsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print all task lists",
		Long:  `Print the account's task lists in API order. Captured tasks go to the list marked [capture].`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			lists, err := svc.ListTaskLists(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, list := range lists {
				output.FormatListName(out, list, i == 0)
			}
			if len(lists) == 0 {
				output.FormatNoLists(out)
			}
			return nil
		},
	}
}
