package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voicetasks/internal/service"
)

// errTitleRequired is returned when add is given no title.
var errTitleRequired = errors.New("title required")

func newAddCmd(a *app) *cobra.Command {
	var (
		notes string
		due   string
	)

	cmd := &cobra.Command{
		Use:   "add [--notes <text>] [--due <RFC3339>] <title...>",
		Short: "Create a task in the capture list",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errTitleRequired
			}

			task := service.NewTask{Title: title, Notes: notes}
			if due != "" {
				t, err := time.Parse(time.RFC3339, due)
				if err != nil {
					return fmt.Errorf("invalid --due %q: want RFC3339, e.g. 2025-09-15T00:00:00Z", due)
				}
				task.Due = t.UTC().Format(time.RFC3339)
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			if _, err := svc.CreateTask(cmd.Context(), task); err != nil {
				return err
			}

			a.println(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Task notes")
	cmd.Flags().StringVar(&due, "due", "", "Due date (RFC3339)")
	return cmd
}
