package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/objectives/internal/cli/formatter"
)

func newCommentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage objective comments",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add ID TEXT...",
			Short: "Comment on an objective",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				c, err := app.Comments.Add(cmd.Context(), id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(out(cmd), "Added comment #%d to objective #%d\n", c.ID, id)
				return nil
			},
		},
		&cobra.Command{
			Use:     "list ID",
			Aliases: []string{"ls"},
			Short:   "List an objective's comments, newest first",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				comments, err := app.Comments.List(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprint(out(cmd), formatter.FormatComments(comments, app.now()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm COMMENT_ID",
			Short: "Delete a comment",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := app.Comments.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(out(cmd), "Deleted comment #%d\n", id)
				return nil
			},
		},
	)

	return cmd
}
