package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/objectives/internal/cli/formatter"
	"github.com/alexanderramin/objectives/internal/importer"
)

func newImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create an objective tree from a YAML or JSON file",
		Long: `Create an objective tree from a YAML or JSON file.

Items name their parent with parent_ref (another item's ref) or parent_id
(an existing objective). Every objective is created in one transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := importer.Load(args[0])
			if err != nil {
				return err
			}
			if errs := importer.Validate(f); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", e)
				}
				return fmt.Errorf("%s: %d problem(s) found", args[0], len(errs))
			}
			steps, err := importer.Plan(f)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Fprint(out(cmd), formatImportPlan(steps))
				return nil
			}
			if app.Imports == nil {
				return errors.New("import is not available")
			}
			res, err := app.Imports.Import(cmd.Context(), steps)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(steps))
			for _, s := range steps {
				rows = append(rows, []string{s.Ref, formatter.ObjectiveID(res.IDs[s.Ref]), s.Input.Title})
			}
			fmt.Fprintf(out(cmd), "Imported %d objectives\n", len(res.Created))
			fmt.Fprint(out(cmd), formatter.RenderTable([]string{"REF", "ID", "TITLE"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and print the creation order without writing")
	return cmd
}

func formatImportPlan(steps []importer.Step) string {
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		parent := "-"
		switch {
		case s.ParentRef != "":
			parent = s.ParentRef
		case s.Input.ParentID != nil:
			parent = "#" + strconv.FormatInt(*s.Input.ParentID, 10)
		}
		rows = append(rows, []string{
			s.Ref,
			parent,
			formatter.Truncate(s.Input.Title, 40),
			formatter.Span(s.Input.StartDate, s.Input.EndDate),
			s.Input.Status,
		})
	}
	return fmt.Sprintf("Would create %d objectives:\n", len(steps)) +
		formatter.RenderTable([]string{"REF", "PARENT", "TITLE", "SPAN", "STATUS"}, rows)
}
