package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/objectives/internal/cli/formatter"
	"github.com/alexanderramin/objectives/internal/domain"
)

func bindObjectiveFlags(flags *pflag.FlagSet, f *objectiveFields) {
	flags.StringVar(&f.Title, "title", "", "Objective title")
	flags.StringVar(&f.Description, "description", "", "Free-form description")
	flags.StringVar(&f.Start, "start", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&f.End, "end", "", "End date (YYYY-MM-DD)")
	flags.StringVar(&f.Status, "status", "", "Status, e.g. open, in progress, done")
	flags.StringVar(&f.Parent, "parent", "", "Parent objective ID")
}

func newAddCmd(app *App) *cobra.Command {
	var fields objectiveFields
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an objective",
		Long: "Create an objective. Adding a child re-derives every ancestor's span.\n" +
			"Runs an interactive form with -i, or on a terminal when --title is missing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fields.Status == "" {
				fields.Status = domain.StatusOpen
			}
			if interactive || (fields.Title == "" && app.interactive()) {
				if err := objectiveForm(&fields).Run(); err != nil {
					return err
				}
			}

			in, err := fields.toInput()
			if err != nil {
				return err
			}
			o, err := app.Objectives.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Created objective #%d %s\n", o.ID, o.Title)
			return nil
		},
	}

	bindObjectiveFlags(cmd.Flags(), &fields)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill the fields in a form")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an objective with its progress and children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			node, err := app.Objectives.GetTree(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatObjective(&node.Objective, node))
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var fields objectiveFields
	var interactive, root bool

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace an objective's fields",
		Long: "Replace an objective's fields. Flags that are not given keep their stored value;\n" +
			"--root detaches the objective from its parent.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if root && cmd.Flags().Changed("parent") {
				return errors.New("--root and --parent are mutually exclusive")
			}

			current, err := app.Objectives.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			merged := fieldsFromInput(current.Input())
			flags := cmd.Flags()
			for name, dst := range map[string]*string{
				"title":       &merged.Title,
				"description": &merged.Description,
				"start":       &merged.Start,
				"end":         &merged.End,
				"status":      &merged.Status,
				"parent":      &merged.Parent,
			} {
				if flags.Changed(name) {
					*dst, _ = flags.GetString(name)
				}
			}
			if root {
				merged.Parent = ""
			}

			if interactive {
				if err := objectiveForm(&merged).Run(); err != nil {
					return err
				}
			}

			in, err := merged.toInput()
			if err != nil {
				return err
			}
			o, err := app.Objectives.Replace(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Updated objective #%d %s (%s)\n", o.ID, o.Title, formatter.Span(o.StartDate, o.EndDate))
			return nil
		},
	}

	bindObjectiveFlags(cmd.Flags(), &fields)
	cmd.Flags().BoolVar(&root, "root", false, "Make the objective a root")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Review all fields in a form")
	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID [STATUS]",
		Short: "Change an objective's status",
		Long:  "Change an objective's status. Without STATUS a picker opens on a terminal.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var status *string
			if len(args) == 2 {
				status = &args[1]
			} else if app.interactive() {
				current, err := app.Objectives.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				var picked string
				if err := statusForm(current.Status, &picked).Run(); err != nil {
					return err
				}
				status = &picked
			}

			o, err := app.Objectives.PatchStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "#%d %s is now %s\n", o.ID, o.Title, formatter.StatusPill(o.Status))
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	var cascade, yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete an objective",
		Long: "Delete an objective. An objective with children is refused unless\n" +
			"--cascade is given, which removes the whole subtree.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if cascade && !yes && app.interactive() {
				node, err := app.Objectives.GetTree(cmd.Context(), id)
				if err != nil {
					return err
				}
				confirmed := false
				title := fmt.Sprintf("Delete #%d %s and %d descendants?", id, node.Title, node.Count()-1)
				if err := confirmForm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out(cmd), "Cancelled.")
					return nil
				}
			}

			ids, err := app.Objectives.Delete(cmd.Context(), id, cascade)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatDeleted(ids))
			return nil
		},
	}

	cmd.Flags().BoolVar(&cascade, "cascade", false, "Delete all descendants as well")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newRollupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rollup ID",
		Short: "Re-derive spans from ID up through its ancestors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			o, err := app.Objectives.Rollup(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "#%d %s spans %s\n", o.ID, o.Title, formatter.Span(o.StartDate, o.EndDate))
			return nil
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List objectives",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tree {
				return printForest(cmd, app)
			}
			objs, err := app.Objectives.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatObjectiveList(objs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "Render the hierarchy with progress")
	return cmd
}

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [ID]",
		Short: "Render the objective forest, or the subtree under ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return printForest(cmd, app)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			node, err := app.Objectives.GetTree(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatForest([]*domain.ObjectiveNode{node}))
			return nil
		},
	}
}

func printForest(cmd *cobra.Command, app *App) error {
	forest, err := app.Objectives.ListTree(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(out(cmd), formatter.FormatForest(forest))
	return nil
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Show an objective's change history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			entries, err := app.Objectives.History(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatHistory(entries))
			return nil
		},
	}
}
