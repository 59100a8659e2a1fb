package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Config == nil {
				return errors.New("no configuration loaded")
			}
			data, err := app.Config.YAML()
			if err != nil {
				return err
			}
			_, err = out(cmd).Write(data)
			return err
		},
	})
	return cmd
}
