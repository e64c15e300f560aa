package cli

import (
	"github.com/spf13/cobra"

	"github.com/chazu/hangerlink/pkg/propagate"
)

func (c *CLI) hideCommand() *cobra.Command {
	var (
		flags sceneFlags
		view  string
		write string
	)

	cmd := &cobra.Command{
		Use:   "hide",
		Short: "Hide the hangers of pipes hidden in a view",
		Long: `Hide every clamp or portal hanger attached to a pipe that is hidden in the
view, whether by element, by category or by a view filter toggled off.
Without --view every view of the scene is processed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open(flags)
			if err != nil {
				return err
			}
			views, err := ws.views(view)
			if err != nil {
				return err
			}

			total := 0
			for _, v := range views {
				res, err := ws.engine.HideHangers(v)
				if err != nil {
					c.printError("%s: %v", v.Name(), err)
					return err
				}
				total += len(res.Hidden)
				c.report(v.Name(), res)
			}

			if write != "" {
				if err := ws.scene.Save(write); err != nil {
					return err
				}
				c.printSuccess("wrote %s", write)
			} else if total > 0 {
				c.printDetail("use --write to save the new hidden state")
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&view, "view", "", "view name (default: all views)")
	cmd.Flags().StringVarP(&write, "write", "w", "", "write the updated scene to this file")
	return cmd
}

func (c *CLI) report(view string, res *propagate.Result) {
	switch res.State {
	case propagate.StateElementsHidden:
		c.printSuccess("%s: hid %s hangers of %s hidden pipes",
			view, StyleNumber.Render(itoa(len(res.Hidden))), StyleNumber.Render(itoa(res.HiddenPipes)))
		c.printDetail("hidden: %s", formatIDs(res.Hidden))
	default:
		c.printInfo("%s: %s (%d hidden pipes, %d hangers attached)",
			view, res.State, res.HiddenPipes, len(res.Associated))
	}
}
