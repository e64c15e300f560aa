package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/chazu/hangerlink/pkg/scene"
)

func (c *CLI) selectCommand() *cobra.Command {
	var (
		flags sceneFlags
		view  string
		ids   []int64
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Extend a selection of pipes with their hangers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open(flags)
			if err != nil {
				return err
			}
			views, err := ws.views(view)
			if err != nil {
				return err
			}
			if len(views) != 1 {
				return fmt.Errorf("scene has %d views; pick one with --view", len(views))
			}

			in := lo.Map(ids, func(id int64, _ int) scene.ElementID { return scene.ElementID(id) })
			out := ws.engine.AugmentSelection(views[0], in)
			added := lo.Without(out, in...)

			c.printSuccess("selected %s elements (%s added)",
				StyleNumber.Render(itoa(len(out))), StyleNumber.Render(itoa(len(added))))
			fmt.Fprintln(c.Out, formatIDs(out))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&view, "view", "", "view name (required when the scene has several views)")
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "selected element ids, comma separated")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}
