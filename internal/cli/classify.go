package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/hangerlink/pkg/association"
	"github.com/chazu/hangerlink/pkg/scene"
)

func (c *CLI) classifyCommand() *cobra.Command {
	var flags sceneFlags

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show the kind of every hanger and the pipes it belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.open(flags)
			if err != nil {
				return err
			}
			cls := ws.engine.Classifier()
			doc := ws.scene.Doc
			pipes := doc.Elements(scene.Category(ws.cfg.HostCategory))
			hangers := doc.Elements(cls.HangerCategory())

			c.printTitle(fmt.Sprintf("%d hangers, %d pipes", len(hangers), len(pipes)))
			for _, h := range hangers {
				kind := cls.Kinds.Classify(h)
				var on []scene.ElementID
				if kind != association.KindUnknown {
					for _, p := range pipes {
						if cls.Belongs(h, p) {
							on = append(on, p.ID)
						}
					}
				}
				fmt.Fprintf(c.Out, "%6s  %s %s %-6s %s\n",
					h.ID, styleKind(kind), iconArrow, formatIDs(on), StyleDim.Render(h.DisplayName()))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func styleKind(k association.Kind) string {
	s := fmt.Sprintf("%-8s", k)
	switch k {
	case association.KindClamp:
		return styleClamp.Render(s)
	case association.KindPortal:
		return stylePortal.Render(s)
	default:
		return StyleDim.Render(s)
	}
}
