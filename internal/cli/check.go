package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/hangerlink/pkg/scenefile"
)

func (c *CLI) checkCommand() *cobra.Command {
	var flags sceneFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a scene file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(flags.config)
			if err != nil {
				return err
			}
			f, err := readScene(flags.scene)
			if err != nil {
				return err
			}

			res := scenefile.Validate(f, sceneOptions(cfg))
			for _, e := range res.Errors {
				c.printError("%s", e.Error())
			}
			for _, w := range res.Warnings {
				c.printWarning("%s", w.Error())
			}
			if !res.OK() {
				return fmt.Errorf("%s: %d errors", flags.scene, len(res.Errors))
			}
			c.printSuccess("%s: %d elements, %d views, %d warnings",
				flags.scene, len(f.Elements), len(f.Views), len(res.Warnings))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
