package cmd

import (
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the config directory and default configuration files",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime()
		if err != nil {
			return err
		}
		ancli.Okf("config dir ready at '%v'\n", r.confDir)
		ancli.Okf("edit modelConfig.json to point at a different model or engine\n")
		return nil
	},
}
