package cmd

import (
	"fmt"
	"os"

	"github.com/edvinh/lui/internal/utils"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show lifecycle state, model file presence and active config",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime()
		if err != nil {
			return err
		}
		snap := r.manager.Snapshot()
		fmt.Printf("state:      %v\n", snap.State)
		fmt.Printf("model:      %v\n", r.conf.ModelName)
		fmt.Printf("model file: %v\n", presence(r.conf.ModelFile))
		fmt.Printf("theme:      %v\n", utils.ThemeMode())
		fmt.Printf("config dir: %v\n", r.confDir)
		return nil
	},
}

func presence(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("%v (absent)", path)
	}
	return fmt.Sprintf("%v (%v bytes)", path, fi.Size())
}
