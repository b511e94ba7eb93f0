package cmd

import (
	"errors"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Send a single prompt to the model and render the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime()
		if err != nil {
			return err
		}
		if err := r.ensureReady(cmd.Context()); err != nil {
			if errors.Is(err, errUserDeclined) {
				ancli.Okf("can't answer without a model, bye!\n")
				return nil
			}
			return err
		}
		defer func() {
			if err := r.manager.Release(); err != nil {
				ancli.PrintWarn("failed to release model: " + err.Error() + "\n")
			}
		}()
		reply, err := r.sess.Ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printReply(reply)
		return nil
	},
}
