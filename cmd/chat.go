package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/edvinh/lui/internal/utils"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session with the model",
	Long: `Start an interactive session. Each turn is synchronous: input is only
read again once the previous generation has resolved. End the session with
'exit', 'quit' or ctrl-d; the conversation is saved below the config dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime()
		if err != nil {
			return err
		}
		if err := r.ensureReady(cmd.Context()); err != nil {
			if errors.Is(err, errUserDeclined) {
				ancli.Okf("can't chat without a model, bye!\n")
				return nil
			}
			return err
		}
		defer func() {
			if err := r.manager.Release(); err != nil {
				ancli.PrintWarn("failed to release model: " + err.Error() + "\n")
			}
			if err := r.sess.Save(r.confDir); err != nil {
				ancli.PrintWarn(err.Error() + "\n")
			}
		}()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(utils.Colorize(utils.RoleColor("user"), "you: "))
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}
			reply, err := r.sess.Ask(cmd.Context(), line)
			if err != nil {
				if cmd.Context().Err() != nil {
					return nil
				}
				ancli.PrintErr(fmt.Sprintf("failed to get reply: %v\n", err))
				continue
			}
			printReply(reply)
		}
	},
}
