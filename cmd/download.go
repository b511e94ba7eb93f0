package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/edvinh/lui/internal/lifecycle"
	"github.com/spf13/cobra"
)

var downloadYes bool

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the configured model file",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRuntime()
		if err != nil {
			return err
		}
		err = r.download(cmd.Context(), downloadYes)
		if errors.Is(err, errUserDeclined) {
			ancli.Okf("no problem, nothing downloaded\n")
			return nil
		}
		return err
	},
}

func init() {
	downloadCmd.Flags().BoolVarP(&downloadYes, "yes", "y", false, "skip the consent prompt")
}

// download walks idle -> awaitingConsent -> (confirm | cancel), retrying once
// on user request if the fetch fails.
func (r *runtime) download(ctx context.Context, skipConsent bool) error {
	if err := r.manager.RequestDownload(); err != nil {
		return err
	}
	if !skipConsent && !consent(r) {
		if err := r.manager.Cancel(); err != nil {
			return err
		}
		return errUserDeclined
	}
	r.manager.Confirm(ctx)
	fmt.Println()
	snap := r.manager.Snapshot()
	switch snap.State {
	case lifecycle.StateDownloaded:
		ancli.Okf("model available at '%v'\n", r.conf.ModelFile)
		return nil
	case lifecycle.StateError:
		ancli.PrintErr(fmt.Sprintf("download failed: %v\n", snap.ErrorDetail))
		if promptYesNo("Retry?") {
			r.manager.Retry(ctx)
			fmt.Println()
			if snap = r.manager.Snapshot(); snap.State == lifecycle.StateDownloaded {
				ancli.Okf("model available at '%v'\n", r.conf.ModelFile)
				return nil
			}
			return fmt.Errorf("download failed: %v", r.manager.Snapshot().ErrorDetail)
		}
		return r.manager.Cancel()
	default:
		return fmt.Errorf("unexpected state after download: %v", snap.State)
	}
}

func consent(r *runtime) bool {
	fmt.Printf("model '%v' will be fetched from:\n  %v\nand stored at:\n  %v\n", r.conf.ModelName, r.conf.ModelURL, r.conf.ModelFile)
	return promptYesNo("Download now?")
}

func promptYesNo(question string) bool {
	fmt.Printf("%v [y/N]: ", question)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
