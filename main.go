package main

import (
	"context"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/edvinh/lui/cmd"
)

func main() {
	ancli.SetupSlog()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { shutdown.Monitor(cancel) }()
	err := cmd.Execute(ctx)
	cancel()
	if err != nil {
		ancli.PrintErr("failed to run: " + err.Error() + "\n")
		os.Exit(1)
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("things seems to have worked out. Bye bye! 🚀\n")
	}
}
