// Package cmd wires the lifecycle manager, codec and dispatcher into a
// terminal host.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/edvinh/lui/internal/assets"
	"github.com/edvinh/lui/internal/engine"
	"github.com/edvinh/lui/internal/lifecycle"
	"github.com/edvinh/lui/internal/session"
	"github.com/edvinh/lui/internal/tools"
	"github.com/edvinh/lui/internal/utils"
	"github.com/spf13/cobra"
)

var errUserDeclined = errors.New("user declined")

var rootCmd = &cobra.Command{
	Use:   "lui",
	Short: "Drive UI actions through a locally running language model",
	Long: `lui - (l)anguage-driven (u)ser (i)nterface

Ask in plain language, and the local model either answers in text or
performs one of the built in UI actions: change the theme, show a
notification, or navigate to a screen. The model file is downloaded on
first use, after an explicit consent prompt.`,
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.AddCommand(setupCmd, downloadCmd, statusCmd, askCmd, chatCmd)
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// runtime holds the per-invocation wiring: exactly one lifecycle manager and
// one session, passed explicitly to whatever needs them.
type runtime struct {
	confDir string
	conf    Config
	manager *lifecycle.Manager
	sess    *session.Session
}

func newRuntime() (*runtime, error) {
	confDir, err := utils.GetLuiConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to find config dir: %w", err)
	}
	if err := utils.CreateConfigDir(confDir); err != nil {
		return nil, err
	}
	conf, err := utils.LoadConfigFromFile(confDir, "modelConfig.json", defaultConfig(confDir))
	if err != nil {
		return nil, err
	}
	if err := utils.LoadTheme(confDir); err != nil {
		ancli.PrintWarn(fmt.Sprintf("failed to load theme, using defaults: %v\n", err))
	}

	asset := assets.Asset{
		Name:     conf.ModelName,
		URL:      conf.ModelURL,
		Path:     conf.ModelFile,
		MinBytes: conf.MinBytes,
	}
	manager := lifecycle.NewManager(asset, assets.NewHTTPFetcher(), engine.NewLlamaServer(conf.EngineBinary, conf.EnginePort), onLifecycleChange(conf.ModelName))
	tools.Init()
	dispatcher := tools.NewDispatcher(hostEffects(confDir))
	opts := engine.Options{
		MaxTokens:     conf.MaxTokens,
		Temperature:   conf.Temperature,
		StopSequences: []string{"\nuser:"},
	}
	sess := session.New(manager, dispatcher, tools.Registry.All(), opts, nil)
	return &runtime{confDir: confDir, conf: conf, manager: manager, sess: sess}, nil
}

func onLifecycleChange(modelName string) func(lifecycle.Snapshot) {
	return func(s lifecycle.Snapshot) {
		if misc.Truthy(os.Getenv("DEBUG")) {
			ancli.Okf("lifecycle: %+v\n", s)
		}
		if s.State == lifecycle.StateDownloading {
			fmt.Printf("\rdownloading %v: %3.0f%%", modelName, s.DownloadProgress*100)
		}
	}
}

// hostEffects binds the three UI actions to this terminal host: the theme
// action switches and persists the ANSI palette, notifications and
// navigation render as terminal output.
func hostEffects(confDir string) tools.Effects {
	return tools.Effects{
		OnThemeChange: func(value string) {
			mode := utils.SetThemeMode(value)
			if err := utils.SaveTheme(confDir); err != nil {
				ancli.PrintWarn(fmt.Sprintf("failed to persist theme: %v\n", err))
			}
			if misc.Truthy(os.Getenv("DEBUG")) {
				ancli.Okf("theme mode now: %v\n", mode)
			}
		},
		OnNotification: func(title, message, notificationType string) {
			ancli.Noticef("[%v] %v: %v\n", notificationType, title, message)
		},
		OnNavigate: func(screenID string) {
			fmt.Println(utils.Colorize(utils.ThemeSecondaryColor(), fmt.Sprintf("--- %v ---", screenID)))
		},
	}
}

// ensureReady walks the lifecycle to ready, asking for download consent when
// the model file is not yet present.
func (r *runtime) ensureReady(ctx context.Context) error {
	if r.manager.IsModelReady() {
		return nil
	}
	if r.manager.Snapshot().State == lifecycle.StateIdle {
		if err := r.download(ctx, false); err != nil {
			return err
		}
	}
	if snap := r.manager.Snapshot(); snap.State == lifecycle.StateError {
		return fmt.Errorf("model acquisition failed: %v", snap.ErrorDetail)
	}
	if err := r.manager.Load(ctx); err != nil {
		return err
	}
	return nil
}

func printReply(reply session.Reply) {
	if reply.Outcome != nil {
		fmt.Println(utils.Colorize(utils.ThemeSecondaryColor(), reply.Outcome.Label))
		if reply.Outcome.Success {
			fmt.Println(utils.Colorize(utils.ThemePrimaryColor(), reply.Outcome.Message))
		} else {
			ancli.PrintWarn(reply.Outcome.Message + "\n")
		}
	}
	if reply.Prose != "" {
		fmt.Println(utils.Colorize(utils.ThemeBreadtextColor(), reply.Prose))
	}
}
