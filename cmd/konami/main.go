package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/konami/audio"
	"github.com/lixenwraith/konami/config"
	"github.com/lixenwraith/konami/engine"
	"github.com/lixenwraith/konami/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
	watch      bool
)

// rootCmd runs the interactive screen
var rootCmd = &cobra.Command{
	Use:   "konami",
	Short: "Terminal easter eggs: a secret key sequence and a clickable logo",
	Long: `konami draws a logo in the corner of the terminal and waits.

Type the Konami Code for a burst of confetti, or click the logo
enough times in a row to unlock an achievement. Escape quits.

Logs go to the configured log file since the terminal belongs to the UI.`,
	SilenceUsage: true,
	RunE:         runGame,
}

// hintCmd prints the banner the game logs on start
var hintCmd = &cobra.Command{
	Use:   "hint",
	Short: "Print the secret hint banner",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), engine.Banner)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&watch, "watch", true, "Reload the config file when it changes")

	rootCmd.AddCommand(hintCmd)
}

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.ReportCrash("KONAMI", r)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGame(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	var reloads <-chan *config.Config
	if watch && configPath != "" {
		w, err := config.Watch(configPath, logger.Named("config"))
		if err != nil {
			logger.Warn("config watch disabled", zap.Error(err))
		} else {
			defer w.Close()
			reloads = w.Updates()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()

	// Non-fatal, the game runs silently without a speaker
	sound := audio.NewSoundManager(cfg.Audio, logger.Named("audio"))
	if err := sound.Initialize(); err != nil {
		logger.Warn("audio initialization failed, continuing without audio", zap.Error(err))
	}

	game, err := engine.NewGame(cfg, engine.Options{
		Screen:  screen,
		Sound:   sound,
		Reloads: reloads,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer game.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := game.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
