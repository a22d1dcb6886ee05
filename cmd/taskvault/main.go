package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/tgienger/taskvault/internal/app"
	"github.com/tgienger/taskvault/internal/config"
	"github.com/tgienger/taskvault/internal/models"
	"github.com/tgienger/taskvault/internal/session"
	"github.com/tgienger/taskvault/internal/ui"
	"github.com/tgienger/taskvault/internal/vault"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

func main() {
	app.InitDefaultLogger()

	rootCmd := &cobra.Command{
		Use:           "taskvault",
		Short:         "Terminal task manager with an encrypted local vault",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          withApp(runTUI),
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("TASKVAULT_CONFIG"), "Path to a YAML config file")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(encryptionCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(qrCmd())
	rootCmd.AddCommand(backupsCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("taskvault %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withApp loads configuration, opens the vault and hands it to fn
func withApp(fn func(a *app.App, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		closer, err := app.InitApplicationLogger(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer closer.Close()

		a, err := app.New(cfg)
		if err != nil {
			return fmt.Errorf("open vault: %w", err)
		}
		defer a.Close()

		if err := fn(a, cmd, args); err != nil {
			logger := app.Logger()
			logger.Error().
				Err(err).
				Str("command", cmd.Name()).
				Msg("command failed")
			return err
		}
		return nil
	}
}

func runTUI(a *app.App, _ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := app.Logger().With().Str("component", "ui").Logger()
	p := tea.NewProgram(ui.NewApp(a.Store, a.Config.Session.PollInterval, logger), tea.WithAltScreen())

	go session.Watch(ctx, a.Gate, time.Second, func() {
		p.Send(ui.SessionExpired{})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// readDocument returns the decrypted document, unlocking with password
// when the vault is encrypted
func readDocument(a *app.App, password string) (*models.Document, error) {
	doc, err := a.Store.Read()
	if !errors.Is(err, vault.ErrLocked) {
		return doc, err
	}
	if password == "" {
		return nil, errors.New("vault is encrypted, pass --password")
	}
	if err := a.Store.Unlock(password); err != nil {
		return nil, fmt.Errorf("unlock: %w", err)
	}
	return a.Store.Read()
}
