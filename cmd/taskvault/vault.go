package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/taskvault/internal/app"
	"github.com/tgienger/taskvault/internal/models"
	"github.com/tgienger/taskvault/internal/transfer"
	"github.com/tgienger/taskvault/internal/vault"
)

func initCmd() *cobra.Command {
	var name, password string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new vault",
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			_, exists, err := a.Slot.Load()
			if err != nil {
				return err
			}
			switch {
			case exists && !force:
				return errors.New("vault already exists, pass --force to replace it")
			case exists:
				if err := a.Slot.Clear(); err != nil {
					return fmt.Errorf("clear vault: %w", err)
				}
				a.Store.Lock()
			}

			doc := models.NewDocument()
			doc.User.Name = name
			if password != "" {
				if _, err := a.Store.SetEncryption(doc, true, password); err != nil {
					return err
				}
			} else if err := a.Store.Write(doc); err != nil {
				return err
			}
			fmt.Printf("Created vault for %s (encrypted: %t)\n", name, password != "")
			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "User name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Enable encryption with this password")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing vault, keeping it as a backup")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show vault status and task counts",
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			doc, err := a.Store.Read()
			locked := errors.Is(err, vault.ErrLocked)
			if err != nil && !locked {
				return err
			}

			fmt.Println("Vault Status")
			fmt.Println(strings.Repeat("=", 40))
			fmt.Printf("  Data dir:   %s\n", a.Config.DataDir)
			fmt.Printf("  Slot key:   %s\n", a.Slot.Key())
			fmt.Printf("  User:       %s\n", valueOrDefault(doc.User.Name, "(not set)"))
			fmt.Printf("  Encrypted:  %t\n", doc.User.EncryptionEnabled)
			if doc.User.EncryptionEnabled {
				fmt.Printf("  Scheme:     %s\n", doc.Scheme)
				fmt.Printf("  Session:    %s without activity\n", a.Gate.TTL())
			}
			fmt.Printf("  Projects:   %d\n", len(doc.Projects))

			stats := doc.Stats(time.Now())
			fmt.Printf("  Tasks:      %d (todo %d, in progress %d, done %d)\n",
				stats.Total,
				stats.ByStatus[models.StatusTodo],
				stats.ByStatus[models.StatusInProgress],
				stats.ByStatus[models.StatusDone],
			)
			fmt.Printf("  Today:      %d/%d done (%d%%)\n", stats.TodayDone, stats.Today, stats.TodayProgress)
			if locked {
				fmt.Println("\nTask fields are encrypted; open the app and unlock to read them.")
			}
			return nil
		}),
	}
}

func encryptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encryption",
		Short: "Turn field encryption on or off",
	}

	var password, current string
	enable := &cobra.Command{
		Use:   "enable",
		Short: "Encrypt task fields, or change the password of an encrypted vault",
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			doc, err := readDocument(a, current)
			if err != nil {
				return err
			}
			if _, err := a.Store.SetEncryption(doc, true, password); err != nil {
				return err
			}
			fmt.Println("Encryption enabled")
			return nil
		}),
	}
	enable.Flags().StringVarP(&password, "password", "p", "", "New password")
	enable.Flags().StringVar(&current, "current", "", "Current password, when the vault is already encrypted")

	var disablePassword string
	disable := &cobra.Command{
		Use:   "disable",
		Short: "Decrypt task fields and store them in plain text",
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			doc, err := readDocument(a, disablePassword)
			if err != nil {
				return err
			}
			if _, err := a.Store.SetEncryption(doc, false, ""); err != nil {
				return err
			}
			fmt.Println("Encryption disabled")
			return nil
		}),
	}
	disable.Flags().StringVarP(&disablePassword, "password", "p", "", "Current password")

	cmd.AddCommand(enable, disable)
	return cmd
}

func exportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored vault to a file, encrypted fields included",
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			if err := transfer.ExportFile(a.Store, file); err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", file)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "taskvault-export.json", "Output file")
	return cmd
}

func importCmd() *cobra.Command {
	var file, password string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the vault with a file written by export",
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			if err := transfer.ImportFile(a.Store, file, password); err != nil {
				return err
			}
			fmt.Printf("Imported %s (previous vault kept as a backup)\n", file)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "File to import")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password of an encrypted export")
	return cmd
}

func valueOrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
