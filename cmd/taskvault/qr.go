package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/taskvault/internal/app"
	"github.com/tgienger/taskvault/internal/transfer"
)

func qrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Move the vault between devices as a QR payload",
	}
	cmd.AddCommand(qrExportCmd(), qrImportCmd())
	return cmd
}

func qrExportCmd() *cobra.Command {
	var password, unlock, png string
	var size int
	var raw, plain bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the vault as a QR code",
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			doc, err := readDocument(a, unlock)
			if err != nil {
				return err
			}
			payloadPassword, err := transfer.PayloadPassword(doc, password, unlock, plain)
			if err != nil {
				return fmt.Errorf("%w: pass --password or --plain", err)
			}
			payload, err := a.Transfer.ExportPortable(doc, payloadPassword)
			if err != nil {
				return err
			}

			if raw {
				fmt.Println(payload)
				return nil
			}
			if png != "" {
				if err := transfer.WriteQRPNG(payload, png, size); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", png)
				return nil
			}
			code, err := transfer.RenderQR(payload)
			if err != nil {
				return err
			}
			fmt.Print(code)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Protect the payload with this password, defaults to --unlock for an encrypted vault")
	cmd.Flags().StringVar(&unlock, "unlock", "", "Vault password, when the vault is encrypted")
	cmd.Flags().StringVar(&png, "png", "", "Write a PNG image instead of printing")
	cmd.Flags().IntVar(&size, "size", 512, "PNG size in pixels")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the payload text instead of a QR code")
	cmd.Flags().BoolVar(&plain, "plain", false, "Export an encrypted vault without payload protection")
	return cmd
}

func qrImportCmd() *cobra.Command {
	var password, vaultPassword string

	cmd := &cobra.Command{
		Use:   "import [payload]",
		Short: "Replace the vault with a scanned QR payload",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			doc, err := a.Transfer.ImportPortable(args[0], password)
			if err != nil {
				return err
			}
			if vaultPassword == "" {
				vaultPassword = password
			}
			if err := a.Store.Replace(doc, vaultPassword); err != nil {
				return err
			}
			fmt.Printf("Imported %d tasks and %d projects\n", len(doc.Tasks), len(doc.Projects))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Payload password")
	cmd.Flags().StringVar(&vaultPassword, "vault-password", "", "Vault password of the exporting device, defaults to --password")
	return cmd
}
