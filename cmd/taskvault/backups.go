package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/taskvault/internal/app"
)

func backupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List or restore snapshots taken before imports",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			backups, err := a.Slot.Backups()
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Println("No backups")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tSIZE")
			for _, b := range backups {
				fmt.Fprintf(w, "%d\t%s\t%d\n", b.ID, b.CreatedAt.Local().Format(time.DateTime), len(b.Value))
			}
			return w.Flush()
		}),
	}

	restore := &cobra.Command{
		Use:   "restore [id]",
		Short: "Restore a backup; the current vault is backed up first",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app.App, cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid backup id %q", args[0])
			}
			if err := a.Slot.Restore(id); err != nil {
				return err
			}
			fmt.Printf("Restored backup %d\n", id)
			return nil
		}),
	}

	cmd.AddCommand(list, restore)
	return cmd
}
