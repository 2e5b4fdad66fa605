package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/supermango/mangoscan/internal/cli"
	"github.com/supermango/mangoscan/internal/config"
	"github.com/supermango/mangoscan/internal/history"
)

func treesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trees",
		Short: "Manage saved tree scan results",
		Long: `View and manage the scan results you chose to keep. Each entry pairs a
tree name with the full analysis it was saved with.`,
	}

	cmd.AddCommand(treesListCmd())
	cmd.AddCommand(treesShowCmd())
	cmd.AddCommand(treesDeleteCmd())

	return cmd
}

// withStore opens the history store for the duration of a command.
func withStore(fn func(store *history.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open scan history: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close scan history", "error", closeErr)
		}
	}()

	return fn(store)
}

func treesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all saved trees",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(store *history.Store) error {
				records, err := store.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list saved trees: %w", err)
				}

				if len(records) == 0 {
					fmt.Println(cli.InfoStyle.Render("No saved trees yet. Start scanning mango leaves to build your tree health collection."))
					return nil
				}

				fmt.Println(cli.FormatTitle("Saved Trees"))
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "ID\tNAME\tSEVERITY\tSAVED\n")
				for _, rec := range records {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						rec.ID, rec.Name, cli.StyleSeverity(rec.Payload.OverallLabel), formatTimestamp(rec.Timestamp))
				}
				return w.Flush()
			})
		},
	}
}

func treesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved tree's full analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *history.Store) error {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to load tree %s: %w", args[0], err)
				}

				fmt.Println(renderSavedRecord(rec))
				return nil
			})
		},
	}
}

func treesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skipConfirm, _ := cmd.Flags().GetBool("yes")

			return withStore(func(store *history.Store) error {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to load tree %s: %w", args[0], err)
				}

				if !skipConfirm {
					prompter := cli.NewPrompter(os.Stdin, os.Stdout)
					ok, confirmErr := prompter.Confirm(cmd.Context(), fmt.Sprintf("Delete %q?", rec.Name), false)
					if confirmErr != nil {
						return confirmErr
					}
					if !ok {
						fmt.Println(cli.FormatInfo("Nothing deleted"))
						return nil
					}
				}

				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("failed to delete tree %s: %w", args[0], err)
				}

				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %q", rec.Name)))
				return nil
			})
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "delete without confirmation")

	return cmd
}
