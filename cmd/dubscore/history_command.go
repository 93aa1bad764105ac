package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dubscore/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse previous analysis sessions",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryDeleteCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			return ctx.withHistory(func(store *history.Store) error {
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if handled, err := writeStructured(cmd, format, entries); handled {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No sessions recorded")
					return nil
				}
				fmt.Fprintln(out, renderHistory(entries))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to list (0 for all)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", formatTable, "Output format: table, json, or yaml")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "show <session-id|latest>",
		Short: "Show the ranking of a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			return ctx.withHistory(func(store *history.Store) error {
				id, err := resolveSessionID(cmd, store, args[0])
				if err != nil {
					return err
				}
				sess, err := store.Load(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printAnalysis(cmd, format, sess, "")
			})
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", formatTable, "Output format: table, json, or yaml")
	return cmd
}

func newHistoryDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Remove a session from the history database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				entry, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				removed, err := store.Delete(cmd.Context(), entry.ID)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("session %s: %w", entry.ID, history.ErrNotFound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", entry.ID)
				return nil
			})
		},
	}
}

// resolveSessionID accepts a full id, a unique prefix, or "latest".
func resolveSessionID(cmd *cobra.Command, store *history.Store, ref string) (string, error) {
	if ref != "latest" {
		entry, err := store.Get(cmd.Context(), ref)
		if err != nil {
			return "", err
		}
		return entry.ID, nil
	}
	entries, err := store.List(cmd.Context(), 1)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no sessions recorded")
	}
	return entries[0].ID, nil
}
