package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dubscore/internal/history"
	"dubscore/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render or inspect quality reports",
	}
	reportCmd.AddCommand(newReportRenderCommand(ctx))
	reportCmd.AddCommand(newReportRankCommand())
	return reportCmd
}

func newReportRenderCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var player string

	cmd := &cobra.Command{
		Use:   "render <session-id|latest>",
		Short: "Render the markdown report of a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				id, err := resolveSessionID(cmd, store, args[0])
				if err != nil {
					return err
				}
				sess, err := store.Load(cmd.Context(), id)
				if err != nil {
					return err
				}
				doc, err := report.RenderSession(sess, report.Options{Player: player})
				if err != nil {
					return err
				}
				if outputPath == "" {
					_, err = cmd.OutOrStdout().Write(doc)
					return err
				}
				if err := os.WriteFile(outputPath, doc, 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outputPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&player, "player", report.DefaultPlayer, "Command prefix for A/B listening lines")
	return cmd
}

func newReportRankCommand() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:         "rank <quality_report.md>",
		Short:       "Print the ranking table of an existing report",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}
			rows, err := report.ParseRanking(doc)
			if err != nil {
				return err
			}
			if handled, err := writeStructured(cmd, format, rows); handled {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderParsedRanking(rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", formatTable, "Output format: table, json, or yaml")
	return cmd
}
