package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dubscore/internal/deps"
	"dubscore/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check that the measurement tools are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := preflight.CheckSystemDeps(cfg)
			missing := deps.Missing(statuses)

			if handled, err := writeStructured(cmd, format, statuses); handled {
				if err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Dependencies", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, status := range statuses {
					fmt.Fprintln(out, dependencyLine(status, colorize))
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", formatTable, "Output format: table, json, or yaml")
	return cmd
}
