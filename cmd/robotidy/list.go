package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kkotenko/robotframework-tidy/internal/config"
	"github.com/kkotenko/robotframework-tidy/internal/transform"
)

var (
	listNameStyle     = lipgloss.NewStyle().Bold(true)
	listEnabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	listDisabledStyle = lipgloss.NewStyle().Faint(true)
)

// listNameColumn fits the longest catalog name plus breathing room.
const listNameColumn = 24

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the transformer catalog in execution order",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("filter", "all", "show all, enabled or disabled transformers")
	listCmd.Flags().Int("target-version", config.Default().TargetVersion, "target Robot Framework major version (4-7)")
}

func runList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	filter, _ := cmd.Flags().GetString("filter")
	targetVersion, _ := cmd.Flags().GetInt("target-version")

	switch filter {
	case "all", "enabled", "disabled":
	default:
		return fmt.Errorf("invalid --filter value %q, expected all, enabled or disabled", filter)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Transformers, in execution order:")
	for _, t := range transform.NewRegistry().All() {
		enabled := t.MinVersion() <= targetVersion
		if filter == "enabled" && !enabled {
			continue
		}
		if filter == "disabled" && enabled {
			continue
		}
		status := listEnabledStyle.Render("enabled")
		if !enabled {
			status = listDisabledStyle.Render(fmt.Sprintf("disabled, needs Robot Framework %d", t.MinVersion()))
		}
		fmt.Fprintf(out, "  %s%s\n", listNameStyle.Width(listNameColumn).Render(t.Name()), status)
	}
	return nil
}
