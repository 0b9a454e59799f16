package cmd

import (
	"fmt"

	"storemy/pkg/registry"
	"storemy/pkg/session"
	"storemy/pkg/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	showBanner(cmd)

	return withRegistry(func(reg *registry.Registry, sess *session.Session) error {
		p := tea.NewProgram(
			ui.NewModel(ui.NewExecutor(reg, sess)),
			tea.WithAltScreen(),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running shell: %w", err)
		}
		return nil
	})
}

func showBanner(cmd *cobra.Command) {
	banner := `
╔══════════════════════════════════════════╗
║                                          ║
║   ███████╗████████╗ ██████╗ ██████╗      ║
║   ██╔════╝╚══██╔══╝██╔═══██╗██╔══██╗     ║
║   ███████╗   ██║   ██║   ██║██████╔╝     ║
║   ╚════██║   ██║   ██║   ██║██╔══██╗     ║
║   ███████║   ██║   ╚██████╔╝██║  ██║     ║
║   ╚══════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝     ║
║                                          ║
╚══════════════════════════════════════════╝
`
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	fmt.Fprintln(cmd.OutOrStdout(), style.Render(banner))
}
