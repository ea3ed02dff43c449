package tui

import (
	"github.com/blackwell-systems/mediadesk/internal/util"
	"github.com/spf13/cobra"
)

// ShouldUseTUI returns true if the command should use interactive TUI mode.
// TUI mode needs a terminal on stdout, no --no-interactive and no explicit
// --format, which signals scripting intent.
func ShouldUseTUI(cmd *cobra.Command) bool {
	if !util.IsTTY() {
		return false
	}

	if noInteractive, _ := cmd.Flags().GetBool("no-interactive"); noInteractive {
		return false
	}

	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return false
	}

	return true
}
