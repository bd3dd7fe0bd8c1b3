package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/coursa-cli/coursa/color"
	"github.com/coursa-cli/coursa/icon"
	"github.com/coursa-cli/coursa/key"
	"github.com/coursa-cli/coursa/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd verifies required external dependencies.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that required external dependencies are installed",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()
		fmt.Printf("%s %s found in PATH\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Bold(playerBinary()),
		)
	},
}

func playerBinary() string {
	p := viper.GetString(key.Player)
	if p == "" {
		return "mpv"
	}
	return p
}

// CheckDependencies verifies that the configured media player is available
// in the system PATH, exiting with guidance when it is not.
func CheckDependencies() {
	binary := playerBinary()
	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependencyError(binary)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install " + dep
	case "linux":
		installCmd = "sudo apt install " + dep
	case "windows":
		installCmd = "scoop install " + dep
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep)

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(color.Orange).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
