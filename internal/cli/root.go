package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mcao2/postcheck/internal/config"
	"github.com/mcao2/postcheck/internal/ui"
	"github.com/spf13/cobra"
)

// ErrBlocked is returned by check commands run with --strict when the
// verdict is DO NOT POST.
var ErrBlocked = errors.New("content must not be posted")

var rootCmd = &cobra.Command{
	Use:   "postcheck",
	Short: "Check TikTok Shop content against policy before posting",
	Long: `postcheck sends a video, caption and script to a multimodal model and
reports whether the content is safe to post on TikTok Shop.

Run without arguments to open the interactive dashboard.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.Flags().String("video", "", "prefill the video path")
	rootCmd.Flags().String("caption", "", "prefill the caption")
	rootCmd.Flags().String("script", "", "prefill the script")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests to stderr (non-interactive commands)")

	rootCmd.AddCommand(checkCmd, captionCmd, configureCmd, versionCmd)
}

// Execute runs the command line.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, ErrBlocked) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// ExitCode maps an Execute error onto the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrBlocked):
		return 2
	default:
		return 1
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// the dashboard owns the terminal, so logs go to a file or nowhere
	_, _ = config.EnsureConfigDir()
	logFile, err := tea.LogToFile(cfg.LogPath(), "postcheck")
	if err != nil {
		log.SetOutput(io.Discard)
	} else {
		defer logFile.Close()
	}

	video, _ := cmd.Flags().GetString("video")
	caption, _ := cmd.Flags().GetString("caption")
	script, _ := cmd.Flags().GetString("script")

	m := ui.NewModel()
	m.Prefill(video, caption, script)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

// setupLogging routes request logs for the non-interactive commands.
func setupLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		log.SetOutput(cmd.ErrOrStderr())
		return
	}
	log.SetOutput(io.Discard)
}
