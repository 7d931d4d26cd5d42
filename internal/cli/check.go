package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mcao2/postcheck/internal/compliance"
	"github.com/mcao2/postcheck/internal/config"
	"github.com/mcao2/postcheck/internal/media"
	"github.com/mcao2/postcheck/internal/ui"
	"github.com/spf13/cobra"
)

const reportWidth = 100

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a full compliance check and print the report (non-interactive)",
	Long: `Send any combination of video, caption and script for a full analysis.
Useful in scripts and pre-publish hooks.

Exit codes:
  0 - report printed
  1 - the check could not be run
  2 - DO NOT POST (only with --strict)`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var captionCmd = &cobra.Command{
	Use:   "caption TEXT",
	Short: "Test a caption on its own",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaption,
}

func init() {
	checkCmd.Flags().String("video", "", "path to the video (or image) file")
	checkCmd.Flags().String("caption", "", "caption or product description")
	checkCmd.Flags().String("script", "", "spoken script")

	for _, c := range []*cobra.Command{checkCmd, captionCmd} {
		c.Flags().Bool("json", false, "print the validated result as JSON")
		c.Flags().Bool("strict", false, "exit with status 2 when the decision is DO NOT POST")
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	videoPath, _ := cmd.Flags().GetString("video")
	caption, _ := cmd.Flags().GetString("caption")
	script, _ := cmd.Flags().GetString("script")

	in := compliance.AnalyzeInput{Caption: caption, Script: script}
	if videoPath != "" {
		md, err := media.Open(videoPath)
		if err != nil {
			return err
		}
		encoded, err := md.Encode()
		if err != nil {
			return err
		}
		in.Media = encoded
	}
	if in.Empty() {
		return compliance.ErrNoInput
	}

	client, ctx, cancel, err := newRequest()
	if err != nil {
		return err
	}
	defer cancel()

	result, err := client.Analyze(ctx, in)
	if err != nil {
		return err
	}
	return report(cmd, result)
}

func runCaption(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	client, ctx, cancel, err := newRequest()
	if err != nil {
		return err
	}
	defer cancel()

	result, err := client.TestCaption(ctx, args[0])
	if err != nil {
		return err
	}
	return report(cmd, result)
}

// newRequest builds a client from config and environment and a context that
// ends on interrupt or after the configured timeout.
func newRequest() (*compliance.Client, context.Context, context.CancelFunc, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	llm := cfg.GetLLMConfig()
	client, err := compliance.NewClient(llm.Provider, llm.APIKey,
		compliance.WithModel(llm.Model),
		compliance.WithBaseURL(llm.BaseURL),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if d := cfg.Timeout(); d > 0 {
		timed, cancel := context.WithTimeout(ctx, d)
		return client, timed, func() { cancel(); stop() }, nil
	}
	return client, ctx, stop, nil
}

func report(cmd *cobra.Command, r *compliance.Result) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	strict, _ := cmd.Flags().GetBool("strict")

	if err := writeResult(cmd.OutOrStdout(), r, asJSON); err != nil {
		return err
	}
	if strict && r.Decision == compliance.DecisionDoNotPost {
		return ErrBlocked
	}
	return nil
}

func writeResult(w io.Writer, r *compliance.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	_, err := fmt.Fprintln(w, ui.RenderResult(ui.DefaultStyles(), r, reportWidth))
	return err
}
