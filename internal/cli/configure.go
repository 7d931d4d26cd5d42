package cli

import (
	"fmt"

	"github.com/mcao2/postcheck/internal/config"
	"github.com/mcao2/postcheck/internal/ui"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Edit provider, key and theme settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigure,
}

func init() {
	configureCmd.Flags().Bool("example", false, "write a commented example config instead (never overwrites)")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if example, _ := cmd.Flags().GetBool("example"); example {
		if err := config.SaveExampleConfig(); err != nil {
			return fmt.Errorf("writing example config: %w", err)
		}
		fmt.Fprintf(out, "Example config at %s\n", config.Path())
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	form := ui.NewSettingsForm(cfg)
	if _, err := form.Run(); err != nil {
		return err
	}
	if err := form.ApplyTo(cfg); err != nil {
		return err
	}
	if err := cfg.SaveAll(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(out, "Saved %s\n", config.Path())
	return nil
}
