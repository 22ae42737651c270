package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/kalambet/procard/internal/card"
	"github.com/kalambet/procard/internal/config"
	"github.com/kalambet/procard/internal/profile"
	"github.com/kalambet/procard/internal/share"
)

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View, edit and share the profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile card",
	Long: `Show the committed profile as a card.

Examples:
  procard profile show
  procard profile show --skills
  procard profile show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		skills, _ := cmd.Flags().GetBool("skills")
		width, _ := cmd.Flags().GetInt("width")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var rec profile.Record
		if err := client.call(cmd.Context(), http.MethodGet, "/profile", nil, &rec); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}
		fmt.Fprintln(out, card.New(out, card.Options{Width: width, ShowSkills: skills}).Render(rec))
		return nil
	},
}

var profileSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a one-paragraph profile summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var result map[string]string
		if err := client.call(cmd.Context(), http.MethodGet, "/profile/summary", nil, &result); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result["summary"])
		return nil
	},
}

var profileShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share the profile through the configured share target",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var msg share.Message
		if err := client.call(cmd.Context(), http.MethodPost, "/profile/share", nil, &msg); err != nil {
			return err
		}
		printSuccess("Shared: %s", msg.Text)
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the profile interactively",
	Long: `Open an editor on the server and edit the profile in the terminal.
Nothing changes until you choose Save. Ctrl-C or Discard leaves the
profile as it was.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return runEditor(cmd.Context(), client, huhPrompter{}, cmd.OutOrStdout(), force)
	},
}

func init() {
	profileShowCmd.Flags().Bool("json", false, "print the raw record as JSON")
	profileShowCmd.Flags().Bool("skills", false, "show skill levels")
	profileShowCmd.Flags().Int("width", 60, "card width in columns")
	profileEditCmd.Flags().Bool("force", false, "discard an editor that is already open")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSummaryCmd)
	profileCmd.AddCommand(profileShareCmd)
	profileCmd.AddCommand(profileEditCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s  %s\n", colorize(colorBold, k.Key), k.Value, colorize(colorCyan, "($"+k.EnvVar+")"))
		}
		return nil
	},
}

func completeConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>",
	Short:             "Set a configuration value",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:               "unset <key>",
	Short:             "Remove a configuration value so its default applies",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
