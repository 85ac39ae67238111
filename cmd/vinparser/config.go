package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vinkit/validator/internal/config"
)

// configReport is the JSON form of config show.
type configReport struct {
	File   string         `json:"file,omitempty"`
	Config *config.Config `json:"config"`
}

func newConfigCommand(a *app) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vinparser configuration",
		Long: `Manage vinparser configuration.

Configuration is read from config.cue in the configuration directory
($XDG_CONFIG_HOME/vinparser on Linux) or from --config. VINPARSER_*
environment variables override the file; flags override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if a.jsonOutput() {
				return writeJSON(w, configReport{File: a.cfgPath, Config: a.cfg})
			}
			showConfig(w, a.cfg, a.cfgPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultPath("")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig("")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration at %s\n", SuccessStyle.Render(markValid), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(a.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, path string) {
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("output"), valueStyle.Render(string(cfg.Output)))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("workers"), valueStyle.Render(strconv.Itoa(cfg.Workers)))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("dataset"), valueStyle.Render(cfg.Dataset))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("normalize"), valueStyle.Render(strconv.FormatBool(cfg.Normalize)))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("log_level"), valueStyle.Render(cfg.LogLevel))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("strict"), valueStyle.Render(strconv.FormatBool(cfg.Strict)))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("unknown"), valueStyle.Render(cfg.Unknown))
}
