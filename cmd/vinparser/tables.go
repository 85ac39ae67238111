package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	vinvalidator "github.com/vinkit/validator"
	"github.com/vinkit/validator/pkg/tables"
)

// tablesReport describes the loaded dataset.
type tablesReport struct {
	tables.Stats
	Available []string `json:"available"`
}

// lookupReport is the table match for one prefix.
type lookupReport struct {
	Prefix       string `json:"prefix"`
	Country      string `json:"country,omitempty"`
	Region       string `json:"region,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

func newTablesCommand(a *app) *cobra.Command {
	tablesCmd := &cobra.Command{
		Use:   "tables",
		Short: "Show reference dataset information",
		Long: `Show the reference dataset in use and the embedded datasets available.

Select a dataset with --dataset, either by embedded name or by path to
a TOML file with the same layout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTables()
			if err != nil {
				return err
			}
			versions, err := vinvalidator.DatasetVersions()
			if err != nil {
				return err
			}
			rep := tablesReport{Stats: t.Stats(), Available: make([]string, 0, len(versions))}
			for _, v := range versions {
				rep.Available = append(rep.Available, v.String())
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput() {
				return writeJSON(w, rep)
			}
			renderTables(w, rep)
			return nil
		},
	}

	tablesCmd.AddCommand(&cobra.Command{
		Use:   "lookup <prefix>...",
		Short: "Look up a WMI or VIN prefix",
		Long: `Look up the country, region and manufacturer registered for each
prefix. Countries and regions match on the longest known prefix;
manufacturers need the full three-character WMI.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTables()
			if err != nil {
				return err
			}
			reports := make([]lookupReport, 0, len(args))
			for _, arg := range args {
				reports = append(reports, lookup(t, a.prepare(arg)))
			}

			w := cmd.OutOrStdout()
			if a.jsonOutput() {
				return writeJSON(w, reports)
			}
			for _, r := range reports {
				renderLookup(w, r, a.cfg.Unknown)
			}
			return nil
		},
	})

	return tablesCmd
}

func lookup(t *tables.Tables, prefix string) lookupReport {
	r := lookupReport{Prefix: prefix}
	r.Country, _ = t.Country(prefix)
	r.Region, _ = t.Region(prefix)
	r.Manufacturer, _ = t.Manufacturer(prefix)
	return r
}

func renderTables(w io.Writer, rep tablesReport) {
	fmt.Fprintln(w, TitleStyle.Render("Dataset "+rep.Version))
	if rep.Description != "" {
		fmt.Fprintln(w, SubtitleStyle.Render(rep.Description))
	}
	fmt.Fprintln(w)
	field(w, "Regions", fmt.Sprint(rep.Regions))
	field(w, "Countries", fmt.Sprint(rep.Countries))
	field(w, "Manufacturers", fmt.Sprint(rep.Manufacturers))
	fmt.Fprintln(w)
	fmt.Fprintln(w, SubtitleStyle.Render("Embedded datasets:"))
	for _, v := range rep.Available {
		fmt.Fprintf(w, "  - %s\n", CmdStyle.Render(v))
	}
}

func renderLookup(w io.Writer, r lookupReport, unknown string) {
	orUnknown := func(s string) string {
		if s == "" {
			return VerboseStyle.Render(unknown)
		}
		return SuccessStyle.Render(s)
	}
	fmt.Fprintln(w, TitleStyle.Render(r.Prefix))
	field(w, "Country", orUnknown(r.Country))
	field(w, "Region", orUnknown(r.Region))
	field(w, "Manufacturer", orUnknown(r.Manufacturer))
}
