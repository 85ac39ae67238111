package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	vinvalidator "github.com/vinkit/validator"
	"github.com/vinkit/validator/pkg/vin"
)

// decodeReport is one decoded VIN with its sections.
type decodeReport struct {
	*vinvalidator.Result
	Segments *vin.Segments `json:"segments,omitempty"`
}

func newDecodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <vin>...",
		Short: "Decode country, manufacturer and region",
		Long: `Validate each VIN and decode the country, manufacturer and region it
was assigned to. A check digit mismatch is reported as a warning, or as
an error with --strict.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.newValidator()
			if err != nil {
				return err
			}
			return a.runDecode(cmd.OutOrStdout(), v, args)
		},
	}
}

func (a *app) runDecode(w io.Writer, v *vinvalidator.Validator, args []string) error {
	reports := make([]decodeReport, 0, len(args))
	defer func() {
		for _, r := range reports {
			r.Release()
		}
	}()

	invalid := 0
	for _, arg := range args {
		r := v.Inspect(a.prepare(arg))
		rep := decodeReport{Result: r}
		if seg, err := vin.Split(r.VIN); err == nil {
			rep.Segments = &seg
		}
		if !r.Valid {
			invalid++
		}
		reports = append(reports, rep)
	}

	if a.jsonOutput() {
		if err := writeJSON(w, reports); err != nil {
			return err
		}
	} else {
		for i, rep := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			renderDecode(w, rep)
		}
	}

	if invalid > 0 {
		return invalidError(invalid, len(reports))
	}
	return nil
}

func renderDecode(w io.Writer, rep decodeReport) {
	r := rep.Result
	mark := SuccessStyle.Render(markValid)
	if !r.Valid {
		mark = ErrorStyle.Render(markInvalid)
	}
	fmt.Fprintf(w, "%s %s\n", mark, TitleStyle.Render(r.VIN))

	if info := r.Info; info != nil {
		field(w, "Country", info.Country)
		field(w, "Manufacturer", info.Manufacturer)
		field(w, "Region", info.Region)
		if info.ValidChecksum {
			field(w, "Check digit", SuccessStyle.Render("valid"))
		} else if cs := info.Checksum; cs != nil {
			field(w, "Check digit", WarningStyle.Render(fmt.Sprintf("%q, expected %q", string(cs.Received), string(cs.Expected))))
		}
	}
	if seg := rep.Segments; seg != nil {
		field(w, "Sections", VerboseStyle.Render(fmt.Sprintf("WMI %s  VDS %s  VIS %s", seg.WMI, seg.VDS, seg.VIS)))
	}
	renderIssues(w, r.Issues)
}

func field(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s%s\n", keyStyle.Render(key), value)
}

func renderIssues(w io.Writer, issues []vinvalidator.Issue) {
	for _, issue := range issues {
		switch {
		case issue.IsError():
			fmt.Fprintf(w, "  %s %s\n", ErrorStyle.Render(markInvalid), issue.String())
		case issue.IsWarning():
			fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render(markWarning), issue.String())
		default:
			fmt.Fprintf(w, "  %s\n", VerboseStyle.Render(issue.String()))
		}
	}
}
