package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	vinvalidator "github.com/vinkit/validator"
	"github.com/vinkit/validator/pkg/vin"
)

// checkReport is the outcome of check or checksum for one VIN.
type checkReport struct {
	VIN      string `json:"vin"`
	Valid    bool   `json:"valid"`
	Kind     string `json:"kind,omitempty"`
	Error    string `json:"error,omitempty"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
}

func newCheckReport(s string, err error) checkReport {
	r := checkReport{VIN: s, Valid: err == nil}
	if err == nil {
		return r
	}
	r.Error = err.Error()
	if kind, ok := vinvalidator.KindOf(err); ok {
		r.Kind = kind.String()
	}
	var ce *vin.ChecksumError
	if errors.As(err, &ce) {
		r.Expected = string(ce.Expected)
		r.Received = string(ce.Received)
	}
	return r
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <vin>...",
		Short: "Check VIN length and characters",
		Long: `Check that each VIN is 17 characters long and uses only the VIN
alphabet (digits and capital letters except I, O and Q).
The check digit is not verified; use 'vinparser checksum' for that.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.newValidator()
			if err != nil {
				return err
			}
			return a.runChecks(cmd.OutOrStdout(), args, v.CheckValidity)
		},
	}
}

func newChecksumCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <vin>...",
		Short: "Verify the VIN check digit",
		Long: `Validate each VIN and verify its check digit (position 9) against
the weighted sum of the other 16 characters.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.newValidator()
			if err != nil {
				return err
			}
			return a.runChecks(cmd.OutOrStdout(), args, v.VerifyChecksum)
		},
	}
}

func (a *app) runChecks(w io.Writer, args []string, check func(string) error) error {
	reports := make([]checkReport, 0, len(args))
	invalid := 0
	for _, arg := range args {
		s := a.prepare(arg)
		r := newCheckReport(s, check(s))
		if !r.Valid {
			invalid++
		}
		reports = append(reports, r)
	}

	if a.jsonOutput() {
		if err := writeJSON(w, reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			renderCheck(w, r)
		}
	}

	if invalid > 0 {
		return invalidError(invalid, len(reports))
	}
	return nil
}

func renderCheck(w io.Writer, r checkReport) {
	if r.Valid {
		fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render(markValid), r.VIN)
		return
	}
	msg := r.Error
	if r.Expected != "" {
		msg = fmt.Sprintf("check digit is %q, expected %q", r.Received, r.Expected)
	}
	fmt.Fprintf(w, "%s %s  %s\n", ErrorStyle.Render(markInvalid), r.VIN, ErrorStyle.Render(msg))
}
