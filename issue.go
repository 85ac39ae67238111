package vinvalidator

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vinkit/validator/pkg/vin"
)

// IssueSeverity represents the severity of a reported issue.
type IssueSeverity string

const (
	// SeverityError marks the VIN as invalid.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a problem that does not invalidate the VIN.
	SeverityWarning IssueSeverity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation IssueSeverity = "information"
)

// IssueType represents the type of a reported issue.
type IssueType string

const (
	// IssueTypeLength indicates the input is not 17 characters long.
	IssueTypeLength IssueType = "length"
	// IssueTypeCharacter indicates a character outside the VIN alphabet.
	IssueTypeCharacter IssueType = "character"
	// IssueTypeChecksum indicates a check digit mismatch.
	IssueTypeChecksum IssueType = "checksum"
	// IssueTypeNotFound indicates a name missing from the reference tables.
	IssueTypeNotFound IssueType = "not-found"
	// IssueTypeProcessing indicates the input could not be processed.
	IssueTypeProcessing IssueType = "processing"
)

// Issue is a single finding about a VIN.
type Issue struct {
	// Severity of the issue (error, warning, information)
	Severity IssueSeverity `json:"severity"`

	// Code identifying the type of issue
	Code IssueType `json:"code"`

	// Diagnostics contains human-readable details about the issue
	Diagnostics string `json:"diagnostics,omitempty"`

	// Field names the decoded field the issue is about (country, manufacturer, region)
	Field string `json:"field,omitempty"`

	// Position is the 1-based character position the issue refers to, if any
	Position int `json:"position,omitempty"`

	// Expected and Received carry the check characters of a checksum issue
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
}

// IsError returns true if this is an error issue.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

// IsWarning returns true if this is a warning.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	loc := ""
	switch {
	case i.Position > 0:
		loc = " at position " + strconv.Itoa(i.Position)
	case i.Field != "":
		loc = " (" + i.Field + ")"
	}
	return string(i.Severity) + ": " + i.Diagnostics + loc
}

// IssueFromError converts a VIN error into an issue.
// Checksum mismatches become errors here; callers that report them as
// warnings adjust the severity.
func IssueFromError(err error) Issue {
	var ve *vin.Error
	var ce *vin.ChecksumError
	switch {
	case errors.As(err, &ce):
		return Error(IssueTypeChecksum).
			Diagnostics(fmt.Sprintf("check digit is %q, expected %q", ce.Received, ce.Expected)).
			Position(vin.CheckDigitIndex+1).
			CheckCharacters(ce.Expected, ce.Received).
			Build()
	case errors.As(err, &ve) && ve.Kind == vin.KindIncorrectLength:
		return Error(IssueTypeLength).
			Diagnostics(fmt.Sprintf("VIN has %d characters, want %d", ve.Length, vin.Length)).
			Build()
	case errors.As(err, &ve) && ve.Kind == vin.KindInvalidCharacters:
		return Error(IssueTypeCharacter).
			Diagnostics(fmt.Sprintf("character %q is not allowed in a VIN", ve.Char)).
			Position(ve.Position).
			Build()
	default:
		return Error(IssueTypeProcessing).Diagnostics(err.Error()).Build()
	}
}

// IssueBuilder provides a fluent API for building issues.
type IssueBuilder struct {
	issue Issue
}

// NewIssue creates a new IssueBuilder.
func NewIssue(severity IssueSeverity, code IssueType) *IssueBuilder {
	return &IssueBuilder{
		issue: Issue{
			Severity: severity,
			Code:     code,
		},
	}
}

// Error creates an error issue.
func Error(code IssueType) *IssueBuilder {
	return NewIssue(SeverityError, code)
}

// Warning creates a warning issue.
func Warning(code IssueType) *IssueBuilder {
	return NewIssue(SeverityWarning, code)
}

// Info creates an informational issue.
func Info(code IssueType) *IssueBuilder {
	return NewIssue(SeverityInformation, code)
}

// Diagnostics sets the diagnostic message.
func (b *IssueBuilder) Diagnostics(msg string) *IssueBuilder {
	b.issue.Diagnostics = msg
	return b
}

// Field sets the decoded field the issue is about.
func (b *IssueBuilder) Field(name string) *IssueBuilder {
	b.issue.Field = name
	return b
}

// Position sets the 1-based character position.
func (b *IssueBuilder) Position(pos int) *IssueBuilder {
	b.issue.Position = pos
	return b
}

// CheckCharacters sets the expected and received check characters.
func (b *IssueBuilder) CheckCharacters(expected, received byte) *IssueBuilder {
	b.issue.Expected = string(rune(expected))
	b.issue.Received = string(rune(received))
	return b
}

// Build returns the constructed issue.
func (b *IssueBuilder) Build() Issue {
	return b.issue
}
