package tables

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/pelletier/go-toml/v2"
)

//go:embed dataset_schema.cue
var datasetSchema string

// maxDatasetSize bounds external dataset files.
const maxDatasetSize = 4 << 20

// ErrInvalidDataset is wrapped by every dataset parse or build failure.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is the decoded form of a reference dataset file.
type Dataset struct {
	Version       string            `toml:"version"`
	Description   string            `toml:"description"`
	Regions       []PrefixEntry     `toml:"regions"`
	Countries     []PrefixEntry     `toml:"countries"`
	Manufacturers map[string]string `toml:"manufacturers"`
}

// PrefixEntry maps a prefix, or a range of prefixes, to a name.
// Exactly one of Prefix and Range must be set.
type PrefixEntry struct {
	Prefix string `toml:"prefix"`
	Range  string `toml:"range"`
	Name   string `toml:"name"`
}

// Parse decodes a TOML dataset and checks it against the dataset schema.
// name identifies the source in error messages.
func Parse(name string, data []byte) (*Dataset, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDataset, name, err)
	}

	if err := checkSchema(name, raw); err != nil {
		return nil, err
	}

	var ds Dataset
	if err := toml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDataset, name, err)
	}
	return &ds, nil
}

// ParseFile reads and parses a dataset from disk.
func ParseFile(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	if info.Size() > maxDatasetSize {
		return nil, fmt.Errorf("%w: %s: file is %d bytes, limit is %d", ErrInvalidDataset, path, info.Size(), maxDatasetSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Parse(path, data)
}

// checkSchema unifies the decoded document with #Dataset.
// Constraints CUE cannot express (one of prefix/range, duplicates, range
// ordering) are checked by Build.
func checkSchema(name string, raw map[string]any) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(datasetSchema, cue.Filename("dataset_schema.cue"))
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile dataset schema: %w", schemaValue.Err())
	}

	userValue := ctx.Encode(raw)
	if userValue.Err() != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDataset, name, userValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Dataset"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidDataset, name, formatCUEError(err))
	}
	return nil
}

// formatCUEError flattens a CUE error list into one line per problem.
func formatCUEError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if p := e.Path(); len(p) > 0 {
			msg = strings.Join(p, ".") + ": " + msg
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
