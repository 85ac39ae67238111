package vinvalidator

import (
	"strings"

	"github.com/vinkit/validator/datasets"
)

// Version is the library version. Release builds set it with
// -ldflags "-X github.com/vinkit/validator.Version=v1.2.3".
var Version = "dev"

// DatasetVersion is the version of an embedded reference dataset.
type DatasetVersion = datasets.Version

// DefaultDataset is the dataset used when none is configured.
const DefaultDataset = datasets.Default

// DatasetVersions lists the embedded dataset versions.
func DatasetVersions() ([]DatasetVersion, error) {
	return datasets.List()
}

// isDatasetFile reports whether s names a dataset file rather than an
// embedded version.
func isDatasetFile(s string) bool {
	return strings.ContainsAny(s, `/\`) || strings.HasSuffix(s, ".toml")
}
