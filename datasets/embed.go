// Package datasets provides the embedded WMI reference datasets.
//
// Each dataset is a TOML file named after its version, holding the
// country prefix table, the region prefix table and the manufacturer
// (WMI) table. Datasets are immutable once shipped; a new snapshot is
// added as a new version rather than edited in place.
//
// Usage:
//
//	data, err := datasets.Read(datasets.Default)
//	if err != nil {
//	    return err
//	}
//	ds, err := tables.Parse(datasets.Default.String(), data)
package datasets

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed data/*.toml
var files embed.FS

const dir = "data"

// Version names an embedded dataset.
type Version string

// Shipped dataset versions.
const (
	// ISO3780v2022 is the ISO 3780 country allocation with a 2022 WMI snapshot.
	ISO3780v2022 Version = "iso3780-2022"

	// Default is the dataset used when none is configured.
	Default = ISO3780v2022
)

// String returns the version name.
func (v Version) String() string {
	return string(v)
}

// IsValid returns true if the version is embedded in this build.
func (v Version) IsValid() bool {
	return Has(v)
}

// FS returns the embedded filesystem and the directory holding the datasets.
func FS() (embed.FS, string) {
	return files, dir
}

// Read returns the raw TOML of an embedded dataset.
func Read(v Version) ([]byte, error) {
	path := dir + "/" + string(v) + ".toml"
	data, err := files.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unsupported dataset version %q: %w", v, err)
	}
	return data, nil
}

// Has checks if a dataset version is embedded.
func Has(v Version) bool {
	if v == "" || strings.ContainsAny(string(v), "/\\") {
		return false
	}
	_, err := files.ReadFile(dir + "/" + string(v) + ".toml")
	return err == nil
}

// List returns the embedded dataset versions in lexical order.
func List() ([]Version, error) {
	entries, err := files.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	versions := make([]Version, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".toml") {
			continue
		}
		versions = append(versions, Version(strings.TrimSuffix(name, ".toml")))
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	return versions, nil
}
