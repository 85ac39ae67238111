// Package tables holds the reference tables used to decode a VIN: the
// country and region prefix tables and the manufacturer (WMI) table.
//
// Tables are built once from a dataset and never mutated. They are only
// reachable through lookup methods, so the lookup strategy can change
// without touching callers.
package tables

import (
	"fmt"
	"sync"

	"github.com/vinkit/validator/datasets"
	"github.com/vinkit/validator/pkg/logger"
	"github.com/vinkit/validator/pkg/vin"
)

// Tables is an immutable set of reference tables.
type Tables struct {
	version       string
	description   string
	countries     *PrefixTable
	regions       *PrefixTable
	manufacturers *ExactTable
}

// Stats summarizes table sizes.
type Stats struct {
	Version       string `json:"version"`
	Description   string `json:"description,omitempty"`
	Countries     int    `json:"countries"`
	Regions       int    `json:"regions"`
	Manufacturers int    `json:"manufacturers"`
}

// Build constructs Tables from a parsed dataset.
// The dataset is copied; later changes to ds do not affect the result.
func Build(ds *Dataset) (*Tables, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrInvalidDataset)
	}
	if ds.Version == "" {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidDataset)
	}

	countries, err := newPrefixTable("countries", ds.Countries)
	if err != nil {
		return nil, err
	}
	regions, err := newPrefixTable("regions", ds.Regions)
	if err != nil {
		return nil, err
	}
	manufacturers, err := newExactTable("manufacturers", 3, ds.Manufacturers)
	if err != nil {
		return nil, err
	}

	t := &Tables{
		version:       ds.Version,
		description:   ds.Description,
		countries:     countries,
		regions:       regions,
		manufacturers: manufacturers,
	}
	logger.Debug("reference tables built",
		"version", t.version,
		"countries", countries.Len(),
		"regions", regions.Len(),
		"manufacturers", manufacturers.Len(),
	)
	return t, nil
}

// Load builds Tables from an embedded dataset version.
func Load(v datasets.Version) (*Tables, error) {
	data, err := datasets.Read(v)
	if err != nil {
		return nil, err
	}
	ds, err := Parse(v.String(), data)
	if err != nil {
		return nil, err
	}
	return Build(ds)
}

// LoadFile builds Tables from a dataset file on disk.
func LoadFile(path string) (*Tables, error) {
	ds, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Build(ds)
}

var (
	defaultTables *Tables
	defaultErr    error
	defaultOnce   sync.Once
)

// Default returns the tables of the default embedded dataset.
// They are built on first use, exactly once per process.
func Default() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Load(datasets.Default)
	})
	return defaultTables, defaultErr
}

// Country returns the country of the longest matching prefix of s.
// Lookups on nil Tables find nothing.
func (t *Tables) Country(s string) (string, bool) {
	if t == nil {
		return "", false
	}
	return t.countries.LongestMatch(s)
}

// Region returns the region of the longest matching prefix of s.
func (t *Tables) Region(s string) (string, bool) {
	if t == nil {
		return "", false
	}
	return t.regions.LongestMatch(s)
}

// Manufacturer returns the manufacturer registered for the WMI of s.
func (t *Tables) Manufacturer(s string) (string, bool) {
	if t == nil {
		return "", false
	}
	wmi := vin.WMI(s)
	if wmi == "" {
		return "", false
	}
	return t.manufacturers.Match(wmi)
}

// Version returns the dataset version the tables were built from.
func (t *Tables) Version() string {
	if t == nil {
		return ""
	}
	return t.version
}

// Stats returns table sizes.
func (t *Tables) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	return Stats{
		Version:       t.version,
		Description:   t.description,
		Countries:     t.countries.Len(),
		Regions:       t.regions.Len(),
		Manufacturers: t.manufacturers.Len(),
	}
}
