// Package decoder turns a structurally valid VIN into a DecodedVin record:
// the country, manufacturer and region it was assigned to, plus the
// outcome of the check digit verification.
//
// A checksum mismatch is reported in the record and never prevents
// decoding. Names that are not in the reference tables decode to a
// placeholder ("unknown" by default) rather than an error.
package decoder

import (
	"errors"
	"strings"

	"github.com/vinkit/validator/cache"
	"github.com/vinkit/validator/pkg/vin"
)

// Unknown is the default placeholder for names missing from the tables.
const Unknown = "unknown"

// Tables resolves reference names for a VIN.
// Each method receives the full VIN and reports whether a name was found.
type Tables interface {
	Country(vin string) (string, bool)
	Manufacturer(vin string) (string, bool)
	Region(vin string) (string, bool)
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithUnknown sets the placeholder used for names missing from the tables.
// An empty placeholder is ignored.
func WithUnknown(placeholder string) Option {
	return func(d *Decoder) {
		if placeholder != "" {
			d.unknown = placeholder
		}
	}
}

// WithLookupCache memoizes table lookups per WMI in an LRU of the given
// size. Only use it with tables whose answers depend on the first three
// characters alone, as the bundled tables do.
func WithLookupCache(size int) Option {
	return func(d *Decoder) {
		if size > 0 {
			d.cache = cache.New[string, names](size)
		}
	}
}

// Decoder decodes VINs against a set of reference tables.
// It is safe for concurrent use.
type Decoder struct {
	tables  Tables
	unknown string
	cache   *cache.LRU[string, names]
}

// names are the raw lookup results for one WMI; "" means not found.
type names struct {
	country, manufacturer, region string
}

// New creates a Decoder. With nil tables every lookup decodes to the
// placeholder.
func New(t Tables, opts ...Option) *Decoder {
	d := &Decoder{tables: t, unknown: Unknown}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Unknown returns the placeholder used for missing names.
func (d *Decoder) Unknown() string {
	return d.unknown
}

// Decode validates s and resolves its reference names.
//
// Structural failures (length, characters) are returned as errors and no
// record is produced. A checksum mismatch is recorded in the result's
// ValidChecksum and Checksum fields.
func (d *Decoder) Decode(s string) (*DecodedVin, error) {
	if err := vin.Validate(s); err != nil {
		return nil, err
	}

	out := &DecodedVin{
		VIN:           strings.Clone(s),
		ValidChecksum: true,
	}

	if err := vin.VerifyChecksum(s); err != nil {
		var ce *vin.ChecksumError
		if !errors.As(err, &ce) {
			return nil, err
		}
		out.ValidChecksum = false
		out.Checksum = &ChecksumDetail{Expected: ce.Expected, Received: ce.Received}
	}

	n := d.names(s)
	out.Country = d.orUnknown(n.country)
	out.Manufacturer = d.orUnknown(n.manufacturer)
	out.Region = d.orUnknown(n.region)
	return out, nil
}

// CacheStats returns lookup cache statistics, or false when the decoder
// has no cache.
func (d *Decoder) CacheStats() (cache.Stats, bool) {
	if d.cache == nil {
		return cache.Stats{}, false
	}
	return d.cache.Stats(), true
}

func (d *Decoder) names(s string) names {
	if d.tables == nil {
		return names{}
	}
	if d.cache == nil {
		return d.lookupAll(s)
	}
	return d.cache.Load(vin.WMI(s), func() names { return d.lookupAll(s) })
}

func (d *Decoder) lookupAll(s string) names {
	return names{
		country:      lookup(d.tables, s, Tables.Country),
		manufacturer: lookup(d.tables, s, Tables.Manufacturer),
		region:       lookup(d.tables, s, Tables.Region),
	}
}

func lookup(t Tables, s string, fn func(Tables, string) (string, bool)) string {
	name, ok := fn(t, s)
	if !ok {
		return ""
	}
	return name
}

func (d *Decoder) orUnknown(name string) string {
	if name == "" {
		return d.unknown
	}
	return strings.Clone(name)
}
