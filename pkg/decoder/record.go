package decoder

import (
	"encoding/json"
)

// DecodedVin is the decoding of a single VIN.
// The caller owns the record. Call Release when done with it.
type DecodedVin struct {
	// VIN is a copy of the decoded input.
	VIN string `json:"vin"`

	// Country, Manufacturer and Region hold the resolved names, or the
	// decoder's placeholder when a name is not in the tables.
	Country      string `json:"country"`
	Manufacturer string `json:"manufacturer"`
	Region       string `json:"region"`

	// ValidChecksum is true when the check digit matches.
	ValidChecksum bool `json:"validChecksum"`

	// Checksum holds the expected and received check characters
	// when ValidChecksum is false.
	Checksum *ChecksumDetail `json:"checksum,omitempty"`

	released bool
}

// ChecksumDetail describes a check digit mismatch.
type ChecksumDetail struct {
	Expected byte
	Received byte
}

type checksumDetailJSON struct {
	Expected string `json:"expected"`
	Received string `json:"received"`
}

// MarshalJSON encodes the check characters as one-character strings.
func (c ChecksumDetail) MarshalJSON() ([]byte, error) {
	return json.Marshal(checksumDetailJSON{
		Expected: string(rune(c.Expected)),
		Received: string(rune(c.Received)),
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (c *ChecksumDetail) UnmarshalJSON(data []byte) error {
	var raw checksumDetailJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = ChecksumDetail{}
	if len(raw.Expected) > 0 {
		c.Expected = raw.Expected[0]
	}
	if len(raw.Received) > 0 {
		c.Received = raw.Received[0]
	}
	return nil
}

// Release clears the record. The record must not be read afterwards.
// Releasing a nil or already released record is a no-op.
func (d *DecodedVin) Release() {
	if d == nil || d.released {
		return
	}
	*d = DecodedVin{released: true}
}

// Released reports whether Release has been called.
func (d *DecodedVin) Released() bool {
	return d != nil && d.released
}

// Clone returns an independent copy of the record.
func (d *DecodedVin) Clone() *DecodedVin {
	if d == nil {
		return nil
	}
	c := *d
	if d.Checksum != nil {
		cs := *d.Checksum
		c.Checksum = &cs
	}
	return &c
}
