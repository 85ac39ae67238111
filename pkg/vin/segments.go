package vin

// Segments is a VIN split into its three ISO 3779 sections.
type Segments struct {
	// WMI is the World Manufacturer Identifier (positions 1-3).
	WMI string `json:"wmi"`
	// VDS is the Vehicle Descriptor Section (positions 4-9, including the check digit).
	VDS string `json:"vds"`
	// VIS is the Vehicle Identifier Section (positions 10-17).
	VIS string `json:"vis"`
}

// Split validates s and returns its sections.
func Split(s string) (Segments, error) {
	if err := Validate(s); err != nil {
		return Segments{}, err
	}
	return Segments{WMI: s[:3], VDS: s[3:9], VIS: s[9:]}, nil
}

// WMI returns the first three characters of s, or "" if s is shorter.
// It does not validate s.
func WMI(s string) string {
	if len(s) < 3 {
		return ""
	}
	return s[:3]
}
