package tables

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinkit/validator/datasets"
)

func TestDefault_Loads(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)
	require.NotNil(t, tb)

	stats := tb.Stats()
	assert.Equal(t, datasets.Default.String(), stats.Version)
	assert.Equal(t, datasets.Default.String(), tb.Version())
	assert.Positive(t, stats.Countries)
	assert.Positive(t, stats.Manufacturers)
	// A-H, J-R, S-Z and 1-9.
	assert.Equal(t, 8+7+8+9, stats.Regions)

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, tb, again, "Default must build the tables once")
}

func TestTables_Country(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	tests := []struct {
		vin  string
		want string
	}{
		{"1HGCM82633A004352", "United States"},
		{"4T1BF1FK5CU123456", "United States"},
		{"2HGFG12688H500123", "Canada"},
		{"3VWFE21C04M000001", "Mexico"},
		{"JHMCM56557C404453", "Japan"},
		{"KMHDU46D17U123456", "South Korea"},
		{"LVSHCAMB9BE012345", "China"},
		{"WBA3A5C57CF256651", "Germany"},
		{"SAJWA0F78F8K12345", "United Kingdom"},
		{"ZFF67NFA3B0178976", "Italy"},
		{"VF1RFB00860123456", "France"},
		{"TMBJJ7NEXF0123456", "Czech Republic"},
		{"U5YFF24138L064909", "Slovakia"},
		{"YV1MS382662123456", "Sweden"},
		{"XTA210990Y2766389", "Russia"},
		{"AAVZZZ6S79U012345", "South Africa"},
		{"6FPAAAJG5M9000000", "Australia"},
		{"9BWZZZ372VT004251", "Brazil"},
	}

	for _, tt := range tests {
		t.Run(tt.vin, func(t *testing.T) {
			got, ok := tb.Country(tt.vin)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTables_CountryUnknown(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	for _, v := range []string{"0HGCM82663A004352", "S5ZZZ000000000000", "APZZZ000000000000", ""} {
		_, ok := tb.Country(v)
		assert.False(t, ok, "Country(%q)", v)
	}
}

func TestTables_Region(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	tests := map[string]string{
		"1HG": "North America",
		"5YJ": "North America",
		"JHM": "Asia",
		"RFA": "Asia",
		"WBA": "Europe",
		"SAJ": "Europe",
		"AAV": "Africa",
		"HAA": "Africa",
		"6FP": "Oceania",
		"7A3": "Oceania",
		"8AA": "South America",
		"9BW": "South America",
	}
	for prefix, want := range tests {
		got, ok := tb.Region(prefix)
		assert.True(t, ok, "Region(%q)", prefix)
		assert.Equal(t, want, got, "Region(%q)", prefix)
	}

	_, ok := tb.Region("0AA")
	assert.False(t, ok)
}

func TestTables_Manufacturer(t *testing.T) {
	tb, err := Default()
	require.NoError(t, err)

	got, ok := tb.Manufacturer("1HGCM82633A004352")
	require.True(t, ok)
	assert.Equal(t, "Honda USA", got)

	got, ok = tb.Manufacturer("5YJ3E1EA2KF317000")
	require.True(t, ok)
	assert.Equal(t, "Tesla", got)

	// Exact match only: a known two-character stem is not enough.
	_, ok = tb.Manufacturer("1HZCM82633A004352")
	assert.False(t, ok)

	_, ok = tb.Manufacturer("1H")
	assert.False(t, ok)
}

func TestTables_LongestPrefixWins(t *testing.T) {
	tb, err := Build(&Dataset{
		Version: "test",
		Countries: []PrefixEntry{
			{Prefix: "1", Name: "one"},
			{Range: "1A-1C", Name: "one-a-to-c"},
			{Prefix: "1B2", Name: "one-b-two"},
		},
		Regions:       []PrefixEntry{{Prefix: "1", Name: "north"}},
		Manufacturers: map[string]string{"1B2": "Maker"},
	})
	require.NoError(t, err)

	tests := map[string]string{
		"1Z9": "one",
		"1A9": "one-a-to-c",
		"1B9": "one-a-to-c",
		"1B2": "one-b-two",
		"1":   "one",
	}
	for in, want := range tests {
		got, ok := tb.Country(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}

func TestExpandRange(t *testing.T) {
	got, err := ExpandRange("AA-AH")
	require.NoError(t, err)
	assert.Equal(t, []string{"AA", "AB", "AC", "AD", "AE", "AF", "AG", "AH"}, got)

	// I, O and Q are skipped and digits follow Z, with 0 last.
	got, err = ExpandRange("HG-HR")
	require.NoError(t, err)
	assert.Equal(t, []string{"HG", "HH", "HJ", "HK", "HL", "HM", "HN", "HP", "HR"}, got)

	got, err = ExpandRange("XX-X2")
	require.NoError(t, err)
	assert.Equal(t, []string{"XX", "XY", "XZ", "X1", "X2"}, got)

	got, err = ExpandRange("38-30")
	require.NoError(t, err)
	assert.Equal(t, []string{"38", "39", "30"}, got)

	got, err = ExpandRange("A-C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got)
}

func TestExpandRange_Errors(t *testing.T) {
	for _, r := range []string{
		"",
		"AA",
		"A-BB",
		"AA-BB",
		"AH-AA",
		"AI-AK",
		"aa-ah",
		"AAAA-AAAB",
		"-",
	} {
		_, err := ExpandRange(r)
		assert.Error(t, err, "ExpandRange(%q)", r)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		ds   *Dataset
	}{
		{"nil", nil},
		{"no version", &Dataset{}},
		{"prefix and range", &Dataset{Version: "v", Countries: []PrefixEntry{{Prefix: "A", Range: "A-B", Name: "x"}}}},
		{"neither prefix nor range", &Dataset{Version: "v", Countries: []PrefixEntry{{Name: "x"}}}},
		{"empty name", &Dataset{Version: "v", Regions: []PrefixEntry{{Prefix: "A"}}}},
		{"duplicate prefix", &Dataset{Version: "v", Countries: []PrefixEntry{
			{Range: "AA-AC", Name: "x"},
			{Prefix: "AB", Name: "y"},
		}}},
		{"prefix too long", &Dataset{Version: "v", Countries: []PrefixEntry{{Prefix: "ABCD", Name: "x"}}}},
		{"lowercase prefix", &Dataset{Version: "v", Countries: []PrefixEntry{{Prefix: "ab", Name: "x"}}}},
		{"short wmi", &Dataset{Version: "v", Manufacturers: map[string]string{"AB": "x"}}},
		{"wmi with O", &Dataset{Version: "v", Manufacturers: map[string]string{"AOB": "x"}}},
		{"empty manufacturer", &Dataset{Version: "v", Manufacturers: map[string]string{"ABC": ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.ds)
			assert.ErrorIs(t, err, ErrInvalidDataset)
		})
	}
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := map[string]string{
		"not toml":         "version = ",
		"missing version":  "regions = []\ncountries = []\n[manufacturers]\n",
		"unknown key":      "version = \"v\"\nregions = []\ncountries = []\ncolour = \"red\"\n[manufacturers]\n",
		"bad wmi key":      "version = \"v\"\nregions = []\ncountries = []\n[manufacturers]\n1hg = \"Honda\"\n",
		"bad entry prefix": "version = \"v\"\nregions = [{ prefix = \"I\", name = \"x\" }]\ncountries = []\n[manufacturers]\n",
		"entry no name":    "version = \"v\"\nregions = [{ prefix = \"A\" }]\ncountries = []\n[manufacturers]\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(name, []byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDataset)
		})
	}
}

func TestParse_Minimal(t *testing.T) {
	doc := `
version = "custom-1"
regions = [{ range = "1-5", name = "North America" }]
countries = [{ prefix = "1", name = "United States" }]

[manufacturers]
1HG = "Honda"
`
	ds, err := Parse("custom", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "custom-1", ds.Version)
	assert.Equal(t, "Honda", ds.Manufacturers["1HG"])

	tb, err := Build(ds)
	require.NoError(t, err)

	// Tables do not alias the dataset.
	ds.Manufacturers["1HG"] = "changed"
	got, _ := tb.Manufacturer("1HG")
	assert.Equal(t, "Honda", got)
}

func TestLoadFile(t *testing.T) {
	data, err := datasets.Read(datasets.Default)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wmi.toml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	tb, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, datasets.Default.String(), tb.Version())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := Load("nope")
	assert.Error(t, err)
}

func TestNilTables(t *testing.T) {
	var p *PrefixTable
	_, ok := p.LongestMatch("ABC")
	assert.False(t, ok)
	assert.Zero(t, p.Len())

	var e *ExactTable
	_, ok = e.Match("ABC")
	assert.False(t, ok)
	assert.Zero(t, e.Len())

	var tb *Tables
	_, ok = tb.Country("WBA")
	assert.False(t, ok)
	_, ok = tb.Region("WBA")
	assert.False(t, ok)
	_, ok = tb.Manufacturer("WBA")
	assert.False(t, ok)
	assert.Empty(t, tb.Version())
	assert.Equal(t, Stats{}, tb.Stats())
}

func TestDefault_ConcurrentReads(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tb, err := Default()
			if err != nil {
				t.Error(err)
				return
			}
			for j := 0; j < 100; j++ {
				if got, _ := tb.Country("WBA3A5C57CF256651"); got != "Germany" {
					t.Errorf("Country = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func BenchmarkTables_Country(b *testing.B) {
	tb, err := Default()
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tb.Country("1HGCM82633A004352")
	}
}
