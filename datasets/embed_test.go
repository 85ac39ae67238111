package datasets

import (
	"strings"
	"testing"
)

func TestRead_Default(t *testing.T) {
	data, err := Read(Default)
	if err != nil {
		t.Fatalf("Read(Default) failed: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("default dataset is empty")
	}
	if !strings.Contains(string(data), `version = "iso3780-2022"`) {
		t.Error("default dataset does not declare its version")
	}
}

func TestRead_Unsupported(t *testing.T) {
	_, err := Read("iso3780-1999")
	if err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestHas(t *testing.T) {
	tests := []struct {
		version Version
		want    bool
	}{
		{ISO3780v2022, true},
		{"", false},
		{"missing", false},
		{"../data/iso3780-2022", false},
	}

	for _, tt := range tests {
		if got := Has(tt.version); got != tt.want {
			t.Errorf("Has(%q) = %v; want %v", tt.version, got, tt.want)
		}
		if got := tt.version.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v; want %v", tt.version, got, tt.want)
		}
	}
}

func TestList(t *testing.T) {
	versions, err := List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	found := false
	for _, v := range versions {
		if v == Default {
			found = true
		}
	}
	if !found {
		t.Errorf("List() = %v; missing %s", versions, Default)
	}
}

func TestFS(t *testing.T) {
	fs, d := FS()
	if d != "data" {
		t.Errorf("dir = %q; want data", d)
	}
	if _, err := fs.ReadFile(d + "/" + Default.String() + ".toml"); err != nil {
		t.Errorf("ReadFile failed: %v", err)
	}
}
