package tables

import (
	"fmt"
	"strings"

	"github.com/vinkit/validator/pkg/vin"
)

// MaxPrefixLen is the longest prefix a prefix table may hold.
const MaxPrefixLen = 3

// PrefixTable resolves names by longest-prefix match.
// It is immutable after construction and safe for concurrent use.
type PrefixTable struct {
	entries map[string]string
	maxLen  int
}

func newPrefixTable(field string, entries []PrefixEntry) (*PrefixTable, error) {
	t := &PrefixTable{entries: make(map[string]string, len(entries))}

	for i, e := range entries {
		prefixes, err := e.prefixes()
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", ErrInvalidDataset, field, i, err)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("%w: %s[%d]: empty name", ErrInvalidDataset, field, i)
		}
		for _, p := range prefixes {
			if prev, dup := t.entries[p]; dup {
				return nil, fmt.Errorf("%w: %s[%d]: prefix %q already maps to %q", ErrInvalidDataset, field, i, p, prev)
			}
			t.entries[p] = e.Name
			t.maxLen = max(t.maxLen, len(p))
		}
	}
	return t, nil
}

// LongestMatch returns the name of the longest prefix of s in the table.
func (t *PrefixTable) LongestMatch(s string) (string, bool) {
	if t == nil {
		return "", false
	}
	for n := min(t.maxLen, len(s)); n > 0; n-- {
		if name, ok := t.entries[s[:n]]; ok {
			return name, true
		}
	}
	return "", false
}

// Len returns the number of expanded prefixes.
func (t *PrefixTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// ExactTable resolves names by exact key match.
type ExactTable struct {
	entries map[string]string
}

func newExactTable(field string, keyLen int, m map[string]string) (*ExactTable, error) {
	t := &ExactTable{entries: make(map[string]string, len(m))}
	for k, name := range m {
		if len(k) != keyLen {
			return nil, fmt.Errorf("%w: %s: key %q must be %d characters", ErrInvalidDataset, field, k, keyLen)
		}
		if err := checkCode(k); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDataset, field, err)
		}
		if name == "" {
			return nil, fmt.Errorf("%w: %s: key %q has an empty name", ErrInvalidDataset, field, k)
		}
		t.entries[k] = name
	}
	return t, nil
}

// Match returns the name stored under key.
func (t *ExactTable) Match(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.entries[key]
	return name, ok
}

// Len returns the number of keys.
func (t *ExactTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// prefixes expands the entry into the prefixes it covers.
func (e PrefixEntry) prefixes() ([]string, error) {
	switch {
	case e.Prefix != "" && e.Range != "":
		return nil, fmt.Errorf("both prefix %q and range %q set", e.Prefix, e.Range)
	case e.Prefix != "":
		if len(e.Prefix) > MaxPrefixLen {
			return nil, fmt.Errorf("prefix %q longer than %d characters", e.Prefix, MaxPrefixLen)
		}
		if err := checkCode(e.Prefix); err != nil {
			return nil, err
		}
		return []string{e.Prefix}, nil
	case e.Range != "":
		return ExpandRange(e.Range)
	default:
		return nil, fmt.Errorf("one of prefix or range is required")
	}
}

// ExpandRange expands "FROM-TO" into every prefix between the endpoints
// in VIN collation order (vin.Alphabet). Endpoints must have equal length
// and may differ only in their last character.
func ExpandRange(r string) ([]string, error) {
	from, to, ok := strings.Cut(r, "-")
	if !ok || from == "" || len(from) != len(to) {
		return nil, fmt.Errorf("range %q: endpoints must be non-empty and of equal length", r)
	}
	if len(from) > MaxPrefixLen {
		return nil, fmt.Errorf("range %q: endpoints longer than %d characters", r, MaxPrefixLen)
	}
	if err := checkCode(from); err != nil {
		return nil, fmt.Errorf("range %q: %w", r, err)
	}
	if err := checkCode(to); err != nil {
		return nil, fmt.Errorf("range %q: %w", r, err)
	}

	n := len(from)
	stem := from[:n-1]
	if to[:n-1] != stem {
		return nil, fmt.Errorf("range %q: endpoints differ before the last character", r)
	}

	lo := strings.IndexByte(vin.Alphabet, from[n-1])
	hi := strings.IndexByte(vin.Alphabet, to[n-1])
	if lo > hi {
		return nil, fmt.Errorf("range %q: start sorts after end", r)
	}

	out := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, stem+vin.Alphabet[i:i+1])
	}
	return out, nil
}

func checkCode(s string) error {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(vin.Alphabet, s[i]) < 0 {
			return fmt.Errorf("%q contains %q, which is not a VIN character", s, s[i])
		}
	}
	return nil
}
