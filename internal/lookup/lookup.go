// Package lookup holds the static reference tables of the directory:
// divisions, districts, institute types and fallback thana lists.
package lookup

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

// Tables are the static reference tables.
type Tables struct {
	Divisions      map[string]string            `yaml:"divisions"`
	Districts      map[string]string            `yaml:"districts"`
	InstituteTypes map[string]int               `yaml:"institute_types"`
	FallbackThanas map[string]map[string]string `yaml:"fallback_thanas"`
}

// Load parses the embedded tables.
func Load() (*Tables, error) {
	return Parse(tablesYAML)
}

// MustLoad is like Load but panics on error.
func MustLoad() *Tables {
	tables, err := Load()
	if err != nil {
		panic(err)
	}
	return tables
}

// Parse decodes tables from YAML. Every table must be non-empty.
func Parse(data []byte) (*Tables, error) {
	var tables Tables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parse lookup tables: %w", err)
	}

	switch {
	case len(tables.Divisions) == 0:
		return nil, fmt.Errorf("lookup tables: divisions are empty")
	case len(tables.Districts) == 0:
		return nil, fmt.Errorf("lookup tables: districts are empty")
	case len(tables.InstituteTypes) == 0:
		return nil, fmt.Errorf("lookup tables: institute types are empty")
	}

	return &tables, nil
}

// FallbackThanasFor returns a copy of the fallback thana table for a
// district, or nil if there is none.
func (t *Tables) FallbackThanasFor(districtCode string) map[string]string {
	fallback, ok := t.FallbackThanas[districtCode]
	if !ok {
		return nil
	}

	thanas := make(map[string]string, len(fallback))
	for name, code := range fallback {
		thanas[name] = code
	}
	return thanas
}

// DistrictCodes returns the known district codes in ascending order.
func (t *Tables) DistrictCodes() []string {
	codes := make([]string, 0, len(t.Districts))
	for _, code := range t.Districts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
