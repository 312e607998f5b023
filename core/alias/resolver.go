// Package alias maps known historical/raw spellings of survey values to their
// canonical taxonomy form. Resolution is deterministic and the loaded table is
// read-only after construction, so one Resolver is safe for concurrent readers.
package alias

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/elixirhub/metricsdb/core"
)

// Resolver holds the alias table: field -> normalized raw spelling -> canonical
// value. Unknown keys resolve to themselves.
type Resolver struct {
	aliases map[string]map[string]string
}

// key normalizes an alias lookup key: trimmed, lower-cased.
func key(raw string) string {
	return core.CleanString(raw, true /* lower */)
}

// NewResolver builds a Resolver from the built-in defaults, optionally
// overridden by the CSV file at path (columns: field,value,alias). A missing
// file is not an error: the defaults apply and a warning is logged. A file
// entry overrides a built-in default for the same key; two file rows mapping
// the same (field, alias) to different values are a hard error.
func NewResolver(path string, log core.Logger) (*Resolver, error) {
	table := make(map[string]map[string]string, len(defaultAliases))
	for field, mapping := range defaultAliases {
		table[field] = make(map[string]string, len(mapping))
		for raw, canonical := range mapping {
			table[field][key(raw)] = canonical
		}
	}

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				if log != nil {
					log.Warn(fmt.Sprintf("alias file %s not found; using built-in defaults", path))
				}
				return &Resolver{aliases: table}, nil
			}
			return nil, errors.Wrapf(err, "opening alias file %s", path)
		}
		defer func() { _ = file.Close() }()

		if err = loadOverrides(file, table); err != nil {
			return nil, errors.Wrapf(err, "loading alias file %s", path)
		}
	}
	return &Resolver{aliases: table}, nil
}

// loadOverrides merges the rows of an override file into table.
// Conflicting duplicates within the same file are fatal.
func loadOverrides(r io.Reader, table map[string]map[string]string) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	fromFile := make(map[string]map[string]string)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		line++
		field := core.CleanString(record[0], true /* lower */)
		value := core.CleanString(record[1])
		aliasKey := key(record[2])
		if line == 1 && field == "field" && strings.EqualFold(value, "value") {
			continue // header row
		}
		if field == "" || value == "" || aliasKey == "" {
			return fmt.Errorf("line %d: field, value and alias are all required", line)
		}

		if prev, ok := fromFile[field][aliasKey]; ok && prev != value {
			return fmt.Errorf("line %d: alias %q of field %q maps to both %q and %q", line, aliasKey, field, prev, value)
		}
		if fromFile[field] == nil {
			fromFile[field] = make(map[string]string)
		}
		fromFile[field][aliasKey] = value

		if table[field] == nil {
			table[field] = make(map[string]string)
		}
		table[field][aliasKey] = value // file wins over built-in
	}
	return nil
}

// Resolve maps a raw value of the given field to its canonical form.
// Lookup trims whitespace and is case-insensitive; unknown values are returned
// unchanged (trimmed only), never dropped.
func (r *Resolver) Resolve(field, raw string) string {
	if mapping, ok := r.aliases[core.CleanString(field, true /* lower */)]; ok {
		if canonical, ok := mapping[key(raw)]; ok {
			return canonical
		}
	}
	return core.CleanString(raw)
}

// ResolveList applies Resolve element-wise.
func (r *Resolver) ResolveList(field string, raws []string) []string {
	resolved := make([]string, len(raws))
	for i, raw := range raws {
		resolved[i] = r.Resolve(field, raw)
	}
	return resolved
}
