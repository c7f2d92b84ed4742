// Package utility maps addresses to their serving electric utility using a
// static ZIP-prefix table.
package utility

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultProvider is returned when no ZIP prefix matches.
const DefaultProvider = "Local Utility"

var zipPattern = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)

// defaultPrefixes maps ZIP prefixes to utility names.
var defaultPrefixes = map[string]string{
	"100": "Con Edison",
	"101": "Con Edison",
	"102": "Con Edison",
	"104": "Con Edison",
	"112": "Con Edison",
	"021": "Eversource",
	"070": "PSE&G",
	"600": "ComEd",
	"606": "ComEd",
	"750": "Oncor",
	"752": "Oncor",
	"770": "CenterPoint Energy",
	"773": "Entergy Texas",
	"787": "Austin Energy",
	"802": "Xcel Energy",
	"850": "Arizona Public Service",
	"852": "Salt River Project",
	"900": "Los Angeles Department of Water and Power",
	"902": "Southern California Edison",
	"917": "Southern California Edison",
	"921": "San Diego Gas & Electric",
	"941": "Pacific Gas and Electric",
	"945": "Pacific Gas and Electric",
	"958": "Sacramento Municipal Utility District",
	"331": "Florida Power & Light",
	"336": "TECO Tampa Electric",
	"328": "Duke Energy Florida",
	"208": "Pepco",
	"212": "Baltimore Gas and Electric",
}

// Directory is an immutable ZIP-prefix lookup table.
type Directory struct {
	prefixes []string
	names    map[string]string
}

// NewDirectory returns a directory over the built-in table.
func NewDirectory() *Directory {
	return NewDirectoryFrom(defaultPrefixes)
}

// NewDirectoryFrom builds a directory from a prefix table. Longer prefixes
// win over shorter ones.
func NewDirectoryFrom(table map[string]string) *Directory {
	d := &Directory{names: make(map[string]string, len(table))}
	for prefix, name := range table {
		d.names[prefix] = name
		d.prefixes = append(d.prefixes, prefix)
	}
	sort.Slice(d.prefixes, func(i, j int) bool {
		if len(d.prefixes[i]) != len(d.prefixes[j]) {
			return len(d.prefixes[i]) > len(d.prefixes[j])
		}
		return d.prefixes[i] < d.prefixes[j]
	})
	return d
}

// ExtractZIP returns the first five-digit ZIP code in address, or "".
func ExtractZIP(address string) string {
	m := zipPattern.FindStringSubmatch(address)
	if m == nil {
		return ""
	}
	return m[1]
}

// Lookup returns the utility serving address, or DefaultProvider.
func (d *Directory) Lookup(address string) string {
	zip := ExtractZIP(address)
	if zip == "" {
		return DefaultProvider
	}
	for _, prefix := range d.prefixes {
		if strings.HasPrefix(zip, prefix) {
			return d.names[prefix]
		}
	}
	return DefaultProvider
}
