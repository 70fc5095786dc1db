// Package prefixdb provides a read-only registry of real-world WMI
// (World Manufacturer Identifier) prefixes, loaded once from an embedded
// dataset and indexed for lookup by code, manufacturer and country.
package prefixdb

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"sort"
	"strings"
)

//go:embed wmi.csv
var dataset []byte

// Record is one WMI assignment. Immutable after load; the database hands
// out copies, never pointers into its indices.
type Record struct {
	Code         string `json:"code"`
	Manufacturer string `json:"manufacturer"`
	Country      string `json:"country"`
}

// Stats summarizes the loaded dataset.
type Stats struct {
	Records       int `json:"records"`
	Manufacturers int `json:"manufacturers"`
	Countries     int `json:"countries"`
}

// DB is the in-memory prefix registry. All operations are read-only after
// New returns, so unsynchronized concurrent reads are safe.
type DB struct {
	records []Record
	byCode  map[string]Record
}

// New loads the embedded dataset. A missing or unparseable dataset yields
// an empty database rather than an error; callers needing authentic
// prefixes must check Stats().Records > 0 and fall back to an explicit
// manufacturer code otherwise.
func New() *DB {
	return load(dataset)
}

func load(raw []byte) *DB {
	db := &DB{byCode: make(map[string]Record)}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = 3
	header := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Tolerate a damaged dataset: keep what parsed so far.
			break
		}
		if header {
			header = false
			continue
		}
		rec := Record{
			Code:         strings.ToUpper(strings.TrimSpace(row[0])),
			Manufacturer: strings.TrimSpace(row[1]),
			Country:      strings.TrimSpace(row[2]),
		}
		if len(rec.Code) != 3 || rec.Manufacturer == "" {
			continue
		}
		if _, dup := db.byCode[rec.Code]; dup {
			continue
		}
		db.records = append(db.records, rec)
		db.byCode[rec.Code] = rec
	}
	return db
}

// All returns a copy of every record in dataset order.
func (db *DB) All() []Record {
	out := make([]Record, len(db.records))
	copy(out, db.records)
	return out
}

// LookupCode returns the record for an exact 3-character code.
func (db *DB) LookupCode(code string) (Record, bool) {
	rec, ok := db.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return rec, ok
}

// SearchManufacturer returns all records whose manufacturer name contains
// the query, case-insensitively.
func (db *DB) SearchManufacturer(query string) []Record {
	return db.search(query, func(r Record) string { return r.Manufacturer })
}

// SearchCountry returns all records whose country contains the query,
// case-insensitively.
func (db *DB) SearchCountry(query string) []Record {
	return db.search(query, func(r Record) string { return r.Country })
}

func (db *DB) search(query string, field func(Record) string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Record
	for _, rec := range db.records {
		if strings.Contains(strings.ToLower(field(rec)), q) {
			out = append(out, rec)
		}
	}
	return out
}

// Manufacturers lists the distinct manufacturer names, sorted.
func (db *DB) Manufacturers() []string {
	return db.distinct(func(r Record) string { return r.Manufacturer })
}

// Countries lists the distinct countries, sorted.
func (db *DB) Countries() []string {
	return db.distinct(func(r Record) string { return r.Country })
}

func (db *DB) distinct(field func(Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range db.records {
		v := field(rec)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Stats reports dataset size and distinct manufacturer/country counts.
func (db *DB) Stats() Stats {
	return Stats{
		Records:       len(db.records),
		Manufacturers: len(db.Manufacturers()),
		Countries:     len(db.Countries()),
	}
}
