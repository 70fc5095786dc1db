// Package models holds the shared data model of the chassis subsystem.
package models

import (
	"fmt"
	"strconv"

	"chassisd/internal/chassis/codec"
	dErrors "chassisd/pkg/domain-errors"
)

// Kind discriminates the two identifier families.
type Kind string

const (
	// KindVIN is a 17-character ISO 3779 vehicle identification number
	// with a computed check digit.
	KindVIN Kind = "vin"

	// KindManufacturer is a free-form manufacturer chassis number:
	// bounded length, restricted alphabet, no check digit.
	KindManufacturer Kind = "manufacturer"
)

// Identifier is an issued chassis identifier. Never mutated after creation.
type Identifier struct {
	Value string `json:"value"`
	Kind  Kind   `json:"kind"`
}

func (id Identifier) String() string { return id.Value }

// VinComponents is the structured view of a VIN-kind identifier.
//
// Invariants:
//   - WMI is 3 characters, VDS is 5, Serial is 6 digits
//   - CheckDigit is always the codec-computed value, never settable
//   - Assemble reproduces the source string byte for byte
type VinComponents struct {
	WMI        string `json:"wmi"`
	VDS        string `json:"vds"`
	CheckDigit byte   `json:"-"`
	YearCode   byte   `json:"-"`
	PlantCode  byte   `json:"-"`
	Serial     string `json:"serial"`
}

// Assemble reconstitutes the 17-character VIN string.
func (c VinComponents) Assemble() string {
	return c.WMI + c.VDS + string(c.CheckDigit) + string(c.YearCode) + string(c.PlantCode) + c.Serial
}

// SequenceNumber returns the numeric value of the serial section.
func (c VinComponents) SequenceNumber() (int64, error) {
	n, err := strconv.ParseInt(c.Serial, 10, 64)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeInvalidParameter, "serial %q is not numeric", c.Serial)
	}
	return n, nil
}

// ParseVinComponents splits a 17-character string into its sections. It
// checks only the shape; full validation is the validator's job.
func ParseVinComponents(vin string) (VinComponents, error) {
	if len(vin) != codec.VINLength {
		return VinComponents{}, dErrors.Newf(dErrors.CodeInvalidParameter, "VIN must be %d characters, got %d", codec.VINLength, len(vin))
	}
	return VinComponents{
		WMI:        vin[0:3],
		VDS:        vin[3:8],
		CheckDigit: vin[8],
		YearCode:   vin[9],
		PlantCode:  vin[10],
		Serial:     vin[11:17],
	}, nil
}

// SequenceKey scopes one monotonic counter: identifiers sharing a key
// share an issuance history and must never share a sequence number.
type SequenceKey struct {
	WMI       string
	VDS       string
	YearCode  byte
	PlantCode byte
}

// String renders the persisted form of the key. This is the on-disk /
// in-database key for every sequence store backend, so it must stay stable.
func (k SequenceKey) String() string {
	return fmt.Sprintf("%s|%s|%c|%c", k.WMI, k.VDS, k.YearCode, k.PlantCode)
}

// ValidationResult reports the outcome of validating one identifier.
// Errors is empty exactly when Valid is true. ChecksumValid is meaningful
// only for KindVIN.
type ValidationResult struct {
	Valid         bool     `json:"valid"`
	Kind          Kind     `json:"kind,omitempty"`
	ChecksumValid bool     `json:"checksum_valid"`
	Errors        []string `json:"errors,omitempty"`
}

// PatternDescription names the arithmetic progression inferred by
// sequence continuation.
type PatternDescription struct {
	Prefix    string `json:"prefix"`
	Width     int    `json:"width"`
	Increment int64  `json:"increment"`
}

func (p PatternDescription) String() string {
	return fmt.Sprintf("prefix %q, width %d, increment %d", p.Prefix, p.Width, p.Increment)
}
