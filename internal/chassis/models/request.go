package models

import (
	"strings"

	"chassisd/internal/chassis/codec"
	dErrors "chassisd/pkg/domain-errors"
)

// Defaults applied when the document pipeline omits optional fields.
const (
	DefaultVDS       = "00000"
	DefaultPlantCode = byte('A')
)

// GenerationRequest is the configuration block the surrounding
// document-conversion pipeline hands over when a source document asks for
// generated identifiers.
type GenerationRequest struct {
	Generate         bool   `json:"generate"`
	Quantity         int    `json:"quantity"`
	ManufacturerCode string `json:"manufacturer_code"`
	Year             int    `json:"year"`
	Descriptor       string `json:"descriptor"`
	PlantCode        string `json:"plant_code"`
	EnsureUnique     *bool  `json:"ensure_unique,omitempty"`
}

// Normalize fills defaults and uppercases the character fields.
func (r *GenerationRequest) Normalize() {
	r.ManufacturerCode = strings.ToUpper(strings.TrimSpace(r.ManufacturerCode))
	r.Descriptor = strings.ToUpper(strings.TrimSpace(r.Descriptor))
	r.PlantCode = strings.ToUpper(strings.TrimSpace(r.PlantCode))
	if r.Descriptor == "" {
		r.Descriptor = DefaultVDS
	}
	if r.PlantCode == "" {
		r.PlantCode = string(DefaultPlantCode)
	}
	if r.Quantity == 0 {
		r.Quantity = 1
	}
}

// Unique reports whether issued identifiers must come from the durable
// sequence store. Defaults to true.
func (r *GenerationRequest) Unique() bool {
	return r.EnsureUnique == nil || *r.EnsureUnique
}

// Validate checks the request after Normalize. Missing required fields are
// reported verbatim by field name so the pipeline can echo them back into
// its own diagnostics.
func (r *GenerationRequest) Validate() error {
	if !r.Generate {
		return nil
	}
	var missing []string
	if r.ManufacturerCode == "" {
		missing = append(missing, "manufacturer_code")
	}
	if r.Year == 0 {
		missing = append(missing, "year")
	}
	if len(missing) > 0 {
		return dErrors.Newf(dErrors.CodeInvalidParameter, "missing required fields: %s", strings.Join(missing, ", "))
	}
	if r.Quantity < 1 {
		return dErrors.New(dErrors.CodeInvalidParameter, "quantity must be positive")
	}
	if len(r.ManufacturerCode) != 3 {
		return dErrors.Newf(dErrors.CodeInvalidParameter, "manufacturer_code must be 3 characters, got %d", len(r.ManufacturerCode))
	}
	if len(r.Descriptor) != 5 {
		return dErrors.Newf(dErrors.CodeInvalidParameter, "descriptor must be 5 characters, got %d", len(r.Descriptor))
	}
	if len(r.PlantCode) != 1 {
		return dErrors.Newf(dErrors.CodeInvalidParameter, "plant_code must be 1 character, got %d", len(r.PlantCode))
	}
	if r.Year < codec.MinYear || r.Year > codec.MaxYear {
		return dErrors.Newf(dErrors.CodeYearOutOfRange, "year %d outside supported range %d-%d", r.Year, codec.MinYear, codec.MaxYear)
	}
	return nil
}
