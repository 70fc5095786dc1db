// Package generator composes identifiers: standard 17-character VINs with
// a computed check digit, and free-form manufacturer chassis numbers built
// from an explicit template schema.
package generator

import (
	"fmt"
	"strings"

	"chassisd/internal/chassis/codec"
	"chassisd/internal/chassis/models"
	dErrors "chassisd/pkg/domain-errors"
)

// SerialWidth is the fixed width of the VIN serial section.
const SerialWidth = 6

const maxSerial = 999999

// VIN composes standard vehicle identification numbers. Stateless; the
// caller supplies the sequence number (the factory allocates it from the
// sequence store).
type VIN struct{}

// NewVIN creates a VIN generator.
func NewVIN() *VIN { return &VIN{} }

// Generate composes one VIN from its components. Field widths are
// validated before composition and errors name the offending field.
// The check digit is always computed, never caller-supplied.
func (g *VIN) Generate(wmi, vds string, year int, plant byte, seq int64) (models.Identifier, error) {
	wmi = strings.ToUpper(wmi)
	vds = strings.ToUpper(vds)
	if plant >= 'a' && plant <= 'z' {
		plant -= 'a' - 'A'
	}

	if len(wmi) != 3 {
		return models.Identifier{}, dErrors.Newf(dErrors.CodeInvalidParameter, "manufacturer_code must be 3 characters, got %d", len(wmi))
	}
	if len(vds) != 5 {
		return models.Identifier{}, dErrors.Newf(dErrors.CodeInvalidParameter, "descriptor must be 5 characters, got %d", len(vds))
	}
	if seq < 0 || seq > maxSerial {
		return models.Identifier{}, dErrors.Newf(dErrors.CodeInvalidParameter, "sequence %d does not fit %d digits", seq, SerialWidth)
	}
	for _, section := range []struct{ name, value string }{
		{"manufacturer_code", wmi},
		{"descriptor", vds},
		{"plant_code", string(plant)},
	} {
		for i := 0; i < len(section.value); i++ {
			if !codec.InAlphabet(section.value[i]) {
				return models.Identifier{}, dErrors.Newf(dErrors.CodeInvalidCharacter,
					"%s contains %q, which is not in the VIN alphabet", section.name, string(section.value[i]))
			}
		}
	}

	yearCode, err := codec.EncodeYear(year)
	if err != nil {
		return models.Identifier{}, err
	}

	c := models.VinComponents{
		WMI:        wmi,
		VDS:        vds,
		CheckDigit: '0', // placeholder until computed
		YearCode:   yearCode,
		PlantCode:  plant,
		Serial:     fmt.Sprintf("%0*d", SerialWidth, seq),
	}
	check, err := codec.CheckDigit(c.Assemble())
	if err != nil {
		return models.Identifier{}, err
	}
	c.CheckDigit = check

	return models.Identifier{Value: c.Assemble(), Kind: models.KindVIN}, nil
}

// GenerateBatch emits one VIN per consecutive sequence number starting at
// first. Each identifier's check digit is recomputed individually; check
// digits are not sequential even though the serial is.
func (g *VIN) GenerateBatch(wmi, vds string, year int, plant byte, first int64, quantity int) ([]models.Identifier, error) {
	if quantity < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidParameter, "quantity must be positive")
	}
	out := make([]models.Identifier, 0, quantity)
	for i := 0; i < quantity; i++ {
		id, err := g.Generate(wmi, vds, year, plant, first+int64(i))
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
