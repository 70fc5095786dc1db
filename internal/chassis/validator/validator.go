// Package validator checks identifiers against the two structural
// standards: ISO-style 17-character VINs and free-form manufacturer
// chassis numbers. Classification is one explicit step; each family then
// has its own pure validation path. Every failure path accumulates all
// detected problems so one call surfaces everything wrong with the input.
package validator

import (
	"fmt"
	"strings"

	"chassisd/internal/chassis/codec"
	"chassisd/internal/chassis/generator"
	"chassisd/internal/chassis/models"
)

// Validator validates chassis identifiers of either family.
type Validator struct {
	minChassisLen int
	maxChassisLen int
}

// New creates a validator with the default manufacturer length bounds.
func New() *Validator {
	return &Validator{
		minChassisLen: generator.DefaultMinChassisLength,
		maxChassisLen: generator.DefaultMaxChassisLength,
	}
}

// Validate classifies the input and runs the matching structural checks.
// It never returns an error; all verdicts live in the result.
func (v *Validator) Validate(input string) models.ValidationResult {
	s := strings.ToUpper(strings.TrimSpace(input))

	switch kind := v.classify(s); kind {
	case models.KindVIN:
		return validateVIN(s)
	case models.KindManufacturer:
		return v.validateChassis(s)
	default:
		return models.ValidationResult{
			Valid: false,
			Errors: []string{fmt.Sprintf(
				"length %d matches neither a %d-character VIN nor a %d-%d character chassis number",
				len(s), codec.VINLength, v.minChassisLen, v.maxChassisLen)},
		}
	}
}

// classify picks the identifier family by length and alphabet. A
// 17-character alphanumeric string is a VIN candidate (including ones
// carrying forbidden letters, so those fail the VIN checks rather than
// being misread as chassis numbers); anything else within the chassis
// bounds is a manufacturer candidate.
func (v *Validator) classify(s string) models.Kind {
	if len(s) == codec.VINLength && isAlphanumeric(s) {
		return models.KindVIN
	}
	if len(s) >= v.minChassisLen && len(s) <= v.maxChassisLen {
		return models.KindManufacturer
	}
	return ""
}

func validateVIN(s string) models.ValidationResult {
	res := models.ValidationResult{Kind: models.KindVIN}

	computable := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(codec.ForbiddenLetters, c) >= 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("position %d holds forbidden letter %q", i+1, string(c)))
			computable = false
			continue
		}
		if !codec.InAlphabet(c) {
			res.Errors = append(res.Errors, fmt.Sprintf("position %d holds %q, not in the VIN alphabet", i+1, string(c)))
			computable = false
		}
	}

	if yc := s[9]; strings.IndexByte(codec.ForbiddenLetters+"UZ0", yc) >= 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("model year code %q is not a valid year character", string(yc)))
	}

	if computable {
		want, err := codec.CheckDigit(s)
		if err == nil && want == s[codec.CheckDigitIndex] {
			res.ChecksumValid = true
		} else if err == nil {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"check digit is %q, expected %q", string(s[codec.CheckDigitIndex]), string(want)))
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func (v *Validator) validateChassis(s string) models.ValidationResult {
	res := models.ValidationResult{Kind: models.KindManufacturer}

	for i := 0; i < len(s); i++ {
		c := s[i]
		valid := c == '-' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')
		if !valid {
			res.Errors = append(res.Errors, fmt.Sprintf("position %d holds %q, not allowed in a chassis number", i+1, string(c)))
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func isAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
