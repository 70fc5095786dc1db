// Package codec implements the character-level arithmetic of the VIN
// standard: the transliteration table and weight vector behind the check
// digit, and the model-year code bijection.
//
// Everything here is a pure function over bytes. State, storage and
// orchestration live in the generator, store and factory packages.
package codec

import (
	dErrors "chassisd/pkg/domain-errors"
)

// VINLength is the fixed length of a standard vehicle identification number.
const VINLength = 17

// CheckDigitIndex is the zero-based index of the check digit (position 9).
const CheckDigitIndex = 8

// ForbiddenLetters never appear in a VIN; they are too easily confused
// with 1 and 0.
const ForbiddenLetters = "IOQ"

// transliteration maps each allowed character to its numeric value for the
// check digit computation. Letters collapse onto repeating digit groups
// (A-H = 1-8, J-N = 1-5, P = 7, R = 9, S-Z = 2-9); digits map to
// themselves. I, O and Q deliberately have no entry.
var transliteration = map[byte]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4,
	'5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5,
	'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5,
	'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6,
	'X': 7, 'Y': 8, 'Z': 9,
}

// weights is the per-position weight vector. The check digit position
// itself weighs zero so the digit never feeds its own computation.
var weights = [VINLength]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

// InAlphabet reports whether c is a character VINs may contain.
func InAlphabet(c byte) bool {
	_, ok := transliteration[c]
	return ok
}

// Transliterate returns the numeric value of c for checksum purposes.
func Transliterate(c byte) (int, error) {
	v, ok := transliteration[c]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeInvalidCharacter, "character %q is not in the VIN alphabet", string(c))
	}
	return v, nil
}

// CheckDigit computes the check digit for a 17-character VIN candidate.
// The character already present at the check position is ignored (treated
// as zero), so the function works both when composing a fresh VIN and when
// re-verifying an existing one.
//
// The sum of weighted transliterated values is reduced modulo 11; a
// remainder of 10 encodes as the literal 'X', anything else as its digit.
func CheckDigit(vin string) (byte, error) {
	if len(vin) != VINLength {
		return 0, dErrors.Newf(dErrors.CodeInvalidParameter, "check digit requires %d characters, got %d", VINLength, len(vin))
	}
	sum := 0
	for i := 0; i < VINLength; i++ {
		if i == CheckDigitIndex {
			continue
		}
		v, err := Transliterate(vin[i])
		if err != nil {
			return 0, err
		}
		sum += v * weights[i]
	}
	rem := sum % 11
	if rem == 10 {
		return 'X', nil
	}
	return byte('0' + rem), nil
}
