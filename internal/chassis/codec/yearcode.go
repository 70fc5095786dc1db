package codec

import (
	"strings"

	dErrors "chassisd/pkg/domain-errors"
)

// Model year codes cycle through 30 characters: the alphabet minus I, O
// and Q (which the whole VIN forbids) and minus U and Z (which the year
// position additionally excludes), followed by the digits 1-9.
const yearCodes = "ABCDEFGHJKLMNPRSTVWXY123456789"

// The code sequence repeats every 30 years. Two cycles are supported:
// 1980-2009 and 2010-2039. 'A' therefore means 1980 or 2010 depending on
// context, which is why decoding demands a reference year.
const (
	MinYear   = 1980
	MaxYear   = 2039
	cycleSpan = len(yearCodes)
)

// EncodeYear returns the single-character code for a model year.
func EncodeYear(year int) (byte, error) {
	if year < MinYear || year > MaxYear {
		return 0, dErrors.Newf(dErrors.CodeYearOutOfRange, "model year %d outside supported range %d-%d", year, MinYear, MaxYear)
	}
	return yearCodes[(year-MinYear)%cycleSpan], nil
}

// DecodeYear resolves a year code back to a model year. The code alone is
// ambiguous across the 30-year cycles, so the caller must supply a
// reference year; the candidate whose value lies at or before
// reference+15 wins, preferring the later cycle. For any year in the
// supported range, DecodeYear(EncodeYear(y), y) == y.
func DecodeYear(code byte, reference int) (int, error) {
	offset := strings.IndexByte(yearCodes, code)
	if offset < 0 {
		return 0, dErrors.Newf(dErrors.CodeInvalidCharacter, "%q is not a model year code", string(code))
	}
	year := MinYear + offset
	for candidate := year + cycleSpan; candidate <= MaxYear; candidate += cycleSpan {
		if candidate <= reference+15 {
			year = candidate
		}
	}
	return year, nil
}
