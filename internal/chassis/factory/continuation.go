package factory

import (
	"fmt"
	"strconv"
	"strings"

	"chassisd/internal/chassis/models"
	dErrors "chassisd/pkg/domain-errors"
)

// ContinueSequence infers the arithmetic pattern behind a partial list of
// identifiers and extends it by quantity further values. It operates
// purely on the caller-supplied strings and never touches the sequence
// store, so continuing an externally observed series can never collide
// with or consume this service's own issuance history.
//
// Inference: take the maximal trailing digit run of each input as its
// numeric suffix; the shared remainder is the literal prefix; the most
// frequent delta between consecutive suffix values is the increment. The
// extension keeps the zero-padded width of the inputs and grows naturally
// when a value outruns it.
func (f *Factory) ContinueSequence(existing []string, quantity int) ([]string, models.PatternDescription, error) {
	if len(existing) < 2 {
		return nil, models.PatternDescription{}, dErrors.New(dErrors.CodeAmbiguousPattern,
			"at least two identifiers are required to infer a pattern")
	}
	if quantity < 1 {
		return nil, models.PatternDescription{}, dErrors.New(dErrors.CodeInvalidParameter, "quantity must be positive")
	}

	type suffixed struct {
		prefix string
		value  int64
		width  int
	}
	var parsed []suffixed
	for _, s := range existing {
		prefix, digits := splitNumericSuffix(s)
		if digits == "" {
			continue
		}
		value, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			continue
		}
		parsed = append(parsed, suffixed{prefix: prefix, value: value, width: len(digits)})
	}
	if len(parsed) < 2 {
		return nil, models.PatternDescription{}, dErrors.New(dErrors.CodeAmbiguousPattern,
			"no consistent numeric suffix found in at least two identifiers")
	}

	prefix := parsed[0].prefix
	width := parsed[0].width
	for _, p := range parsed[1:] {
		if p.prefix != prefix {
			return nil, models.PatternDescription{}, dErrors.Newf(dErrors.CodeAmbiguousPattern,
				"identifiers do not share a literal prefix (%q vs %q)", prefix, p.prefix)
		}
		if p.width > width {
			width = p.width
		}
	}

	values := make([]int64, len(parsed))
	for i, p := range parsed {
		values[i] = p.value
	}
	increment := dominantDelta(values)
	if increment == 0 {
		return nil, models.PatternDescription{}, dErrors.New(dErrors.CodeAmbiguousPattern,
			"suffix values do not advance")
	}

	last := parsed[len(parsed)-1].value
	out := make([]string, 0, quantity)
	for i := 1; i <= quantity; i++ {
		next := last + int64(i)*increment
		if next < 0 {
			return nil, models.PatternDescription{}, dErrors.New(dErrors.CodeAmbiguousPattern,
				"extension would produce a negative suffix")
		}
		out = append(out, fmt.Sprintf("%s%0*d", prefix, width, next))
	}

	desc := models.PatternDescription{Prefix: prefix, Width: width, Increment: increment}
	return out, desc, nil
}

// splitNumericSuffix cuts s into its literal prefix and maximal trailing
// digit run.
func splitNumericSuffix(s string) (prefix, digits string) {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[:i], s[i:]
}

// dominantDelta returns the most frequent difference between consecutive
// suffix values, ties resolved in favor of the earliest observed.
func dominantDelta(values []int64) int64 {
	counts := make(map[int64]int)
	var order []int64
	for i := 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		if _, seen := counts[d]; !seen {
			order = append(order, d)
		}
		counts[d]++
	}
	best := int64(0)
	bestCount := 0
	for _, d := range order {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}
