package factory

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"chassisd/internal/chassis/codec"
	"chassisd/internal/chassis/generator"
	"chassisd/internal/chassis/models"
	dErrors "chassisd/pkg/domain-errors"
)

// Characters random fixtures draw from: the VIN alphabet minus the
// forbidden letters.
const randomAlphabet = "0123456789ABCDEFGHJKLMNPRSTUVWXYZ"
const randomLetters = "ABCDEFGHJKLMNPRSTUVWXYZ"

// CreateRandom produces syntactically valid but non-deterministic
// identifiers for tests and fixtures. It is structurally incapable of
// touching the sequence store — nothing in this path references it — so
// fixture generation can never collide with or consume real issuance
// history. Do not expect uniqueness across calls.
func (f *Factory) CreateRandom(quantity int, kind models.Kind) ([]models.Identifier, error) {
	if quantity < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidParameter, "quantity must be positive")
	}

	out := make([]models.Identifier, 0, quantity)
	for i := 0; i < quantity; i++ {
		var (
			id  models.Identifier
			err error
		)
		switch kind {
		case models.KindVIN:
			id, err = f.randomVIN()
		case models.KindManufacturer:
			id, err = f.randomChassis()
		default:
			return nil, dErrors.Newf(dErrors.CodeInvalidParameter, "unknown identifier kind %q", kind)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}

	if f.metrics != nil {
		f.metrics.IdentifiersIssued.WithLabelValues("random").Add(float64(quantity))
	}
	return out, nil
}

// randomVIN composes a VIN from a real prefix when the database has
// records, otherwise from random alphabet characters.
func (f *Factory) randomVIN() (models.Identifier, error) {
	wmi := randomString(randomAlphabet, 3)
	if recs := f.prefixes.All(); len(recs) > 0 {
		wmi = recs[rand.IntN(len(recs))].Code
	}
	year := codec.MinYear + rand.IntN(codec.MaxYear-codec.MinYear+1)
	return f.vins.Generate(
		wmi,
		randomString(randomAlphabet, 5),
		year,
		randomLetters[rand.IntN(len(randomLetters))],
		rand.Int64N(1000000),
	)
}

// randomChassis renders a plausible manufacturer chassis number: a short
// letter code, a dash and a numeric serial landing inside the bounds.
func (f *Factory) randomChassis() (models.Identifier, error) {
	minLen, _ := f.chassis.Bounds()
	prefix := fmt.Sprintf("%s-", randomString(randomLetters, 4))
	width := minLen - len(prefix)
	tmpl := fmt.Sprintf("%s{%s:%d}", prefix, chassisCounterField, width)
	parsed, err := generator.ParseTemplate(tmpl)
	if err != nil {
		return models.Identifier{}, err
	}
	serial := rand.Int64N(pow10(width))
	return f.chassis.Generate(parsed, map[string]int64{chassisCounterField: serial})
}

func randomString(alphabet string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
