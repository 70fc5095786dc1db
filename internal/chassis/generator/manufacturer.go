package generator

import (
	"fmt"
	"strconv"
	"strings"

	"chassisd/internal/chassis/models"
	dErrors "chassisd/pkg/domain-errors"
)

// Manufacturer chassis numbers carry no check digit; only a length bound
// and an allowed character set.
const (
	DefaultMinChassisLength = 13
	DefaultMaxChassisLength = 17
)

// Segment is one element of a chassis template: either a literal or a
// named, fixed-width, zero-padded numeric field. Representing the template
// as an explicit schema (rather than a format string) makes a missing or
// oversized field a structural error instead of a formatting accident.
type Segment struct {
	Literal string
	Field   string
	Width   int
}

// Template is the ordered segment schema for one manufacturer's chassis
// numbering scheme.
type Template struct {
	Segments []Segment
}

// ParseTemplate builds a Template from compact notation: literal text with
// {name:width} placeholders, e.g. "GX71-{serial:7}".
func ParseTemplate(s string) (Template, error) {
	var t Template
	for len(s) > 0 {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			t.Segments = append(t.Segments, Segment{Literal: s})
			break
		}
		if open > 0 {
			t.Segments = append(t.Segments, Segment{Literal: s[:open]})
		}
		s = s[open+1:]
		close := strings.IndexByte(s, '}')
		if close < 0 {
			return Template{}, dErrors.New(dErrors.CodeInvalidParameter, "template has unterminated placeholder")
		}
		name, widthStr, ok := strings.Cut(s[:close], ":")
		if !ok || name == "" {
			return Template{}, dErrors.Newf(dErrors.CodeInvalidParameter, "placeholder %q must be name:width", s[:close])
		}
		width, err := strconv.Atoi(widthStr)
		if err != nil || width < 1 {
			return Template{}, dErrors.Newf(dErrors.CodeInvalidParameter, "placeholder %q has invalid width", s[:close])
		}
		t.Segments = append(t.Segments, Segment{Field: name, Width: width})
		s = s[close+1:]
	}
	if len(t.Segments) == 0 {
		return Template{}, dErrors.New(dErrors.CodeInvalidParameter, "template is empty")
	}
	return t, nil
}

// Fields returns the placeholder names in template order.
func (t Template) Fields() []string {
	var out []string
	for _, seg := range t.Segments {
		if seg.Field != "" {
			out = append(out, seg.Field)
		}
	}
	return out
}

// Chassis composes manufacturer chassis numbers from a template schema.
type Chassis struct {
	minLen int
	maxLen int
}

// NewChassis creates a chassis generator with the default length bounds.
func NewChassis() *Chassis {
	return &Chassis{minLen: DefaultMinChassisLength, maxLen: DefaultMaxChassisLength}
}

// NewChassisWithBounds creates a chassis generator with custom bounds.
func NewChassisWithBounds(minLen, maxLen int) (*Chassis, error) {
	if minLen < 1 || maxLen < minLen {
		return nil, dErrors.Newf(dErrors.CodeInvalidParameter, "invalid length bounds %d-%d", minLen, maxLen)
	}
	return &Chassis{minLen: minLen, maxLen: maxLen}, nil
}

// Bounds returns the accepted chassis length range.
func (g *Chassis) Bounds() (int, int) { return g.minLen, g.maxLen }

// Generate renders the template with the supplied numeric fields. A
// placeholder without a matching entry fails as a missing field; a value
// that does not fit its declared width fails as too wide. Both are the
// caller's fault and are never retried.
func (g *Chassis) Generate(tmpl Template, fields map[string]int64) (models.Identifier, error) {
	var b strings.Builder
	for _, seg := range tmpl.Segments {
		if seg.Field == "" {
			b.WriteString(strings.ToUpper(seg.Literal))
			continue
		}
		value, ok := fields[seg.Field]
		if !ok {
			return models.Identifier{}, dErrors.Newf(dErrors.CodeInvalidParameter, "missing field %q", seg.Field)
		}
		if value < 0 {
			return models.Identifier{}, dErrors.Newf(dErrors.CodeInvalidParameter, "field %q must not be negative", seg.Field)
		}
		rendered := strconv.FormatInt(value, 10)
		if len(rendered) > seg.Width {
			return models.Identifier{}, dErrors.Newf(dErrors.CodeInvalidParameter,
				"field %q value %d does not fit width %d", seg.Field, value, seg.Width)
		}
		fmt.Fprintf(&b, "%0*d", seg.Width, value)
	}

	value := b.String()
	if len(value) < g.minLen || len(value) > g.maxLen {
		return models.Identifier{}, dErrors.Newf(dErrors.CodeInvalidParameter,
			"chassis number %q is %d characters, accepted range is %d-%d", value, len(value), g.minLen, g.maxLen)
	}
	for i := 0; i < len(value); i++ {
		if !chassisChar(value[i]) {
			return models.Identifier{}, dErrors.Newf(dErrors.CodeInvalidCharacter,
				"chassis number contains %q", string(value[i]))
		}
	}
	return models.Identifier{Value: value, Kind: models.KindManufacturer}, nil
}

// GenerateBatch renders the template once per consecutive value of the
// named counter field, starting at first.
func (g *Chassis) GenerateBatch(tmpl Template, fields map[string]int64, counter string, first int64, quantity int) ([]models.Identifier, error) {
	if quantity < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidParameter, "quantity must be positive")
	}
	out := make([]models.Identifier, 0, quantity)
	for i := 0; i < quantity; i++ {
		merged := make(map[string]int64, len(fields)+1)
		for k, v := range fields {
			merged[k] = v
		}
		merged[counter] = first + int64(i)
		id, err := g.Generate(tmpl, merged)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// chassisChar reports whether c may appear in a manufacturer chassis
// number: uppercase letters, digits and the dash separator.
func chassisChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c == '-':
		return true
	}
	return false
}
