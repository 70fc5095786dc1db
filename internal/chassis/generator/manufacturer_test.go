package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chassisd/internal/chassis/models"
	dErrors "chassisd/pkg/domain-errors"
)

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("GX71-{serial:7}")
	require.NoError(t, err)
	require.Len(t, tmpl.Segments, 2)
	assert.Equal(t, "GX71-", tmpl.Segments[0].Literal)
	assert.Equal(t, "serial", tmpl.Segments[1].Field)
	assert.Equal(t, 7, tmpl.Segments[1].Width)
	assert.Equal(t, []string{"serial"}, tmpl.Fields())
}

func TestParseTemplate_Errors(t *testing.T) {
	for name, notation := range map[string]string{
		"unterminated": "GX71-{serial:7",
		"no width":     "GX71-{serial}",
		"bad width":    "GX71-{serial:x}",
		"zero width":   "GX71-{serial:0}",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTemplate(notation)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidParameter))
		})
	}
}

func TestChassis_Generate(t *testing.T) {
	g := NewChassis()
	tmpl, err := ParseTemplate("GX71-{batch:2}{serial:7}")
	require.NoError(t, err)

	id, err := g.Generate(tmpl, map[string]int64{"batch": 4, "serial": 1234})
	require.NoError(t, err)
	assert.Equal(t, models.KindManufacturer, id.Kind)
	assert.Equal(t, "GX71-040001234", id.Value)
}

func TestChassis_Generate_MissingField(t *testing.T) {
	g := NewChassis()
	tmpl, err := ParseTemplate("GX71-{batch:2}{serial:7}")
	require.NoError(t, err)

	_, err = g.Generate(tmpl, map[string]int64{"serial": 1})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidParameter))
	assert.Contains(t, err.Error(), `missing field "batch"`)
}

func TestChassis_Generate_FieldTooWide(t *testing.T) {
	g := NewChassis()
	tmpl, err := ParseTemplate("GX71-{batch:2}{serial:7}")
	require.NoError(t, err)

	_, err = g.Generate(tmpl, map[string]int64{"batch": 100, "serial": 1})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidParameter))
	assert.Contains(t, err.Error(), "does not fit width")
}

func TestChassis_Generate_LengthBounds(t *testing.T) {
	g := NewChassis()

	short, err := ParseTemplate("AB-{serial:3}")
	require.NoError(t, err)
	_, err = g.Generate(short, map[string]int64{"serial": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepted range is 13-17")

	custom, err := NewChassisWithBounds(5, 10)
	require.NoError(t, err)
	id, err := custom.Generate(short, map[string]int64{"serial": 1})
	require.NoError(t, err)
	assert.Equal(t, "AB-001", id.Value)
}

func TestChassis_Generate_NoChecksumAnywhere(t *testing.T) {
	// Manufacturer numbers carry no check digit: the rendered string is
	// exactly the template output, nothing substituted.
	g := NewChassis()
	tmpl, err := ParseTemplate("HONDA-CB{serial:6}")
	require.NoError(t, err)

	id, err := g.Generate(tmpl, map[string]int64{"serial": 750})
	require.NoError(t, err)
	assert.Equal(t, "HONDA-CB000750", id.Value)
}

func TestChassis_GenerateBatch(t *testing.T) {
	g := NewChassis()
	tmpl, err := ParseTemplate("GX71-{serial:8}")
	require.NoError(t, err)

	ids, err := g.GenerateBatch(tmpl, nil, "serial", 40, 3)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, "GX71-00000040", ids[0].Value)
	assert.Equal(t, "GX71-00000041", ids[1].Value)
	assert.Equal(t, "GX71-00000042", ids[2].Value)
}
