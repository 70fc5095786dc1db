package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "chassisd/pkg/domain-errors"
)

func TestCheckDigit_KnownVectors(t *testing.T) {
	t.Run("all ones", func(t *testing.T) {
		// Weighted sum is 89; 89 mod 11 = 1.
		check, err := CheckDigit("11111111111111111")
		require.NoError(t, err)
		assert.Equal(t, byte('1'), check)
	})

	t.Run("remainder ten encodes as X", func(t *testing.T) {
		check, err := CheckDigit("1M8GDM9AXKP042788")
		require.NoError(t, err)
		assert.Equal(t, byte('X'), check)
	})

	t.Run("check position does not feed itself", func(t *testing.T) {
		a, err := CheckDigit("1M8GDM9A0KP042788")
		require.NoError(t, err)
		b, err := CheckDigit("1M8GDM9AXKP042788")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestCheckDigit_RejectsForbiddenLetters(t *testing.T) {
	for _, c := range ForbiddenLetters {
		vin := "1M8GDM9AXKP04278" + string(c)
		_, err := CheckDigit(vin)
		require.Error(t, err, "letter %q must be rejected", string(c))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidCharacter))
	}
}

func TestCheckDigit_RejectsWrongLength(t *testing.T) {
	_, err := CheckDigit("1M8GDM9AXKP")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidParameter))
}

func TestTransliterate_CoversWholeAlphabet(t *testing.T) {
	alphabet := "0123456789ABCDEFGHJKLMNPRSTUVWXYZ"
	for i := 0; i < len(alphabet); i++ {
		v, err := Transliterate(alphabet[i])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 9)
	}
	for _, c := range ForbiddenLetters {
		assert.False(t, InAlphabet(byte(c)))
	}
}

func TestTransliterate_LetterGroups(t *testing.T) {
	// Letters collapse onto repeating digit groups.
	cases := map[byte]int{'A': 1, 'H': 8, 'J': 1, 'N': 5, 'P': 7, 'R': 9, 'S': 2, 'Z': 9}
	for c, want := range cases {
		got, err := Transliterate(c)
		require.NoError(t, err)
		assert.Equal(t, want, got, "letter %q", string(c))
	}
}

func TestForbiddenLetters_NeverInAlphabet(t *testing.T) {
	for i := 0; i < len(ForbiddenLetters); i++ {
		assert.False(t, strings.ContainsRune("0123456789ABCDEFGHJKLMNPRSTUVWXYZ", rune(ForbiddenLetters[i])))
	}
}
