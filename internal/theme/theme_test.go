package theme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/livemap/internal/domain"
	"github.com/pkordes/livemap/internal/theme"
)

func TestLookup_DefaultWhenEmpty(t *testing.T) {
	got, err := theme.Lookup("")

	require.NoError(t, err)
	assert.Equal(t, theme.Default, got.Name)
	assert.Equal(t, "#4F46E5", got.FillHex())
}

func TestLookup_Unknown(t *testing.T) {
	_, err := theme.Lookup("neon")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNames_AllResolvable(t *testing.T) {
	names := theme.Names()
	require.Equal(t, []string{"classic", "indigo", "slate"}, names)

	for _, n := range names {
		got, err := theme.Lookup(n)
		require.NoError(t, err)
		assert.Equal(t, n, got.Name)
		assert.Positive(t, got.MarkerScale)
		assert.NotEmpty(t, got.MapStyles)
	}
}

func TestHeading(t *testing.T) {
	classic, err := theme.Lookup("classic")
	require.NoError(t, err)

	assert.Equal(t, "Total Businesses Shown: 3", classic.Heading(3))
}
