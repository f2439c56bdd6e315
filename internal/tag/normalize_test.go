// AngelaMos | 2026
// normalize_test.go

package tag_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/tag"
)

var slugInputs = []string{
	"Café Résto",
	"  Sushi  ",
	"Date Night",
	"Crème   Brûlée",
	"Rock & Roll",
	"--Hidden--Gem--",
	"Señor Taco",
	"Dim_Sum",
	"Ça va",
	"100% Vegan!",
	"Tab\tSeparated",
	"Date\u00a0Night",
	"Date\u3000Night",
	"Zürich",
	"ÅNGSTRÖM",
	"!!!",
	"",
	"東京",
}

func TestNormalize_Golden(t *testing.T) {
	var buf bytes.Buffer
	for _, in := range slugInputs {
		out, err := tag.Normalize(in)
		if err != nil {
			out = "<invalid>"
		}
		fmt.Fprintf(&buf, "%q => %q\n", in, out)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "slugs", buf.Bytes())
}

func TestNormalize_CafeResto(t *testing.T) {
	got, err := tag.Normalize("Café Résto")
	require.NoError(t, err)
	assert.Equal(t, "cafe-resto", got)
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range slugInputs {
		first, err := tag.Normalize(in)
		if err != nil {
			continue
		}
		second, err := tag.Normalize(first)
		require.NoError(t, err, in)
		assert.Equal(t, first, second, in)
	}
}

func TestNormalize_EmptyResultIsInvalidInput(t *testing.T) {
	_, err := tag.Normalize("  --- ")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestNormalize_UnicodeSpacesHyphenate(t *testing.T) {
	for _, in := range []string{"Date\u00a0Night", "Date\u2003Night", "Date\u3000Night"} {
		got, err := tag.Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, "date-night", got, "%q", in)
	}
}
