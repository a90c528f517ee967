package card

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignature_TrimAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	a := Query{Name: "  Charizard ", Set: "BASE", Number: "4", Condition: "PSA 10"}
	b := Query{Name: "charizard", Set: " base", Number: "4 ", Condition: "psa 10"}

	require.Equal(t, a.Signature(), b.Signature())
	require.Equal(t, "charizard|base|4|psa 10", a.Signature())
}

func TestSignature_DefaultCondition(t *testing.T) {
	t.Parallel()

	blank := Query{Name: "Pikachu", Set: "Jungle", Number: "60"}
	spaces := Query{Name: "Pikachu", Set: "Jungle", Number: "60", Condition: "   "}
	raw := Query{Name: "Pikachu", Set: "Jungle", Number: "60", Condition: "RAW"}

	require.Equal(t, "pikachu|jungle|60|raw", blank.Signature())
	require.Equal(t, blank.Signature(), spaces.Signature())
	require.Equal(t, blank.Signature(), raw.Signature())
}

func TestSignature_IgnoresID(t *testing.T) {
	t.Parallel()

	a := Query{ID: "row-1", Name: "Mew"}
	b := Query{ID: "row-2", Name: "Mew"}
	require.Equal(t, a.Signature(), b.Signature())
}

func TestSignature_DistinctFields(t *testing.T) {
	t.Parallel()

	require.NotEqual(t,
		Signature("Charizard", "Base", "4", ""),
		Signature("Charizard", "Base", "4", "PSA 9"),
	)
	require.NotEqual(t,
		Signature("Charizard", "Base", "4", ""),
		Signature("Charizard", "Base 2", "4", ""),
	)
}

func TestHasName(t *testing.T) {
	t.Parallel()

	require.True(t, Query{Name: "Mew"}.HasName())
	require.False(t, Query{Name: "  "}.HasName())
	require.False(t, Query{}.HasName())
}
