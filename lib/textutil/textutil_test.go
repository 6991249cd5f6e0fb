package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTag(t *testing.T) {
	require.Equal(t, "hurt/comfort", NormalizeTag("Hurt / Comfort"))
	require.Equal(t, "tooth-rottingfluff", NormalizeTag("  Tooth-Rotting Fluff  "))
}

func TestMatchTag(t *testing.T) {
	require.True(t, MatchTag("Tooth-Rotting Fluff", []string{"fluff"}))
	require.True(t, MatchTag("ANGST with a Happy Ending", []string{"angst"}))
	require.False(t, MatchTag("Coffee Shops", []string{"fluff", "angst"}))
}

func TestMatchAnyTag(t *testing.T) {
	tags := []string{"Coffee Shops", "Domestic Fluff"}
	require.True(t, MatchAnyTag(tags, []string{"fluff"}))
	require.False(t, MatchAnyTag(tags, []string{"whump"}))
}
