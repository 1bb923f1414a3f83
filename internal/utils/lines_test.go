package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTitleLines(t *testing.T) {
	titles, err := ParseTitleLines("Inception\n\n  The Matrix  \r\n#Alive\nDune\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"Inception", "The Matrix", "#Alive", "Dune"}, titles)

	titles, err = ParseTitleLines("   \n")
	require.NoError(t, err)
	assert.Empty(t, titles)
}
