package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	th, err := Lookup("light")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", th.PageBackground)

	th, err = Lookup("")
	require.NoError(t, err)
	assert.Equal(t, Dark, th)

	_, err = Lookup("solarized")
	assert.Error(t, err)
}

func TestBodySize(t *testing.T) {
	assert.Equal(t, 10, Dark.BodySize(false))
	assert.Equal(t, 11, Dark.BodySize(true))
}
