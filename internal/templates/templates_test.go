package templates

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	tbl := Default()

	r, ok := tbl.Lookup(1280, 1080)
	require.True(t, ok)
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 1280, 720)}, r)

	r, ok = tbl.Lookup(2560, 720)
	require.True(t, ok)
	assert.Len(t, r, 2)
	assert.Equal(t, image.Rect(1280, 0, 2560, 720), r[1])

	_, ok = tbl.Lookup(800, 600)
	assert.False(t, ok)
}

func TestAddRejectsOutOfBounds(t *testing.T) {
	tbl := Default()
	err := tbl.Add(Template{Width: 100, Height: 100, Regions: [][4]int{{0, 0, 120, 50}}})
	assert.Error(t, err)

	require.NoError(t, tbl.Add(Template{Width: 100, Height: 100, Regions: [][4]int{{0, 0, 50, 50}}}))
	_, ok := tbl.Lookup(100, 100)
	assert.True(t, ok)
	assert.Equal(t, Size{3200, 1080}, tbl.Sizes()[0])
}
