package components

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/reel/internal/domain"
)

func listItems(n int) []domain.Media {
	items := make([]domain.Media, n)
	for i := range items {
		items[i] = domain.Media{ID: i + 1, Name: "Item", Type: domain.MediaTypeMovie}
	}
	return items
}

func TestWantsMoreNearEnd(t *testing.T) {
	l := NewMediaList()
	l.SetSize(80, 20)
	l.SetPage(listItems(30), "c1", true)

	assert.False(t, l.WantsMore(), "cursor at the top is nowhere near the end")

	for i := 0; i < 25; i++ {
		l.CursorDown()
	}
	assert.True(t, l.WantsMore())
}

func TestWantsMoreStopsOnLastPage(t *testing.T) {
	l := NewMediaList()
	l.SetSize(80, 20)
	l.SetPage(listItems(5), "", false)

	l.End()
	assert.False(t, l.WantsMore())
}

func TestAppendPageExtendsList(t *testing.T) {
	l := NewMediaList()
	l.SetSize(80, 20)
	l.SetPage(listItems(3), "c1", true)
	l.End()

	l.AppendPage(listItems(2), "c2", false)
	assert.Len(t, l.Items(), 5)
	assert.Equal(t, "c2", l.EndCursor())

	// The cursor stays where it was
	selected, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, 3, selected.ID)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", formatClock(0))
	assert.Equal(t, "1:05", formatClock(65))
	assert.Equal(t, "1:00:01", formatClock(3601))
	assert.Equal(t, "0:00", formatClock(-5))
}

func TestMosaicDecodesPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out := Mosaic(buf.Bytes(), 4, 3)
	assert.NotEmpty(t, out)
}

func TestMosaicRejectsGarbage(t *testing.T) {
	assert.Empty(t, Mosaic([]byte("not an image"), 4, 3))
}
