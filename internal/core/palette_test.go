package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPaletteRejectsWrongSize(t *testing.T) {
	_, err := LoadPalette(make([]byte, 10))
	require.True(t, errors.Is(err, ErrPaletteIoError))
}

func TestLoadPaletteParsesEntries(t *testing.T) {
	data := make([]byte, paletteFileSize)
	data[0], data[1], data[2] = 0x10, 0x20, 0x30 // entry 0
	data[3*255], data[3*255+1], data[3*255+2] = 0xFF, 0xEE, 0xDD // entry 255

	p, err := LoadPalette(data)
	require.NoError(t, err)
	require.Equal(t, RGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}, p[0])
	require.Equal(t, RGBA{R: 0xFF, G: 0xEE, B: 0xDD, A: 255}, p[255])
}

func TestDefaultPaletteIsOpaqueBlack(t *testing.T) {
	p := DefaultPalette()
	for i, c := range p {
		require.Zero(t, c.R, "entry %d", i)
		require.Zero(t, c.G, "entry %d", i)
		require.Zero(t, c.B, "entry %d", i)
		require.Equal(t, byte(255), c.A, "entry %d", i)
	}
}
